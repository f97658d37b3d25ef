package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var splitLensCmd = &cobra.Command{
	Use:   "split-lens <image>",
	Short: "Print the snapped resolution and tile sizes that divide it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lens, err := newProject().SplitLens(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("[*] Разрешение: %s\n", lens.Resolution())
		fmt.Printf("[*] Допустимые размеры тайла: %v\n", lens.Divisors)
		return nil
	},
}

func init() {
	splitLensCmd.Flags().IntVar(&cfg.Page, "page", 1, "Страница PDF (с 1)")
	rootCmd.AddCommand(splitLensCmd)
}
