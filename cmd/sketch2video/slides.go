package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/sketch2video/internal/scene"
)

var slidesCmd = &cobra.Command{
	Use:   "slides [config]",
	Short: "Render a layered slide configuration",
	Long: `Renders a JSON or YAML slide configuration: layers are placed, revealed
or shown statically, animated and cross-faded into one video.

With no argument the newest config in input/scenes is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSlides,
}

func init() {
	rootCmd.AddCommand(slidesCmd)
}

func runSlides(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	} else {
		latest, err := scene.FindLatest(scene.DefaultDir)
		if err != nil {
			return err
		}
		fmt.Printf("[*] Выбрана конфигурация: %s\n", latest)
		path = latest
	}
	return resultErr(newProject().Slides(cmd.Context(), path))
}
