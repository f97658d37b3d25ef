package main

import (
	"github.com/spf13/cobra"
)

var (
	sceneOut      string
	sceneDuration float64
)

var sceneCmd = &cobra.Command{
	Use:   "scene [image]",
	Short: "Generate a starter slide config that zooms into detected regions",
	Long: `Detects text and figure regions in the image and writes a slide
configuration: the first slide draws the image, each following slide zooms
into one region in reading order.

The format follows the --out extension (JSON or YAML); by default a
timestamped YAML file is written to input/scenes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := resolveImage(args)
		if err != nil {
			return err
		}
		return resultErr(newProject().GenerateScene(input, sceneOut, sceneDuration))
	},
}

func init() {
	sceneCmd.Flags().StringVar(&sceneOut, "out", "", "Путь к файлу сцены (.json, .yaml)")
	sceneCmd.Flags().Float64Var(&sceneDuration, "duration", 10, "Общая длительность обхода областей (сек)")
	sceneCmd.Flags().IntVar(&cfg.Page, "page", 1, "Страница PDF (с 1)")
	rootCmd.AddCommand(sceneCmd)
}
