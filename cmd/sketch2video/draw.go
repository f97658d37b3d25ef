package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ivlev/sketch2video/internal/config"
	"github.com/ivlev/sketch2video/internal/system"
)

var defaultImageDir = filepath.Join("input", "images")

var drawCmd = &cobra.Command{
	Use:   "draw [image]",
	Short: "Animate an image being drawn by hand",
	Long: `Splits the image into tiles, paints them nearest-first under the hand
sprite and holds the finished colour image at the end.

With no argument the newest image or PDF in input/images is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDraw,
}

func init() {
	addDrawFlags(drawCmd)
	rootCmd.AddCommand(drawCmd)
}

// addDrawFlags registers the single-image flags; the root command carries
// them too so "sketch2video image.png --split-len 10" works.
func addDrawFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&cfg.SplitLen, "split-len", config.DefaultSplitLen, "Размер тайла в пикселях")
	f.IntVar(&cfg.SkipRate, "skip-rate", config.DefaultSkipRate, "Кадр на каждые N нарисованных тайлов")
	f.IntVar(&cfg.BgSkipRate, "bg-skip-rate", config.DefaultBgSkipRate, "То же для фона (с --detect-objects)")
	f.IntVar(&cfg.HoldSeconds, "duration", config.DefaultHoldSeconds, "Удержание готового кадра (сек)")
	f.BoolVar(&cfg.ExportJSON, "export-json", false, "Сохранить журнал анимации в JSON")
	f.BoolVar(&cfg.DetectObjects, "detect-objects", false, "Сначала рисовать найденные объекты, затем фон")
	f.IntVar(&cfg.Page, "page", 1, "Страница PDF (с 1)")
	f.IntVar(&cfg.DPI, "dpi", config.DefaultDPI, "DPI рендеринга PDF")
}

func runDraw(cmd *cobra.Command, args []string) error {
	input, err := resolveImage(args)
	if err != nil {
		return err
	}
	cfg.InputPath = input
	return resultErr(newProject().Draw(cmd.Context()))
}

func resolveImage(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	os.MkdirAll(defaultImageDir, 0755)
	latest, err := system.FindLatestImage(defaultImageDir)
	if err != nil {
		return "", fmt.Errorf("%v. Положите изображение в %s", err, defaultImageDir)
	}
	fmt.Printf("[*] Выбран файл: %s\n", latest)
	return latest, nil
}
