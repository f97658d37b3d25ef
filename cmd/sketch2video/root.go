package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ivlev/sketch2video/internal/config"
	"github.com/ivlev/sketch2video/internal/engine"
	"github.com/ivlev/sketch2video/internal/scene"
	"github.com/ivlev/sketch2video/internal/system"
	"github.com/ivlev/sketch2video/internal/video"
)

var (
	version = "dev"
	cfg     = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "sketch2video [image|config]",
	Short: "Whiteboard animation videos from images and slide configs",
	Long: `sketch2video draws an image tile by tile under a moving hand, or renders
a layered slide configuration (JSON or YAML) with entrance animations,
camera zooms and cross-fades.

Given a single path it dispatches by extension: .json/.yaml/.yml run the
slides mode, anything else the draw mode.`,
	Version:       version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !system.HasFFmpeg() {
			fmt.Println("[!] ffmpeg не найден в PATH: запись видео завершится ошибкой")
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		if scene.IsConfigPath(args[0]) {
			return runSlides(cmd, args)
		}
		return runDraw(cmd, args)
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[-] %v\n", err)
	}
	return err
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfg.OutputDir, "output-dir", "o", config.DefaultOutputDir, "Папка для готовых видео")
	pf.IntVar(&cfg.FPS, "fps", config.DefaultFPS, "Кадров в секунду")
	pf.StringVar(&cfg.Platform, "platform", "linux", "Платформа: linux (mpeg4) или android (mjpeg)")
	pf.StringVar(&cfg.HandPath, "hand", config.DefaultHandPath, "Спрайт руки")
	pf.StringVar(&cfg.HandMaskPath, "hand-mask", config.DefaultHandMaskPath, "Маска руки (255 = рука)")
	pf.StringVar(&cfg.EraserPath, "eraser", config.DefaultEraserPath, "Спрайт ластика (альфа-канал = маска)")
	pf.StringVar(&cfg.VideoEncoder, "encoder", "", "H.264 энкодер (по умолчанию: лучший доступный)")
	pf.IntVar(&cfg.Quality, "quality", 0, "Качество видео (0 - авто, x264: CRF 1-51, VideoToolbox: битрейт = Q*100кбит/с)")
	pf.BoolVar(&cfg.NoTranscode, "no-transcode", false, "Не перекодировать в H.264")
	pf.BoolVar(&cfg.ShowStats, "stats", false, "Показать отчет о производительности")
	pf.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Подробный вывод")

	addDrawFlags(rootCmd)

	cfg.BuildVersion = version
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"sketch2video %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

func newProject() *engine.Project {
	return engine.NewProject(cfg, &video.FFmpegEncoder{})
}

// resultErr turns a failed run into the command's error.
func resultErr(res engine.Result) error {
	if res.Status {
		return nil
	}
	return fmt.Errorf("%s", res.Message)
}
