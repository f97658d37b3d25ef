package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/ivlev/sketch2video/internal/config"
	"github.com/ivlev/sketch2video/internal/hand"
	"github.com/ivlev/sketch2video/internal/scene"
	"github.com/ivlev/sketch2video/internal/timeline"
	"github.com/ivlev/sketch2video/internal/video"
)

// Slides renders a layered configuration file into a video.
func (p *Project) Slides(ctx context.Context, configPath string) Result {
	res, err := p.slides(ctx, configPath)
	if err != nil {
		fmt.Printf("[-] Ошибка: %v\n", err)
		return failed(err)
	}
	return res
}

func (p *Project) slides(ctx context.Context, configPath string) (Result, error) {
	cfg := p.Config
	startTime := time.Now()

	sc, err := scene.Load(configPath)
	if err != nil {
		return Result{}, runErr(KindConfigParse, fmt.Errorf("ошибка чтения конфигурации: %w", err))
	}
	if err := sc.Validate(); err != nil {
		return Result{}, runErr(KindConfigParse, err)
	}

	h, err := hand.Load(cfg.HandPath, cfg.HandMaskPath)
	if err != nil {
		return Result{}, runErr(KindAssetLoad, err)
	}
	tools := hand.NewTools(h, cfg.EraserPath)

	width, height := sc.Size()
	fmt.Printf("[*] Используется конфигурация: %s\n", configPath)
	fmt.Printf("[*] Разрешение: %dx%d @ %d FPS | Слайдов: %d | Переходов: %d\n",
		width, height, cfg.FPS, len(sc.Slides), len(sc.Transitions))

	rawPath, err := p.outputPath("vid_layers_" + p.Now().Format("20060102_150405") + ".mp4")
	if err != nil {
		return Result{}, runErr(KindEncode, err)
	}
	stream, err := p.Encoder.Open(ctx, rawPath, video.Params{
		Width:  width,
		Height: height,
		FPS:    cfg.FPS,
		Codec:  config.Codec(cfg.Platform),
	})
	if err != nil {
		return Result{}, runErr(KindEncode, err)
	}

	tl := timeline.New(width, height, cfg.FPS, tools)
	if cfg.Verbose {
		tl.Logf = progressf
	}

	renderStart := time.Now()
	stats, renderErr := tl.Render(sc, stream)
	renderTime := time.Since(renderStart)
	if err := stream.Close(); err != nil && renderErr == nil {
		renderErr = err
	}
	if renderErr != nil {
		return Result{}, runErr(KindEncode, renderErr)
	}
	fmt.Printf("[*] Слайдов: %d | Кадров: %d | Переходов: %d | Пропущено слоёв: %d\n",
		stats.Slides, stats.Frames, stats.Transitions, stats.SkippedLayers)

	res := Result{Status: true}
	p.deliver(ctx, rawPath, &res)
	p.report(runReport{
		Mode:    "slides",
		Input:   configPath,
		Width:   width,
		Height:  height,
		Frames:  stats.Frames,
		Total:   time.Since(startTime),
		Drawing: renderTime,
		Output:  res.Message,
	})
	fmt.Printf("[+++] Успех! Видео сохранено: %s\n", res.Message)
	return res, nil
}
