package engine

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ivlev/sketch2video/internal/analyzer"
	"github.com/ivlev/sketch2video/internal/config"
	"github.com/ivlev/sketch2video/internal/drawing"
	"github.com/ivlev/sketch2video/internal/hand"
	"github.com/ivlev/sketch2video/internal/source"
	"github.com/ivlev/sketch2video/internal/system"
	"github.com/ivlev/sketch2video/internal/video"
)

// Project runs the top-level operations for one resolved Config.
type Project struct {
	Config  *config.Config
	Encoder video.VideoEncoder
	// Now stamps output file names.
	Now func() time.Time
	// FindEncoder picks the H.264 encoder when Config.VideoEncoder is empty.
	FindEncoder func() string
}

func NewProject(cfg *config.Config, ve video.VideoEncoder) *Project {
	return &Project{
		Config:      cfg,
		Encoder:     ve,
		Now:         time.Now,
		FindEncoder: system.GetBestH264Encoder,
	}
}

// Draw animates Config.InputPath being drawn by hand and returns the path of
// the finished video.
func (p *Project) Draw(ctx context.Context) Result {
	res, err := p.draw(ctx)
	if err != nil {
		fmt.Printf("[-] Ошибка: %v\n", err)
		return failed(err)
	}
	return res
}

func (p *Project) draw(ctx context.Context) (Result, error) {
	cfg := p.Config
	startTime := time.Now()

	img, hash, err := p.renderSource(cfg.InputPath)
	if err != nil {
		return Result{}, err
	}

	b := img.Bounds()
	width, height := config.SnapResolution(b.Dx(), b.Dy())
	cv, err := cfg.Canvas(width, height)
	if err != nil {
		return Result{}, runErr(KindConfigParse, err)
	}

	prepared, err := analyzer.Preprocess(img, width, height)
	if err != nil {
		return Result{}, runErr(KindSourceImage, err)
	}

	h, err := hand.Load(cfg.HandPath, cfg.HandMaskPath)
	if err != nil {
		return Result{}, runErr(KindAssetLoad, err)
	}

	fmt.Printf("[*] Источник: %s | Хэш: %s\n", cfg.InputPath, hash)
	fmt.Printf("[*] Разрешение: %dx%d @ %d FPS | Тайл: %d | Пропуск: %d/%d | Удержание: %ds\n",
		width, height, cv.FPS, cv.SplitLen, cv.SkipRate, cv.BgSkipRate, cv.HoldSeconds)

	stamp := p.Now().Format("20060102_150405")
	rawPath, err := p.outputPath("vid_" + stamp + ".mp4")
	if err != nil {
		return Result{}, runErr(KindEncode, err)
	}

	stream, err := p.Encoder.Open(ctx, rawPath, video.Params{
		Width:  width,
		Height: height,
		FPS:    cv.FPS,
		Codec:  config.Codec(cfg.Platform),
	})
	if err != nil {
		return Result{}, runErr(KindEncode, err)
	}

	eng := drawing.NewEngine(cv, h, stream)
	eng.Logf = progressf
	st := drawing.NewState(width, height)

	drawStart := time.Now()
	drawErr := p.drawPasses(eng, st, prepared)
	if drawErr == nil {
		drawErr = writeHold(stream, prepared.Color, cv.HoldFrames())
	}
	drawTime := time.Since(drawStart)
	frames := stream.Frames()
	if err := stream.Close(); err != nil && drawErr == nil {
		drawErr = err
	}
	if drawErr != nil {
		return Result{}, runErr(KindEncode, drawErr)
	}
	fmt.Printf("[*] Рисование завершено за %.2fs | Кадров: %d | Тайлов: %d\n",
		drawTime.Seconds(), frames, st.TilesPainted)

	res := Result{Status: true}
	if cv.ExportJSON {
		jsonPath := filepath.Join(cfg.OutputDir, "animation_"+stamp+".json")
		if err := drawing.WriteJSON(eng.NewExport(st, hash), jsonPath); err != nil {
			log.Printf("[!] Не удалось сохранить анимацию JSON: %v", err)
		} else {
			res.JSONPath = jsonPath
			fmt.Printf("[*] Анимация JSON: %s\n", jsonPath)
		}
	}

	p.deliver(ctx, rawPath, &res)
	p.report(runReport{
		Mode:    "draw",
		Input:   cfg.InputPath,
		Width:   width,
		Height:  height,
		Frames:  frames,
		Tiles:   st.TilesPainted,
		Total:   time.Since(startTime),
		Drawing: drawTime,
		Output:  res.Message,
	})
	fmt.Printf("[+++] Успех! Видео сохранено: %s\n", res.Message)
	return res, nil
}

// drawPasses runs a single traversal, or an object pass followed by a
// background pass when object detection is on and finds something.
func (p *Project) drawPasses(eng *drawing.Engine, st *drawing.State, src *analyzer.Prepared) error {
	if p.Config.DetectObjects {
		mask := p.objectMask(src)
		if mask != nil {
			if _, err := eng.Draw(st, src, mask, eng.Canvas.SkipRate); err != nil {
				return err
			}
			_, err := eng.Draw(st, src, analyzer.InvertMask(mask), eng.Canvas.BgSkipRate)
			return err
		}
	}
	_, err := eng.Draw(st, src, nil, eng.Canvas.SkipRate)
	return err
}

func (p *Project) objectMask(src *analyzer.Prepared) *image.Gray {
	det, err := analyzer.NewDetector("contrast")
	if err != nil {
		log.Printf("[!] Детектор недоступен: %v", err)
		return nil
	}
	blocks, err := det.Detect(src.Color)
	if err != nil {
		log.Printf("[!] Ошибка поиска объектов: %v", err)
		return nil
	}
	if len(blocks) == 0 {
		fmt.Println("[!] Объекты не найдены, рисуем за один проход")
		return nil
	}
	mask := analyzer.ObjectMask(blocks, src.Width(), src.Height())
	fmt.Printf("[*] Объектов: %d | Покрытие маски: %.1f%%\n", len(blocks), analyzer.MaskCoverage(mask)*100)
	return mask
}

func writeHold(stream video.Stream, frame *image.RGBA, n int) error {
	for i := 0; i < n; i++ {
		if err := stream.WriteFrame(frame); err != nil {
			return fmt.Errorf("hold frame %d: %w", i, err)
		}
	}
	return nil
}

// renderSource decodes the configured page of path.
func (p *Project) renderSource(path string) (image.Image, string, error) {
	src, err := source.Open(path)
	if err != nil {
		return nil, "", runErr(KindSourceImage, err)
	}
	defer src.Close()

	if src.PageCount() == 0 {
		return nil, "", runErr(KindSourceImage, fmt.Errorf("источник %s не содержит страниц", path))
	}
	img, err := src.RenderPage(max(p.Config.Page-1, 0), p.Config.DPI)
	if err != nil {
		return nil, "", runErr(KindSourceImage, err)
	}
	return img, src.Hash(), nil
}

func (p *Project) outputPath(name string) (string, error) {
	if err := os.MkdirAll(p.Config.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("output dir: %w", err)
	}
	return filepath.Join(p.Config.OutputDir, name), nil
}

// deliver transcodes the raw file to H.264 unless disabled. On success the
// raw file is removed; on failure it is kept and becomes the result.
func (p *Project) deliver(ctx context.Context, rawPath string, res *Result) {
	res.Message = rawPath
	if p.Config.NoTranscode {
		return
	}

	encoderName := p.Config.VideoEncoder
	if encoderName == "" {
		encoderName = p.FindEncoder()
	}
	if encoderName != "libx264" {
		fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", encoderName)
	}
	quality := p.Config.Quality
	if quality <= 0 {
		quality = video.DefaultQuality(encoderName)
	}

	dst := strings.TrimSuffix(rawPath, filepath.Ext(rawPath)) + "_h264.mp4"
	fmt.Printf("[*] Перекодирование в H.264 (%s, качество %d)...\n", encoderName, quality)
	if err := p.Encoder.Transcode(ctx, rawPath, dst, encoderName, quality); err != nil {
		log.Printf("[!] Перекодирование не удалось, оставлен исходный файл: %v", err)
		res.Kind = KindTranscode
		res.Err = runErr(KindTranscode, err)
		return
	}
	if err := os.Remove(rawPath); err != nil && !os.IsNotExist(err) {
		log.Printf("[!] Не удалось удалить %s: %v", rawPath, err)
	}
	res.Message = dst
}

func progressf(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
}
