package engine

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ivlev/sketch2video/internal/analyzer"
	"github.com/ivlev/sketch2video/internal/config"
	"github.com/ivlev/sketch2video/internal/scene"
)

// Lens is a snapped canvas size and the tile sizes that divide it evenly.
type Lens struct {
	Width    int
	Height   int
	Divisors []int
}

func (l Lens) Resolution() string {
	return fmt.Sprintf("%dx%d", l.Width, l.Height)
}

// SplitLens reports the canvas an image would be drawn on and the split
// lengths that tile it without remainder.
func (p *Project) SplitLens(path string) (Lens, error) {
	img, _, err := p.renderSource(path)
	if err != nil {
		return Lens{}, err
	}
	b := img.Bounds()
	w, h := config.SnapResolution(b.Dx(), b.Dy())
	return Lens{Width: w, Height: h, Divisors: config.CommonDivisors(w, h)}, nil
}

// GenerateScene detects regions in imagePath and writes a layered
// configuration that draws the image, then zooms into each region. An empty
// outPath picks a timestamped file in scene.DefaultDir.
func (p *Project) GenerateScene(imagePath, outPath string, totalDuration float64) Result {
	path, err := p.generateScene(imagePath, outPath, totalDuration)
	if err != nil {
		fmt.Printf("[-] Ошибка: %v\n", err)
		return failed(err)
	}
	return Result{Status: true, Message: path}
}

func (p *Project) generateScene(imagePath, outPath string, totalDuration float64) (string, error) {
	fmt.Println("[*] Режим генерации сцены...")

	img, _, err := p.renderSource(imagePath)
	if err != nil {
		return "", err
	}
	b := img.Bounds()
	width, height := config.SnapResolution(b.Dx(), b.Dy())
	prepared, err := analyzer.Preprocess(img, width, height)
	if err != nil {
		return "", runErr(KindSourceImage, err)
	}

	det, err := analyzer.NewDetector("contrast")
	if err != nil {
		return "", err
	}
	blocks, err := det.Detect(prepared.Color)
	if err != nil {
		// Продолжаем с пустым списком блоков
		log.Printf("[!] Ошибка анализа %s: %v", imagePath, err)
	}
	fmt.Printf("[*] Найдено областей: %d\n", len(blocks))

	dir := scene.NewDirector(width, height)
	cfg, err := dir.Generate(blocks, imagePath, totalDuration)
	if err != nil {
		log.Printf("[!] %v: сцена будет содержать только рисование", err)
		cfg = &scene.Config{
			Width:  width,
			Height: height,
			Slides: []scene.Slide{{
				Duration: scene.Float(dir.DrawDuration),
				Layers:   []scene.Layer{{ImagePath: imagePath, Mode: scene.ModeDraw}},
			}},
		}
	}

	if outPath == "" {
		outPath = scene.GeneratePath(scene.DefaultDir, ".yaml", p.Now())
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return "", err
	}
	if err := scene.Save(cfg, outPath); err != nil {
		return "", fmt.Errorf("ошибка сохранения сцены: %w", err)
	}

	fmt.Printf("[+++] Успех! Сцена сохранена: %s\n", outPath)
	return outPath, nil
}
