package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoSlides is returned for a configuration without slides.
var ErrNoSlides = errors.New("configuration has no slides")

// IsConfigPath reports whether path names a layered configuration file.
func IsConfigPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Load reads a configuration, choosing YAML or JSON by extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, isYAML(path))
}

// Parse decodes a configuration document.
func Parse(data []byte, asYAML bool) (*Config, error) {
	var cfg Config
	if asYAML {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	}
	return &cfg, nil
}

// Validate rejects configurations that cannot produce a video.
func (c *Config) Validate() error {
	if len(c.Slides) == 0 {
		return ErrNoSlides
	}
	switch c.Background {
	case "", BackgroundWhite, BackgroundBlack:
	default:
		return fmt.Errorf("unknown background %q", c.Background)
	}
	for i, s := range c.Slides {
		if s.Seconds() < 0 {
			return fmt.Errorf("slide %d: negative duration %.2f", i, s.Seconds())
		}
		for j, l := range s.Layers {
			switch l.DrawMode() {
			case ModeStatic, ModeDraw, ModeEraser:
			default:
				return fmt.Errorf("slide %d layer %d: unknown mode %q", i, j, l.Mode)
			}
		}
	}
	return nil
}

// Save writes a configuration, choosing YAML or JSON by extension.
func Save(cfg *Config, path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0644)
}
