package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DefaultDir is where generated scenes are written.
var DefaultDir = filepath.Join("input", "scenes")

// GeneratePath creates a timestamped scene filename with the given extension.
func GeneratePath(dir, ext string, now time.Time) string {
	if ext == "" {
		ext = ".json"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return filepath.Join(dir, fmt.Sprintf("scene_%s%s", now.Format("2006-01-02_15-04-05"), ext))
}

// FindLatest returns the most recently modified configuration in dir.
func FindLatest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read scenes directory: %w", err)
	}

	type candidate struct {
		path string
		mod  time.Time
	}
	var scenes []candidate
	for _, entry := range entries {
		if entry.IsDir() || !IsConfigPath(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		scenes = append(scenes, candidate{filepath.Join(dir, entry.Name()), info.ModTime()})
	}

	if len(scenes) == 0 {
		return "", fmt.Errorf("no scene files found in %s", dir)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].mod.After(scenes[j].mod)
	})
	return scenes[0].path, nil
}
