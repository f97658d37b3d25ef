package system

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// ImageExtensions are the raster formats the source package can decode.
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// FindLatestFile returns the most recently modified file in dir whose
// extension is one of exts.
func FindLatestFile(dir string, exts []string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !slices.Contains(exts, strings.ToLower(filepath.Ext(f.Name()))) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("в папке %s не найдено файлов %s", dir, strings.Join(exts, ", "))
	}

	return latestFile, nil
}

// FindLatestImage picks the newest image (or PDF) in path, or in the
// directory holding path when path is a file.
func FindLatestImage(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	searchDir := path
	if !fi.IsDir() {
		searchDir = filepath.Dir(path)
	}
	return FindLatestFile(searchDir, append(slices.Clone(ImageExtensions), ".pdf"))
}

// GetBestH264Encoder returns the first hardware H.264 encoder ffmpeg offers,
// falling back to libx264.
func GetBestH264Encoder() string {
	// Приоритеты: VideoToolbox (macOS), NVENC (NVIDIA), затем программный libx264.
	out, err := exec.Command("ffmpeg", "-hide_banner", "-encoders").CombinedOutput()
	if err != nil {
		return "libx264"
	}
	return pickEncoder(string(out))
}

func pickEncoder(listing string) string {
	for _, name := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(listing, name) {
			return name
		}
	}
	return "libx264"
}

// HasFFmpeg reports whether an ffmpeg binary is on PATH.
func HasFFmpeg() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// MemoryStats is a snapshot of process and host memory.
type MemoryStats struct {
	RSS            uint64
	HostTotal      uint64
	HostAvailable  uint64
	HostUsedPerc   float64
	PooledBuffers  int64
	PoolAllocation int64
}

// ReadMemoryStats samples the current process RSS and host memory. Fields
// that cannot be read are left zero.
func ReadMemoryStats() (MemoryStats, error) {
	var st MemoryStats

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return st, fmt.Errorf("process info: %w", err)
	}
	if info, err := p.MemoryInfo(); err == nil {
		st.RSS = info.RSS
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		st.HostTotal = vm.Total
		st.HostAvailable = vm.Available
		st.HostUsedPerc = vm.UsedPercent
	}

	st.PooledBuffers, st.PoolAllocation = PoolStats()
	return st, nil
}
