package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ivlev/sketch2video/internal/system"
)

type runReport struct {
	Mode    string
	Input   string
	Width   int
	Height  int
	Frames  int
	Tiles   int
	Total   time.Duration
	Drawing time.Duration
	Output  string
}

func (r runReport) effectiveFPS() float64 {
	if r.Total <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Total.Seconds()
}

// format renders the performance block. size is the output file size.
func (r runReport) format(build string, size int64, mem system.MemoryStats) string {
	return fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Mode: %s (%dx%d)\n"+
			"Total Time: %.2fs\n"+
			"Drawing: %.2fs\n"+
			"Frames: %s | Tiles: %s\n"+
			"Effective FPS: %.2f\n"+
			"RSS: %s | Host free: %s of %s\n"+
			"Frame pool: %d gets / %d allocs\n"+
			"Output: %s (%s)\n"+
			"----------------------------\n",
		build, r.Mode, r.Width, r.Height,
		r.Total.Seconds(), r.Drawing.Seconds(),
		humanize.Comma(int64(r.Frames)), humanize.Comma(int64(r.Tiles)),
		r.effectiveFPS(),
		humanize.Bytes(mem.RSS), humanize.Bytes(mem.HostAvailable), humanize.Bytes(mem.HostTotal),
		mem.PooledBuffers, mem.PoolAllocation,
		r.Output, humanize.Bytes(uint64(max(size, 0))),
	)
}

// report prints the performance block and appends a one-line summary to
// benchmark.log in the output directory. It only runs with ShowStats.
func (p *Project) report(r runReport) {
	if !p.Config.ShowStats {
		return
	}

	var size int64
	if fi, err := os.Stat(r.Output); err == nil {
		size = fi.Size()
	}
	mem, err := system.ReadMemoryStats()
	if err != nil {
		fmt.Printf("[!] Статистика памяти недоступна: %v\n", err)
	}
	fmt.Print(r.format(p.Config.BuildVersion, size, mem))

	logEntry := fmt.Sprintf("[%s] Build: %s | Mode: %s | Input: %s | Frames: %d | Total: %.2fs | Drawing: %.2fs | FPS: %.2f | RSS: %s\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		r.Mode,
		filepath.Base(r.Input),
		r.Frames,
		r.Total.Seconds(),
		r.Drawing.Seconds(),
		r.effectiveFPS(),
		humanize.Bytes(mem.RSS),
	)

	f, err := os.OpenFile(filepath.Join(p.Config.OutputDir, "benchmark.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		fmt.Printf("[!] Не удалось записать benchmark.log: %v\n", err)
	}
}
