package system

import (
	"image"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFindLatestFile(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	files := []string{"old.png", "new.JPG", "newest.txt", "mid.webp"}
	for i, f := range files {
		p := filepath.Join(dir, f)
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		mod := now.Add(time.Duration(i) * time.Minute)
		if f == "mid.webp" {
			mod = now.Add(30 * time.Second)
		}
		os.Chtimes(p, mod, mod)
	}

	got, err := FindLatestFile(dir, ImageExtensions)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(got) != "new.JPG" {
		t.Errorf("latest = %s, want new.JPG", got)
	}

	if _, err := FindLatestFile(dir, []string{".pdf"}); err == nil {
		t.Error("expected error when nothing matches")
	}

	// A file path searches its directory.
	got, err = FindLatestImage(filepath.Join(dir, "old.png"))
	if err != nil || filepath.Base(got) != "new.JPG" {
		t.Errorf("FindLatestImage = %s, %v", got, err)
	}
}

func TestPickEncoder(t *testing.T) {
	tests := []struct {
		listing string
		want    string
	}{
		{" V....D h264_nvenc  NVIDIA NVENC H.264 encoder\n V....D libx264", "h264_nvenc"},
		{" V....D h264_videotoolbox VideoToolbox\n V....D h264_nvenc", "h264_videotoolbox"},
		{" V....D libx264 libx264 H.264", "libx264"},
		{"", "libx264"},
	}
	for _, tt := range tests {
		if got := pickEncoder(tt.listing); got != tt.want {
			t.Errorf("pickEncoder(%q) = %s, want %s", strings.SplitN(tt.listing, "\n", 2)[0], got, tt.want)
		}
	}
}

func TestImagePoolReuse(t *testing.T) {
	p := NewImagePool()
	rect := image.Rect(0, 0, 6, 4)

	a := p.Get(rect)
	if a.Rect != rect || len(a.Pix) != 6*4*4 {
		t.Fatalf("bad frame %v", a.Rect)
	}
	p.Put(a)

	b := p.Get(image.Rect(0, 0, 6, 4))
	if b.Rect.Size() != rect.Size() {
		t.Errorf("size changed: %v", b.Rect)
	}
	if p.gets.Load() != 2 || p.allocs.Load() < 1 {
		t.Errorf("gets=%d allocs=%d", p.gets.Load(), p.allocs.Load())
	}

	// Sub-images are not accepted back.
	sub := b.SubImage(image.Rect(1, 1, 3, 3)).(*image.RGBA)
	p.Put(sub)
	if c := p.Get(image.Rect(0, 0, 2, 2)); c.Rect.Min != (image.Point{}) {
		t.Errorf("pool returned a sub-image %v", c.Rect)
	}
}

func TestReadMemoryStats(t *testing.T) {
	st, err := ReadMemoryStats()
	if err != nil {
		t.Skipf("process stats unavailable: %v", err)
	}
	t.Logf("rss=%d host=%d avail=%d", st.RSS, st.HostTotal, st.HostAvailable)
	if st.RSS == 0 {
		t.Log("RSS not reported on this platform")
	}
}

func TestHasFFmpeg(t *testing.T) {
	_, err := exec.LookPath("ffmpeg")
	if got := HasFFmpeg(); got != (err == nil) {
		t.Errorf("HasFFmpeg = %v, LookPath err = %v", got, err)
	}
}
