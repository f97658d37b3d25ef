package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// Params describes the raw stream a run writes.
type Params struct {
	Width  int
	Height int
	FPS    int
	// Codec is the raw intermediate codec, "mpeg4" or "mjpeg".
	Codec string
}

// Stream is an open, append-only output video. Close must be called exactly
// once on every path; further calls return the first result.
type Stream interface {
	WriteFrame(frame *image.RGBA) error
	Close() error
	Frames() int
}

type VideoEncoder interface {
	Open(ctx context.Context, path string, p Params) (Stream, error)
	Transcode(ctx context.Context, src, dst, encoderName string, quality int) error
}

// FFmpegEncoder pipes raw RGBA frames into an ffmpeg subprocess.
type FFmpegEncoder struct {
	// Binary defaults to "ffmpeg" on PATH.
	Binary string
}

func (e *FFmpegEncoder) binary() string {
	if e.Binary == "" {
		return "ffmpeg"
	}
	return e.Binary
}

func (e *FFmpegEncoder) Open(ctx context.Context, path string, p Params) (Stream, error) {
	if p.Width <= 0 || p.Height <= 0 || p.FPS <= 0 {
		return nil, fmt.Errorf("invalid stream %dx%d at %d fps", p.Width, p.Height, p.FPS)
	}

	cmd := exec.CommandContext(ctx, e.binary(), e.buildRawArgs(path, p)...)
	s := &ffmpegStream{cmd: cmd, width: p.Width, height: p.Height}
	cmd.Stderr = &s.stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}
	s.stdin = stdin
	return s, nil
}

func (e *FFmpegEncoder) buildRawArgs(path string, p Params) []string {
	args := []string{
		"-y",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", p.Width, p.Height),
		"-framerate", fmt.Sprintf("%d", p.FPS),
		"-i", "-",
	}

	switch p.Codec {
	case "mjpeg":
		args = append(args, "-c:v", "mjpeg", "-pix_fmt", "yuvj420p", "-q:v", "3")
	default: // mpeg4
		args = append(args, "-c:v", "mpeg4", "-pix_fmt", "yuv420p", "-q:v", "2")
	}

	return append(args, path)
}

// Transcode re-encodes src into H.264 at dst.
func (e *FFmpegEncoder) Transcode(ctx context.Context, src, dst, encoderName string, quality int) error {
	args := []string{"-y", "-loglevel", "error", "-i", src, "-c:v", encoderName, "-pix_fmt", "yuv420p"}
	args = append(args, qualityArgs(encoderName, quality)...)
	args = append(args, "-movflags", "+faststart", dst)

	cmd := exec.CommandContext(ctx, e.binary(), args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg transcode error: %v, output: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// DefaultQuality is the quality knob used when none is configured.
func DefaultQuality(encoderName string) int {
	switch encoderName {
	case "h264_videotoolbox":
		return 75 // Хорошее качество для VideoToolbox
	case "h264_nvenc":
		return 28 // Эквивалент CRF для NVENC
	default:
		return 23 // Стандартный CRF для x264
	}
}

// qualityArgs maps a 0-100ish quality knob onto encoder-specific flags.
func qualityArgs(encoderName string, quality int) []string {
	switch encoderName {
	case "h264_videotoolbox":
		// VideoToolbox ignores -crf; use a bitrate instead.
		bitrate := quality * 100 // kbit/s. 75 -> 7.5 Mbit/s
		return []string{"-b:v", fmt.Sprintf("%dk", bitrate)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default: // libx264
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}

type ffmpegStream struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
	width  int
	height int
	frames int

	once     sync.Once
	closeErr error
}

func (s *ffmpegStream) WriteFrame(frame *image.RGBA) error {
	if b := frame.Bounds(); b.Dx() != s.width || b.Dy() != s.height {
		return fmt.Errorf("frame %dx%d does not match stream %dx%d", b.Dx(), b.Dy(), s.width, s.height)
	}
	if err := writeRawRGBA(s.stdin, frame); err != nil {
		return fmt.Errorf("write raw error: %w", err)
	}
	s.frames++
	return nil
}

func (s *ffmpegStream) Frames() int { return s.frames }

func (s *ffmpegStream) Close() error {
	s.once.Do(func() {
		s.stdin.Close()
		if err := s.cmd.Wait(); err != nil {
			s.closeErr = fmt.Errorf("ffmpeg wait error: %w: %s", err, strings.TrimSpace(s.stderr.String()))
		}
	})
	return s.closeErr
}

func writeRawRGBA(w io.Writer, img *image.RGBA) error {
	bounds := img.Bounds()
	if img.Stride != bounds.Dx()*4 || bounds.Min != (image.Point{}) {
		packed := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(packed, packed.Bounds(), img, bounds.Min, draw.Src)
		img = packed
	}
	_, err := w.Write(img.Pix)
	return err
}
