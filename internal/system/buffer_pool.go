package system

import (
	"image"
	"sync"
	"sync/atomic"
)

// ImagePool переиспользует кадры *image.RGBA одного размера, чтобы движок
// рисования не выделял новый буфер на каждый тайл.
type ImagePool struct {
	pools map[image.Point]*sync.Pool
	mu    sync.RWMutex

	gets   atomic.Int64
	allocs atomic.Int64
}

var globalPool = NewImagePool()

func NewImagePool() *ImagePool {
	return &ImagePool{pools: make(map[image.Point]*sync.Pool)}
}

// GetImage returns a zero-origin frame of rect's size from the shared pool.
// Its contents are unspecified.
func GetImage(rect image.Rectangle) *image.RGBA {
	return globalPool.Get(rect)
}

// PutImage hands a frame back to the shared pool.
func PutImage(img *image.RGBA) {
	globalPool.Put(img)
}

// PoolStats reports how many frames were requested from the shared pool and
// how many of those had to be allocated.
func PoolStats() (gets, allocs int64) {
	return globalPool.gets.Load(), globalPool.allocs.Load()
}

func (p *ImagePool) pool(size image.Point) *sync.Pool {
	p.mu.RLock()
	pool, ok := p.pools[size]
	p.mu.RUnlock()
	if ok {
		return pool
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if pool, ok = p.pools[size]; ok {
		return pool
	}
	pool = &sync.Pool{
		New: func() any {
			p.allocs.Add(1)
			return image.NewRGBA(image.Rectangle{Max: size})
		},
	}
	p.pools[size] = pool
	return pool
}

func (p *ImagePool) Get(rect image.Rectangle) *image.RGBA {
	p.gets.Add(1)
	return p.pool(rect.Size()).Get().(*image.RGBA)
}

// Put ignores frames that are not zero-origin and tightly packed so Get
// never hands out a sub-image.
func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil || img.Rect.Min != (image.Point{}) || img.Stride != img.Rect.Dx()*4 {
		return
	}
	p.pool(img.Rect.Size()).Put(img)
}
