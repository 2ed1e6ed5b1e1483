package system

import (
	"image"
	"sync"
)

// GrayPool recycles *image.Gray buffers of equal bounds so frame analysis
// does not allocate a new buffer per frame.
type GrayPool struct {
	pools map[image.Rectangle]*sync.Pool
	mu    sync.RWMutex
}

var globalPool = NewGrayPool()

func NewGrayPool() *GrayPool {
	return &GrayPool{pools: make(map[image.Rectangle]*sync.Pool)}
}

// GetGray returns a buffer with the given bounds from the shared pool.
// Its contents are undefined.
func GetGray(rect image.Rectangle) *image.Gray {
	return globalPool.Get(rect)
}

// PutGray hands a buffer back to the shared pool
func PutGray(img *image.Gray) {
	globalPool.Put(img)
}

func (p *GrayPool) Get(rect image.Rectangle) *image.Gray {
	p.mu.RLock()
	pool, exists := p.pools[rect]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		pool, exists = p.pools[rect]
		if !exists {
			pool = &sync.Pool{
				New: func() any {
					return image.NewGray(rect)
				},
			}
			p.pools[rect] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().(*image.Gray)
}

// Put only accepts buffers whose bounds were requested before
func (p *GrayPool) Put(img *image.Gray) {
	if img == nil {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[img.Rect]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}
