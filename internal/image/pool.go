package image

import "sync"

// Pool recycles buffers of identical size and format, so repeated in-memory
// runs over same-sized frames do not allocate a fresh output each time.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu        sync.Mutex
	buckets   map[poolKey][]*ImageBuf
	perBucket int
}

type poolKey struct {
	width, height int
	format        Format
}

// NewPool creates a pool keeping at most perBucket idle buffers per
// (width, height, format). perBucket <= 0 keeps nothing.
func NewPool(perBucket int) *Pool {
	return &Pool{
		buckets:   make(map[poolKey][]*ImageBuf),
		perBucket: perBucket,
	}
}

// Get returns a zero-filled buffer, reused when one is idle.
func (p *Pool) Get(width, height int, format Format) (*ImageBuf, error) {
	key := poolKey{width: width, height: height, format: format}

	p.mu.Lock()
	bucket := p.buckets[key]
	if n := len(bucket); n > 0 {
		buf := bucket[n-1]
		bucket[n-1] = nil
		p.buckets[key] = bucket[:n-1]
		p.mu.Unlock()
		return buf, nil
	}
	p.mu.Unlock()

	return NewImageBuf(width, height, format)
}

// Put clears buf and keeps it for reuse. Empty buffers and buffers beyond
// the bucket limit are dropped.
func (p *Pool) Put(buf *ImageBuf) {
	if buf == nil || buf.IsEmpty() {
		return
	}
	buf.Clear()

	key := poolKey{width: buf.width, height: buf.height, format: buf.format}

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.buckets[key]) >= p.perBucket {
		return
	}
	p.buckets[key] = append(p.buckets[key], buf)
}

// Idle returns how many buffers are waiting in the pool.
func (p *Pool) Idle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, b := range p.buckets {
		n += len(b)
	}
	return n
}
