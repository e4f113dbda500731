package uploadclient

import (
	"io"
	"sync"
)

// progress emit non decreasing percentages, 100 only once every byte is sent
type progress struct {
	mu    sync.Mutex
	total int64
	sent  int64
	last  int
	fn    ProgressFunc
}

func newProgress(total int64, fn ProgressFunc) *progress {
	p := &progress{total: total, last: -1, fn: fn}
	p.emit(0)
	return p
}

func (p *progress) add(n int) {
	p.mu.Lock()
	p.sent += int64(n)
	percent := 100
	if p.sent < p.total {
		percent = int(p.sent * 100 / p.total)
		if percent > 99 {
			percent = 99
		}
	}
	p.mu.Unlock()
	p.emit(percent)
}

func (p *progress) done() {
	p.emit(100)
}

func (p *progress) emit(percent int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if percent <= p.last {
		return
	}
	p.last = percent
	if p.fn != nil {
		p.fn(percent)
	}
}

type countingReader struct {
	r      io.Reader
	onRead func(n int)
}

func (c *countingReader) Read(b []byte) (int, error) {
	n, err := c.r.Read(b)
	if n > 0 {
		c.onRead(n)
	}
	return n, err
}
