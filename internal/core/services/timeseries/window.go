package timeseries

import (
	"sync"

	"github.com/lcalzada-xor/fleetdash/internal/core/domain"
)

// DefaultCapacity keeps two minutes of history at the default sampling period.
const DefaultCapacity = 8

// Window is a fixed-capacity FIFO of samples. Appending to a full window
// evicts the oldest sample. It is safe for concurrent use.
type Window struct {
	mu    sync.RWMutex
	buf   []domain.Sample
	start int
	size  int
}

// NewWindow creates an empty window. A non-positive capacity uses DefaultCapacity.
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Window{
		buf: make([]domain.Sample, capacity),
	}
}

// Append adds s as the newest sample.
func (w *Window) Append(s domain.Sample) {
	w.mu.Lock()
	defer w.mu.Unlock()

	idx := (w.start + w.size) % len(w.buf)
	w.buf[idx] = s
	if w.size < len(w.buf) {
		w.size++
		return
	}
	w.start = (w.start + 1) % len(w.buf)
}

// Samples returns a copy of the window, oldest first.
func (w *Window) Samples() []domain.Sample {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]domain.Sample, w.size)
	for i := 0; i < w.size; i++ {
		out[i] = w.buf[(w.start+i)%len(w.buf)]
	}
	return out
}

// Latest returns the newest sample, if any.
func (w *Window) Latest() (domain.Sample, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.size == 0 {
		return domain.Sample{}, false
	}
	return w.buf[(w.start+w.size-1)%len(w.buf)], true
}

// Len returns the number of samples held.
func (w *Window) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.size
}

// Cap returns the window capacity.
func (w *Window) Cap() int {
	return len(w.buf)
}
