package audio

import "sync"

// RingBuffer is a fixed-capacity byte queue shared between the generation
// goroutine (producer) and the transport pull callback (consumer). It carries
// its own lock so callers never need external synchronization. Occupancy never
// exceeds capacity, and reads are all-or-nothing.
type RingBuffer struct {
	mu   sync.Mutex
	buf  []byte
	head int // next read position
	size int // current occupancy
}

// NewRingBuffer returns a ring with the given capacity in bytes.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = DefaultRingCapacity
	}
	return &RingBuffer{buf: make([]byte, capacity)}
}

// Write appends p whole or not at all. It never blocks; it returns false when
// free space is insufficient.
func (rb *RingBuffer) Write(p []byte) bool {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	if len(p) > len(rb.buf)-rb.size {
		return false
	}
	tail := (rb.head + rb.size) % len(rb.buf)
	n := copy(rb.buf[tail:], p)
	if n < len(p) {
		copy(rb.buf, p[n:])
	}
	rb.size += len(p)
	return true
}

// Read removes and returns exactly n bytes, or nil when fewer than n are
// buffered. A short ring is never torn into a partial read.
func (rb *RingBuffer) Read(n int) []byte {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	if n <= 0 || rb.size < n {
		return nil
	}
	out := make([]byte, n)
	m := copy(out, rb.buf[rb.head:min(rb.head+n, len(rb.buf))])
	if m < n {
		copy(out[m:], rb.buf)
	}
	rb.head = (rb.head + n) % len(rb.buf)
	rb.size -= n
	return out
}

// Len reports current occupancy.
func (rb *RingBuffer) Len() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.size
}

// Cap reports the fixed capacity.
func (rb *RingBuffer) Cap() int { return len(rb.buf) }

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
