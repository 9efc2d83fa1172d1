package stream

import "sync"

// DefaultHistoryBytes is the history kept when no capacity is given.
const DefaultHistoryBytes = 64 * 1024

// RingBuffer keeps the most recent bytes of a stream. Pushing past capacity
// drops the oldest bytes. It is safe for concurrent use.
type RingBuffer struct {
	mu   sync.RWMutex
	data []byte
	head int // index of the oldest byte
	size int
}

// NewRingBuffer creates a buffer holding at most capacity bytes.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = DefaultHistoryBytes
	}
	return &RingBuffer{data: make([]byte, capacity)}
}

// Push appends p, evicting the oldest bytes when full.
func (b *RingBuffer) Push(p []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capacity := len(b.data)
	if len(p) >= capacity {
		copy(b.data, p[len(p)-capacity:])
		b.head = 0
		b.size = capacity
		return
	}

	tail := (b.head + b.size) % capacity
	n := copy(b.data[tail:], p)
	copy(b.data, p[n:])

	b.size += len(p)
	if b.size > capacity {
		b.head = (b.head + b.size - capacity) % capacity
		b.size = capacity
	}
}

// Write implements io.Writer so the buffer can sit behind an io.MultiWriter.
func (b *RingBuffer) Write(p []byte) (int, error) {
	b.Push(p)
	return len(p), nil
}

// Bytes returns a copy of the retained bytes, oldest first.
func (b *RingBuffer) Bytes() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tailLocked(b.size)
}

// Tail returns a copy of the newest n retained bytes.
func (b *RingBuffer) Tail(n int) []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if n > b.size {
		n = b.size
	}
	if n < 0 {
		n = 0
	}
	return b.tailLocked(n)
}

func (b *RingBuffer) tailLocked(n int) []byte {
	out := make([]byte, n)
	if n == 0 {
		return out
	}
	capacity := len(b.data)
	start := (b.head + b.size - n) % capacity
	m := copy(out, b.data[start:min(start+n, capacity)])
	copy(out[m:], b.data[:n-m])
	return out
}

// Clear drops all retained bytes.
func (b *RingBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.head = 0
	b.size = 0
}

// Len returns the number of retained bytes.
func (b *RingBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// Cap returns the buffer capacity.
func (b *RingBuffer) Cap() int {
	return len(b.data)
}
