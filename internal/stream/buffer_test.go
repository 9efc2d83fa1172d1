package stream

import (
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRingBufferPush(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		pushes   []string
		want     string
	}{
		{name: "empty", capacity: 4, want: ""},
		{name: "under capacity", capacity: 8, pushes: []string{"abc", "de"}, want: "abcde"},
		{name: "exactly full", capacity: 5, pushes: []string{"abc", "de"}, want: "abcde"},
		{name: "evicts oldest", capacity: 4, pushes: []string{"abc", "def"}, want: "cdef"},
		{name: "wraps repeatedly", capacity: 3, pushes: []string{"ab", "cd", "ef", "g"}, want: "efg"},
		{name: "single push larger than capacity", capacity: 3, pushes: []string{"abcdefg"}, want: "efg"},
		{name: "large push after wrap", capacity: 4, pushes: []string{"ab", "cde", "123456"}, want: "3456"},
		{name: "byte at a time", capacity: 2, pushes: []string{"a", "b", "c"}, want: "bc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewRingBuffer(tt.capacity)
			for _, p := range tt.pushes {
				b.Push([]byte(p))
			}
			assert.Equal(t, tt.want, string(b.Bytes()))
			assert.Equal(t, len(tt.want), b.Len())
			assert.Equal(t, tt.capacity, b.Cap())
		})
	}
}

func TestRingBufferTail(t *testing.T) {
	b := NewRingBuffer(5)
	b.Push([]byte("abcdefg"))

	assert.Equal(t, "efg", string(b.Tail(3)))
	assert.Equal(t, "cdefg", string(b.Tail(10)))
	assert.Empty(t, b.Tail(0))
	assert.Empty(t, b.Tail(-1))
}

func TestRingBufferClear(t *testing.T) {
	b := NewRingBuffer(4)
	b.Push([]byte("abcdef"))
	b.Clear()

	assert.Empty(t, b.Bytes())
	assert.Zero(t, b.Len())

	b.Push([]byte("xy"))
	assert.Equal(t, "xy", string(b.Bytes()))
}

func TestRingBufferBytesIsACopy(t *testing.T) {
	b := NewRingBuffer(4)
	b.Push([]byte("abcd"))

	out := b.Bytes()
	out[0] = 'z'
	assert.Equal(t, "abcd", string(b.Bytes()))
}

func TestRingBufferDefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultHistoryBytes, NewRingBuffer(0).Cap())
}

func TestRingBufferAsWriter(t *testing.T) {
	b := NewRingBuffer(16)
	var w io.Writer = b

	n, err := io.WriteString(w, "hello")
	assert.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", string(b.Bytes()))
}

func TestRingBufferConcurrentPush(t *testing.T) {
	b := NewRingBuffer(64)

	var wg sync.WaitGroup
	for _i := 0; _i < 8; _i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _i := 0; _i < 100; _i++ {
				b.Push([]byte("xyz"))
				_ = b.Bytes()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 64, b.Len())
}
