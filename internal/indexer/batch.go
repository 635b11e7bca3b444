package indexer

import (
	"sync"
	"time"
)

// Batch is an open accumulation buffer that remembers when its first record
// arrived, so the consumer loop can enforce the max-linger flush trigger.
type Batch[T any] struct {
	buffer   []T
	openedAt time.Time
	mu       sync.Mutex
}

func NewBatch[T any](capacity int) *Batch[T] {
	return &Batch[T]{
		buffer: make([]T, 0, capacity),
	}
}

func (b *Batch[T]) Add(item T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.buffer) == 0 {
		b.openedAt = time.Now()
	}
	b.buffer = append(b.buffer, item)
}

func (b *Batch[T]) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buffer)
}

func (b *Batch[T]) HasData() bool {
	return b.Size() > 0
}

// Age reports how long the open batch has been accumulating; zero when empty.
func (b *Batch[T]) Age() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.buffer) == 0 {
		return 0
	}
	return time.Since(b.openedAt)
}

func (b *Batch[T]) GetAndClear() []T {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.buffer) == 0 {
		return nil
	}

	batch := b.buffer
	b.buffer = make([]T, 0, cap(batch))
	return batch
}
