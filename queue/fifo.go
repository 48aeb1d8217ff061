package queue

import "encoding/json"

// FIFO is a first-in-first-out queue with stable ordering. The zero value is
// an empty queue ready for use.
type FIFO[T comparable] struct {
	items []T
}

// NewFIFO creates a queue pre-seeded with the given items.
func NewFIFO[T comparable](items ...T) FIFO[T] {
	q := FIFO[T]{}
	if len(items) > 0 {
		q.items = append(q.items, items...)
	}
	return q
}

// Len returns the current entry count.
func (q *FIFO[T]) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Enqueue appends an item to the tail.
func (q *FIFO[T]) Enqueue(item T) {
	if q == nil {
		return
	}
	q.items = append(q.items, item)
}

// EnqueueUnique appends an item only if it is not already queued.
// Returns false when the item was already present.
func (q *FIFO[T]) EnqueueUnique(item T) bool {
	if q == nil {
		return false
	}
	if q.Contains(item) {
		return false
	}
	q.items = append(q.items, item)
	return true
}

// Dequeue removes and returns the head item.
func (q *FIFO[T]) Dequeue() (T, bool) {
	var zero T
	if q == nil || len(q.items) == 0 {
		return zero, false
	}
	head := q.items[0]
	q.items = append(q.items[:0:0], q.items[1:]...)
	return head, true
}

// Peek returns the head item without removing it.
func (q *FIFO[T]) Peek() (T, bool) {
	var zero T
	if q == nil || len(q.items) == 0 {
		return zero, false
	}
	return q.items[0], true
}

// Contains reports whether the item is currently queued.
func (q *FIFO[T]) Contains(item T) bool {
	if q == nil {
		return false
	}
	for _, it := range q.items {
		if it == item {
			return true
		}
	}
	return false
}

// Items returns a copy of the queued items in order.
func (q *FIFO[T]) Items() []T {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	res := make([]T, len(q.items))
	copy(res, q.items)
	return res
}

// Clone returns an independent copy of the queue.
func (q *FIFO[T]) Clone() FIFO[T] {
	if q == nil || len(q.items) == 0 {
		return FIFO[T]{}
	}
	items := make([]T, len(q.items))
	copy(items, q.items)
	return FIFO[T]{items: items}
}

// MarshalJSON encodes the queue as a plain array of items.
func (q FIFO[T]) MarshalJSON() ([]byte, error) {
	if len(q.items) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(q.items)
}

// UnmarshalJSON decodes a plain array of items.
func (q *FIFO[T]) UnmarshalJSON(data []byte) error {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	q.items = items
	return nil
}
