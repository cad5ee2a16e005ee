package batch

// Queue collects the items of the current frame. Insertion order carries no
// meaning: the queue is sorted before it is drawn.
//
// Queue is not safe for concurrent use. The zero value is ready to use.
type Queue[T any] struct {
	items []T
}

// NewQueue returns a queue with room for capacity items.
func NewQueue[T any](capacity int) *Queue[T] {
	return &Queue[T]{items: make([]T, 0, capacity)}
}

// Add appends an item. Duplicates are kept.
func (q *Queue[T]) Add(item T) { q.items = append(q.items, item) }

// Len returns the number of queued items.
func (q *Queue[T]) Len() int { return len(q.items) }

// At returns the i-th queued item.
func (q *Queue[T]) At(i int) T { return q.items[i] }

// Items returns the queued items. The slice aliases the queue storage and is
// only valid until the next Add or Clear.
func (q *Queue[T]) Items() []T { return q.items }

// Clear empties the queue but keeps its capacity for the next frame.
func (q *Queue[T]) Clear() {
	clear(q.items)
	q.items = q.items[:0]
}
