package queue

const UnlimitedCapacity = -1

// Hooks defines callbacks for queue lifecycle events. The tick argument is
// the simulation tick at which the event occurred.
type Hooks[T any] struct {
	OnEnqueue func(item T, tick int)
	OnDequeue func(item T, tick int)
}

// TrackedQueue is a FIFO with capacity bookkeeping and lifecycle hooks.
type TrackedQueue[T any] struct {
	name     string
	capacity int
	items    []T
	hooks    Hooks[T]
}

// NewTrackedQueue constructs a tracked queue with optional hooks.
func NewTrackedQueue[T any](name string, capacity int, hooks Hooks[T]) *TrackedQueue[T] {
	return &TrackedQueue[T]{
		name:     name,
		capacity: capacity,
		hooks:    hooks,
	}
}

// Name returns the queue name.
func (q *TrackedQueue[T]) Name() string {
	if q == nil {
		return ""
	}
	return q.name
}

// Len returns the number of items.
func (q *TrackedQueue[T]) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Enqueue appends an item at the tail. Returns false if capacity exceeded.
func (q *TrackedQueue[T]) Enqueue(item T, tick int) bool {
	if q == nil {
		return false
	}
	if q.capacity >= 0 && len(q.items) >= q.capacity {
		return false
	}
	q.items = append(q.items, item)
	if q.hooks.OnEnqueue != nil {
		q.hooks.OnEnqueue(item, tick)
	}
	return true
}

// PopFront removes and returns the head item.
func (q *TrackedQueue[T]) PopFront(tick int) (T, bool) {
	var zero T
	if q == nil || len(q.items) == 0 {
		return zero, false
	}
	item := q.items[0]
	q.items = q.items[1:]
	if q.hooks.OnDequeue != nil {
		q.hooks.OnDequeue(item, tick)
	}
	return item, true
}

// Items exposes the underlying slice (read-only operations only).
func (q *TrackedQueue[T]) Items() []T {
	if q == nil {
		return nil
	}
	return q.items
}
