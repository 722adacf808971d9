package queue

import "testing"

func TestTrackedQueueFIFO(t *testing.T) {
	var dequeued []int
	q := NewTrackedQueue("ready", UnlimitedCapacity, Hooks[int]{
		OnDequeue: func(item int, tick int) {
			dequeued = append(dequeued, item)
		},
	})

	for i := 0; i < 3; i++ {
		if !q.Enqueue(i, 0) {
			t.Fatalf("enqueue %d failed", i)
		}
	}
	if q.Len() != 3 {
		t.Fatalf("expected length 3, got %d", q.Len())
	}

	for want := 0; want < 3; want++ {
		item, ok := q.PopFront(want)
		if !ok {
			t.Fatalf("pop %d failed", want)
		}
		if item != want {
			t.Fatalf("fifo order broken: got %d want %d", item, want)
		}
	}
	if _, ok := q.PopFront(3); ok {
		t.Fatalf("pop from empty queue should fail")
	}
	if len(dequeued) != 3 {
		t.Fatalf("expected 3 dequeue hooks, got %d", len(dequeued))
	}
}

func TestTrackedQueueCapacity(t *testing.T) {
	q := NewTrackedQueue[string]("bounded", 1, Hooks[string]{})
	if !q.Enqueue("a", 0) {
		t.Fatalf("first enqueue should succeed")
	}
	if q.Enqueue("b", 0) {
		t.Fatalf("enqueue past capacity should fail")
	}
}
