package icp

import (
	"reflect"
	"testing"
)

func TestQueue_PushPop(t *testing.T) {
	q := NewQueue[int](4)
	for i := 1; i <= 3; i++ {
		q.Push(i)
	}
	for i := 1; i <= 3; i++ {
		if got := q.Pop(); got != i {
			t.Errorf("Pop() = %d, want %d", got, i)
		}
	}
	if !q.Empty() {
		t.Errorf("queue should be empty after draining")
	}
}

func TestQueue_GrowUnrolls(t *testing.T) {
	q := &Queue[int]{ring: []int{3, 4, 1, 2}, head: 2, tail: 2, n: 4}
	q.Push(5)

	want := &Queue[int]{ring: []int{1, 2, 3, 4, 5, 0, 0, 0}, head: 0, tail: 5, n: 5}
	if !reflect.DeepEqual(q, want) {
		t.Errorf("after grow: got %+v, want %+v", q, want)
	}
}

func TestQueue_Clear(t *testing.T) {
	q := NewQueue[int](2)
	q.Push(1)
	q.Push(2)
	q.Clear()
	if !q.Empty() || q.Len() != 0 {
		t.Errorf("cleared queue should be empty, got len %d", q.Len())
	}
	q.Push(7)
	if got := q.Pop(); got != 7 {
		t.Errorf("Pop() after Clear = %d, want 7", got)
	}
}

func TestQueue_PopEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Pop on empty queue should panic")
		}
	}()
	NewQueue[int](1).Pop()
}
