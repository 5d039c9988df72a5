package icp

import "testing"

func TestSchedulerOrdering(t *testing.T) {
	var s scheduler
	s.init(8)

	push := func(id, depth, undefClauses, undefLits int) {
		s.push(&Node{id: id, depth: depth}, undefClauses, undefLits)
	}
	push(0, 1, 5, 10)
	push(1, 0, 1, 1)
	push(2, 1, 7, 2)
	push(3, 1, 5, 12)
	push(4, 1, 5, 10)

	want := []int{1, 2, 3, 0, 4}
	for i, w := range want {
		id, ok := s.pop()
		if !ok {
			t.Fatalf("pop %d: heap empty, want node %d", i, w)
		}
		if id != w {
			t.Errorf("pop %d = node %d, want node %d", i, id, w)
		}
	}
	if _, ok := s.pop(); ok {
		t.Errorf("heap should be drained")
	}
}

func TestSchedulerRemoveSkipsLazily(t *testing.T) {
	var s scheduler
	s.init(4)
	s.push(&Node{id: 0, depth: 0}, 1, 1)
	s.push(&Node{id: 1, depth: 1}, 1, 1)
	s.remove(0)

	if s.len() != 1 {
		t.Errorf("len = %d after remove, want 1", s.len())
	}
	id, ok := s.pop()
	if !ok || id != 1 {
		t.Errorf("pop = (%d, %v), want (1, true)", id, ok)
	}
	if !s.empty() {
		t.Errorf("scheduler should be empty")
	}
}

func TestSchedulerGrow(t *testing.T) {
	var s scheduler
	s.init(2)
	for id := 0; id < 10; id++ {
		s.push(&Node{id: id, depth: id}, 1, 1)
	}
	for want := 0; want < 10; want++ {
		id, ok := s.pop()
		if !ok || id != want {
			t.Fatalf("pop = (%d, %v), want (%d, true)", id, ok, want)
		}
	}
}
