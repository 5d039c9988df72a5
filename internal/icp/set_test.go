package icp

import "testing"

func TestResetSet(t *testing.T) {
	rs := NewResetSet(4)
	rs.Add(1)
	rs.Add(3)
	if !rs.Contains(1) || !rs.Contains(3) {
		t.Errorf("added elements missing")
	}
	if rs.Contains(0) || rs.Contains(2) {
		t.Errorf("set contains elements never added")
	}

	rs.Clear()
	for v := 0; v < 4; v++ {
		if rs.Contains(v) {
			t.Errorf("Contains(%d) = true after Clear", v)
		}
	}
	rs.Add(2)
	if !rs.Contains(2) {
		t.Errorf("Add after Clear lost")
	}
}

func TestResetSet_GenerationWrap(t *testing.T) {
	rs := NewResetSet(2)
	rs.gen = ^uint32(0) // next Clear wraps
	rs.Add(0)
	rs.Clear()
	if rs.Contains(0) || rs.Contains(1) {
		t.Errorf("set not empty after wrapping Clear")
	}
	rs.Add(1)
	if !rs.Contains(1) {
		t.Errorf("Add after wrap lost")
	}
}

func TestResetSet_Grow(t *testing.T) {
	rs := NewResetSet(1)
	rs.Add(0)
	rs.Grow(5)
	if !rs.Contains(0) {
		t.Errorf("Grow dropped existing element")
	}
	rs.Add(4)
	if !rs.Contains(4) {
		t.Errorf("Grow did not extend capacity")
	}
}
