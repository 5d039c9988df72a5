package icp

import (
	"fmt"

	"github.com/rhartert/yagh"
)

// scheduler orders splittable leaves. The best leaf is the shallowest; ties
// prefer more undefined clauses, then more undefined literals, then the
// older node. Priorities are fixed-width hex strings so lexicographic order
// matches the intended ranking.
type scheduler struct {
	heap *yagh.IntMap[string]
	keys map[int]string
	capa int
}

func (s *scheduler) init(capa int) {
	s.heap = yagh.New[string](capa)
	s.keys = make(map[int]string)
	s.capa = capa
}

// schedKey encodes the ranking tuple. Descending fields are bit-complemented
// so that smaller strings rank first throughout.
func schedKey(depth, undefClauses, undefLits, id int) string {
	return fmt.Sprintf("%08x%08x%08x%08x",
		uint32(depth), ^uint32(undefClauses), ^uint32(undefLits), uint32(id))
}

func (s *scheduler) push(n *Node, undefClauses, undefLits int) {
	if n.id >= s.capa {
		s.grow(n.id + 1)
	}
	k := schedKey(n.depth, undefClauses, undefLits, n.id)
	s.heap.Put(n.id, k)
	s.keys[n.id] = k
}

// grow reseeds the live entries into a larger heap.
func (s *scheduler) grow(minCapa int) {
	capa := s.capa
	for capa < minCapa {
		capa *= 2
	}
	h := yagh.New[string](capa)
	for id, k := range s.keys {
		h.Put(id, k)
	}
	s.heap = h
	s.capa = capa
}

// pop returns the best live leaf id. Entries removed since their insertion
// are skipped.
func (s *scheduler) pop() (int, bool) {
	for {
		e, ok := s.heap.Pop()
		if !ok {
			return -1, false
		}
		if _, live := s.keys[e.Elem]; !live {
			continue
		}
		delete(s.keys, e.Elem)
		return e.Elem, true
	}
}

// remove drops a node from the schedule. The heap entry is reclaimed lazily
// on a later pop.
func (s *scheduler) remove(id int) {
	delete(s.keys, id)
}

func (s *scheduler) empty() bool { return len(s.keys) == 0 }

func (s *scheduler) len() int { return len(s.keys) }
