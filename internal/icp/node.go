package icp

import (
	"math/big"

	"github.com/zmylinxi99/AriParti-Distributed/internal/interval"
)

// NodeState tracks a node through the partitioning protocol.
type NodeState uint8

const (
	// NodeUnconverted nodes have been created but not yet published.
	NodeUnconverted NodeState = iota
	// NodeWaiting nodes have been published and await a verdict.
	NodeWaiting
	// NodeUnsat nodes were closed UNSAT, locally or by the coordinator.
	NodeUnsat
	// NodeTerminated nodes were aborted by the coordinator.
	NodeTerminated
)

func (s NodeState) String() string {
	switch s {
	case NodeWaiting:
		return "waiting"
	case NodeUnsat:
		return "unsat"
	case NodeTerminated:
		return "terminated"
	default:
		return "unconverted"
	}
}

// Node is one box of the paving tree. Bound maps are inherited from the
// parent by structural sharing; the trail chain extends the parent's chain.
type Node struct {
	id    int
	depth int

	parent      *Node
	firstChild  *Node
	nextSibling *Node

	leafPrev *Node
	leafNext *Node
	inLeaves bool

	// conflictVar is the variable whose bounds became inconsistent, or -1.
	conflictVar int

	trail *Bound
	lower *parray[*Bound]
	upper *parray[*Bound]
	bval  *parray[BValue]

	// splitVars is the path of split variables from the root; its length is
	// the node's depth.
	splitVars []int

	// upAtoms are the unit atoms selected by clause propagation at or above
	// this node.
	upAtoms []*Atom

	state NodeState
}

func (n *Node) ID() int          { return n.id }
func (n *Node) Depth() int       { return n.depth }
func (n *Node) Parent() *Node    { return n.parent }
func (n *Node) State() NodeState { return n.state }

// Inconsistent returns true if the node's bounds are contradictory.
func (n *Node) Inconsistent() bool { return n.conflictVar >= 0 }

// ParentID returns the parent node's id, or -1 for the root.
func (n *Node) ParentID() int {
	if n.parent == nil {
		return -1
	}
	return n.parent.id
}

// LowerBound returns the active lower bound of x at n, or nil.
func (n *Node) LowerBound(x int) *Bound { return n.lower.get(x) }

// UpperBound returns the active upper bound of x at n, or nil.
func (n *Node) UpperBound(x int) *Bound { return n.upper.get(x) }

// BoolValue returns the boolean value of x at n.
func (n *Node) BoolValue(x int) BValue { return n.bval.get(x) }

// Interval returns the interval induced by n's bounds on x.
func (n *Node) Interval(x int) interval.Interval {
	out := interval.Interval{}
	if lo := n.lower.get(x); lo != nil {
		out.Lo = lo.Val
		out.LoOpen = lo.Open
	}
	if hi := n.upper.get(x); hi != nil {
		out.Hi = hi.Val
		out.HiOpen = hi.Open
	}
	return out
}

// SinglePoint returns the value of x at n when its interval has collapsed to
// a single closed point, or nil.
func (n *Node) SinglePoint(x int) *big.Rat {
	lo, hi := n.lower.get(x), n.upper.get(x)
	if lo == nil || hi == nil || lo.Open || hi.Open {
		return nil
	}
	if lo.Val.Cmp(hi.Val) != 0 {
		return nil
	}
	return lo.Val
}

// mkNode allocates a new node. With a nil parent it creates the root;
// otherwise the node inherits the parent's bound maps, split path, and
// selected unit atoms. New nodes are pushed at the front of the leaf list.
func (c *Context) mkNode(parent *Node) *Node {
	n := c.arena.node()
	n.id = len(c.nodes)
	n.conflictVar = -1
	c.nodes = append(c.nodes, n)

	if parent == nil {
		nv := len(c.vars)
		n.lower = newPArray[*Bound](nv)
		n.upper = newPArray[*Bound](nv)
		n.bval = newPArray[BValue](nv)
		for x := 0; x < nv; x++ {
			if !c.vars[x].isBool {
				n.bval.set(x, BArith)
			}
		}
	} else {
		n.depth = parent.depth + 1
		n.parent = parent
		n.nextSibling = parent.firstChild
		parent.firstChild = n
		n.trail = parent.trail
		n.lower = parent.lower.child()
		n.upper = parent.upper.child()
		n.bval = parent.bval.child()
		n.splitVars = append([]int(nil), parent.splitVars...)
		n.upAtoms = append([]*Atom(nil), parent.upAtoms...)
	}

	c.addLeaf(n)
	c.stats.incNodes()
	return n
}

func (c *Context) addLeaf(n *Node) {
	n.leafNext = c.leafHead
	if c.leafHead != nil {
		c.leafHead.leafPrev = n
	}
	c.leafHead = n
	n.inLeaves = true
}

func (c *Context) removeLeaf(n *Node) {
	if !n.inLeaves {
		return
	}
	if n.leafPrev != nil {
		n.leafPrev.leafNext = n.leafNext
	} else {
		c.leafHead = n.leafNext
	}
	if n.leafNext != nil {
		n.leafNext.leafPrev = n.leafPrev
	}
	n.leafPrev = nil
	n.leafNext = nil
	n.inLeaves = false
}

// push installs b into n's per-variable slots. For a boolean variable the
// value transitions UNDEF to TRUE or FALSE; pushing the opposite value marks
// the variable conflicting.
func (c *Context) push(n *Node, b *Bound) {
	x := b.varID
	if c.vars[x].isBool {
		want := BTrue
		if b.Lower {
			want = BFalse
		}
		switch cur := n.bval.get(x); cur {
		case BUndef:
			n.bval.set(x, want)
		case want:
			// already set
		default:
			n.bval.set(x, BConflict)
		}
		return
	}
	if b.Lower {
		n.lower.set(x, b)
	} else {
		n.upper.set(x, b)
	}
}
