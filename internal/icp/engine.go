package icp

import (
	stdctx "context"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// StepResult tells the driver what one engine step produced.
type StepResult int

const (
	// StepTask means a sub-task was published and is ready to fetch.
	StepTask StepResult = iota
	// StepThrottled means too many tasks are in flight; retry after
	// draining coordinator messages.
	StepThrottled
	// StepWaiting means no open leaf remains but verdicts are outstanding.
	StepWaiting
	// StepExhausted means the tree is fully closed.
	StepExhausted
)

func (r StepResult) String() string {
	switch r {
	case StepTask:
		return "task"
	case StepThrottled:
		return "throttled"
	case StepWaiting:
		return "waiting"
	default:
		return "exhausted"
	}
}

const throttleSleep = 100 * time.Millisecond

// initRoot builds the root node, asserts the unit axioms, seeds every
// definition, and runs the first propagation loop.
func (c *Context) initRoot() (unsat bool, err error) {
	c.initialized = true
	c.maxPropPer = len(c.vars)
	if c.maxPropPer < 256 {
		c.maxPropPer = 256
	}
	if c.maxPropPer > 1024 {
		c.maxPropPer = 1024
	}

	root := c.mkNode(nil)
	c.unsolvedTasks++
	if err := c.assertUnits(root); err != nil {
		c.queue.Clear()
		return false, err
	}
	if root.Inconsistent() {
		c.queue.Clear()
		return true, nil
	}
	if err := c.propagateAllDefinitions(root); err != nil {
		c.queue.Clear()
		return false, err
	}
	if root.Inconsistent() {
		c.queue.Clear()
		return true, nil
	}
	if err := c.propagate(root); err != nil {
		return false, err
	}
	if root.Inconsistent() {
		return true, nil
	}

	lits := 0
	for _, cl := range c.clauses {
		lits += len(cl.atoms)
	}
	c.sched.push(root, len(c.clauses), lits)
	return false, nil
}

// Step runs one engine iteration: initialize on the first call, back off
// when too many tasks are in flight, then pop the best leaf, convert it,
// publish it, and split it. On StepTask the returned task carries the
// published node and its two children.
func (c *Context) Step(ctx stdctx.Context) (*Task, StepResult, error) {
	c.runCtx = ctx
	if !c.initialized {
		unsat, err := c.initRoot()
		if err != nil {
			return nil, StepExhausted, err
		}
		if unsat {
			root := c.nodes[0]
			c.rep.UnsatNode(root.id, -1)
			c.markUnsat(root)
			return nil, StepExhausted, nil
		}
	}

	if c.aliveTasks > c.maxAliveTasks {
		time.Sleep(throttleSleep)
		return nil, StepThrottled, nil
	}

	for {
		if c.opts.MaxNodes > 0 && len(c.nodes) >= c.opts.MaxNodes {
			return nil, c.drained(), nil
		}
		id, ok := c.sched.pop()
		if !ok {
			return nil, c.drained(), nil
		}
		n := c.nodes[id]
		if n.state != NodeUnconverted || !n.inLeaves {
			continue
		}
		if n.id%32 == 1 {
			c.rep.Debug(fmt.Sprintf("pop node %d at depth %d, %d tasks alive", n.id, n.depth, c.aliveTasks))
		}

		task, unsat, err := c.convert(n)
		if err != nil {
			return nil, StepExhausted, err
		}
		if unsat {
			c.rep.UnsatNode(n.id, n.ParentID())
			c.markUnsat(n)
			continue
		}

		n.state = NodeWaiting
		c.aliveTasks++
		c.stats.incTasks()
		c.rep.UnknownNode(n.id, n.ParentID())

		if n.depth >= c.opts.MaxDepth {
			c.removeLeaf(n)
			return task, StepTask, nil
		}
		if err := c.split(n, task); err != nil {
			if errors.Is(err, ErrUnsplittable) {
				c.removeLeaf(n)
				return task, StepTask, nil
			}
			return nil, StepExhausted, err
		}
		return task, StepTask, nil
	}
}

func (c *Context) drained() StepResult {
	if c.aliveTasks > 0 {
		return StepWaiting
	}
	return StepExhausted
}

// markUnsat closes a node and its whole subtree, releases its schedule and
// split bookkeeping, and closes the parent when all of its children are
// UNSAT. Re-marking an UNSAT node is a no-op.
func (c *Context) markUnsat(n *Node) {
	if n.state == NodeUnsat {
		return
	}
	if n.state == NodeWaiting {
		c.aliveTasks--
	}
	n.state = NodeUnsat
	c.stats.incUnsatNodes()
	c.unsolvedTasks--
	for _, v := range n.splitVars {
		c.unsolvedSplitCnt[v]--
	}
	c.removeLeaf(n)
	c.sched.remove(n.id)

	for ch := n.firstChild; ch != nil; ch = ch.nextSibling {
		c.markUnsat(ch)
	}

	p := n.parent
	if p == nil || p.state == NodeUnsat {
		return
	}
	for ch := p.firstChild; ch != nil; ch = ch.nextSibling {
		if ch.state != NodeUnsat {
			return
		}
	}
	c.markUnsat(p)
}

// MarkUnsat applies a coordinator unsat verdict to the node with the given
// id. Unknown ids are ignored.
func (c *Context) MarkUnsat(id int) {
	if n := c.Node(id); n != nil {
		c.markUnsat(n)
	}
}

// Terminate marks a waiting node aborted by the coordinator. The node is
// closed without claiming unsatisfiability, so it never participates in a
// parent's push-up.
func (c *Context) Terminate(id int) {
	n := c.Node(id)
	if n == nil || n.state != NodeWaiting {
		return
	}
	n.state = NodeTerminated
	c.aliveTasks--
	c.removeLeaf(n)
	c.sched.remove(n.id)
}

// AliveTasks returns the number of published tasks without a verdict.
func (c *Context) AliveTasks() int { return c.aliveTasks }
