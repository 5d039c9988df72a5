package icp

import (
	stdctx "context"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// Reporter receives the worker's outbound coordinator messages. The engine
// never blocks on a reporter.
type Reporter interface {
	UnknownNode(nodeID, parentID int)
	UnsatNode(nodeID, parentID int)
	Debug(msg string)
}

type nopReporter struct{}

func (nopReporter) UnknownNode(int, int) {}
func (nopReporter) UnsatNode(int, int)   {}
func (nopReporter) Debug(string)         {}

// Context owns all partitioning state: the constraint store, the paving
// tree, the propagation queue, the leaf scheduler, and the statistics.
// Multiple independent contexts can coexist.
type Context struct {
	opts Options
	log  *logrus.Entry
	rep  Reporter
	rng  *rand.Rand

	vars    []varInfo
	atoms   []*Atom
	clauses []*Clause
	units   []*Atom
	watches [][]watcher

	nodes     []*Node
	leafHead  *Node
	timestamp uint64

	arena       arena
	queue       *Queue[*Bound]
	maxPropPer  int
	arithFailed bool
	seen        *ResetSet

	sched scheduler

	aliveTasks       int
	maxAliveTasks    int
	unsolvedTasks    int
	unsolvedSplitCnt []int

	occ        []int
	maxDeg     []int
	candidates []int
	candsReady bool

	initialized bool
	pending     *Task
	runCtx      stdctx.Context

	stats *Stats
}

// NewContext returns an empty context configured with the given options.
func NewContext(opts Options) *Context {
	c := &Context{
		opts:  opts,
		log:   logrus.WithField("component", "partitioner"),
		rep:   nopReporter{},
		rng:   rand.New(rand.NewSource(opts.RandSeed)),
		queue: NewQueue[*Bound](64),
		seen:  NewResetSet(0),
		stats: newStats(),
	}
	c.maxAliveTasks = opts.MaxRunningTasks + opts.MaxRunningTasks/5 + 2
	c.sched.init(64)
	return c
}

// NewDefaultContext returns a context configured with DefaultOptions.
func NewDefaultContext() *Context {
	return NewContext(DefaultOptions)
}

// SetReporter installs the sink for outbound coordinator messages.
func (c *Context) SetReporter(r Reporter) {
	if r == nil {
		r = nopReporter{}
	}
	c.rep = r
}

// Stats returns the context's statistics collectors.
func (c *Context) Stats() *Stats {
	return c.stats
}

// ArithFailed reports whether any interval operation failed and was skipped.
// A missed tightening is safe; the flag only signals degraded precision.
func (c *Context) ArithFailed() bool {
	return c.arithFailed
}

func (c *Context) NumVariables() int { return len(c.vars) }
func (c *Context) NumClauses() int   { return len(c.clauses) }
func (c *Context) NumNodes() int     { return len(c.nodes) }

// Node returns the node with the given id, or nil if it does not exist.
func (c *Context) Node(id int) *Node {
	if id < 0 || id >= len(c.nodes) {
		return nil
	}
	return c.nodes[id]
}
