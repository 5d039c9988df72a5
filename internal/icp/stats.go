package icp

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Stats collects counters across one partitioning run. Counters are updated
// atomically so the metrics endpoint can scrape them while the engine runs.
type Stats struct {
	nodes        atomic.Int64
	bounds       atomic.Int64
	propagations atomic.Int64
	tasks        atomic.Int64
	splits       atomic.Int64
	unsatNodes   atomic.Int64

	reg *prometheus.Registry
}

func newStats() *Stats {
	s := &Stats{reg: prometheus.NewRegistry()}
	for _, c := range []struct {
		name string
		help string
		val  *atomic.Int64
	}{
		{"partitioner_nodes_total", "Nodes created in the paving tree.", &s.nodes},
		{"partitioner_bounds_total", "Bounds pushed onto node trails.", &s.bounds},
		{"partitioner_propagations_total", "Propagation rounds executed.", &s.propagations},
		{"partitioner_tasks_total", "Subtasks emitted to the coordinator.", &s.tasks},
		{"partitioner_splits_total", "Interval splits performed.", &s.splits},
		{"partitioner_unsat_nodes_total", "Nodes closed as UNSAT.", &s.unsatNodes},
	} {
		v := c.val
		s.reg.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: c.name,
			Help: c.help,
		}, func() float64 { return float64(v.Load()) }))
	}
	return s
}

// Registry returns the prometheus registry holding the run's counters.
func (s *Stats) Registry() *prometheus.Registry { return s.reg }

func (s *Stats) Nodes() int64        { return s.nodes.Load() }
func (s *Stats) Bounds() int64       { return s.bounds.Load() }
func (s *Stats) Propagations() int64 { return s.propagations.Load() }
func (s *Stats) Tasks() int64        { return s.tasks.Load() }
func (s *Stats) Splits() int64       { return s.splits.Load() }
func (s *Stats) UnsatNodes() int64   { return s.unsatNodes.Load() }

func (s *Stats) incNodes()        { s.nodes.Add(1) }
func (s *Stats) incBounds()       { s.bounds.Add(1) }
func (s *Stats) incPropagations() { s.propagations.Add(1) }
func (s *Stats) incTasks()        { s.tasks.Add(1) }
func (s *Stats) incSplits()       { s.splits.Add(1) }
func (s *Stats) incUnsatNodes()   { s.unsatNodes.Add(1) }
