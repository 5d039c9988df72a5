package main

import (
	stdctx "context"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zmylinxi99/AriParti-Distributed/internal/icp"
	"github.com/zmylinxi99/AriParti-Distributed/parsers"
)

// recorder captures the reporter calls of a partitioning run.
type recorder struct {
	unknown [][2]int
	unsat   [][2]int
}

func (r *recorder) UnknownNode(node, parent int) {
	r.unknown = append(r.unknown, [2]int{node, parent})
}

func (r *recorder) UnsatNode(node, parent int) {
	r.unsat = append(r.unsat, [2]int{node, parent})
}

func (r *recorder) Debug(string) {}

func writeInstance(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadedContext(t *testing.T, instance string) (*icp.Context, *recorder) {
	t.Helper()
	c := icp.NewContext(icp.DefaultOptions)
	rec := &recorder{}
	c.SetReporter(rec)
	require.NoError(t, parsers.LoadArith(writeInstance(t, "instance.txt", instance), c))
	return c, rec
}

const boundedIntInstance = `# one integer on [0, 5]
var x int
clause x>=0
clause x<=5
`

func TestPartitionSplitsIntegerInterval(t *testing.T) {
	c, rec := loadedContext(t, boundedIntInstance)

	task, res, err := c.Step(stdctx.Background())
	require.NoError(t, err)
	require.Equal(t, icp.StepTask, res)

	require.Equal(t, 0, task.NodeID)
	require.Equal(t, 0, task.Depth)
	require.Equal(t, 0, task.SplitVar)
	require.Equal(t, 1, task.LeftChild)
	require.Equal(t, 2, task.RightChild)
	require.Empty(t, task.Clauses)

	bounds := make([]string, len(task.VarBounds))
	for i, a := range task.VarBounds {
		bounds[i] = a.String()
	}
	require.Equal(t, []string{"x0 >= 0", "x0 <= 5"}, bounds)

	// The midpoint 5/2 rounds to [0, 2] on the left and [3, 5] on the right.
	left, right := c.Node(1), c.Node(2)
	require.Equal(t, 0, left.UpperBound(0).Val.Cmp(big.NewRat(2, 1)))
	require.Equal(t, 0, left.LowerBound(0).Val.Cmp(new(big.Rat)))
	require.Equal(t, 0, right.LowerBound(0).Val.Cmp(big.NewRat(3, 1)))
	require.Equal(t, 0, right.UpperBound(0).Val.Cmp(big.NewRat(5, 1)))

	require.Equal(t, [][2]int{{0, -1}}, rec.unknown)
	require.Empty(t, rec.unsat)
}

func TestPartitionVerdictPushUp(t *testing.T) {
	c, _ := loadedContext(t, boundedIntInstance)

	_, res, err := c.Step(stdctx.Background())
	require.NoError(t, err)
	require.Equal(t, icp.StepTask, res)
	require.Equal(t, 1, c.AliveTasks())

	c.MarkUnsat(1)
	require.Equal(t, icp.NodeUnsat, c.Node(1).State())
	require.Equal(t, icp.NodeWaiting, c.Node(0).State())

	c.MarkUnsat(2)
	require.Equal(t, icp.NodeUnsat, c.Node(0).State())
	require.Equal(t, 0, c.AliveTasks())

	_, res, err = c.Step(stdctx.Background())
	require.NoError(t, err)
	require.Equal(t, icp.StepExhausted, res)
}

func TestPartitionTerminatedBlocksPushUp(t *testing.T) {
	c, _ := loadedContext(t, boundedIntInstance)

	_, res, err := c.Step(stdctx.Background())
	require.NoError(t, err)
	require.Equal(t, icp.StepTask, res)

	// Publish the first child so it can receive a terminate verdict.
	task, res, err := c.Step(stdctx.Background())
	require.NoError(t, err)
	require.Equal(t, icp.StepTask, res)
	require.Equal(t, 1, task.NodeID)

	c.Terminate(1)
	require.Equal(t, icp.NodeTerminated, c.Node(1).State())

	// An aborted sibling holds no verdict, so the parent must stay open.
	c.MarkUnsat(2)
	require.Equal(t, icp.NodeWaiting, c.Node(0).State())
}

func TestPartitionBooleanInstance(t *testing.T) {
	path := writeInstance(t, "instance.cnf", "p cnf 2 2\n1 2 0\n-1 0\n")
	c := icp.NewContext(icp.DefaultOptions)
	rec := &recorder{}
	c.SetReporter(rec)
	require.NoError(t, parsers.LoadDIMACS(path, false, c))

	task, res, err := c.Step(stdctx.Background())
	require.NoError(t, err)
	require.Equal(t, icp.StepTask, res)
	require.Equal(t, 0, task.NodeID)
	require.Equal(t, -1, task.SplitVar) // no arithmetic variable to split on
	require.Empty(t, task.Clauses)

	bounds := make([]string, len(task.VarBounds))
	for i, a := range task.VarBounds {
		bounds[i] = a.String()
	}
	require.Equal(t, []string{"!x0", "x1"}, bounds)

	_, res, err = c.Step(stdctx.Background())
	require.NoError(t, err)
	require.Equal(t, icp.StepWaiting, res)

	c.MarkUnsat(0)
	_, res, err = c.Step(stdctx.Background())
	require.NoError(t, err)
	require.Equal(t, icp.StepExhausted, res)
}

func TestPartitionRefutedRootInstance(t *testing.T) {
	c, rec := loadedContext(t, "var x real\nclause x>=3\nclause x<=2\n")

	task, res, err := c.Step(stdctx.Background())
	require.NoError(t, err)
	require.Equal(t, icp.StepExhausted, res)
	require.Nil(t, task)
	require.Equal(t, [][2]int{{0, -1}}, rec.unsat)
}

func TestWriteTask(t *testing.T) {
	c, _ := loadedContext(t, boundedIntInstance)
	task, _, err := c.Step(stdctx.Background())
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, writeTask(dir, task))
	data, err := os.ReadFile(filepath.Join(dir, "task-0.txt"))
	require.NoError(t, err)
	require.Equal(t, "node 0 depth 0 undef 0 0 split x0 children 1 2\nbound x0 >= 0\nbound x0 <= 5\n", string(data))
}
