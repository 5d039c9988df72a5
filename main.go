package main

import (
	stdctx "context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/zmylinxi99/AriParti-Distributed/internal/icp"
	"github.com/zmylinxi99/AriParti-Distributed/internal/protocol"
	"github.com/zmylinxi99/AriParti-Distributed/parsers"
)

var flagCPUProfile = flag.Bool(
	"cpuprof",
	false,
	"save pprof CPU profile in cpuprof",
)

var flagMemProfile = flag.Bool(
	"memprof",
	false,
	"save pprof memory profile in memprof",
)

var flagFormat = flag.String(
	"format",
	"auto",
	"instance format: auto, dimacs, or arith",
)

var flagVerbose = flag.Bool(
	"v",
	false,
	"enable debug logging on stderr",
)

var flagMetricsAddr = flag.String(
	"metrics_addr",
	"",
	"address for the Prometheus metrics endpoint (empty = disabled)",
)

var flagMaxNodes = flag.Int(
	"max_nodes",
	icp.DefaultOptions.MaxNodes,
	"maximum number of tree nodes",
)

var flagMaxDepth = flag.Int(
	"max_depth",
	icp.DefaultOptions.MaxDepth,
	"maximum paving depth",
)

var flagEpsilon = flag.Int64(
	"epsilon",
	icp.DefaultOptions.Epsilon,
	"1/eps improvement ratio for bound tightening (0 = exact improvement only)",
)

var flagMaxBound = flag.Int(
	"max_bound",
	icp.DefaultOptions.MaxBoundPow,
	"power of ten for one-sided bound pruning",
)

var flagRootPrec = flag.Int64(
	"nth_root_precision",
	icp.DefaultOptions.NthRootPrec,
	"1/k precision for root extraction",
)

var flagMaxMemory = flag.Int64(
	"max_memory",
	icp.DefaultOptions.MaxMemoryMB,
	"memory ceiling in MB (0 = unlimited)",
)

var flagOutputDir = flag.String(
	"output_dir",
	"",
	"directory for serialized sub-tasks (empty = do not write)",
)

var flagMaxRunning = flag.Int(
	"max_running_tasks",
	icp.DefaultOptions.MaxRunningTasks,
	"coordinator's running-task capacity; bounds in-flight sub-tasks",
)

var flagRandSeed = flag.Int64(
	"rand_seed",
	icp.DefaultOptions.RandSeed,
	"seed for split-literal sampling",
)

var flagSplitDelta = flag.Int64(
	"split_delta",
	icp.DefaultOptions.SplitDelta,
	"offset from the finite endpoint when splitting one-sided intervals",
)

type config struct {
	instanceFile string
	format       string
	memProfile   bool
	cpuProfile   bool
	metricsAddr  string
	outputDir    string
	options      icp.Options
}

func parseConfig() (*config, error) {
	flag.Parse()

	if flag.NArg() == 0 || flag.Arg(0) == "" {
		return nil, fmt.Errorf("missing instance file")
	}
	options := icp.DefaultOptions
	options.MaxNodes = *flagMaxNodes
	options.MaxDepth = *flagMaxDepth
	options.Epsilon = *flagEpsilon
	options.MaxBoundPow = *flagMaxBound
	options.NthRootPrec = *flagRootPrec
	options.MaxMemoryMB = *flagMaxMemory
	options.OutputDir = *flagOutputDir
	options.MaxRunningTasks = *flagMaxRunning
	options.RandSeed = *flagRandSeed
	options.SplitDelta = *flagSplitDelta

	return &config{
		instanceFile: flag.Arg(0),
		format:       *flagFormat,
		memProfile:   *flagMemProfile,
		cpuProfile:   *flagCPUProfile,
		metricsAddr:  *flagMetricsAddr,
		outputDir:    *flagOutputDir,
		options:      options,
	}, nil
}

func load(cfg *config, c *icp.Context) error {
	name := cfg.instanceFile
	gzipped := strings.HasSuffix(name, ".gz")
	format := cfg.format
	if format == "auto" {
		format = "arith"
		if strings.HasSuffix(strings.TrimSuffix(name, ".gz"), ".cnf") {
			format = "dimacs"
		}
	}
	switch format {
	case "dimacs":
		return parsers.LoadDIMACS(name, gzipped, c)
	case "arith":
		return parsers.LoadArith(name, c)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeTask(dir string, t *icp.Task) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "node %d depth %d undef %d %d split x%d children %d %d\n",
		t.NodeID, t.Depth, t.UndefClauses, t.UndefLits, t.SplitVar, t.LeftChild, t.RightChild)
	for _, cl := range t.Clauses {
		strs := make([]string, len(cl))
		for i, a := range cl {
			strs[i] = a.String()
		}
		fmt.Fprintf(&sb, "clause %s\n", strings.Join(strs, " "))
	}
	for _, a := range t.VarBounds {
		fmt.Fprintf(&sb, "bound %s\n", a.String())
	}
	path := filepath.Join(dir, fmt.Sprintf("task-%d.txt", t.NodeID))
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

func drain(rd *protocol.Reader, c *icp.Context) (closed bool) {
	for {
		msg, ok, done := rd.Poll()
		if done {
			return true
		}
		if !ok {
			return false
		}
		switch msg.Kind {
		case protocol.UnsatNode:
			c.MarkUnsat(msg.NodeID)
		case protocol.TerminateNode:
			c.Terminate(msg.NodeID)
		}
	}
}

func run(cfg *config) error {
	c := icp.NewContext(cfg.options)
	if err := load(cfg, c); err != nil {
		return fmt.Errorf("could not parse instance: %s", err)
	}

	out := protocol.NewWriter(os.Stdout)
	rd := protocol.NewReader(os.Stdin)
	c.SetReporter(out)

	if cfg.metricsAddr != "" {
		go func() {
			handler := promhttp.HandlerFor(c.Stats().Registry(), promhttp.HandlerOpts{})
			if err := http.ListenAndServe(cfg.metricsAddr, handler); err != nil {
				logrus.WithError(err).Error("metrics endpoint failed")
			}
		}()
	}

	runCtx, stop := signal.NotifyContext(stdctx.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out.Debug(fmt.Sprintf("partitioner start: %d variables, %d clauses", c.NumVariables(), c.NumClauses()))
	start := time.Now()

	inClosed := false
	for {
		inClosed = drain(rd, c) || inClosed
		task, res, err := c.Step(runCtx)
		if err != nil {
			if errors.Is(err, icp.ErrCanceled) {
				out.Debug("canceled")
				return nil
			}
			return err
		}
		switch res {
		case icp.StepTask:
			if cfg.outputDir != "" {
				if err := writeTask(cfg.outputDir, task); err != nil {
					return err
				}
			}
		case icp.StepThrottled:
			// Step already slept; go read verdicts again.
		case icp.StepWaiting:
			if inClosed {
				// No more verdicts will arrive; open tasks stay unknown.
				return summary(out, c, start)
			}
			time.Sleep(100 * time.Millisecond)
		case icp.StepExhausted:
			return summary(out, c, start)
		}
	}
}

func summary(out *protocol.Writer, c *icp.Context, start time.Time) error {
	s := c.Stats()
	out.Debug(fmt.Sprintf("done in %.2fs: %d nodes, %d tasks, %d unsat, %d bounds, %d propagations",
		time.Since(start).Seconds(), s.Nodes(), s.Tasks(), s.UnsatNodes(), s.Bounds(), s.Propagations()))
	return nil
}

func main() {
	cfg, err := parseConfig()
	if err != nil {
		log.Fatal(err)
	}

	if *flagVerbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetOutput(os.Stderr)

	if cfg.cpuProfile {
		f, err := os.Create("cpuprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}

	if cfg.memProfile {
		f, err := os.Create("memprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
		return
	}
}
