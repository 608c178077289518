package pagerank

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-pagerank/pkg/config"
	"github.com/dd0wney/cluso-pagerank/pkg/graphnode"
	"github.com/dd0wney/cluso-pagerank/pkg/logging"
	"github.com/dd0wney/cluso-pagerank/pkg/metrics"
	"github.com/dd0wney/cluso-pagerank/pkg/parallel"
	"github.com/dd0wney/cluso-pagerank/pkg/partition"
	"github.com/dd0wney/cluso-pagerank/pkg/passfile"
)

// Runner drives PageRank passes over a partitioned graph.
type Runner struct {
	cfg         *config.Config
	compression passfile.Compression
	logger      logging.Logger
	metrics     *metrics.Registry
}

// NewRunner validates cfg and returns a Runner. A nil logger discards
// output and a nil registry uses metrics.DefaultRegistry.
func NewRunner(cfg *config.Config, logger logging.Logger, reg *metrics.Registry) (*Runner, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c, err := passfile.ParseCompression(cfg.Compression)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}
	if reg == nil {
		reg = metrics.DefaultRegistry()
	}
	return &Runner{
		cfg:         cfg,
		compression: c,
		logger:      logger.With(logging.Component("pagerank")),
		metrics:     reg,
	}, nil
}

// passStats summarizes one pass.
type passStats struct {
	messages int
	bytes    int64
	dangling float64
}

// Run ranks nodes for the configured number of passes. Structure records
// start at 1/N; Complete records keep their score. The input is not
// modified.
func (r *Runner) Run(ctx context.Context, nodes []*graphnode.Node) (*Result, error) {
	runID := uuid.NewString()
	logger := r.logger.With(logging.RunID(runID))

	strategy, err := partition.New(r.cfg.Partitioner, r.cfg.Partitions, maxID(nodes))
	if err != nil {
		return nil, err
	}
	parts, edges, err := r.assign(nodes, strategy)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:  runID,
		Scores: make(map[int64]float32, len(nodes)),
	}
	if len(nodes) == 0 {
		logger.Warn("empty graph, nothing to rank")
		return result, nil
	}

	r.metrics.SetGraphSize(len(nodes), edges)
	pm := partition.ComputeMetrics(nodes, strategy)
	logger.Info("partitioned graph",
		logging.String("partitioner", r.cfg.Partitioner),
		logging.Float64("load_balance", pm.LoadBalance),
		logging.Float64("cut_ratio", pm.CutRatio))
	jump := (1 - r.cfg.Damping) / float64(len(nodes))

	pool := parallel.NewWorkerPool(r.cfg.Workers)
	defer pool.Close()

	timer := logging.StartTimer(logger, "pagerank run",
		logging.Count(len(nodes)),
		logging.Int("edges", edges),
		logging.Int("partitions", r.cfg.Partitions),
		logging.Int("iterations", r.cfg.Iterations))

	for iter := 1; iter <= r.cfg.Iterations; iter++ {
		if err := ctx.Err(); err != nil {
			timer.EndError(err)
			return nil, err
		}

		store, err := r.newStore(runID, iter)
		if err != nil {
			timer.EndError(err)
			return nil, err
		}

		start := time.Now()
		next, stats, err := r.pass(ctx, logger.With(logging.Iteration(iter)), pool, store, strategy, parts, jump)
		if cerr := store.cleanup(); cerr != nil && err == nil {
			err = fmt.Errorf("clean up pass %d: %w", iter, cerr)
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				err = ctxErr
			}
			timer.EndError(err)
			return nil, fmt.Errorf("pass %d: %w", iter, err)
		}
		elapsed := time.Since(start)

		parts = next
		result.Iterations = iter
		result.DanglingMass = append(result.DanglingMass, stats.dangling)
		r.metrics.RecordPass(elapsed, stats.messages, stats.dangling)

		logger.Debug("pass complete",
			logging.Iteration(iter),
			logging.Count(stats.messages),
			logging.Bytes(stats.bytes),
			logging.Float64("dangling_mass", stats.dangling),
			logging.Latency(elapsed))
	}

	for _, part := range parts {
		for _, n := range part {
			score, _ := n.Score()
			result.Scores[n.ID()] = score
			result.Nodes = append(result.Nodes, n)
		}
	}
	slices.SortFunc(result.Nodes, func(a, b *graphnode.Node) int {
		switch {
		case a.ID() < b.ID():
			return -1
		case a.ID() > b.ID():
			return 1
		}
		return 0
	})

	timer.End(logging.Iteration(result.Iterations))
	return result, nil
}

func maxID(nodes []*graphnode.Node) int64 {
	var m int64
	for _, n := range nodes {
		m = max(m, n.ID())
	}
	return m
}

// assign places every input vertex in its partition as a Complete record
// and counts out-links.
func (r *Runner) assign(nodes []*graphnode.Node, strategy partition.Strategy) ([][]*graphnode.Node, int, error) {
	parts := make([][]*graphnode.Node, strategy.Count())
	seen := make(map[int64]struct{}, len(nodes))
	initial := float32(1)
	if len(nodes) > 0 {
		initial = float32(1 / float64(len(nodes)))
	}

	edges := 0
	for _, n := range nodes {
		if _, dup := seen[n.ID()]; dup {
			return nil, 0, fmt.Errorf("vertex %d: %w", n.ID(), ErrDuplicateVertex)
		}
		seen[n.ID()] = struct{}{}

		var c *graphnode.Node
		switch n.Variant() {
		case graphnode.Structure:
			var err error
			if c, err = n.Complete(initial); err != nil {
				return nil, 0, err
			}
		case graphnode.Complete:
			c = n.Clone()
		default:
			return nil, 0, fmt.Errorf("vertex %d: %w: %s", n.ID(), ErrUnexpectedVariant, n.Variant())
		}

		edges += c.OutDegree()
		i := strategy.Partition(c.ID())
		parts[i] = append(parts[i], c)
	}
	return parts, edges, nil
}

func (r *Runner) newStore(runID string, iter int) (outboxStore, error) {
	if r.cfg.PassDir == "" {
		return newMemoryStore(r.cfg.Partitions, r.compression), nil
	}
	dir := filepath.Join(r.cfg.PassDir, runID, fmt.Sprintf("pass-%04d", iter))
	return newFileStore(dir, r.compression)
}

// pass runs the distribute phase on every partition, then the aggregate
// phase on every partition, and returns the new partitions.
func (r *Runner) pass(ctx context.Context, logger logging.Logger, pool *parallel.WorkerPool, store outboxStore, strategy partition.Strategy, parts [][]*graphnode.Node, jump float64) ([][]*graphnode.Node, passStats, error) {
	p := len(parts)

	var (
		mu    sync.Mutex
		stats passStats
	)

	distribute := pool.NewBatch(ctx)
	for from := range parts {
		distribute.Go(func(ctx context.Context) error {
			start := time.Now()
			s, err := r.distributePartition(ctx, store, strategy, from, parts[from])
			r.metrics.RecordPartition("distribute", time.Since(start))
			if err != nil {
				return fmt.Errorf("distribute partition %d: %w", from, err)
			}
			logger.Debug("partition distributed",
				logging.Partition(from),
				logging.Count(s.messages),
				logging.Bytes(s.bytes),
				logging.Latency(time.Since(start)))
			mu.Lock()
			stats.messages += s.messages
			stats.bytes += s.bytes
			stats.dangling += s.dangling
			mu.Unlock()
			return nil
		})
	}
	if err := distribute.Wait(); err != nil {
		return nil, stats, err
	}

	next := make([][]*graphnode.Node, p)
	aggregate := pool.NewBatch(ctx)
	for to := range parts {
		aggregate.Go(func(ctx context.Context) error {
			start := time.Now()
			nodes, err := r.aggregatePartition(ctx, store, p, to, jump)
			r.metrics.RecordPartition("aggregate", time.Since(start))
			if err != nil {
				return fmt.Errorf("aggregate partition %d: %w", to, err)
			}
			logger.Debug("partition aggregated",
				logging.Partition(to),
				logging.Count(len(nodes)),
				logging.Latency(time.Since(start)))
			next[to] = nodes
			return nil
		})
	}
	if err := aggregate.Wait(); err != nil {
		return nil, stats, err
	}
	return next, stats, nil
}

// distributePartition writes the records produced by one partition into its
// outbox for every receiving partition.
func (r *Runner) distributePartition(ctx context.Context, store outboxStore, strategy partition.Strategy, from int, nodes []*graphnode.Node) (passStats, error) {
	outbox := make([]recordWriter, strategy.Count())
	closeAll := func() error {
		var errs []error
		for _, w := range outbox {
			if w != nil {
				errs = append(errs, w.Close())
			}
		}
		return errors.Join(errs...)
	}

	for to := range outbox {
		w, err := store.create(from, to)
		if err != nil {
			_ = closeAll()
			return passStats{}, err
		}
		outbox[to] = w
	}

	emit := func(n *graphnode.Node) error {
		w := outbox[strategy.Partition(n.ID())]
		if err := w.Write(n); err != nil {
			return err
		}
		r.metrics.RecordEncode(n.Variant().String(), n.EncodedLen())
		return nil
	}

	var stats passStats
	for i, n := range nodes {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				_ = closeAll()
				return stats, err
			}
		}
		dangling, err := Distribute(n, emit)
		if err != nil {
			_ = closeAll()
			return stats, err
		}
		stats.dangling += dangling
		stats.messages += n.OutDegree()
	}

	if err := closeAll(); err != nil {
		return stats, err
	}
	for _, w := range outbox {
		stats.bytes += w.Bytes()
	}
	return stats, nil
}

// aggregatePartition reads every outbox addressed to partition to and
// returns its vertices as Complete records ordered by id.
func (r *Runner) aggregatePartition(ctx context.Context, store outboxStore, partitions, to int, jump float64) ([]*graphnode.Node, error) {
	structures := make(map[int64]*graphnode.Node)
	sums := make(map[int64]float64)

	for from := 0; from < partitions; from++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.readOutbox(store, from, to, structures, sums); err != nil {
			return nil, err
		}
	}

	ids := make([]int64, 0, len(structures))
	for id := range structures {
		ids = append(ids, id)
	}
	for id := range sums {
		if _, ok := structures[id]; !ok {
			return nil, fmt.Errorf("aggregate vertex %d: %w", id, ErrMissingStructure)
		}
	}
	slices.Sort(ids)

	nodes := make([]*graphnode.Node, 0, len(ids))
	for _, id := range ids {
		n, err := complete(id, structures[id], sums[id], jump, r.cfg.Damping)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func (r *Runner) readOutbox(store outboxStore, from, to int, structures map[int64]*graphnode.Node, sums map[int64]float64) error {
	rd, err := store.open(from, to)
	if err != nil {
		return err
	}
	defer rd.Close()

	for {
		n, err := rd.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			r.metrics.RecordDecodeError()
			return fmt.Errorf("outbox %d->%d: %w", from, to, err)
		}
		r.metrics.RecordDecode(n.Variant().String(), n.EncodedLen())

		switch n.Variant() {
		case graphnode.Structure:
			if _, dup := structures[n.ID()]; dup {
				return fmt.Errorf("outbox %d->%d: vertex %d: %w", from, to, n.ID(), ErrDuplicateVertex)
			}
			structures[n.ID()] = n
		case graphnode.Mass:
			score, _ := n.Score()
			sums[n.ID()] += float64(score)
		default:
			return fmt.Errorf("outbox %d->%d: vertex %d: %w: %s", from, to, n.ID(), ErrUnexpectedVariant, n.Variant())
		}
	}
}
