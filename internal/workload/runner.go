package workload

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	log "github.com/sirupsen/logrus"
	"github.com/soroosh-tanzadeh/snapkv/internal/ring"
	"github.com/soroosh-tanzadeh/snapkv/store"
	"golang.org/x/sync/errgroup"
)

type Store = store.Store[string, int64]

type Report struct {
	Ops      int64
	Duration time.Duration
	// Per-operation latency in microseconds over the most recent samples.
	Latency ring.Summary

	Snapshots           int64
	SnapshotRegressions int64

	// State of the store once the log has been replayed.
	Version  uint64
	Entries  int
	Checksum uint64
}

type replayer struct {
	st      *Store
	latency *ring.Ring

	ops         atomic.Int64
	snapshots   atomic.Int64
	regressions atomic.Int64
}

func newReplayer(st *Store, cfg Config) *replayer {
	return &replayer{st: st, latency: ring.New(cfg.LatencySamples)}
}

func (r *replayer) replay(ctx context.Context, ops []Op) error {
	var lastVersion uint64
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		switch op.Kind {
		case OpGet:
			r.st.Get(op.Key)
		case OpPut:
			r.st.Put(op.Key, op.Value)
		case OpDelete:
			r.st.Delete(op.Key)
		case OpSnapshot:
			version := r.st.Snapshot().Version()
			r.observeSnapshot(&lastVersion, version)
		}
		r.latency.Add(float64(time.Since(start).Microseconds()))
		r.ops.Add(1)
	}
	return nil
}

func (r *replayer) probe(ctx context.Context, done <-chan struct{}) error {
	var lastVersion uint64
	for {
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		r.observeSnapshot(&lastVersion, r.st.Snapshot().Version())
	}
}

func (r *replayer) observeSnapshot(last *uint64, version uint64) {
	r.snapshots.Add(1)
	if version < *last {
		r.regressions.Add(1)
	}
	*last = version
}

func (r *replayer) report(duration time.Duration) (Report, error) {
	final := r.st.Snapshot()
	report := Report{
		Ops:                 r.ops.Load(),
		Duration:            duration,
		Latency:             r.latency.Summarize(),
		Snapshots:           r.snapshots.Load(),
		SnapshotRegressions: r.regressions.Load(),
		Version:             final.Version(),
		Entries:             final.Len(),
		Checksum:            Checksum(final),
	}
	if report.SnapshotRegressions > 0 {
		return report, ErrSnapshotVersionRegressed
	}
	return report, nil
}

// Run replays ops against st from cfg.Workers goroutines of an ants pool. Ops
// are partitioned by key, so the final state matches RunSequential on the same
// log while operations on different keys race freely.
func Run(ctx context.Context, st *Store, ops []Op, cfg Config) (Report, error) {
	cfg = cfg.withDefaults()
	r := newReplayer(st, cfg)
	logger := cfg.Logger.WithField("workers", cfg.Workers)

	pool, err := ants.NewPool(cfg.Workers, ants.WithPanicHandler(func(p interface{}) {
		logger.WithField("cause", p).Error("workload worker panic")
	}))
	if err != nil {
		return Report{}, fmt.Errorf("workload: create pool: %w", err)
	}
	defer pool.Release()

	probeDone := make(chan struct{})
	probers, probeCtx := errgroup.WithContext(ctx)
	for i := 0; i < cfg.Probers; i++ {
		probers.Go(func() error {
			return r.probe(probeCtx, probeDone)
		})
	}

	parts := Partition(ops, cfg.Workers)
	errs := make([]error, len(parts))
	var wg sync.WaitGroup

	start := time.Now()
	for i, part := range parts {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			errs[i] = r.replay(ctx, part)
		})
		if err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("workload: submit partition %d: %w", i, err)
		}
	}
	wg.Wait()
	duration := time.Since(start)

	close(probeDone)
	if err := errors.Join(append(errs, probers.Wait())...); err != nil {
		return Report{}, err
	}

	report, err := r.report(duration)
	logger.WithFields(log.Fields{
		"ops":      report.Ops,
		"duration": report.Duration,
		"version":  report.Version,
		"entries":  report.Entries,
	}).Debug("workload replay finished")
	return report, err
}

// RunSequential replays ops in order on the calling goroutine.
func RunSequential(st *Store, ops []Op) (Report, error) {
	r := newReplayer(st, Config{}.withDefaults())

	start := time.Now()
	if err := r.replay(context.Background(), ops); err != nil {
		return Report{}, err
	}
	return r.report(time.Since(start))
}
