// Package bench sweeps operations over devices and problem sizes, timing
// every admitted combination with the harness.
package bench

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/evilsocket/linbench/backend"
	"github.com/evilsocket/linbench/guard"
	"github.com/evilsocket/linbench/harness"
	"github.com/evilsocket/linbench/ops"

	"github.com/sirupsen/logrus"
)

// MeasureFunc has the signature of harness.Measure.
type MeasureFunc func(op harness.Operation, trials int, sync harness.Synchronizer) (harness.Summary, error)

// Config describes a sweep.
type Config struct {
	Ops     []ops.Kind
	Devices []*backend.Device
	// Sizes returns the problem sizes to sweep for an operation.
	Sizes  func(ops.Kind) []int
	Trials int
	// Warmup runs are executed and discarded before measuring.
	Warmup int
	Limits guard.Limits
	Seed   int64
}

// Runner executes a sweep.
type Runner struct {
	Config
	Measure MeasureFunc
	Log     *logrus.Entry
	// OnRecord, if set, is called after every record.
	OnRecord func(Record)
}

// NewRunner creates a runner timing with harness.Measure.
func NewRunner(cfg Config) *Runner {
	return &Runner{
		Config:  cfg,
		Measure: harness.Measure,
		Log:     logrus.WithField("component", "bench"),
	}
}

// Run sweeps every operation over every device and size. Records are
// returned in op, device, size order. On cancellation the records collected
// so far are returned along with the context error.
func (r *Runner) Run(ctx context.Context) ([]Record, error) {
	if r.Trials <= 0 {
		return nil, fmt.Errorf("%w (got %d)", harness.ErrInvalidTrials, r.Trials)
	}

	records := make([]Record, 0)
	for _, op := range r.Ops {
		for _, dev := range r.Devices {
			for _, size := range r.Sizes(op) {
				if err := ctx.Err(); err != nil {
					return records, err
				}

				rec, err := r.One(op, dev, size)
				if err != nil {
					return records, err
				}
				records = append(records, rec)

				if r.OnRecord != nil {
					r.OnRecord(rec)
				}
			}
		}
	}

	return records, nil
}

// One checks and eventually measures a single combination.
func (r *Runner) One(op ops.Kind, dev *backend.Device, size int) (Record, error) {
	rec := Record{Op: op, Device: dev.Name(), Size: size}
	log := r.Log.WithFields(logrus.Fields{
		"op":     op.String(),
		"device": dev.Name(),
		"size":   size,
	})

	impl := dev.Impl()
	// the dimension ceiling only bounds matrices, vectors are bounded by
	// the memory budget alone
	check := r.Limits.CheckBudget
	if op.IsMatrix() {
		check = r.Limits.Check
	}
	verdict := check(size, ops.Footprint(op, size), impl.ElemSize())
	if !verdict.Admitted {
		log.WithField("reason", verdict.Reason).Debug("skipped")
		rec.Outcome = Skipped{Reason: verdict.Reason}
		return rec, nil
	}

	// inputs depend on the seed and the combination only, never on the
	// order of the sweep
	rng := rand.New(rand.NewSource(r.Seed + int64(size)*31 + int64(op)))
	kernel, err := ops.Prepare(impl, op, size, rng)
	if err != nil {
		return rec, fmt.Errorf("preparing %s on %s at size %d: %w", op, dev.Name(), size, err)
	}

	sync := dev.Synchronizer()
	if r.Warmup > 0 {
		if _, err := r.Measure(kernel.Run, r.Warmup, sync); err != nil {
			return rec, fmt.Errorf("warming up %s on %s at size %d: %w", op, dev.Name(), size, err)
		}
	}

	summary, err := r.Measure(kernel.Run, r.Trials, sync)
	if err != nil {
		return rec, fmt.Errorf("measuring %s on %s at size %d: %w", op, dev.Name(), size, err)
	}

	log.WithFields(logrus.Fields{
		"mean_ms": summary.Mean,
		"std_ms":  summary.Std,
	}).Debug("measured")

	rec.Outcome = Measured{Summary: summary}
	return rec, nil
}
