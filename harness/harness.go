/*
Package harness times a zero-argument operation over a number of trials and
reduces the elapsed times to summary statistics.

When a synchronization callback is given it is called once before each
trial, outside of the timed interval, so that work queued earlier (input
uploads, previous launches) does not leak into the measurement, and once
right after the operation, inside the timed interval, so that asynchronous
work issued by the operation is complete before the stop time is read.
*/
package harness

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrInvalidTrials is returned when the requested number of trials is not positive.
var ErrInvalidTrials = errors.New("trials must be a positive integer")

// Operation is the unit of work being timed.
type Operation func() error

// Synchronizer blocks until all outstanding asynchronous work completed.
type Synchronizer func() error

// Summary holds the statistics of a trial set, times in milliseconds.
type Summary struct {
	Mean   float64 `json:"mean_ms"`
	Std    float64 `json:"std_ms"`
	Min    float64 `json:"min_ms"`
	Max    float64 `json:"max_ms"`
	Trials int     `json:"trials"`
}

func (s Summary) String() string {
	return fmt.Sprintf("%.4fms ± %.4fms (n=%d)", s.Mean, s.Std, s.Trials)
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Collect runs op exactly trials times and returns every elapsed time in
// milliseconds. Errors returned by op or sync are returned as they are and
// no samples are returned with them.
func Collect(op Operation, trials int, sync Synchronizer) ([]float64, error) {
	if trials <= 0 {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidTrials, trials)
	}

	samples := make([]float64, trials)
	for i := 0; i < trials; i++ {
		if sync != nil {
			if err := sync(); err != nil {
				return nil, err
			}
		}

		start := time.Now()
		if err := op(); err != nil {
			return nil, err
		}
		if sync != nil {
			if err := sync(); err != nil {
				return nil, err
			}
		}
		samples[i] = milliseconds(time.Since(start))
	}

	return samples, nil
}

// Summarize reduces a trial set to its mean and sample standard deviation.
// A single sample has a standard deviation of exactly zero.
func Summarize(samples []float64) (Summary, error) {
	if len(samples) == 0 {
		return Summary{}, fmt.Errorf("%w (got 0 samples)", ErrInvalidTrials)
	}

	s := Summary{
		Trials: len(samples),
		Min:    floats.Min(samples),
		Max:    floats.Max(samples),
	}

	if s.Trials == 1 {
		s.Mean = samples[0]
	} else {
		s.Mean, s.Std = stat.MeanStdDev(samples, nil)
	}

	return s, nil
}

// Measure runs op exactly trials times and returns the summary of the
// elapsed times.
func Measure(op Operation, trials int, sync Synchronizer) (Summary, error) {
	samples, err := Collect(op, trials, sync)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(samples)
}
