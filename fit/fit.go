// Package fit estimates power laws of the form time = a * size^b from
// benchmark series, by linear regression in log-log space.
package fit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrNotEnoughPoints is returned when fewer than two usable points are left.
var ErrNotEnoughPoints = errors.New("at least two positive points are needed")

// PowerLaw is the fitted model time = A * size^B.
type PowerLaw struct {
	A  float64 `json:"a"`
	B  float64 `json:"b"`
	R2 float64 `json:"r2"`
	// N is the number of points the model was fitted on.
	N int `json:"n"`
}

// Fit fits a power law to the given series, points with a non positive
// size or time can not be represented in log space and are dropped.
func Fit(sizes, times []float64) (PowerLaw, error) {
	if len(sizes) != len(times) {
		return PowerLaw{}, fmt.Errorf("got %d sizes and %d times", len(sizes), len(times))
	}

	logx := make([]float64, 0, len(sizes))
	logy := make([]float64, 0, len(times))
	for i, x := range sizes {
		y := times[i]
		if x <= 0 || y <= 0 || math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		logx = append(logx, math.Log(x))
		logy = append(logy, math.Log(y))
	}

	if len(logx) < 2 {
		return PowerLaw{}, fmt.Errorf("%w (got %d)", ErrNotEnoughPoints, len(logx))
	} else if floats.Min(logx) == floats.Max(logx) {
		return PowerLaw{}, fmt.Errorf("%w (all points share the same size)", ErrNotEnoughPoints)
	}

	intercept, slope := stat.LinearRegression(logx, logy, nil, false)
	r2 := stat.RSquared(logx, logy, nil, intercept, slope)

	return PowerLaw{
		A:  math.Exp(intercept),
		B:  slope,
		R2: r2,
		N:  len(logx),
	}, nil
}

// Predict evaluates the model at size x.
func (p PowerLaw) Predict(x float64) float64 {
	return p.A * math.Pow(x, p.B)
}

// Curve samples the model at n log spaced sizes between min and max.
func (p PowerLaw) Curve(min, max float64, n int) (xs, ys []float64) {
	if n < 2 || min <= 0 || max <= min {
		return nil, nil
	}

	xs = floats.LogSpan(make([]float64, n), min, max)
	ys = make([]float64, n)
	for i, x := range xs {
		ys[i] = p.Predict(x)
	}
	return xs, ys
}

func (p PowerLaw) String() string {
	return fmt.Sprintf("time = %.3e * n^%.3f (R²=%.3f)", p.A, p.B, p.R2)
}
