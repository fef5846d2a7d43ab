// Package guard decides whether a problem size can be benchmarked at all.
package guard

import (
	"fmt"
	"math/bits"

	"github.com/dustin/go-humanize"
	"github.com/pbnjay/memory"
)

const (
	// DefaultMaxDim is the largest problem dimension admitted by default.
	DefaultMaxDim = 1 << 16
	// DefaultMaxBytes is the default budget for the inputs of a single operation.
	DefaultMaxBytes = 4 * 1024 * 1024 * 1024
)

// Limits are the ceilings a problem size is checked against.
type Limits struct {
	MaxDim   int    `json:"max_dim"`
	MaxBytes uint64 `json:"max_bytes"`
}

// Verdict is the outcome of an admissibility check, Reason is empty
// only for admitted sizes.
type Verdict struct {
	Admitted bool
	Reason   string
}

// Default returns the default limits.
func Default() Limits {
	return Limits{
		MaxDim:   DefaultMaxDim,
		MaxBytes: DefaultMaxBytes,
	}
}

// Resolve replaces unset limits: a zero MaxDim becomes DefaultMaxDim and
// a zero MaxBytes becomes the total physical memory of the machine.
func (l Limits) Resolve() Limits {
	if l.MaxDim <= 0 {
		l.MaxDim = DefaultMaxDim
	}
	if l.MaxBytes == 0 {
		if l.MaxBytes = memory.TotalMemory(); l.MaxBytes == 0 {
			l.MaxBytes = DefaultMaxBytes
		}
	}
	return l
}

func (l Limits) String() string {
	return fmt.Sprintf("max_dim=%d max_bytes=%s", l.MaxDim, humanize.IBytes(l.MaxBytes))
}

// Check tells whether an operation of dimension size allocating elems
// elements of width bytes each fits within the limits.
func (l Limits) Check(size int, elems uint64, width int) Verdict {
	if size > 0 && size > l.MaxDim {
		return Verdict{Reason: fmt.Sprintf("dimension %d > max dimension %d", size, l.MaxDim)}
	}
	return l.CheckBudget(size, elems, width)
}

// CheckBudget is Check without the dimension ceiling, for operations whose
// size is a vector length rather than a matrix dimension.
func (l Limits) CheckBudget(size int, elems uint64, width int) Verdict {
	if size <= 0 {
		return Verdict{Reason: fmt.Sprintf("size must be positive, got %d", size)}
	} else if width <= 0 {
		return Verdict{Reason: fmt.Sprintf("element width must be positive, got %d", width)}
	}

	hi, footprint := bits.Mul64(elems, uint64(width))
	if hi != 0 {
		return Verdict{Reason: fmt.Sprintf("footprint of %d elements overflows", elems)}
	} else if footprint > l.MaxBytes {
		return Verdict{Reason: fmt.Sprintf("footprint %s exceeds memory budget %s",
			humanize.IBytes(footprint),
			humanize.IBytes(l.MaxBytes))}
	}

	return Verdict{Admitted: true}
}
