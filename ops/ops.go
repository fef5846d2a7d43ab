// Package ops defines the benchmarked linear algebra operations.
package ops

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/evilsocket/linbench/backend"
	"github.com/evilsocket/linbench/harness"
)

// ErrUnknownOp is returned when parsing an operation name nobody defined.
var ErrUnknownOp = errors.New("unknown operation")

// Kind identifies an operation.
type Kind int

const (
	// VecAdd is the element wise sum of two vectors.
	VecAdd Kind = iota
	// VecDot is the dot product of two vectors.
	VecDot
	// MatVec is the product of a square matrix and a vector.
	MatVec
)

var names = map[Kind]string{
	VecAdd: "vecadd",
	VecDot: "vecdot",
	MatVec: "matvec",
}

var descriptions = map[Kind]string{
	VecAdd: "Vector Addition",
	VecDot: "Vector Dot",
	MatVec: "Matrix-Vector Multiplication",
}

// All returns every operation kind.
func All() []Kind {
	return []Kind{VecAdd, VecDot, MatVec}
}

func (k Kind) String() string {
	if name, found := names[k]; found {
		return name
	}
	return fmt.Sprintf("op(%d)", int(k))
}

// Description returns a human readable name of the operation.
func (k Kind) Description() string {
	return descriptions[k]
}

// IsMatrix is true for operations whose size is a matrix dimension.
func (k Kind) IsMatrix() bool {
	return k == MatVec
}

// ParseKind parses an operation name.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range names {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownOp, name)
}

// ParseKinds parses a list of operation names, an empty list means all of them.
func ParseKinds(list []string) ([]Kind, error) {
	if len(list) == 0 {
		return All(), nil
	}

	kinds := make([]Kind, 0, len(list))
	for _, name := range list {
		k, err := ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// Footprint is the number of input elements allocated by the operation
// at dimension n.
func Footprint(k Kind, n int) uint64 {
	un := uint64(n)
	switch k {
	case VecAdd, VecDot:
		return 2 * un
	case MatVec:
		return un*un + un
	}
	return 0
}

// Kernel is a prepared operation bound to its inputs on a backend.
type Kernel struct {
	Kind Kind
	Size int
	// Run issues the operation once.
	Run harness.Operation

	impl backend.Implementation
	out  backend.Vector
}

// Result reads the output of the last run back from the backend.
func (k *Kernel) Result() []float64 {
	return k.impl.Read(k.out)
}

func random(rng *rand.Rand, size int) []float32 {
	data := make([]float32, size)
	for i := range data {
		data[i] = rng.Float32()
	}
	return data
}

// Prepare allocates random inputs of dimension n on impl and binds them
// to a kernel of the given kind.
func Prepare(impl backend.Implementation, k Kind, n int, rng *rand.Rand) (*Kernel, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid size %d for %s", n, k)
	}

	kernel := &Kernel{Kind: k, Size: n, impl: impl}

	switch k {
	case VecAdd:
		a, b := impl.Vector(random(rng, n)), impl.Vector(random(rng, n))
		kernel.out = impl.Zeros(n)
		kernel.Run = func() error {
			return impl.Add(kernel.out, a, b)
		}
	case VecDot:
		a, b := impl.Vector(random(rng, n)), impl.Vector(random(rng, n))
		kernel.out = impl.Zeros(1)
		kernel.Run = func() error {
			return impl.Dot(kernel.out, a, b)
		}
	case MatVec:
		m, x := impl.Matrix(n, n, random(rng, n*n)), impl.Vector(random(rng, n))
		kernel.out = impl.Zeros(n)
		kernel.Run = func() error {
			return impl.MatVec(kernel.out, m, x)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownOp, k)
	}

	return kernel, nil
}
