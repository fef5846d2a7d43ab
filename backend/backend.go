package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrShape is returned when the operands of a kernel have incompatible sizes.
	ErrShape = errors.New("operands have incompatible shapes")
	// ErrClosed is returned when a kernel is issued on a closed backend.
	ErrClosed = errors.New("backend is closed")
)

// Vector is an opaque interface to whatever the specific backend implementation
// will return as an object wrapper/reference.
type Vector interface{}

// Matrix is the row major counterpart of Vector.
type Matrix interface{}

// Implementation is what each backend must provide. Kernels of asynchronous
// backends may return before the work is done, their results and errors are
// only guaranteed to be available after Synchronize.
type Implementation interface {
	Name() string
	// ElemSize is the width in bytes of a single element.
	ElemSize() int
	// Space is the amount of memory addressable by the backend.
	Space() uint64
	Async() bool

	Vector(data []float32) Vector
	Zeros(size int) Vector
	Matrix(rows, cols int, data []float32) Matrix

	// Add stores a + b into dst.
	Add(dst, a, b Vector) error
	// Dot stores the dot product of a and b into the single element dst.
	Dot(dst, a, b Vector) error
	// MatVec stores m * x into dst.
	MatVec(dst Vector, m Matrix, x Vector) error

	Read(v Vector) []float64

	Synchronize() error
	Close() error
}

func typeError(impl Implementation, v interface{}) error {
	return fmt.Errorf("%s: unexpected operand type %T", impl.Name(), v)
}

func shapeError(op string, a, b int) error {
	return fmt.Errorf("%w: %s(%d, %d)", ErrShape, op, a, b)
}
