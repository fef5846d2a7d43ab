package backend

import (
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	. "github.com/stretchr/testify/require"
)

func randomData(r *rand.Rand, size int) []float32 {
	data := make([]float32, size)
	for i := range data {
		data[i] = r.Float32()
	}
	return data
}

func allImplementations(t *testing.T) []Implementation {
	impls := []Implementation{naive{}, blasImpl{}, gonum{}, newAccel(4)}
	jsImpl, err := newJS()
	NoError(t, err)
	return append(impls, jsImpl)
}

func TestAdd(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	a, b := randomData(r, 257), randomData(r, 257)
	expected := make([]float64, len(a))
	for i := range a {
		expected[i] = float64(a[i] + b[i])
	}

	for _, impl := range allImplementations(t) {
		dst := impl.Zeros(len(a))
		NoError(t, impl.Add(dst, impl.Vector(a), impl.Vector(b)), impl.Name())
		NoError(t, impl.Synchronize(), impl.Name())
		InDeltaSlice(t, expected, impl.Read(dst), 1e-5, impl.Name())
		NoError(t, impl.Close())
	}
}

func TestDot(t *testing.T) {
	a := []float32{3, 6, 9}
	for _, impl := range allImplementations(t) {
		dst := impl.Zeros(1)
		NoError(t, impl.Dot(dst, impl.Vector(a), impl.Vector(a)), impl.Name())
		NoError(t, impl.Synchronize(), impl.Name())
		InDeltaSlice(t, []float64{126}, impl.Read(dst), 1e-5, impl.Name())
		NoError(t, impl.Close())
	}
}

func TestMatVec(t *testing.T) {
	m := []float32{
		1, 2, 3,
		4, 5, 6,
	}
	x := []float32{1, 0, -1}
	for _, impl := range allImplementations(t) {
		dst := impl.Zeros(2)
		NoError(t, impl.MatVec(dst, impl.Matrix(2, 3, m), impl.Vector(x)), impl.Name())
		NoError(t, impl.Synchronize(), impl.Name())
		InDeltaSlice(t, []float64{-2, -2}, impl.Read(dst), 1e-5, impl.Name())
		NoError(t, impl.Close())
	}
}

func TestMatVecAgainstNaive(t *testing.T) {
	r := rand.New(rand.NewSource(time.Now().Unix()))
	rows, cols := 64, 48
	m, x := randomData(r, rows*cols), randomData(r, cols)

	ref := naive{}
	want := ref.Zeros(rows)
	NoError(t, ref.MatVec(want, ref.Matrix(rows, cols, m), ref.Vector(x)))

	for _, impl := range allImplementations(t) {
		dst := impl.Zeros(rows)
		NoError(t, impl.MatVec(dst, impl.Matrix(rows, cols, m), impl.Vector(x)))
		NoError(t, impl.Synchronize())
		InDeltaSlice(t, ref.Read(want), impl.Read(dst), 1e-3, impl.Name())
		NoError(t, impl.Close())
	}
}

func TestShapeMismatch(t *testing.T) {
	for _, impl := range allImplementations(t) {
		err := impl.Add(impl.Zeros(3), impl.Vector([]float32{1, 2, 3}), impl.Vector([]float32{1, 2}))
		if impl.Async() {
			// kernel errors of asynchronous backends surface on synchronization
			NoError(t, err)
			err = impl.Synchronize()
		}
		True(t, errors.Is(err, ErrShape), impl.Name())

		err = impl.Dot(impl.Zeros(2), impl.Vector([]float32{1}), impl.Vector([]float32{1}))
		if impl.Async() {
			NoError(t, err)
			err = impl.Synchronize()
		}
		True(t, errors.Is(err, ErrShape), impl.Name())
		NoError(t, impl.Close())
	}
}

func TestOperandTypeMismatch(t *testing.T) {
	err := naive{}.Add(naive{}.Zeros(1), blasImpl{}.Vector([]float32{1}), naive{}.Vector([]float32{1}))
	Error(t, err)
	Contains(t, err.Error(), "unexpected operand type")
}

func TestAccelIsAsynchronous(t *testing.T) {
	q := newAccel(2)
	defer q.Close()

	True(t, q.Async())

	block := make(chan struct{})
	NoError(t, q.enqueue(func() error {
		<-block
		return nil
	}))

	dst := q.Zeros(1)
	a := q.Vector([]float32{1, 2})
	// returns while the queue is still blocked
	NoError(t, q.Dot(dst, a, a))

	close(block)
	NoError(t, q.Synchronize())
	InDeltaSlice(t, []float64{5}, q.Read(dst), 1e-6)
}

func TestAccelSynchronizeReportsFirstError(t *testing.T) {
	q := newAccel(4)
	defer q.Close()

	first, second := errors.New("first"), errors.New("second")
	NoError(t, q.enqueue(func() error { return first }))
	NoError(t, q.enqueue(func() error { return second }))
	Equal(t, first, q.Synchronize())
	// errors are cleared once reported
	NoError(t, q.Synchronize())
}

func TestAccelClosed(t *testing.T) {
	q := newAccel(1)
	NoError(t, q.Close())
	NoError(t, q.Close())
	Equal(t, ErrClosed, q.Add(q.Zeros(1), q.Zeros(1), q.Zeros(1)))
}

func TestAccelCloseWhileEnqueueing(t *testing.T) {
	for round := 0; round < 50; round++ {
		q := newAccel(1)
		dst, a := q.Zeros(4), q.Zeros(4)

		var wg sync.WaitGroup
		errs := make(chan error, 8*16)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 16; j++ {
					errs <- q.Add(dst, a, a)
				}
			}()
		}

		NoError(t, q.Close())
		wg.Wait()
		close(errs)

		for err := range errs {
			if err != nil {
				Equal(t, ErrClosed, err)
			}
		}
		Equal(t, ErrClosed, q.Add(dst, a, a))
	}
}

func wrapWithSize(impl Implementation, b *testing.B, size int) {
	data := make([]float32, size)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = impl.Vector(data)
	}
}

func dotWithSize(impl Implementation, b *testing.B, size int) {
	s := rand.NewSource(time.Now().Unix())
	r := rand.New(s)

	va := impl.Vector(randomData(r, size))
	vb := impl.Vector(randomData(r, size))
	dst := impl.Zeros(1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := impl.Dot(dst, va, vb); err != nil {
			b.Fatal(err)
		}
	}
	if err := impl.Synchronize(); err != nil {
		b.Fatal(err)
	}
}

func matVecWithSize(impl Implementation, b *testing.B, size int) {
	r := rand.New(rand.NewSource(time.Now().Unix()))

	m := impl.Matrix(size, size, randomData(r, size*size))
	x := impl.Vector(randomData(r, size))
	dst := impl.Zeros(size)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := impl.MatVec(dst, m, x); err != nil {
			b.Fatal(err)
		}
	}
	if err := impl.Synchronize(); err != nil {
		b.Fatal(err)
	}
}

func BenchmarkBackendNaiveWrap1024(b *testing.B) {
	wrapWithSize(naive{}, b, 1024)
}

func BenchmarkBackendBLAS32Wrap1024(b *testing.B) {
	wrapWithSize(blasImpl{}, b, 1024)
}

func BenchmarkBackendNaiveDot128(b *testing.B) {
	dotWithSize(naive{}, b, 128)
}

func BenchmarkBackendNaiveDot1024(b *testing.B) {
	dotWithSize(naive{}, b, 1024)
}

func BenchmarkBackendBLAS32Dot128(b *testing.B) {
	dotWithSize(blasImpl{}, b, 128)
}

func BenchmarkBackendBLAS32Dot1024(b *testing.B) {
	dotWithSize(blasImpl{}, b, 1024)
}

func BenchmarkBackendGonumDot1024(b *testing.B) {
	dotWithSize(gonum{}, b, 1024)
}

func BenchmarkBackendAccelDot1024(b *testing.B) {
	q := newAccel(defaultQueueDepth)
	defer q.Close()
	dotWithSize(q, b, 1024)
}

func BenchmarkBackendNaiveMatVec256(b *testing.B) {
	matVecWithSize(naive{}, b, 256)
}

func BenchmarkBackendBLAS32MatVec256(b *testing.B) {
	matVecWithSize(blasImpl{}, b, 256)
}

func BenchmarkBackendGonumMatVec256(b *testing.B) {
	matVecWithSize(gonum{}, b, 256)
}
