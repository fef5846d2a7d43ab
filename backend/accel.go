package backend

import (
	"sync"

	"gonum.org/v1/gonum/blas/blas32"
)

const defaultQueueDepth = 64

type command func() error

// accel emulates an accelerator command queue: buffers live in their own
// memory, uploads and kernels are executed in FIFO order by a dedicated
// goroutine and the caller only observes completion through Synchronize.
type accel struct {
	kernels blasImpl

	queue   chan command
	pending sync.WaitGroup

	// guards closed and sends on queue
	stateLock sync.Mutex
	closed    bool

	errLock sync.Mutex
	err     error
}

func newAccel(depth int) *accel {
	if depth <= 0 {
		depth = defaultQueueDepth
	}
	a := &accel{
		queue: make(chan command, depth),
	}
	go a.worker()
	return a
}

func (a *accel) worker() {
	for cmd := range a.queue {
		if err := cmd(); err != nil {
			a.errLock.Lock()
			if a.err == nil {
				a.err = err
			}
			a.errLock.Unlock()
		}
		a.pending.Done()
	}
}

// enqueue holds stateLock until the command is queued so that Close can
// not close the queue in between. The worker never takes stateLock, a full
// queue always drains.
func (a *accel) enqueue(cmd command) error {
	a.stateLock.Lock()
	defer a.stateLock.Unlock()

	if a.closed {
		return ErrClosed
	}

	a.pending.Add(1)
	a.queue <- cmd
	return nil
}

func (a *accel) Name() string {
	return "accel"
}

func (a *accel) ElemSize() int {
	return a.kernels.ElemSize()
}

func (a *accel) Space() uint64 {
	return a.kernels.Space()
}

func (a *accel) Async() bool {
	return true
}

// Vector allocates a device buffer and queues the upload of data into it.
func (a *accel) Vector(data []float32) Vector {
	buf := make([]float32, len(data))
	host := data
	_ = a.enqueue(func() error {
		copy(buf, host)
		return nil
	})
	return a.kernels.Vector(buf)
}

func (a *accel) Zeros(size int) Vector {
	return a.kernels.Zeros(size)
}

func (a *accel) Matrix(rows, cols int, data []float32) Matrix {
	buf := make([]float32, len(data))
	host := data
	_ = a.enqueue(func() error {
		copy(buf, host)
		return nil
	})
	return a.kernels.Matrix(rows, cols, buf)
}

func (a *accel) Add(dst, x, y Vector) error {
	return a.enqueue(func() error {
		return a.kernels.Add(dst, x, y)
	})
}

func (a *accel) Dot(dst, x, y Vector) error {
	return a.enqueue(func() error {
		return a.kernels.Dot(dst, x, y)
	})
}

func (a *accel) MatVec(dst Vector, m Matrix, x Vector) error {
	return a.enqueue(func() error {
		return a.kernels.MatVec(dst, m, x)
	})
}

// Read downloads v, waiting for every queued command first.
func (a *accel) Read(v Vector) []float64 {
	a.pending.Wait()
	bv, _ := v.(blas32.Vector)
	return toFloat64(bv.Data)
}

// Synchronize blocks until every queued command completed and returns
// the first error reported by a kernel since the last call.
func (a *accel) Synchronize() error {
	a.pending.Wait()

	a.errLock.Lock()
	defer a.errLock.Unlock()
	err := a.err
	a.err = nil
	return err
}

func (a *accel) Close() error {
	a.stateLock.Lock()
	if a.closed {
		a.stateLock.Unlock()
		return nil
	}
	a.closed = true
	close(a.queue)
	a.stateLock.Unlock()

	a.pending.Wait()
	return nil
}
