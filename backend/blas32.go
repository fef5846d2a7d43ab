package backend

import (
	"github.com/pbnjay/memory"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

type blasImpl struct {
}

func (impl blasImpl) Name() string {
	return "blas32"
}

func (impl blasImpl) ElemSize() int {
	return 4
}

func (impl blasImpl) Space() uint64 {
	return memory.TotalMemory()
}

func (impl blasImpl) Async() bool {
	return false
}

func (impl blasImpl) Vector(data []float32) Vector {
	return blas32.Vector{
		N:    len(data),
		Inc:  1,
		Data: data,
	}
}

func (impl blasImpl) Zeros(size int) Vector {
	return impl.Vector(make([]float32, size))
}

func (impl blasImpl) Matrix(rows, cols int, data []float32) Matrix {
	return blas32.General{
		Rows:   rows,
		Cols:   cols,
		Stride: cols,
		Data:   data,
	}
}

func (impl blasImpl) vectors(vs ...Vector) ([]blas32.Vector, error) {
	out := make([]blas32.Vector, len(vs))
	for i, v := range vs {
		bv, ok := v.(blas32.Vector)
		if !ok {
			return nil, typeError(impl, v)
		}
		out[i] = bv
	}
	return out, nil
}

func (impl blasImpl) Add(dst, a, b Vector) error {
	vs, err := impl.vectors(dst, a, b)
	if err != nil {
		return err
	}
	d, va, vb := vs[0], vs[1], vs[2]
	if va.N != vb.N || d.N != va.N {
		return shapeError("add", va.N, vb.N)
	}

	// dst = b; dst += 1 * a
	blas32.Copy(vb, d)
	blas32.Axpy(1, va, d)
	return nil
}

func (impl blasImpl) Dot(dst, a, b Vector) error {
	vs, err := impl.vectors(dst, a, b)
	if err != nil {
		return err
	}
	d, va, vb := vs[0], vs[1], vs[2]
	if va.N != vb.N || d.N != 1 {
		return shapeError("dot", va.N, vb.N)
	}

	d.Data[0] = blas32.Dot(va, vb)
	return nil
}

func (impl blasImpl) MatVec(dst Vector, m Matrix, x Vector) error {
	bm, ok := m.(blas32.General)
	if !ok {
		return typeError(impl, m)
	}
	vs, err := impl.vectors(dst, x)
	if err != nil {
		return err
	}
	d, vx := vs[0], vs[1]
	if vx.N != bm.Cols || d.N != bm.Rows {
		return shapeError("matvec", bm.Cols, vx.N)
	}

	blas32.Gemv(blas.NoTrans, 1, bm, vx, 0, d)
	return nil
}

func (impl blasImpl) Read(v Vector) []float64 {
	bv, _ := v.(blas32.Vector)
	return toFloat64(bv.Data)
}

func (impl blasImpl) Synchronize() error {
	return nil
}

func (impl blasImpl) Close() error {
	return nil
}
