package backend

import (
	"github.com/pbnjay/memory"
	"gonum.org/v1/gonum/mat"
)

type gonum struct {
}

func (impl gonum) Name() string {
	return "gonum"
}

func (impl gonum) ElemSize() int {
	return 8
}

func (impl gonum) Space() uint64 {
	return memory.TotalMemory()
}

func (impl gonum) Async() bool {
	return false
}

func (impl gonum) Vector(data []float32) Vector {
	return mat.NewVecDense(len(data), toFloat64(data))
}

func (impl gonum) Zeros(size int) Vector {
	return mat.NewVecDense(size, nil)
}

func (impl gonum) Matrix(rows, cols int, data []float32) Matrix {
	return mat.NewDense(rows, cols, toFloat64(data))
}

func (impl gonum) vectors(vs ...Vector) ([]*mat.VecDense, error) {
	out := make([]*mat.VecDense, len(vs))
	for i, v := range vs {
		vd, ok := v.(*mat.VecDense)
		if !ok {
			return nil, typeError(impl, v)
		}
		out[i] = vd
	}
	return out, nil
}

func (impl gonum) Add(dst, a, b Vector) error {
	vs, err := impl.vectors(dst, a, b)
	if err != nil {
		return err
	}
	d, va, vb := vs[0], vs[1], vs[2]
	if va.Len() != vb.Len() || d.Len() != va.Len() {
		return shapeError("add", va.Len(), vb.Len())
	}

	d.AddVec(va, vb)
	return nil
}

func (impl gonum) Dot(dst, a, b Vector) error {
	vs, err := impl.vectors(dst, a, b)
	if err != nil {
		return err
	}
	d, va, vb := vs[0], vs[1], vs[2]
	if va.Len() != vb.Len() || d.Len() != 1 {
		return shapeError("dot", va.Len(), vb.Len())
	}

	d.SetVec(0, mat.Dot(va, vb))
	return nil
}

func (impl gonum) MatVec(dst Vector, m Matrix, x Vector) error {
	dm, ok := m.(*mat.Dense)
	if !ok {
		return typeError(impl, m)
	}
	vs, err := impl.vectors(dst, x)
	if err != nil {
		return err
	}
	d, vx := vs[0], vs[1]
	rows, cols := dm.Dims()
	if vx.Len() != cols || d.Len() != rows {
		return shapeError("matvec", cols, vx.Len())
	}

	d.MulVec(dm, vx)
	return nil
}

func (impl gonum) Read(v Vector) []float64 {
	vd, ok := v.(*mat.VecDense)
	if !ok {
		return nil
	}
	return mat.Col(nil, 0, vd)
}

func (impl gonum) Synchronize() error {
	return nil
}

func (impl gonum) Close() error {
	return nil
}
