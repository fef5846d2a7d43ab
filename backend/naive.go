package backend

import (
	"github.com/pbnjay/memory"
)

type naive struct {
}

type naiveMatrix struct {
	rows, cols int
	data       []float32
}

func (impl naive) Name() string {
	return "naive"
}

func (impl naive) ElemSize() int {
	return 4
}

func (impl naive) Space() uint64 {
	return memory.TotalMemory()
}

func (impl naive) Async() bool {
	return false
}

func (impl naive) Vector(data []float32) Vector {
	return data
}

func (impl naive) Zeros(size int) Vector {
	return make([]float32, size)
}

func (impl naive) Matrix(rows, cols int, data []float32) Matrix {
	return naiveMatrix{rows: rows, cols: cols, data: data}
}

func (impl naive) vectors(vs ...Vector) ([][]float32, error) {
	out := make([][]float32, len(vs))
	for i, v := range vs {
		data, ok := v.([]float32)
		if !ok {
			return nil, typeError(impl, v)
		}
		out[i] = data
	}
	return out, nil
}

func (impl naive) Add(dst, a, b Vector) error {
	vs, err := impl.vectors(dst, a, b)
	if err != nil {
		return err
	}
	d, va, vb := vs[0], vs[1], vs[2]
	if len(va) != len(vb) || len(d) != len(va) {
		return shapeError("add", len(va), len(vb))
	}

	for i, x := range va {
		d[i] = x + vb[i]
	}
	return nil
}

func (impl naive) Dot(dst, a, b Vector) error {
	vs, err := impl.vectors(dst, a, b)
	if err != nil {
		return err
	}
	d, va, vb := vs[0], vs[1], vs[2]
	if len(va) != len(vb) || len(d) != 1 {
		return shapeError("dot", len(va), len(vb))
	}

	dot := float64(0.0)
	for i, x := range va {
		dot += float64(x) * float64(vb[i])
	}
	d[0] = float32(dot)
	return nil
}

func (impl naive) MatVec(dst Vector, m Matrix, x Vector) error {
	mm, ok := m.(naiveMatrix)
	if !ok {
		return typeError(impl, m)
	}
	vs, err := impl.vectors(dst, x)
	if err != nil {
		return err
	}
	d, vx := vs[0], vs[1]
	if len(vx) != mm.cols || len(d) != mm.rows {
		return shapeError("matvec", mm.cols, len(vx))
	}

	for i := 0; i < mm.rows; i++ {
		row := mm.data[i*mm.cols : (i+1)*mm.cols]
		acc := float64(0.0)
		for j, v := range row {
			acc += float64(v) * float64(vx[j])
		}
		d[i] = float32(acc)
	}
	return nil
}

func (impl naive) Read(v Vector) []float64 {
	data, _ := v.([]float32)
	return toFloat64(data)
}

func (impl naive) Synchronize() error {
	return nil
}

func (impl naive) Close() error {
	return nil
}

func toFloat64(data []float32) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v)
	}
	return out
}
