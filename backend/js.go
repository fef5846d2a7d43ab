package backend

import (
	"fmt"
	"strconv"

	"github.com/pbnjay/memory"
	"github.com/robertkrimen/otto"
)

const jsKernels = `
function vadd(a, b, n) {
	var c = new Array(n);
	for (var i = 0; i < n; i++) {
		c[i] = a[i] + b[i];
	}
	return c;
}

function vdot(a, b, n) {
	var s = 0.0;
	for (var i = 0; i < n; i++) {
		s += a[i] * b[i];
	}
	return s;
}

function mvmul(m, x, rows, cols) {
	var y = new Array(rows);
	for (var i = 0; i < rows; i++) {
		var s = 0.0, off = i * cols;
		for (var j = 0; j < cols; j++) {
			s += m[off + j] * x[j];
		}
		y[i] = s;
	}
	return y;
}
`

// jsVector holds either host data or the array returned by the last
// kernel that wrote into it.
type jsVector struct {
	data   []float64
	result otto.Value
	dirty  bool
}

type jsMatrix struct {
	rows, cols int
	data       []float64
}

type js struct {
	vm *otto.Otto
}

func newJS() (*js, error) {
	vm := otto.New()
	if _, err := vm.Run(jsKernels); err != nil {
		return nil, fmt.Errorf("error while compiling javascript kernels: %v", err)
	}
	return &js{vm: vm}, nil
}

func (impl *js) Name() string {
	return "js"
}

func (impl *js) ElemSize() int {
	return 8
}

func (impl *js) Space() uint64 {
	return memory.TotalMemory()
}

func (impl *js) Async() bool {
	return false
}

func (impl *js) Vector(data []float32) Vector {
	return &jsVector{data: toFloat64(data)}
}

func (impl *js) Zeros(size int) Vector {
	return &jsVector{data: make([]float64, size)}
}

func (impl *js) Matrix(rows, cols int, data []float32) Matrix {
	return &jsMatrix{rows: rows, cols: cols, data: toFloat64(data)}
}

func (impl *js) vectors(vs ...Vector) ([]*jsVector, error) {
	out := make([]*jsVector, len(vs))
	for i, v := range vs {
		jv, ok := v.(*jsVector)
		if !ok {
			return nil, typeError(impl, v)
		}
		out[i] = jv
	}
	return out, nil
}

func (impl *js) Add(dst, a, b Vector) error {
	vs, err := impl.vectors(dst, a, b)
	if err != nil {
		return err
	}
	d, va, vb := vs[0], vs[1], vs[2]
	if len(va.data) != len(vb.data) || len(d.data) != len(va.data) {
		return shapeError("add", len(va.data), len(vb.data))
	}

	ret, err := impl.vm.Call("vadd", nil, va.data, vb.data, len(va.data))
	if err != nil {
		return err
	}
	d.result, d.dirty = ret, true
	return nil
}

func (impl *js) Dot(dst, a, b Vector) error {
	vs, err := impl.vectors(dst, a, b)
	if err != nil {
		return err
	}
	d, va, vb := vs[0], vs[1], vs[2]
	if len(va.data) != len(vb.data) || len(d.data) != 1 {
		return shapeError("dot", len(va.data), len(vb.data))
	}

	ret, err := impl.vm.Call("vdot", nil, va.data, vb.data, len(va.data))
	if err != nil {
		return err
	}
	dot, err := ret.ToFloat()
	if err != nil {
		return err
	}
	d.data[0], d.dirty = dot, false
	return nil
}

func (impl *js) MatVec(dst Vector, m Matrix, x Vector) error {
	jm, ok := m.(*jsMatrix)
	if !ok {
		return typeError(impl, m)
	}
	vs, err := impl.vectors(dst, x)
	if err != nil {
		return err
	}
	d, vx := vs[0], vs[1]
	if len(vx.data) != jm.cols || len(d.data) != jm.rows {
		return shapeError("matvec", jm.cols, len(vx.data))
	}

	ret, err := impl.vm.Call("mvmul", nil, jm.data, vx.data, jm.rows, jm.cols)
	if err != nil {
		return err
	}
	d.result, d.dirty = ret, true
	return nil
}

// Read copies the javascript array produced by the last kernel, if any,
// back into the host buffer.
func (impl *js) Read(v Vector) []float64 {
	jv, ok := v.(*jsVector)
	if !ok {
		return nil
	}

	if jv.dirty && jv.result.IsObject() {
		obj := jv.result.Object()
		for i := range jv.data {
			if elem, err := obj.Get(strconv.Itoa(i)); err == nil {
				jv.data[i], _ = elem.ToFloat()
			}
		}
		jv.dirty = false
	}

	out := make([]float64, len(jv.data))
	copy(out, jv.data)
	return out
}

func (impl *js) Synchronize() error {
	return nil
}

func (impl *js) Close() error {
	return nil
}
