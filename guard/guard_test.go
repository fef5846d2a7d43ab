package guard

import (
	"math"
	"testing"

	. "github.com/stretchr/testify/require"
)

func TestCheckAdmitted(t *testing.T) {
	l := Default()
	v := l.Check(1024, 2*1024, 4)
	True(t, v.Admitted)
	Empty(t, v.Reason)

	v = l.Check(DefaultMaxDim, DefaultMaxDim, 4)
	True(t, v.Admitted)
}

func TestCheckMaxDim(t *testing.T) {
	l := Default()
	v := l.Check(DefaultMaxDim+1, 1, 4)
	False(t, v.Admitted)
	Contains(t, v.Reason, "max dimension")
}

func TestCheckMemoryBudget(t *testing.T) {
	l := Default()
	// 2^16 x 2^16 float32 matrix plus a vector is just over 16GiB
	n := uint64(DefaultMaxDim)
	v := l.Check(DefaultMaxDim, n*n+n, 4)
	False(t, v.Admitted)
	Contains(t, v.Reason, "exceeds memory budget")

	// exactly at the budget is fine
	v = l.Check(1, DefaultMaxBytes/4, 4)
	True(t, v.Admitted)
	v = l.Check(1, DefaultMaxBytes/4+1, 4)
	False(t, v.Admitted)
}

func TestCheckBudgetIgnoresMaxDim(t *testing.T) {
	l := Default()
	size := DefaultMaxDim * 64
	v := l.CheckBudget(size, uint64(2*size), 4)
	True(t, v.Admitted)
	Empty(t, v.Reason)

	False(t, l.Check(size, uint64(2*size), 4).Admitted)

	v = l.CheckBudget(1, DefaultMaxBytes/4+1, 4)
	False(t, v.Admitted)
	Contains(t, v.Reason, "exceeds memory budget")

	for _, size := range []int{0, -1} {
		False(t, l.CheckBudget(size, 1, 4).Admitted)
	}
	False(t, l.CheckBudget(10, 1, 0).Admitted)
}

func TestCheckOverflow(t *testing.T) {
	v := Default().Check(1, math.MaxUint64, 8)
	False(t, v.Admitted)
	NotEmpty(t, v.Reason)
}

func TestCheckInvalidInput(t *testing.T) {
	l := Default()
	for _, size := range []int{0, -1} {
		v := l.Check(size, 1, 4)
		False(t, v.Admitted)
		NotEmpty(t, v.Reason)
	}

	v := l.Check(10, 1, 0)
	False(t, v.Admitted)
	NotEmpty(t, v.Reason)
}

func TestCheckIsDeterministic(t *testing.T) {
	l := Limits{MaxDim: 512, MaxBytes: 1024}
	for _, size := range []int{1, 256, 512, 513} {
		for _, width := range []int{4, 8} {
			a := l.Check(size, uint64(size), width)
			b := l.Check(size, uint64(size), width)
			Equal(t, a, b)
		}
	}
}

func TestResolve(t *testing.T) {
	l := Limits{}.Resolve()
	Equal(t, DefaultMaxDim, l.MaxDim)
	NotZero(t, l.MaxBytes)

	l = Limits{MaxDim: 10, MaxBytes: 20}.Resolve()
	Equal(t, Limits{MaxDim: 10, MaxBytes: 20}, l)
}
