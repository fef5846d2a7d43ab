package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/evilsocket/linbench/guard"
	"github.com/evilsocket/linbench/ops"

	. "github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(NewViper())
	NoError(t, err)

	Equal(t, []string{"vecadd", "vecdot", "matvec"}, cfg.Ops)
	Equal(t, []string{"cpu", "auto"}, cfg.Devices)
	Equal(t, []int{1 << 16, 1 << 17, 1 << 18, 1 << 19, 1 << 20, 1 << 21, 1 << 22}, cfg.VectorSizes)
	Equal(t, []int{64, 128, 256, 512, 1024, 2048, 4096}, cfg.MatrixSizes)
	Equal(t, 10, cfg.Trials)
	Equal(t, guard.Default(), cfg.Limits())
	Equal(t, ops.All(), cfg.Kinds())
	Equal(t, cfg.MatrixSizes, cfg.SizesFor(ops.MatVec))
	Equal(t, cfg.VectorSizes, cfg.SizesFor(ops.VecDot))
}

func writeConfig(t *testing.T, name, content string) (string, func()) {
	tmpDir, err := ioutil.TempDir("", "linbench-config-")
	NoError(t, err)
	fileName := filepath.Join(tmpDir, name)
	NoError(t, ioutil.WriteFile(fileName, []byte(content), 0644))
	return fileName, func() { os.RemoveAll(tmpDir) }
}

func TestReadYAML(t *testing.T) {
	fileName, cleanup := writeConfig(t, "linbench.yml", `
ops: [matvec]
devices: [naive, accel]
matrix_sizes: [8, 16]
trials: 3
warmup: 1
max_bytes: 1024
`)
	defer cleanup()

	v := NewViper()
	NoError(t, ReadFile(v, fileName))
	cfg, err := Load(v)
	NoError(t, err)

	Equal(t, []ops.Kind{ops.MatVec}, cfg.Kinds())
	Equal(t, []string{"naive", "accel"}, cfg.Devices)
	Equal(t, []int{8, 16}, cfg.MatrixSizes)
	Equal(t, 3, cfg.Trials)
	Equal(t, 1, cfg.Warmup)
	Equal(t, uint64(1024), cfg.Limits().MaxBytes)
}

func TestReadMissingFile(t *testing.T) {
	Error(t, ReadFile(NewViper(), "/not/found.yml"))
	NoError(t, ReadFile(NewViper(), ""))
}

func TestInvalidTrials(t *testing.T) {
	v := NewViper()
	v.Set("trials", 0)
	_, err := Load(v)
	Error(t, err)
	Contains(t, err.Error(), "trials")
}

func TestInvalidSizes(t *testing.T) {
	v := NewViper()
	v.Set("vector_sizes", []int{16, -1})
	_, err := Load(v)
	Error(t, err)
}

func TestUnknownOp(t *testing.T) {
	v := NewViper()
	v.Set("ops", []string{"matmat"})
	_, err := Load(v)
	Error(t, err)
	Contains(t, err.Error(), "matmat")
}

func TestEnvironment(t *testing.T) {
	os.Setenv("LINBENCH_TRIALS", "7")
	defer os.Unsetenv("LINBENCH_TRIALS")

	cfg, err := Load(NewViper())
	NoError(t, err)
	Equal(t, 7, cfg.Trials)
}

func TestZeroBudgetUsesPhysicalMemory(t *testing.T) {
	v := NewViper()
	v.Set("max_bytes", 0)
	cfg, err := Load(v)
	NoError(t, err)
	NotZero(t, cfg.Limits().MaxBytes)
}
