package storage

import (
	"encoding/csv"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/evilsocket/linbench/bench"
	"github.com/evilsocket/linbench/fit"
	"github.com/evilsocket/linbench/harness"
	"github.com/evilsocket/linbench/ops"

	. "github.com/stretchr/testify/require"
)

func setupEmptyTmpFolder() (string, error) {
	return ioutil.TempDir("", "linbench-storage-")
}

func measured(dev string, size int, mean, std float64) bench.Record {
	return bench.Record{
		Op:      ops.MatVec,
		Device:  dev,
		Size:    size,
		Outcome: bench.Measured{Summary: harness.Summary{Mean: mean, Std: std, Trials: 10}},
	}
}

var testRecords = []bench.Record{
	measured("cpu", 128, 0.5, 0.01),
	measured("cpu", 64, 0.25, 0.02),
	{Op: ops.MatVec, Device: "cpu", Size: 256, Outcome: bench.Skipped{Reason: "too big"}},
	measured("accel", 64, 0.125, 0),
	measured("accel", 128, 0.2, 0.001),
	measured("accel", 256, 0.4, 0.002),
	{Op: ops.VecDot, Device: "cpu", Size: 64, Outcome: bench.Measured{Summary: harness.Summary{Mean: 9}}},
}

func TestResultsTable(t *testing.T) {
	table := ResultsTable(testRecords, ops.MatVec)
	Equal(t, [][]string{
		{"Size", "CPU_Time_ms", "CPU_Std_ms", "ACCEL_Time_ms", "ACCEL_Std_ms"},
		{"64", "0.25", "0.02", "0.125", "0"},
		{"128", "0.5", "0.01", "0.2", "0.001"},
		{"256", "", "", "0.4", "0.002"},
	}, table)
}

func TestSaveAndLoadResults(t *testing.T) {
	tmpDir, err := setupEmptyTmpFolder()
	NoError(t, err)
	defer os.RemoveAll(tmpDir)

	fileName := ResultsFileName(filepath.Join(tmpDir, "results"), ops.MatVec)
	NoError(t, SaveResults(fileName, testRecords, ops.MatVec))
	FileExists(t, fileName)

	series, err := LoadSeries(fileName)
	NoError(t, err)
	Len(t, series, 2)

	Equal(t, "CPU", series[0].Name)
	Equal(t, []float64{64, 128}, series[0].Sizes)
	Equal(t, []float64{0.25, 0.5}, series[0].Times)

	Equal(t, "ACCEL", series[1].Name)
	Equal(t, []float64{64, 128, 256}, series[1].Sizes)
	Equal(t, []float64{0.125, 0.2, 0.4}, series[1].Times)
}

func writeFile(t *testing.T, dir, name, content string) string {
	fileName := filepath.Join(dir, name)
	NoError(t, ioutil.WriteFile(fileName, []byte(content), 0644))
	return fileName
}

func TestLoadSecondsAreConverted(t *testing.T) {
	tmpDir, err := setupEmptyTmpFolder()
	NoError(t, err)
	defer os.RemoveAll(tmpDir)

	fileName := writeFile(t, tmpDir, "vec_add_results.csv",
		"Size,CPU_Time_s,GPU_Time_s\n65536,0.001,0.002\n131072,0.002,0.0025\n")

	series, err := LoadSeries(fileName)
	NoError(t, err)
	Len(t, series, 2)
	Equal(t, "CPU", series[0].Name)
	InDeltaSlice(t, []float64{1, 2}, series[0].Times, 1e-9)
	Equal(t, "GPU", series[1].Name)
	InDeltaSlice(t, []float64{2, 2.5}, series[1].Times, 1e-9)
}

func TestLoadPIM(t *testing.T) {
	tmpDir, err := setupEmptyTmpFolder()
	NoError(t, err)
	defer os.RemoveAll(tmpDir)

	fileName := writeFile(t, tmpDir, "pim_vec_add.csv",
		"problem size,bl runtime,bl copy time,bs runtime,bs copy time\n"+
			"1024,1.0,0.5,2.0,0.25\n"+
			"2048,2.0,1.0,4.0,0.5\n")

	series, err := LoadSeries(fileName)
	NoError(t, err)
	Len(t, series, 2)
	Equal(t, Series{Name: "BL", Sizes: []float64{1024, 2048}, Times: []float64{1.5, 3}}, series[0])
	Equal(t, Series{Name: "BS", Sizes: []float64{1024, 2048}, Times: []float64{2.25, 4.5}}, series[1])
}

func TestLoadBadFiles(t *testing.T) {
	tmpDir, err := setupEmptyTmpFolder()
	NoError(t, err)
	defer os.RemoveAll(tmpDir)

	_, err = LoadSeries(filepath.Join(tmpDir, "not-found.csv"))
	Error(t, err)

	_, err = LoadSeries(writeFile(t, tmpDir, "empty.csv", "Size,CPU_Time_ms\n"))
	Error(t, err)

	_, err = LoadSeries(writeFile(t, tmpDir, "nosize.csv", "N,CPU_Time_ms\n1,2\n"))
	Error(t, err)

	_, err = LoadSeries(writeFile(t, tmpDir, "notimes.csv", "Size,Other\n1,2\n"))
	Error(t, err)

	_, err = LoadSeries(writeFile(t, tmpDir, "garbage.csv", "Size,CPU_Time_ms\n1,abc\n"))
	Error(t, err)
}

func TestListPath(t *testing.T) {
	tmpDir, err := setupEmptyTmpFolder()
	NoError(t, err)
	defer os.RemoveAll(tmpDir)

	writeFile(t, tmpDir, "b.csv", "")
	writeFile(t, tmpDir, "a.csv", "")
	writeFile(t, tmpDir, "plot.png", "")
	NoError(t, os.Mkdir(filepath.Join(tmpDir, "dir.csv"), 0755))

	dataPath, files, err := ListPath(tmpDir)
	NoError(t, err)
	Equal(t, []string{filepath.Join(dataPath, "a.csv"), filepath.Join(dataPath, "b.csv")}, files)

	_, _, err = ListPath(files[0])
	Error(t, err)
	_, _, err = ListPath("/not/found")
	Error(t, err)
}

func TestSaveCurve(t *testing.T) {
	tmpDir, err := setupEmptyTmpFolder()
	NoError(t, err)
	defer os.RemoveAll(tmpDir)

	fits := []bench.DeviceFit{
		{Device: "cpu", Model: fit.PowerLaw{A: 1, B: 1}, MinSize: 1, MaxSize: 100},
		{Device: "accel", Err: fit.ErrNotEnoughPoints},
	}

	fileName := CurveFileName(tmpDir, ops.VecAdd)
	NoError(t, SaveCurve(fileName, fits, 3))

	f, err := os.Open(fileName)
	NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	NoError(t, err)
	Len(t, rows, 4)
	Equal(t, []string{"Device", "Size", "Fit_Time_ms"}, rows[0])
	for i, expected := range []float64{1, 10, 100} {
		row := rows[i+1]
		Equal(t, "CPU", row[0])
		x, err := strconv.ParseFloat(row[1], 64)
		NoError(t, err)
		y, err := strconv.ParseFloat(row[2], 64)
		NoError(t, err)
		InDelta(t, expected, x, 1e-9)
		InDelta(t, expected, y, 1e-9)
	}
}

func TestLoadCurvePerDevice(t *testing.T) {
	tmpDir, err := setupEmptyTmpFolder()
	NoError(t, err)
	defer os.RemoveAll(tmpDir)

	fits := []bench.DeviceFit{
		{Device: "cpu", Model: fit.PowerLaw{A: 1e-3, B: 1}, MinSize: 16, MaxSize: 4096},
		{Device: "accel", Model: fit.PowerLaw{A: 1e-2, B: 0.5}, MinSize: 16, MaxSize: 4096},
	}

	fileName := CurveFileName(tmpDir, ops.VecDot)
	True(t, IsCurveFile(fileName))
	False(t, IsCurveFile(ResultsFileName(tmpDir, ops.VecDot)))
	NoError(t, SaveCurve(fileName, fits, 5))

	series, err := LoadSeries(fileName)
	NoError(t, err)
	Len(t, series, 2)
	Equal(t, "CPU", series[0].Name)
	Equal(t, "ACCEL", series[1].Name)

	for i, s := range series {
		Len(t, s.Sizes, 5)
		model, err := fit.Fit(s.Sizes, s.Times)
		NoError(t, err)
		InDelta(t, fits[i].Model.B, model.B, 1e-6)
		InDelta(t, 1.0, model.R2, 1e-6)
	}
}
