package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/evilsocket/linbench/bench"
	"github.com/evilsocket/linbench/ops"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Flush writes rows to fileName as csv, creating its folder if needed.
func Flush(fileName string, rows [][]string) error {
	if dir := filepath.Dir(fileName); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("Error while creating %s: %s", dir, err)
		}
	}

	f, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("Error while saving %s: %s", fileName, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err = w.WriteAll(rows); err != nil {
		return fmt.Errorf("Error while saving %s: %s", fileName, err)
	}
	return nil
}

// ResultsFileName returns the name of the results file of an operation.
func ResultsFileName(dataPath string, op ops.Kind) string {
	return filepath.Join(dataPath, op.String()+"_results"+CSVFileExt)
}

// CurveFileName returns the name of the fitted curves file of an operation.
func CurveFileName(dataPath string, op ops.Kind) string {
	return filepath.Join(dataPath, op.String()+curveSuffix)
}

// ResultsTable builds the wide table of an operation: a Size column
// followed by a <DEVICE>_Time_ms and a <DEVICE>_Std_ms column per device.
// Skipped records leave their cells empty.
func ResultsTable(records []bench.Record, op ops.Kind) [][]string {
	devices := make([]string, 0)
	seenDevice := make(map[string]int)
	sizes := make([]int, 0)
	seenSize := make(map[int]bool)
	cells := make(map[int]map[string]bench.Record)

	for _, r := range records {
		if r.Op != op {
			continue
		}
		if _, found := seenDevice[r.Device]; !found {
			seenDevice[r.Device] = len(devices)
			devices = append(devices, r.Device)
		}
		if !seenSize[r.Size] {
			seenSize[r.Size] = true
			sizes = append(sizes, r.Size)
			cells[r.Size] = make(map[string]bench.Record)
		}
		cells[r.Size][r.Device] = r
	}
	sort.Ints(sizes)

	header := []string{"Size"}
	for _, dev := range devices {
		name := strings.ToUpper(dev)
		header = append(header, name+msSuffix, name+"_Std_ms")
	}

	table := [][]string{header}
	for _, size := range sizes {
		row := []string{strconv.Itoa(size)}
		for _, dev := range devices {
			r, found := cells[size][dev]
			if m, ok := r.Measured(); found && ok {
				row = append(row, formatFloat(m.Mean), formatFloat(m.Std))
			} else {
				row = append(row, "", "")
			}
		}
		table = append(table, row)
	}
	return table
}

// SaveResults writes the wide results file of an operation.
func SaveResults(fileName string, records []bench.Record, op ops.Kind) error {
	return Flush(fileName, ResultsTable(records, op))
}

// SaveCurve samples every successfully fitted model at n log spaced sizes
// and writes the curves in long format.
func SaveCurve(fileName string, fits []bench.DeviceFit, n int) error {
	rows := [][]string{{"Device", "Size", "Fit_Time_ms"}}
	for _, f := range fits {
		if f.Err != nil {
			continue
		}
		xs, ys := f.Model.Curve(f.MinSize, f.MaxSize, n)
		for i, x := range xs {
			rows = append(rows, []string{strings.ToUpper(f.Device), formatFloat(x), formatFloat(ys[i])})
		}
	}
	return Flush(fileName, rows)
}
