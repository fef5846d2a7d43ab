package bench

import (
	"fmt"
	"io"

	"github.com/evilsocket/linbench/fit"
	"github.com/evilsocket/linbench/ops"

	"github.com/evilsocket/islazy/tui"
)

// Series extracts the measured (size, mean) points of an operation on a
// device, skipped records are left out.
func Series(records []Record, op ops.Kind, device string) (sizes, means []float64) {
	for _, r := range records {
		if r.Op != op || r.Device != device {
			continue
		}
		if m, ok := r.Measured(); ok {
			sizes = append(sizes, float64(r.Size))
			means = append(means, m.Mean)
		}
	}
	return
}

// Devices returns the device names found in records in first seen order.
func Devices(records []Record) []string {
	seen := make(map[string]bool)
	devices := make([]string, 0)
	for _, r := range records {
		if !seen[r.Device] {
			seen[r.Device] = true
			devices = append(devices, r.Device)
		}
	}
	return devices
}

// Operations returns the operations found in records in first seen order.
func Operations(records []Record) []ops.Kind {
	seen := make(map[ops.Kind]bool)
	kinds := make([]ops.Kind, 0)
	for _, r := range records {
		if !seen[r.Op] {
			seen[r.Op] = true
			kinds = append(kinds, r.Op)
		}
	}
	return kinds
}

// DeviceFit is the power law fitted on the series of a device.
type DeviceFit struct {
	Op     ops.Kind
	Device string
	Model  fit.PowerLaw
	Err    error
	// MinSize and MaxSize delimit the measured sizes.
	MinSize, MaxSize float64
}

// Fits fits a power law for every device that measured op.
func Fits(records []Record, op ops.Kind) []DeviceFit {
	fits := make([]DeviceFit, 0)
	for _, dev := range Devices(records) {
		sizes, means := Series(records, op, dev)
		if len(sizes) == 0 {
			continue
		}

		df := DeviceFit{Op: op, Device: dev, MinSize: sizes[0], MaxSize: sizes[0]}
		for _, s := range sizes {
			if s < df.MinSize {
				df.MinSize = s
			}
			if s > df.MaxSize {
				df.MaxSize = s
			}
		}
		df.Model, df.Err = fit.Fit(sizes, means)
		fits = append(fits, df)
	}
	return fits
}

// Speedup is the ratio between the mean time of a base device and the one
// of another device at the same size.
type Speedup struct {
	Size  int
	Ratio float64
}

// Compare returns the speedup of other over base for every size measured
// by both devices.
func Compare(records []Record, op ops.Kind, base, other string) []Speedup {
	baseMeans := make(map[int]float64)
	for _, r := range records {
		if r.Op != op || r.Device != base {
			continue
		}
		if m, ok := r.Measured(); ok {
			baseMeans[r.Size] = m.Mean
		}
	}

	speedups := make([]Speedup, 0)
	for _, r := range records {
		if r.Op != op || r.Device != other {
			continue
		}
		m, ok := r.Measured()
		if !ok || m.Mean <= 0 {
			continue
		}
		if b, found := baseMeans[r.Size]; found {
			speedups = append(speedups, Speedup{Size: r.Size, Ratio: b / m.Mean})
		}
	}
	return speedups
}

// Render prints records as a table, one row per record.
func Render(w io.Writer, records []Record) {
	columns := []string{"op", "device", "size", "mean (ms)", "std (ms)", "min (ms)", "max (ms)"}
	rows := [][]string{}

	for _, r := range records {
		row := []string{r.Op.String(), r.Device, fmt.Sprintf("%d", r.Size)}
		if m, ok := r.Measured(); ok {
			row = append(row,
				fmt.Sprintf("%.4f", m.Mean),
				fmt.Sprintf("%.4f", m.Std),
				fmt.Sprintf("%.4f", m.Min),
				fmt.Sprintf("%.4f", m.Max))
		} else {
			row = append(row, tui.Dim("skipped: "+r.Reason()), "", "", "")
		}
		rows = append(rows, row)
	}

	tui.Table(w, columns, rows)
}
