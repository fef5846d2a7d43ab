package bench

import (
	"github.com/evilsocket/linbench/harness"
	"github.com/evilsocket/linbench/ops"
)

// Outcome is either Measured or Skipped.
type Outcome interface {
	isOutcome()
}

// Measured is the outcome of a size that went through the harness.
type Measured struct {
	harness.Summary
}

// Skipped is the outcome of a size rejected by the admissibility guard.
type Skipped struct {
	Reason string
}

func (Measured) isOutcome() {}
func (Skipped) isOutcome()  {}

// Record is the result of one (operation, device, size) combination.
type Record struct {
	Op      ops.Kind
	Device  string
	Size    int
	Outcome Outcome
}

// Measured returns the measurement of the record, if it has one.
func (r Record) Measured() (Measured, bool) {
	m, ok := r.Outcome.(Measured)
	return m, ok
}

// Skipped is true if the guard rejected the record size.
func (r Record) Skipped() bool {
	_, ok := r.Outcome.(Skipped)
	return ok
}

// Reason returns why the record was skipped, or an empty string.
func (r Record) Reason() string {
	if s, ok := r.Outcome.(Skipped); ok {
		return s.Reason
	}
	return ""
}

// Flat is the flattened representation of a record used for reporting.
type Flat struct {
	Operation string  `json:"operation"`
	Device    string  `json:"device"`
	Size      int     `json:"size"`
	Mean      float64 `json:"mean_ms"`
	Std       float64 `json:"std_ms"`
	Skipped   bool    `json:"skipped"`
	Reason    string  `json:"reason,omitempty"`
}

// Flat flattens the record, mean and std are zero for skipped records.
func (r Record) Flat() Flat {
	f := Flat{
		Operation: r.Op.String(),
		Device:    r.Device,
		Size:      r.Size,
	}
	if m, ok := r.Measured(); ok {
		f.Mean = m.Mean
		f.Std = m.Std
	} else {
		f.Skipped = true
		f.Reason = r.Reason()
	}
	return f
}
