package main

import (
	"context"
	"fmt"
	"os"

	"github.com/evilsocket/linbench/backend"
	"github.com/evilsocket/linbench/bench"
	"github.com/evilsocket/linbench/cmd/linbench/handlers"
	. "github.com/evilsocket/linbench/common"
	"github.com/evilsocket/linbench/ops"

	"github.com/evilsocket/islazy/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	fitLine     = color.New(color.FgCyan).SprintFunc()
	fasterLine  = color.New(color.FgGreen).SprintFunc()
	slowerLine  = color.New(color.FgRed).SprintFunc()
	skippedLine = color.New(color.FgYellow).SprintFunc()
)

var runCmd = &cobra.Command{
	Use:   "run [op...]",
	Short: "Sweep operations over devices and problem sizes",
	Long: `Time every operation (vecadd, vecdot, matvec, all of them if none is given) on
every configured device for every configured problem size, print the results,
the power law fitted for each device and the speedups over the first device,
then write them as CSV files in the output folder.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := currentConfig

		kinds := cfg.Kinds()
		if len(args) > 0 {
			var err error
			if kinds, err = ops.ParseKinds(args); err != nil {
				return err
			}
		}

		devices, err := backend.ResolveAll(cfg.Devices)
		if err != nil {
			return err
		}
		defer backend.CloseAll(devices)

		ctx, cancel := SetupSignals(context.Background())
		defer cancel()

		limits := cfg.Limits()
		runner := bench.NewRunner(bench.Config{
			Ops:     kinds,
			Devices: devices,
			Sizes:   cfg.SizesFor,
			Trials:  cfg.Trials,
			Warmup:  cfg.Warmup,
			Limits:  limits,
			Seed:    cfg.Seed,
		})
		runner.OnRecord = func(r bench.Record) {
			if m, ok := r.Measured(); ok {
				log.Info("%s on %s at size %d: %s", r.Op, r.Device, r.Size, m.Summary)
			} else {
				log.Warning("%s on %s at size %d %s", r.Op, r.Device, r.Size, skippedLine("skipped: "+r.Reason()))
			}
		}

		log.Info("sweeping %d operations on %v (%d trials, %s)", len(kinds), devices, cfg.Trials, limits)

		records, runErr := runner.Run(ctx)
		if len(records) > 0 {
			report(records, devices)

			saved, err := handlers.Save(cfg.Output, records, cfg.CurvePoints)
			for _, fileName := range saved {
				log.Info("saved %s", fileName)
			}
			if err != nil && runErr == nil {
				runErr = err
			}
		}

		return runErr
	},
}

func report(records []bench.Record, devices []*backend.Device) {
	bench.Render(os.Stdout, records)

	for _, op := range bench.Operations(records) {
		for _, f := range bench.Fits(records, op) {
			if f.Err != nil {
				log.Warning("%s on %s: %v", op, f.Device, f.Err)
				continue
			}
			log.Info("%s on %s: %s", op, f.Device, fitLine(f.Model))
		}

		if len(devices) < 2 {
			continue
		}

		base := devices[0].Name()
		for _, other := range devices[1:] {
			for _, s := range bench.Compare(records, op, base, other.Name()) {
				line := fasterLine
				if s.Ratio < 1.0 {
					line = slowerLine
				}
				log.Info("%s at size %d: %s is %s than %s", op, s.Size, other.Name(), line(speedupString(s.Ratio)), base)
			}
		}
	}
}

func init() {
	flags := runCmd.Flags()

	flags.StringSlice("devices", nil, "Devices to benchmark (auto, cpu, naive, gonum, accel, js).")
	flags.Int("trials", 0, "Timed runs for each size.")
	flags.Int("warmup", 0, "Untimed runs before measuring each size.")
	flags.Int("max-dim", 0, "Largest admitted problem dimension.")
	flags.Uint64("max-bytes", 0, "Memory budget in bytes for the inputs of an operation, 0 for the physical memory.")
	flags.Int64("seed", 0, "Seed of the random inputs.")
	flags.String("output", "", "Folder to write the CSV results to.")
	flags.Int("curve", 0, "Number of points of each fitted curve.")

	for key, name := range map[string]string{
		"devices":      "devices",
		"trials":       "trials",
		"warmup":       "warmup",
		"max_dim":      "max-dim",
		"max_bytes":    "max-bytes",
		"seed":         "seed",
		"output":       "output",
		"curve_points": "curve",
	} {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}

	rootCmd.AddCommand(runCmd)
}

func speedupString(ratio float64) string {
	if ratio >= 1.0 {
		return fmt.Sprintf("%.2fx faster", ratio)
	}
	return fmt.Sprintf("%.2fx slower", 1.0/ratio)
}
