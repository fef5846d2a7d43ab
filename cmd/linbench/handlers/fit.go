package handlers

import (
	"fmt"

	"github.com/evilsocket/linbench/bench"

	"github.com/chzyer/readline"
	"github.com/evilsocket/islazy/tui"
)

var fitHandler = handler{
	Name:        "FIT",
	Mnemonic:    "FIT",
	Completer:   readline.PcItem("fit"),
	Description: "Fit a power law to the measurements of every operation and device.",
	Callback: func(cmd string, args []string, reader *readline.Instance, s *Session) error {
		ops := bench.Operations(s.Records)
		if len(ops) == 0 {
			return fmt.Errorf("no measurements yet")
		}

		columns := []string{"op", "device", "model"}
		rows := [][]string{}
		for _, op := range ops {
			for _, f := range bench.Fits(s.Records, op) {
				model := ""
				if f.Err != nil {
					model = tui.Dim(f.Err.Error())
				} else {
					model = f.Model.String()
				}
				rows = append(rows, []string{op.String(), f.Device, model})
			}
		}

		tui.Table(s.Out, columns, rows)

		return nil
	},
}
