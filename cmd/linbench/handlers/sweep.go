package handlers

import (
	"regexp"

	"github.com/evilsocket/linbench/bench"
	"github.com/evilsocket/linbench/common"
	"github.com/evilsocket/linbench/ops"

	"github.com/chzyer/readline"
)

var sweepHandler = handler{
	Name:        "SWEEP",
	Mnemonic:    "SWEEP or S <OP>",
	Completer:   readline.PcItem("sweep", opItems()...),
	Parser:      regexp.MustCompile(`^(?i)(SWEEP|S)\s+(\w+)$`),
	Description: "Measure <OP> on every configured device and size.",
	Callback: func(cmd string, args []string, reader *readline.Instance, s *Session) error {
		op, err := ops.ParseKind(args[0])
		if err != nil {
			return err
		}

		devices, err := s.Devices()
		if err != nil {
			return err
		}

		runner := s.runner(devices)
		runner.Ops = []ops.Kind{op}

		// a signal interrupts this sweep only, the shell keeps running
		ctx, cancel := common.SetupSignals(s.Ctx)
		defer cancel()

		records, err := runner.Run(ctx)
		s.Records = append(s.Records, records...)
		bench.Render(s.Out, records)

		return err
	},
}
