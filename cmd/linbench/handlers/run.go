package handlers

import (
	"regexp"
	"strconv"

	"github.com/evilsocket/linbench/bench"
	"github.com/evilsocket/linbench/ops"

	"github.com/chzyer/readline"
)

var runHandler = handler{
	Name:        "RUN",
	Mnemonic:    "RUN or R <OP> <DEVICE> <SIZE> [TRIALS]",
	Completer:   readline.PcItem("run", opItems()...),
	Parser:      regexp.MustCompile(`^(?i)(RUN|R)\s+(\w+)\s+(\w+)\s+(\d+)(?:\s+(\d+))?$`),
	Description: "Measure <OP> on <DEVICE> at problem size <SIZE>, optionally with [TRIALS] trials.",
	Callback: func(cmd string, args []string, reader *readline.Instance, s *Session) error {
		op, err := ops.ParseKind(args[0])
		if err != nil {
			return err
		}

		dev, err := s.Device(args[1])
		if err != nil {
			return err
		}

		size, err := strconv.Atoi(args[2])
		if err != nil {
			return err
		}

		runner := s.runner(nil)
		if args[3] != "" {
			if runner.Trials, err = strconv.Atoi(args[3]); err != nil {
				return err
			}
		}

		rec, err := runner.One(op, dev, size)
		if err != nil {
			return err
		}

		s.Records = append(s.Records, rec)
		bench.Render(s.Out, []bench.Record{rec})

		return nil
	},
}

func opItems() []readline.PrefixCompleterInterface {
	items := []readline.PrefixCompleterInterface{}
	for _, k := range ops.All() {
		items = append(items, readline.PcItem(k.String()))
	}
	return items
}
