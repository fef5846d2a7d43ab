package handlers

import (
	"fmt"

	"github.com/evilsocket/linbench/bench"

	"github.com/chzyer/readline"
)

var clearHandler = handler{
	Name:        "CLEAR",
	Mnemonic:    "CLEAR",
	Completer:   readline.PcItem("clear"),
	Description: "Discard every measurement of this session.",
	Callback: func(cmd string, args []string, reader *readline.Instance, s *Session) error {
		fmt.Fprintf(s.Out, "%d records discarded\n", len(s.Records))
		s.Records = make([]bench.Record, 0)
		return nil
	},
}
