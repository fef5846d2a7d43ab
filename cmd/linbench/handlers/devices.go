package handlers

import (
	"fmt"
	"io"
	"regexp"

	"github.com/evilsocket/linbench/backend"

	"github.com/chzyer/readline"
	"github.com/dustin/go-humanize"
	"github.com/evilsocket/islazy/tui"
)

// DevicesTable prints a row for every registered device.
func DevicesTable(w io.Writer, resolve func(string) (*backend.Device, error)) error {
	columns := []string{
		"name",
		"backend",
		"async",
		"element",
		"memory",
	}
	rows := [][]string{}

	for _, name := range backend.Names() {
		dev, err := resolve(name)
		if err != nil {
			rows = append(rows, []string{name, tui.Red(err.Error()), "", "", ""})
			continue
		}
		impl := dev.Impl()
		rows = append(rows, []string{
			dev.Name(),
			dev.Label(),
			fmt.Sprintf("%v", impl.Async()),
			fmt.Sprintf("%d bytes", impl.ElemSize()),
			humanize.IBytes(impl.Space()),
		})
	}

	tui.Table(w, columns, rows)
	return nil
}

var devicesHandler = handler{
	Name:        "DEVICES",
	Mnemonic:    "DEVICES or D",
	Completer:   readline.PcItem("devices"),
	Parser:      regexp.MustCompile(`^(?i)(DEVICES|D)$`),
	Description: "Show the available devices.",
	Callback: func(cmd string, args []string, reader *readline.Instance, s *Session) error {
		return DevicesTable(s.Out, s.Device)
	},
}
