package handlers

import (
	"fmt"
	"regexp"

	"github.com/evilsocket/linbench/bench"
	"github.com/evilsocket/linbench/storage"

	"github.com/chzyer/readline"
)

// Save writes the results and the fitted curves of every operation found
// in records to folder.
func Save(folder string, records []bench.Record, curvePoints int) ([]string, error) {
	saved := []string{}
	for _, op := range bench.Operations(records) {
		fileName := storage.ResultsFileName(folder, op)
		if err := storage.SaveResults(fileName, records, op); err != nil {
			return saved, err
		}
		saved = append(saved, fileName)

		fits := bench.Fits(records, op)
		fitted := 0
		for _, f := range fits {
			if f.Err == nil {
				fitted++
			}
		}
		if fitted == 0 {
			continue
		}

		fileName = storage.CurveFileName(folder, op)
		if err := storage.SaveCurve(fileName, fits, curvePoints); err != nil {
			return saved, err
		}
		saved = append(saved, fileName)
	}
	return saved, nil
}

var saveHandler = handler{
	Name:        "SAVE",
	Mnemonic:    "SAVE <FOLDER>",
	Completer:   readline.PcItem("save"),
	Parser:      regexp.MustCompile(`^(?i)(SAVE)\s+(.+)$`),
	Description: "Write the results and fitted curves of every operation as CSV files in <FOLDER>.",
	Callback: func(cmd string, args []string, reader *readline.Instance, s *Session) error {
		if len(s.Records) == 0 {
			return fmt.Errorf("no measurements yet")
		}

		saved, err := Save(args[0], s.Records, s.Config.CurvePoints)
		for _, fileName := range saved {
			fmt.Fprintf(s.Out, "saved %s\n", fileName)
		}
		return err
	},
}
