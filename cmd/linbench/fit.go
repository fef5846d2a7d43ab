package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/evilsocket/linbench/fit"
	"github.com/evilsocket/linbench/storage"

	"github.com/evilsocket/islazy/log"
	"github.com/evilsocket/islazy/tui"
	"github.com/spf13/cobra"
)

// csvFiles expands every folder in paths to the result files it contains.
func csvFiles(paths []string) ([]string, error) {
	files := []string{}
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		_, found, err := storage.ListPath(path)
		if err != nil {
			return nil, err
		}
		log.Debug("found %d files in %s", len(found), path)
		for _, fileName := range found {
			// curves are derived from the results next to them
			if storage.IsCurveFile(fileName) {
				continue
			}
			files = append(files, fileName)
		}
	}
	return files, nil
}

// fitRows fits every series of every file, a row per series.
func fitRows(files []string) ([][]string, error) {
	rows := [][]string{}
	for _, fileName := range files {
		series, err := storage.LoadSeries(fileName)
		if err != nil {
			return nil, err
		}

		for _, s := range series {
			model, err := fit.Fit(s.Sizes, s.Times)
			result := ""
			if err != nil {
				result = tui.Dim(err.Error())
			} else {
				result = fitLine(model)
			}
			rows = append(rows, []string{
				filepath.Base(fileName),
				s.Name,
				fmt.Sprintf("%d", len(s.Sizes)),
				result,
			})
		}
	}
	return rows, nil
}

var fitCmd = &cobra.Command{
	Use:   "fit <csv or folder>...",
	Short: "Fit a power law to previously saved results",
	Long: `Load result files written by the run command, or PIM style files with a
"problem size" column and "<x> runtime" / "<x> copy time" columns, and print
the power law time = a * n^b fitted on each series.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := csvFiles(args)
		if err != nil {
			return err
		}

		rows, err := fitRows(files)
		if err != nil {
			return err
		}

		tui.Table(os.Stdout, []string{"file", "series", "points", "model"}, rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fitCmd)
}
