package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/evilsocket/linbench/cmd/linbench/handlers"

	"github.com/chzyer/readline"
	"github.com/evilsocket/islazy/str"
	"github.com/spf13/cobra"
)

const prompt = "\033[31m»\033[0m "

var (
	evalString = ""
	history    = filepath.Join(os.TempDir(), "linbench.history")
)

// dispatch runs every ;-separated command of line and tells if the
// shell should exit.
func dispatch(line string, reader *readline.Instance, s *handlers.Session) bool {
	for _, cmd := range str.SplitBy(line, ";") {
		if err := handlers.Dispatch(cmd, reader, s); err == handlers.ErrQuit {
			return true
		} else if err != nil {
			fmt.Printf("%s\n", err)
		}
	}
	return false
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive benchmark shell",
	RunE: func(cmd *cobra.Command, args []string) error {
		session := handlers.NewSession(context.Background(), currentConfig)
		defer session.Close()

		if dispatch(evalString, nil, session) {
			return nil
		}

		reader, err := readline.NewEx(&readline.Config{
			Prompt:          fmt.Sprintf("linbench %s", prompt),
			HistoryFile:     history,
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
			AutoComplete:    handlers.Completers,
		})
		if err != nil {
			return err
		}
		defer reader.Close()

		for {
			if line, err := reader.Readline(); err == readline.ErrInterrupt {
				if len(line) == 0 {
					break
				} else {
					continue
				}
			} else if err == io.EOF {
				break
			} else if dispatch(line, reader, session) {
				break
			}
		}

		return nil
	},
}

func init() {
	shellCmd.Flags().StringVar(&evalString, "eval", "", "List of commands to run, divided by a semicolon.")
	rootCmd.AddCommand(shellCmd)
}
