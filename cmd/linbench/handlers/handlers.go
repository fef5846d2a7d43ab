package handlers

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/chzyer/readline"
)

// ErrQuit is returned by the quit command.
var ErrQuit = errors.New("quit")

type handlerCb func(cmd string, args []string, reader *readline.Instance, s *Session) error

type handler struct {
	Parser      *regexp.Regexp
	Completer   *readline.PrefixCompleter
	Name        string
	Mnemonic    string
	Description string
	Callback    handlerCb
}

var Handlers = []handler{}
var Completers = (*readline.PrefixCompleter)(nil)

func init() {
	Handlers = []handler{
		helpHandler,
		quitHandler,
		devicesHandler,
		// measurements
		runHandler,
		sweepHandler,
		// results
		fitHandler,
		saveHandler,
		clearHandler,
	}

	tmp := []readline.PrefixCompleterInterface{}
	for _, h := range Handlers {
		if h.Completer != nil {
			tmp = append(tmp, h.Completer)
		}
	}
	Completers = readline.NewPrefixCompleter(tmp...)
}

func Dispatch(line string, reader *readline.Instance, s *Session) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	for _, handler := range Handlers {
		cmd := line
		match := false
		args := []string{}

		if handler.Parser != nil {
			if result := handler.Parser.FindStringSubmatch(line); result != nil && len(result) == handler.Parser.NumSubexp()+1 {
				cmd = result[1:][0]
				args = result[1:][1:]
				match = true
			}
		} else if strings.EqualFold(handler.Name, line) {
			match = true
		}

		if match {
			return handler.Callback(cmd, args, reader, s)
		}
	}

	return fmt.Errorf("command not found: %s", line)
}
