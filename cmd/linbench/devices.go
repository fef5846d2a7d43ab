package main

import (
	"os"

	"github.com/evilsocket/linbench/backend"
	"github.com/evilsocket/linbench/cmd/linbench/handlers"

	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Show the available devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		resolved := []*backend.Device{}
		defer func() {
			backend.CloseAll(resolved)
		}()

		return handlers.DevicesTable(os.Stdout, func(name string) (*backend.Device, error) {
			dev, err := backend.Resolve(name)
			if err == nil {
				resolved = append(resolved, dev)
			}
			return dev, err
		})
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
