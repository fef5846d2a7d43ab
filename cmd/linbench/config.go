package main

import (
	"fmt"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long:  `Show the configuration after defaults, config file, environment (LINBENCH_*) and flags are merged.`,
	Run: func(cmd *cobra.Command, args []string) {
		if file := v.ConfigFileUsed(); file == "" {
			fmt.Println("No config file loaded (using defaults).")
		} else {
			fmt.Printf("Config file: %s\n\n", file)
		}

		pp.Println(currentConfig)
		fmt.Printf("Limits: %s\n", currentConfig.Limits())
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
