package main

import (
	"fmt"
	"os"

	. "github.com/evilsocket/linbench/common"
	"github.com/evilsocket/linbench/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	cpuProfile string
	memProfile string

	v             = config.NewViper()
	currentConfig *config.Config

	loggingUp   = false
	profilingUp = false
)

var rootCmd = &cobra.Command{
	Use:           "linbench",
	Short:         "linbench: timing and scaling analysis of linear algebra kernels across devices",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ReadFile(v, cfgFile); err != nil {
			return err
		}

		cfg, err := config.Load(v)
		if err != nil {
			return err
		}
		currentConfig = cfg

		if err := SetupLogging(cfg.LogFile, cfg.Debug); err != nil {
			return fmt.Errorf("could not setup logging: %w", err)
		}
		loggingUp = true

		if cpuProfile != "" {
			StartProfiling(cpuProfile)
			profilingUp = true
		}

		return nil
	},
}

func Execute() {
	err := rootCmd.Execute()

	if profilingUp || memProfile != "" {
		DoCleanup(cpuProfileIf(profilingUp), memProfile)
	}
	if loggingUp {
		TeardownLogging()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func cpuProfileIf(started bool) string {
	if started {
		return cpuProfile
	}
	return ""
}

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVarP(&cfgFile, "config", "c", "", "config file (YAML, JSON or TOML)")
	flags.StringVar(&cpuProfile, "cpu-profile", "", "Write CPU profile to this file.")
	flags.StringVar(&memProfile, "mem-profile", "", "Write memory profile to this file.")
	flags.Bool("debug", false, "Enable debug logs.")
	flags.String("log-file", "", "If filled, linbench will log to this file.")

	// flags override environment and config file
	_ = v.BindPFlag("debug", flags.Lookup("debug"))
	_ = v.BindPFlag("log_file", flags.Lookup("log-file"))
}
