package common

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"syscall"

	"github.com/evilsocket/islazy/log"
	"github.com/sirupsen/logrus"
)

var logOutput *os.File

func StartProfiling(cpuProfile string) {
	if cpuProfile == "" {
		return
	}

	if f, err := os.Create(cpuProfile); err != nil {
		log.Fatal("%v", err)
	} else if err := pprof.StartCPUProfile(f); err != nil {
		log.Fatal("%v", err)
	}
}

// SetupSignals returns a context cancelled on the first termination signal,
// handlers run before the cancellation.
func SetupSignals(parent context.Context, handlers ...func(os.Signal)) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)
	go func() {
		select {
		case sig := <-sigChan:
			log.Info("got signal %v", sig)
			for _, handler := range handlers {
				handler(sig)
			}
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()
	return ctx, cancel
}

func DoCleanup(cpuProfile, memProfile string) {
	if cpuProfile != "" {
		log.Info("saving cpu profile to %s ...", cpuProfile)
		pprof.StopCPUProfile()
	}

	if memProfile != "" {
		log.Info("saving memory profile to %s ...", memProfile)
		f, err := os.Create(memProfile)
		if err != nil {
			log.Info("could not create memory profile: %s", err)
			return
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Info("could not write memory profile: %s", err)
		}
	}
}

// SetupLogging configures both the human readable logger and the
// structured one used by the benchmark runner.
func SetupLogging(logFile string, logDebug bool) error {
	log.OnFatal = log.ExitOnFatal
	log.Output = logFile
	if logFile != "" {

		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		logOutput = f
		logrus.SetOutput(f)
	}

	if logDebug {
		log.Level = log.DEBUG
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		log.Level = log.INFO
		logrus.SetLevel(logrus.InfoLevel)
	}

	return log.Open()
}

func TeardownLogging() {
	log.Close()
	if logOutput != nil {
		logrus.SetOutput(os.Stderr)
		logOutput.Close()
		logOutput = nil
	}
}
