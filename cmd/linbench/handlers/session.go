package handlers

import (
	"context"
	"io"
	"os"

	"github.com/evilsocket/linbench/backend"
	"github.com/evilsocket/linbench/bench"
	"github.com/evilsocket/linbench/config"
)

// Session is the state shared by the shell commands: the configuration,
// the devices resolved so far and every record measured since the last
// clear.
type Session struct {
	Config  *config.Config
	Records []bench.Record
	Out     io.Writer
	Ctx     context.Context

	devices map[string]*backend.Device
}

func NewSession(ctx context.Context, cfg *config.Config) *Session {
	return &Session{
		Config:  cfg,
		Records: make([]bench.Record, 0),
		Out:     os.Stdout,
		Ctx:     ctx,
		devices: make(map[string]*backend.Device),
	}
}

// Device resolves name once and reuses the device afterwards.
func (s *Session) Device(name string) (*backend.Device, error) {
	if dev, found := s.devices[name]; found {
		return dev, nil
	}

	dev, err := backend.Resolve(name)
	if err != nil {
		return nil, err
	}
	// auto may resolve to a device we already have
	if prev, found := s.devices[dev.Name()]; found {
		dev.Close()
		dev = prev
	}
	s.devices[name] = dev
	s.devices[dev.Name()] = dev
	return dev, nil
}

// Devices resolves the configured devices.
func (s *Session) Devices() ([]*backend.Device, error) {
	devices := make([]*backend.Device, 0, len(s.Config.Devices))
	seen := make(map[string]bool)
	for _, name := range s.Config.Devices {
		dev, err := s.Device(name)
		if err != nil {
			return nil, err
		}
		if !seen[dev.Name()] {
			seen[dev.Name()] = true
			devices = append(devices, dev)
		}
	}
	return devices, nil
}

func (s *Session) runner(devices []*backend.Device) *bench.Runner {
	return bench.NewRunner(bench.Config{
		Ops:     s.Config.Kinds(),
		Devices: devices,
		Sizes:   s.Config.SizesFor,
		Trials:  s.Config.Trials,
		Warmup:  s.Config.Warmup,
		Limits:  s.Config.Limits(),
		Seed:    s.Config.Seed,
	})
}

// Close releases every resolved device.
func (s *Session) Close() {
	closed := make(map[*backend.Device]bool)
	for _, dev := range s.devices {
		if !closed[dev] {
			closed[dev] = true
			dev.Close()
		}
	}
	s.devices = make(map[string]*backend.Device)
}
