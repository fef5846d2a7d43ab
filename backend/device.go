package backend

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/evilsocket/linbench/harness"
)

// Auto is the device name resolving to the best backend available.
const Auto = "auto"

// ErrUnknownDevice is returned when resolving a device name nobody registered.
var ErrUnknownDevice = errors.New("unknown device")

type factory struct {
	label string
	new   func() (Implementation, error)
}

var registry = map[string]factory{
	"cpu": {
		label: "CPU (blas32)",
		new:   func() (Implementation, error) { return blasImpl{}, nil },
	},
	"naive": {
		label: "CPU (naive)",
		new:   func() (Implementation, error) { return naive{}, nil },
	},
	"gonum": {
		label: "CPU (gonum mat)",
		new:   func() (Implementation, error) { return gonum{}, nil },
	},
	"accel": {
		label: "ACCEL (queue)",
		new:   func() (Implementation, error) { return newAccel(defaultQueueDepth), nil },
	},
	"js": {
		label: "JS (otto)",
		new:   func() (Implementation, error) { return newJS() },
	},
}

// order in which auto resolution looks for an asynchronous backend
var preference = []string{"accel", "cpu"}

// Device is the immutable descriptor of a resolved compute device.
type Device struct {
	name  string
	label string
	impl  Implementation
}

// Name returns the name the device was registered with.
func (d *Device) Name() string {
	return d.name
}

// Label returns a human readable description of the device.
func (d *Device) Label() string {
	return d.label
}

// Impl returns the backend running the kernels of this device.
func (d *Device) Impl() Implementation {
	return d.impl
}

// Synchronizer returns the synchronization barrier of the device, or nil if
// the device executes kernels synchronously.
func (d *Device) Synchronizer() harness.Synchronizer {
	if !d.impl.Async() {
		return nil
	}
	return d.impl.Synchronize
}

// Close releases the resources held by the backend.
func (d *Device) Close() error {
	return d.impl.Close()
}

func (d *Device) String() string {
	return fmt.Sprintf("%s (%s)", d.name, d.label)
}

// Names returns the sorted list of registered device names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func create(name string) (*Device, error) {
	f, found := registry[name]
	if !found {
		return nil, fmt.Errorf("%w: %s (available: %s, %s)", ErrUnknownDevice, name, Auto, strings.Join(Names(), ", "))
	}

	impl, err := f.new()
	if err != nil {
		return nil, fmt.Errorf("could not initialize device %s: %v", name, err)
	}

	return &Device{name: name, label: f.label, impl: impl}, nil
}

// Resolve turns a device name into a device, Auto picks the first
// asynchronous backend that can be initialized and falls back to cpu.
func Resolve(name string) (*Device, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name != Auto {
		return create(name)
	}

	for _, candidate := range preference {
		dev, err := create(candidate)
		if err != nil {
			continue
		}
		if dev.impl.Async() {
			return dev, nil
		}
		dev.Close()
	}

	return create("cpu")
}

// ResolveAll resolves every name, closing what was already resolved on error.
func ResolveAll(names []string) ([]*Device, error) {
	devices := make([]*Device, 0, len(names))
	seen := make(map[string]bool)

	for _, name := range names {
		dev, err := Resolve(name)
		if err != nil {
			CloseAll(devices)
			return nil, err
		}
		if seen[dev.name] {
			dev.Close()
			continue
		}
		seen[dev.name] = true
		devices = append(devices, dev)
	}

	return devices, nil
}

// CloseAll closes every device.
func CloseAll(devices []*Device) {
	for _, dev := range devices {
		dev.Close()
	}
}
