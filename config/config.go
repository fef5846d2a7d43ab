// Package config loads the benchmark configuration from flags, environment
// and an optional configuration file.
package config

import (
	"fmt"
	"strings"

	"github.com/evilsocket/linbench/guard"
	"github.com/evilsocket/linbench/ops"

	"github.com/spf13/viper"
	"github.com/xeipuuv/gojsonschema"
)

// EnvPrefix is the prefix of the environment variables overriding the configuration.
const EnvPrefix = "LINBENCH"

// Config is the effective benchmark configuration.
type Config struct {
	Ops         []string `mapstructure:"ops" json:"ops"`
	Devices     []string `mapstructure:"devices" json:"devices"`
	VectorSizes []int    `mapstructure:"vector_sizes" json:"vector_sizes"`
	MatrixSizes []int    `mapstructure:"matrix_sizes" json:"matrix_sizes"`
	Trials      int      `mapstructure:"trials" json:"trials"`
	Warmup      int      `mapstructure:"warmup" json:"warmup"`
	MaxDim      int      `mapstructure:"max_dim" json:"max_dim"`
	MaxBytes    uint64   `mapstructure:"max_bytes" json:"max_bytes"`
	Seed        int64    `mapstructure:"seed" json:"seed"`
	Output      string   `mapstructure:"output" json:"output"`
	CurvePoints int      `mapstructure:"curve_points" json:"curve_points"`
	Debug       bool     `mapstructure:"debug" json:"debug"`
	LogFile     string   `mapstructure:"log_file" json:"log_file"`
}

func powersOfTwo(from, to uint) []int {
	sizes := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		sizes = append(sizes, 1<<i)
	}
	return sizes
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("ops", []string{"vecadd", "vecdot", "matvec"})
	v.SetDefault("devices", []string{"cpu", "auto"})
	v.SetDefault("vector_sizes", powersOfTwo(16, 22))
	v.SetDefault("matrix_sizes", powersOfTwo(6, 12))
	v.SetDefault("trials", 10)
	v.SetDefault("warmup", 0)
	v.SetDefault("max_dim", guard.DefaultMaxDim)
	v.SetDefault("max_bytes", uint64(guard.DefaultMaxBytes))
	v.SetDefault("seed", 0)
	v.SetDefault("output", "results")
	v.SetDefault("curve_points", 200)
	v.SetDefault("debug", false)
	v.SetDefault("log_file", "")
}

// NewViper creates a viper instance with defaults and environment bindings.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile reads the configuration file at path into v, an empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return nil
}

// Load validates the settings of v and returns the effective configuration.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration against the schema and the known
// operations.
func Validate(cfg *Config) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(cfg))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var errs []string
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, ", "))
	}

	if _, err := ops.ParseKinds(cfg.Ops); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

// Limits returns the resolved admissibility limits.
func (c *Config) Limits() guard.Limits {
	return guard.Limits{MaxDim: c.MaxDim, MaxBytes: c.MaxBytes}.Resolve()
}

// Kinds returns the configured operations.
func (c *Config) Kinds() []ops.Kind {
	kinds, _ := ops.ParseKinds(c.Ops)
	return kinds
}

// SizesFor returns the sizes swept for an operation.
func (c *Config) SizesFor(k ops.Kind) []int {
	if k.IsMatrix() {
		return c.MatrixSizes
	}
	return c.VectorSizes
}
