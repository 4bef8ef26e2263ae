package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug            = "debug"
	ConfigTTSizeLog2       = "tt-size-log2"
	ConfigTTMemoryFraction = "tt-memory-fraction"
	ConfigThreads          = "threads"
	ConfigWeak             = "weak"
	ConfigBenchDir         = "bench-dir"
	ConfigResultsDB        = "results-db"
	ConfigPerCaseOutput    = "per-case-output"
	ConfigCPUProfile       = "cpu-profile"
	ConfigMemProfile       = "mem-profile"
)

const (
	MinTTSizeLog2 = 16
	MaxTTSizeLog2 = 27
)

var ErrBadSetting = errors.New("bad setting")

// Config wraps a viper instance. Settings come, in order of precedence,
// from command-line flags, C4_* environment variables, a config.yaml in
// the working directory, and the defaults below.
type Config struct {
	*viper.Viper
	args []string
}

func defaults() map[string]any {
	return map[string]any{
		ConfigDebug:            false,
		ConfigTTSizeLog2:       23,
		ConfigTTMemoryFraction: 0.0,
		ConfigThreads:          max(1, runtime.NumCPU()-1),
		ConfigWeak:             false,
		ConfigBenchDir:         "./data/bench",
		ConfigResultsDB:        "./data/results.db",
		ConfigPerCaseOutput:    false,
		ConfigCPUProfile:       "",
		ConfigMemProfile:       "",
	}
}

// DefaultConfig returns a config holding only the defaults. It reads no
// flags, environment or files.
func DefaultConfig() Config {
	c := Config{Viper: viper.New()}
	for k, v := range defaults() {
		c.SetDefault(k, v)
	}
	return c
}

func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	d := defaults()
	for k, v := range d {
		c.SetDefault(k, v)
	}

	fs := pflag.NewFlagSet("connectfour", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Int(ConfigTTSizeLog2, d[ConfigTTSizeLog2].(int), "log2 of the transposition table slot count")
	fs.Float64(ConfigTTMemoryFraction, 0, "size the transposition table to this fraction of system memory instead (0 to disable)")
	fs.Int(ConfigThreads, d[ConfigThreads].(int), "number of benchmark workers")
	fs.Bool(ConfigWeak, false, "only distinguish wins, draws and losses")
	fs.String(ConfigBenchDir, d[ConfigBenchDir].(string), "directory holding benchmark files")
	fs.String(ConfigResultsDB, d[ConfigResultsDB].(string), "sqlite file recording benchmark runs")
	fs.Bool(ConfigPerCaseOutput, false, "print every benchmark case")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	fs.String(ConfigMemProfile, "", "write a memory profile to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()

	c.SetEnvPrefix("C4")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	c.SetConfigName("config")
	c.SetConfigType("yaml")
	c.AddConfigPath(".")
	if err := c.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	return c.validate()
}

func (c *Config) validate() error {
	if n := c.GetInt(ConfigTTSizeLog2); n < MinTTSizeLog2 || n > MaxTTSizeLog2 {
		return fmt.Errorf("%w: %s must be between %d and %d, got %d",
			ErrBadSetting, ConfigTTSizeLog2, MinTTSizeLog2, MaxTTSizeLog2, n)
	}
	if f := c.GetFloat64(ConfigTTMemoryFraction); f < 0 || f >= 1 {
		return fmt.Errorf("%w: %s must be in [0, 1), got %v", ErrBadSetting, ConfigTTMemoryFraction, f)
	}
	if n := c.GetInt(ConfigThreads); n < 1 {
		return fmt.Errorf("%w: %s must be positive, got %d", ErrBadSetting, ConfigThreads, n)
	}
	return nil
}

// Args returns the positional arguments left over after flag parsing.
func (c *Config) Args() []string {
	return c.args
}

// AdjustRelativePaths makes the data paths absolute, relative to basePath,
// so the binaries can be started from any directory.
func (c *Config) AdjustRelativePaths(basePath string) {
	for _, key := range []string{ConfigBenchDir, ConfigResultsDB} {
		p := c.GetString(key)
		if p == "" || filepath.IsAbs(p) {
			continue
		}
		c.Set(key, filepath.Join(basePath, p))
	}
}

// SanitizedSettings returns the settings that are set to something other
// than their zero value, for logging.
func (c *Config) SanitizedSettings() map[string]any {
	out := map[string]any{}
	for k, v := range c.AllSettings() {
		switch t := v.(type) {
		case string:
			if t == "" {
				continue
			}
		case bool:
			if !t {
				continue
			}
		}
		out[k] = v
	}
	return out
}
