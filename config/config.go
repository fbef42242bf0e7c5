// Package config gathers the run configuration of the interpreter from
// defaults, an optional YAML file, the environment and the command line.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/synvm/core"
	"github.com/sarchlab/synvm/program"
)

// Environment variables that override file settings.
const (
	EnvImage     = "SYNVM_IMAGE"
	EnvLogLevel  = "SYNVM_LOG_LEVEL"
	EnvTraceFile = "SYNVM_TRACE_FILE"
	EnvFreqMHz   = "SYNVM_FREQ_MHZ"
)

// ErrUsage is returned when the command line cannot be parsed.
var ErrUsage = errors.New("usage")

// Config is the run configuration.
type Config struct {
	ImagePath string `yaml:"image"`
	LogLevel  string `yaml:"log_level"`

	// TraceFile receives JSON log records when set.
	TraceFile string `yaml:"trace_file"`

	// Monitor starts the akita monitoring server.
	Monitor bool `yaml:"monitor"`
	FreqMHz int  `yaml:"freq_mhz"`
}

// Default returns the configuration used when nothing else is given.
func Default() Config {
	return Config{
		ImagePath: program.DefaultImage,
		LogLevel:  "warn",
		FreqMHz:   1000,
	}
}

// LoadFile overlays the settings of a YAML file on cfg. Keys missing from
// the file keep their value.
func (cfg Config) LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overlays the SYNVM_* environment variables on cfg. Empty
// variables are ignored.
func (cfg Config) ApplyEnv(getenv func(string) string) (Config, error) {
	if v := getenv(EnvImage); v != "" {
		cfg.ImagePath = v
	}

	if v := getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}

	if v := getenv(EnvTraceFile); v != "" {
		cfg.TraceFile = v
	}

	if v := getenv(EnvFreqMHz); v != "" {
		mhz, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvFreqMHz, err)
		}
		cfg.FreqMHz = mhz
	}

	return cfg, nil
}

// Parse builds the configuration for a command line. Precedence, lowest
// first: defaults, the -config file, the environment, flags, and the
// positional image argument.
func Parse(args []string, getenv func(string) string) (Config, error) {
	fs := flag.NewFlagSet("synvm", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	configPath := fs.String("config", "", "YAML configuration file")
	logLevel := fs.String("log-level", "", "trace, debug, info, warn or error")
	trace := fs.String("trace", "", "write JSON log records to this file")
	monitor := fs.Bool("monitor", false, "start the akita monitoring server")

	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	if fs.NArg() > 1 {
		return Config{}, fmt.Errorf("%w: at most one image, got %d",
			ErrUsage, fs.NArg())
	}

	cfg := Default()

	var err error
	if *configPath != "" {
		cfg, err = cfg.LoadFile(*configPath)
		if err != nil {
			return cfg, err
		}
	}

	cfg, err = cfg.ApplyEnv(getenv)
	if err != nil {
		return cfg, err
	}

	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	if *trace != "" {
		cfg.TraceFile = *trace
	}

	if *monitor {
		cfg.Monitor = true
	}

	if fs.NArg() == 1 {
		cfg.ImagePath = fs.Arg(0)
	}

	if _, err := cfg.SlogLevel(); err != nil {
		return cfg, err
	}

	if cfg.FreqMHz <= 0 {
		return cfg, fmt.Errorf("frequency must be positive, got %d MHz",
			cfg.FreqMHz)
	}

	return cfg, nil
}

// SlogLevel maps the configured log level name to a slog level.
func (cfg Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(cfg.LogLevel) {
	case "trace":
		return core.LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}
}
