package dml

import (
	"github.com/pbnjay/memory"
	"github.com/pkg/errors"
)

const fallbackMaxInputBytes uint64 = 1 << 30

const defaultIndent = "  "

type DuplicatePolicy string
type TreeFormat string

const (
	ReplaceDuplicates DuplicatePolicy = "replace"
	RejectDuplicates  DuplicatePolicy = "reject"
)

const (
	XML  TreeFormat = "xml"
	JSON TreeFormat = "json"
)

// Logger receives diagnostics that do not abort a conversion.
type Logger interface {
	Printf(format string, v ...interface{})
}

type nullLogger struct{}

func (nullLogger) Printf(string, ...interface{}) {}

type Config struct {
	Duplicates    DuplicatePolicy
	TreeFormat    TreeFormat
	Indent        string
	MaxInputBytes uint64
	Logger        Logger
}

func DefaultConfig() *Config {
	cfg := &Config{}
	_ = cfg.normalize()
	return cfg
}

func (cfg *Config) normalize() error {
	switch cfg.Duplicates {
	case "":
		cfg.Duplicates = ReplaceDuplicates
	case ReplaceDuplicates, RejectDuplicates:
	default:
		return errors.Errorf("unknown duplicate table policy %q", cfg.Duplicates)
	}

	switch cfg.TreeFormat {
	case "":
		cfg.TreeFormat = XML
	case XML, JSON:
	default:
		return errors.Errorf("unknown tree format %q", cfg.TreeFormat)
	}

	if cfg.Indent == "" {
		cfg.Indent = defaultIndent
	}

	if cfg.MaxInputBytes == 0 {
		cfg.MaxInputBytes = memory.TotalMemory() / 4
		if cfg.MaxInputBytes == 0 {
			cfg.MaxInputBytes = fallbackMaxInputBytes
		}
	}

	if cfg.Logger == nil {
		cfg.Logger = nullLogger{}
	}

	return nil
}

func resolveConfig(cfg *Config) (*Config, error) {
	if cfg == nil {
		return DefaultConfig(), nil
	}
	cp := *cfg
	if err := cp.normalize(); err != nil {
		return nil, err
	}
	return &cp, nil
}
