// Package settings loads dmlconv settings from an optional YAML file and
// the environment. Environment values win over the file.
package settings

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfig     = "DMLCONV_CONFIG"
	EnvFormat     = "DMLCONV_FORMAT"
	EnvDuplicates = "DMLCONV_DUPLICATES"
	EnvMaxInput   = "DMLCONV_MAX_INPUT"
	EnvVerbose    = "DMLCONV_VERBOSE"
)

type Settings struct {
	Format     string `yaml:"format"`
	Duplicates string `yaml:"duplicates"`
	Indent     string `yaml:"indent"`
	MaxInput   uint64 `yaml:"max_input_bytes"`
	Verbose    bool   `yaml:"verbose"`
}

// Load reads the file named by DMLCONV_CONFIG, if set, then applies
// environment overrides.
func Load() (Settings, error) {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom is Load with a custom environment lookup.
func LoadFrom(lookup func(string) (string, bool)) (Settings, error) {
	var s Settings

	if path, ok := lookup(EnvConfig); ok && strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return s, errors.Wrapf(err, "could not read settings file %s", path)
		}
		if err := yaml.Unmarshal(b, &s); err != nil {
			return s, errors.Wrapf(err, "could not parse settings file %s", path)
		}
	}

	if v, ok := nonBlank(lookup, EnvFormat); ok {
		s.Format = strings.ToLower(v)
	}

	if v, ok := nonBlank(lookup, EnvDuplicates); ok {
		s.Duplicates = strings.ToLower(v)
	}

	if v, ok := nonBlank(lookup, EnvMaxInput); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return s, errors.Wrapf(err, "%s must be a byte count", EnvMaxInput)
		}
		s.MaxInput = n
	}

	if v, ok := nonBlank(lookup, EnvVerbose); ok {
		switch strings.ToLower(v) {
		case "1", "true", "yes":
			s.Verbose = true
		case "0", "false", "no":
			s.Verbose = false
		default:
			return s, errors.Errorf("%s must be a boolean, got %q", EnvVerbose, v)
		}
	}

	return s, nil
}

func nonBlank(lookup func(string) (string, bool), key string) (string, bool) {
	v, ok := lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}
