// Package config loads and validates the YAML description of a PageRank run.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config describes one run of the pass driver.
type Config struct {
	// Damping is the probability of following a link rather than jumping.
	Damping float64 `yaml:"damping" validate:"gt=0,lt=1"`
	// Iterations is the number of passes to run.
	Iterations int `yaml:"iterations" validate:"min=1,max=10000"`
	// Partitions is the number of disjoint vertex partitions.
	Partitions int `yaml:"partitions" validate:"min=1,max=4096"`
	// Partitioner assigns vertices to partitions: "mod", "hash" or "range".
	Partitioner string `yaml:"partitioner" validate:"oneof=mod hash range"`
	// Workers caps how many partitions are processed concurrently.
	Workers int `yaml:"workers" validate:"min=1,max=1024"`
	// Compression for pass-boundary record streams: "none" or "snappy".
	Compression string `yaml:"compression" validate:"oneof=none snappy"`
	// PassDir, when set, spills each partition's records to files there
	// instead of keeping them in memory.
	PassDir string `yaml:"pass_dir"`
	// Top is how many ranked vertices a run reports.
	Top int `yaml:"top" validate:"min=0,max=100000"`
	// LogLevel overrides LOG_LEVEL when set.
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their YAML key so errors match the file.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Default returns the configuration used when a key is not set.
func Default() *Config {
	return &Config{
		Damping:     0.85,
		Iterations:  10,
		Partitions:  4,
		Partitioner: "mod",
		Workers:     min(runtime.NumCPU(), 1024),
		Compression: "snappy",
		Top:         10,
	}
}

// Parse overlays the YAML document in data onto Default and validates the
// result. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config cannot be nil")
	}
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors to "field: message" form.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	msgs := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		field, param := e.Field(), e.Param()
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s: field is required", field))
		case "min", "gte":
			msgs = append(msgs, fmt.Sprintf("%s: must be at least %s", field, param))
		case "max", "lte":
			msgs = append(msgs, fmt.Sprintf("%s: must not exceed %s", field, param))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s: must be greater than %s", field, param))
		case "lt":
			msgs = append(msgs, fmt.Sprintf("%s: must be less than %s", field, param))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s: must be one of [%s]", field, param))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: validation failed (%s)", field, e.Tag()))
		}
	}
	return &Error{Problems: msgs}
}

// Error lists every constraint a configuration violates.
type Error struct {
	Problems []string
}

func (e *Error) Error() string {
	return "invalid config: " + strings.Join(e.Problems, "; ")
}
