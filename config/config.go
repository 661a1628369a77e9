// Package config - run configuration for pnmtool: which manipulation to
// apply, how to encode the result and how many files to process at once.
package config

import (
	"os"
	"runtime"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/nvr-ai/go-pnm/images"
	"github.com/nvr-ai/go-pnm/images/kernels"
	"github.com/nvr-ai/go-pnm/manip"
)

// Config represents a complete run configuration.
//
// It can be loaded from YAML and is then overridden by command line flags.
type Config struct {
	// Operation is the manipulation name: none, negate, brighten, contrast,
	// grayscale, smooth, sharpen or resize.
	Operation string `json:"operation" yaml:"operation"`

	// Amount is the signed brighten offset.
	Amount int `json:"amount,omitempty" yaml:"amount,omitempty"`

	// Width and Height are the resize target.
	Width  int `json:"width,omitempty"  yaml:"width,omitempty"`
	Height int `json:"height,omitempty" yaml:"height,omitempty"`

	// Output is the raster encoding of the result: ascii or raw.
	Output string `json:"output" yaml:"output"`

	// Edge is the convolution border policy: clamp, mirror or wrap.
	Edge string `json:"edge,omitempty" yaml:"edge,omitempty"`

	// Workers bounds the number of files processed concurrently in batch mode.
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`
}

// Operations lists the accepted operation names.
var Operations = []string{"none", "negate", "brighten", "contrast", "grayscale", "smooth", "sharpen", "resize"}

// Default returns a configuration that re-encodes the input as raw.
func Default() *Config {
	return &Config{
		Operation: "none",
		Output:    "raw",
		Edge:      "clamp",
		Workers:   runtime.NumCPU(),
	}
}

// Load reads a YAML configuration file on top of Default.
//
// Arguments:
// - path: Path to the YAML file.
//
// Returns:
// - *Config: The loaded configuration.
// - error: Error if the file cannot be read, parsed or validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// Validate checks that every field holds an accepted value.
func (c *Config) Validate() error {
	if !lo.Contains(Operations, c.Operation) {
		return errors.Errorf("unknown operation %q, want one of %v", c.Operation, Operations)
	}
	if _, err := images.ParseRasterKind(c.Output); err != nil {
		return errors.Wrap(err, "output")
	}
	if _, err := kernels.ParseEdgeMode(c.Edge); err != nil {
		return errors.Wrap(err, "edge")
	}
	if c.Operation == "resize" && (c.Width <= 0 || c.Height <= 0) {
		return errors.Errorf("resize needs a positive width and height, got %dx%d", c.Width, c.Height)
	}
	if c.Workers < 0 {
		return errors.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// Op converts the configuration into a manipulation.
func (c *Config) Op() (manip.Op, error) {
	kind, err := manip.ParseKind(c.Operation)
	if err != nil {
		return manip.Op{}, errors.WithStack(err)
	}
	edge, err := kernels.ParseEdgeMode(c.Edge)
	if err != nil {
		return manip.Op{}, errors.WithStack(err)
	}
	return manip.Op{
		Kind:   kind,
		Amount: c.Amount,
		Width:  c.Width,
		Height: c.Height,
		Edge:   edge,
	}, nil
}

// RasterKind returns the parsed output encoding.
func (c *Config) RasterKind() (images.RasterKind, error) {
	rk, err := images.ParseRasterKind(c.Output)
	return rk, errors.WithStack(err)
}

// WorkerCount returns Workers, or the number of CPUs when unset.
func (c *Config) WorkerCount() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}
