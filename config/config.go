// Package config holds the settings for a batch run: which folders to visit,
// how much to crop, and how to encode the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// OverflowPolicy decides what happens when the cropped image is taller than it is wide.
type OverflowPolicy string

// Overflow policies
const (
	OverflowCenter OverflowPolicy = "center" // keep the vertically centered square band
	OverflowReject OverflowPolicy = "reject" // fail the file
	OverflowSmart  OverflowPolicy = "smart"  // pick the square band by content
)

// Valid reports whether p is a known policy.
func (p OverflowPolicy) Valid() bool {
	switch p {
	case OverflowCenter, OverflowReject, OverflowSmart:
		return true
	}
	return false
}

// Encoding controls how processed images are written back.
type Encoding struct {
	Lossless bool    `yaml:"lossless"`
	Quality  float32 `yaml:"quality"`
}

// Config struct to hold all configuration data
type Config struct {
	Root        string         `yaml:"root"`
	FirstFolder int            `yaml:"first_folder"`
	LastFolder  int            `yaml:"last_folder"`
	Margin      int            `yaml:"margin"`
	Extension   string         `yaml:"extension"`
	Workers     int            `yaml:"workers"`
	RateLimit   float64        `yaml:"rate_limit"` // files per second, 0 means unlimited
	Overflow    OverflowPolicy `yaml:"overflow"`
	KeepGoing   bool           `yaml:"keep_going"`
	Encoding    Encoding       `yaml:"encoding"`

	// DryRun is only set from the command line.
	DryRun bool `yaml:"-"`
}

// Default returns the configuration that reproduces the classic batch:
// folders 1 through 43 under the working directory, 40px side margins.
func Default() *Config {
	return &Config{
		Root:        ".",
		FirstFolder: DefaultFirstFolder,
		LastFolder:  DefaultLastFolder,
		Margin:      DefaultMargin,
		Extension:   DefaultExtension,
		Workers:     DefaultWorkers,
		Overflow:    OverflowCenter,
		Encoding: Encoding{
			Lossless: true,
			Quality:  DefaultQuality,
		},
	}
}

// Load reads a YAML file on top of the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for values a batch cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Root == "" {
		errs = append(errs, errors.New("root is required"))
	}
	if c.FirstFolder < 0 {
		errs = append(errs, fmt.Errorf("first_folder must not be negative, got %d", c.FirstFolder))
	}
	if c.LastFolder < c.FirstFolder {
		errs = append(errs, fmt.Errorf("last_folder (%d) is before first_folder (%d)", c.LastFolder, c.FirstFolder))
	}
	if c.Margin < 0 {
		errs = append(errs, fmt.Errorf("margin must not be negative, got %d", c.Margin))
	}
	if !strings.HasPrefix(c.Extension, ".") || len(c.Extension) < 2 {
		errs = append(errs, fmt.Errorf("extension must look like .webp, got %q", c.Extension))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if c.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("rate_limit must not be negative, got %g", c.RateLimit))
	}
	if !c.Overflow.Valid() {
		errs = append(errs, fmt.Errorf("unknown overflow policy %q", c.Overflow))
	}
	if c.Encoding.Quality < 0 || c.Encoding.Quality > 100 {
		errs = append(errs, fmt.Errorf("encoding.quality must be within 0-100, got %g", c.Encoding.Quality))
	}
	return errors.Join(errs...)
}

// FolderNames returns the candidate folder names in processing order.
func (c *Config) FolderNames() []string {
	if c.LastFolder < c.FirstFolder {
		return nil
	}
	names := make([]string, 0, c.LastFolder-c.FirstFolder+1)
	for i := c.FirstFolder; i <= c.LastFolder; i++ {
		names = append(names, strconv.Itoa(i))
	}
	return names
}
