package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"diffkit/diff"
)

const defaultConfigFile = ".diffkit.yaml"

// fileConfig holds option defaults loaded from a YAML config file.
// Command-line flags take precedence over config values.
type fileConfig struct {
	Context    int      `yaml:"context"`
	Interhunk  int      `yaml:"interhunk"`
	OldPrefix  string   `yaml:"old_prefix"`
	NewPrefix  string   `yaml:"new_prefix"`
	Attributes string   `yaml:"attributes"`
	Paths      []string `yaml:"paths"`
}

// loadConfig reads the config file at path, or the default config
// file when path is empty. A missing default file is not an error.
func loadConfig(path string) (*fileConfig, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return &fileConfig{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config fileConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return &config, nil
}

// apply fills in option fields the command line left unset.
func (c *fileConfig) apply(opts *diff.Options) {
	if opts.ContextLines == 0 {
		opts.ContextLines = c.Context
	}
	if opts.InterhunkLines == 0 {
		opts.InterhunkLines = c.Interhunk
	}
	if opts.OldPrefix == "" {
		opts.OldPrefix = c.OldPrefix
	}
	if opts.NewPrefix == "" {
		opts.NewPrefix = c.NewPrefix
	}
	if len(opts.Paths) == 0 {
		opts.Paths = c.Paths
	}
}
