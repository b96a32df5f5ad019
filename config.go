package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"gopkg.in/yaml.v2"
)

// Config specifies the capacities of a VM's memories.
// Zero fields take their value from DefaultConfig.
type Config struct {
	MemoryCells uint `yaml:"memory_cells"` // main memory size, in cells
	NameBytes   uint `yaml:"name_bytes"`   // string storage size, in bytes
	StackDepth  uint `yaml:"stack_depth"`  // data stack size, in cells
	Padding     uint `yaml:"padding"`      // cells reserved after the builtin dictionary
}

// DefaultConfig matches the classic FIRST machine.
var DefaultConfig = Config{
	MemoryCells: 20000,
	NameBytes:   5000,
	StackDepth:  500,
	Padding:     512,
}

func (cfg Config) withDefaults() Config {
	if cfg.MemoryCells == 0 {
		cfg.MemoryCells = DefaultConfig.MemoryCells
	}
	if cfg.NameBytes == 0 {
		cfg.NameBytes = DefaultConfig.NameBytes
	}
	if cfg.StackDepth == 0 {
		cfg.StackDepth = DefaultConfig.StackDepth
	}
	if cfg.Padding == 0 {
		cfg.Padding = DefaultConfig.Padding
	}
	return cfg
}

// Validate returns an error if cfg leaves no room for any dictionary.
func (cfg Config) Validate() error {
	cfg = cfg.withDefaults()
	if cfg.MemoryCells <= dictBase {
		return fmt.Errorf("memory_cells must be greater than %v, got %v", dictBase, cfg.MemoryCells)
	}
	if cfg.NameBytes <= nameBase {
		return fmt.Errorf("name_bytes must be greater than %v, got %v", nameBase, cfg.NameBytes)
	}
	if cfg.StackDepth < 2 {
		return fmt.Errorf("stack_depth must be at least 2, got %v", cfg.StackDepth)
	}
	return nil
}

// LoadConfig decodes a YAML Config; unknown fields are an error.
func LoadConfig(r io.Reader) (cfg Config, err error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return cfg, err
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, cfg.Validate()
}

// ReadConfigFile loads a Config from the named YAML file.
func ReadConfigFile(name string) (Config, error) {
	f, err := os.Open(name)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	cfg, err := LoadConfig(f)
	if err != nil {
		return cfg, fmt.Errorf("%v: %w", name, err)
	}
	return cfg, nil
}
