// Package config loads the wingmix YAML configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/foxhoundv/wingmix/internal/automation"
	"github.com/foxhoundv/wingmix/internal/mixer"
	"github.com/foxhoundv/wingmix/internal/osc"
)

// SupportedMixerTypes lists the consoles this build speaks to.
var SupportedMixerTypes = []string{"WING"}

// Config is the top-level configuration document.
type Config struct {
	Mixer   MixerConfig   `yaml:"mixer"`
	Library LibraryConfig `yaml:"library"`
	Armed   ArmedConfig   `yaml:"armed"`
}

// MixerConfig locates the console.
type MixerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Type string `yaml:"type"`
	// ListenAddr is the local address the recorder binds for incoming
	// OSC parameter messages.
	ListenAddr string `yaml:"listen_addr"`
}

// LibraryConfig locates the automation library database.
type LibraryConfig struct {
	Path string `yaml:"path"`
}

// ArmedConfig is the default armed set, as channel lists per strip type.
type ArmedConfig struct {
	Channels string `yaml:"channels"`
	Buses    string `yaml:"buses"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Mixer: MixerConfig{
			Port:       osc.DefaultPort,
			Type:       "WING",
			ListenAddr: ":2224",
		},
		Library: LibraryConfig{Path: "wingmix.db"},
	}
}

// Load reads and validates the YAML config at path, layered over
// Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values no command could use.
func (c *Config) Validate() error {
	ok := false
	for _, t := range SupportedMixerTypes {
		if c.Mixer.Type == t {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("unsupported mixer type %q (supported: %v)", c.Mixer.Type, SupportedMixerTypes)
	}
	if c.Mixer.Port < 1 || c.Mixer.Port > 65535 {
		return fmt.Errorf("mixer port %d out of range", c.Mixer.Port)
	}
	if c.Library.Path == "" {
		return fmt.Errorf("empty library path")
	}
	if _, err := mixer.ParseChannelList(c.Armed.Channels); err != nil {
		return fmt.Errorf("armed channels: %w", err)
	}
	if _, err := mixer.ParseChannelList(c.Armed.Buses); err != nil {
		return fmt.Errorf("armed buses: %w", err)
	}
	return nil
}

// ArmedRefs expands the configured armed channel lists into strip refs.
func (c *Config) ArmedRefs() ([]mixer.ChannelRef, error) {
	channels, err := mixer.ParseRefs(automation.ChannelTypeChannel, c.Armed.Channels)
	if err != nil {
		return nil, err
	}
	buses, err := mixer.ParseRefs(automation.ChannelTypeBus, c.Armed.Buses)
	if err != nil {
		return nil, err
	}
	return append(channels, buses...), nil
}
