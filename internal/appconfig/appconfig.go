// Package appconfig is the ambient configuration layer: CLI flags parsed
// with github.com/spf13/pflag, layered over a persisted JSON file.
package appconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
)

// Config is every setting the process needs before it can run discovery
// and the mediator.
type Config struct {
	// InSelector/OutSelector are discovery port selectors (index, "N:M"
	// wire address, or exact name). Empty means "run discovery".
	InSelector  string `json:"in_selector"`
	OutSelector string `json:"out_selector"`

	Channel  uint8         `json:"channel"`
	Settle   time.Duration `json:"settle"`
	LogLevel string        `json:"log_level"`
}

// Default is channel 1, a 1000ms settle window.
func Default() Config {
	return Config{
		Channel:  1,
		Settle:   time.Second,
		LogLevel: "info",
	}
}

func configDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "podctl"), nil
}

// Path returns the persisted config file's location.
func Path() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the persisted config, falling back to Default() if none
// exists yet.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("appconfig: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save persists cfg.
func (c Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Parse overlays command-line flags onto base (typically the result of
// Load()) and returns the effective config, whether --save was passed,
// and any pflag error.
func Parse(base Config, args []string) (cfg Config, save bool, err error) {
	cfg = base
	fs := pflag.NewFlagSet("podctl", pflag.ContinueOnError)

	fs.StringVar(&cfg.InSelector, "in", cfg.InSelector, "MIDI input selector (index, N:M wire address, or exact name); empty runs discovery")
	fs.StringVar(&cfg.OutSelector, "out", cfg.OutSelector, "MIDI output selector; empty runs discovery")
	channel := fs.Uint8P("channel", "c", cfg.Channel, "MIDI channel for outbound Control Change messages")
	settleMS := fs.IntP("settle", "s", int(cfg.Settle/time.Millisecond), "discovery settle window in milliseconds")
	fs.StringVarP(&cfg.LogLevel, "log-level", "l", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.BoolVar(&save, "save", false, "persist the resulting configuration for next launch")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: podctl [flags]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, false, err
	}

	cfg.Channel = *channel
	cfg.Settle = time.Duration(*settleMS) * time.Millisecond
	return cfg, save, nil
}
