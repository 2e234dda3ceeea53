package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"vectai/native/common"
)

// Config is the daemon configuration loaded from TOML.
type Config struct {
	ListenAddress string `toml:"ListenAddress"`
	DataDir       string `toml:"DataDir"`
	Environment   string `toml:"Environment"`
	AdminAddress  string `toml:"AdminAddress"`

	Oracle Oracle `toml:"Oracle"`
	Trader Trader `toml:"Trader"`
	Pauses Pauses `toml:"Pauses"`
	Venue  Venue  `toml:"Venue"`
}

// Oracle carries the price source and validation guardrails.
type Oracle struct {
	FeedID           string `toml:"FeedID"`
	Endpoint         string `toml:"Endpoint"`
	MaxAgeSeconds    uint64 `toml:"MaxAgeSeconds"`
	MaxConfidenceBps uint64 `toml:"MaxConfidenceBps"`
}

// Trader carries the executor limits.
type Trader struct {
	CooldownSeconds uint64 `toml:"CooldownSeconds"`
}

// Pauses lists the modules disabled at startup. It satisfies the pause view
// consumed by the engines.
type Pauses struct {
	Trader bool `toml:"Trader"`
	Token  bool `toml:"Token"`
}

// IsPaused reports whether the named module is paused.
func (p Pauses) IsPaused(module string) bool {
	switch module {
	case "trader":
		return p.Trader
	case "token":
		return p.Token
	default:
		return false
	}
}

// Load reads the configuration at path, writing a default file when none
// exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.Normalise()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalise fills unset fields with deployment defaults.
func (c *Config) Normalise() {
	if strings.TrimSpace(c.ListenAddress) == "" {
		c.ListenAddress = ":8080"
	}
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = "./vectai-data"
	}
	if strings.TrimSpace(c.Environment) == "" {
		c.Environment = "local"
	}
	if c.Oracle.MaxAgeSeconds == 0 {
		c.Oracle.MaxAgeSeconds = 120
	}
	if c.Oracle.MaxConfidenceBps == 0 {
		c.Oracle.MaxConfidenceBps = 500
	}
	if c.Trader.CooldownSeconds == 0 {
		c.Trader.CooldownSeconds = 60
	}
}

// Validate rejects configurations the daemon cannot run with. The venue
// whitelist is checked separately by Venue.Parse, which the daemon calls at
// startup.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.AdminAddress) != "" {
		if _, err := common.ParseAddress(c.AdminAddress); err != nil {
			return fmt.Errorf("config: AdminAddress: %w", err)
		}
	}
	if c.Oracle.MaxConfidenceBps > 10_000 {
		return fmt.Errorf("config: Oracle.MaxConfidenceBps %d exceeds 10000", c.Oracle.MaxConfidenceBps)
	}
	return nil
}

// Admin parses the configured admin identity. A blank address resolves to the
// zero address, which no caller can match.
func (c *Config) Admin() (common.Address, error) {
	trimmed := strings.TrimSpace(c.AdminAddress)
	if trimmed == "" {
		return common.Address{}, nil
	}
	return common.ParseAddress(trimmed)
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Normalise()
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
