package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/stocksim/market"
)

// Config is the complete simulator configuration.
type Config struct {
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	News       NewsConfig       `json:"news" yaml:"news"`
	Portfolio  PortfolioConfig  `json:"portfolio" yaml:"portfolio"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
	Server     ServerConfig     `json:"server" yaml:"server"`
}

// SimulationConfig drives the price loop.
type SimulationConfig struct {
	TickInterval string        `json:"tick_interval" yaml:"tick_interval"` // e.g. "3s"
	HistoryDays  int           `json:"history_days" yaml:"history_days"`
	Instruments  []market.Seed `json:"instruments,omitempty" yaml:"instruments,omitempty"`
}

// NewsConfig drives the story generator.
type NewsConfig struct {
	Interval   string `json:"interval" yaml:"interval"` // e.g. "45s"
	HistoryCap int    `json:"history_cap" yaml:"history_cap"`
}

// PortfolioConfig sets starting conditions for new portfolios.
type PortfolioConfig struct {
	InitialBalance float64 `json:"initial_balance" yaml:"initial_balance"`
}

// JournalConfig selects the ledger persistence backend.
type JournalConfig struct {
	Type             string `json:"type" yaml:"type"` // "sqlite", "csv" or "memory"
	DBPath           string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	TransactionsFile string `json:"transactions_file,omitempty" yaml:"transactions_file,omitempty"`
	StateFile        string `json:"state_file,omitempty" yaml:"state_file,omitempty"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Listen    string  `json:"listen" yaml:"listen"`
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit"` // mutating requests per second
	RateBurst int     `json:"rate_burst" yaml:"rate_burst"`
}

// ParseTickInterval parses the simulation tick interval.
func (c SimulationConfig) ParseTickInterval() (time.Duration, error) {
	return time.ParseDuration(c.TickInterval)
}

// ParseInterval parses the news burst interval.
func (c NewsConfig) ParseInterval() (time.Duration, error) {
	return time.ParseDuration(c.Interval)
}

// LoadFromFile loads configuration from a file (YAML or JSON based on
// content), applies environment overrides, and validates.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// applyEnv layers process environment over the file. A .env file in the
// working directory is folded in first; nothing fails when it is absent.
func (c *Config) applyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("STOCKSIM_LISTEN"); v != "" {
		c.Server.Listen = v
	}
	if v := os.Getenv("STOCKSIM_DB_PATH"); v != "" {
		c.Journal.DBPath = v
	}
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if _, err := c.Simulation.ParseTickInterval(); err != nil {
		return fmt.Errorf("simulation.tick_interval: %w", err)
	}
	if c.Simulation.HistoryDays <= 0 {
		return fmt.Errorf("simulation.history_days must be positive")
	}
	for _, s := range c.Simulation.Instruments {
		if s.Symbol == "" {
			return fmt.Errorf("instrument symbol is required")
		}
		if s.StartPrice <= 0 {
			return fmt.Errorf("instrument %s: start_price must be positive", s.Symbol)
		}
		if s.Volatility <= 0 {
			return fmt.Errorf("instrument %s: volatility must be positive", s.Symbol)
		}
	}
	if _, err := c.News.ParseInterval(); err != nil {
		return fmt.Errorf("news.interval: %w", err)
	}
	if c.News.HistoryCap <= 0 {
		return fmt.Errorf("news.history_cap must be positive")
	}
	if c.Portfolio.InitialBalance <= 0 {
		return fmt.Errorf("portfolio.initial_balance must be positive")
	}

	switch c.Journal.Type {
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for sqlite type")
		}
	case "csv":
		if c.Journal.TransactionsFile == "" || c.Journal.StateFile == "" {
			return fmt.Errorf("journal transactions_file and state_file required for csv type")
		}
	case "memory":
	default:
		return fmt.Errorf("journal.type must be 'sqlite', 'csv' or 'memory'")
	}

	if c.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if c.Server.RateLimit <= 0 {
		return fmt.Errorf("server.rate_limit must be positive")
	}
	if c.Server.RateBurst <= 0 {
		return fmt.Errorf("server.rate_burst must be positive")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			TickInterval: "3s",
			HistoryDays:  30,
		},
		News: NewsConfig{
			Interval:   "45s",
			HistoryCap: 30,
		},
		Portfolio: PortfolioConfig{
			InitialBalance: 10000,
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./stocksim.sqlite",
		},
		Server: ServerConfig{
			Listen:    ":8080",
			RateLimit: 5,
			RateBurst: 10,
		},
	}
}
