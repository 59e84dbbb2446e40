package cmd

import (
	"fmt"
	"time"

	"github.com/rustyeddy/stocksim/config"
	"github.com/rustyeddy/stocksim/journal"
	"github.com/rustyeddy/stocksim/sim"
)

// openJournal builds the persistence backend named by the config.
func openJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "csv":
		return journal.NewCSV(cfg.Journal.TransactionsFile, cfg.Journal.StateFile)
	case "memory":
		return journal.NewMemory(), nil
	default:
		return journal.NewSQLite(cfg.Journal.DBPath)
	}
}

// buildEngine assembles an engine from a validated config.
func buildEngine(cfg *config.Config, j journal.Journal) (*sim.Engine, error) {
	tick, err := cfg.Simulation.ParseTickInterval()
	if err != nil {
		return nil, fmt.Errorf("tick interval: %w", err)
	}
	newsInterval, err := cfg.News.ParseInterval()
	if err != nil {
		return nil, fmt.Errorf("news interval: %w", err)
	}

	return sim.NewEngine(sim.Options{
		Journal:      j,
		Seeds:        cfg.Simulation.Instruments,
		TickInterval: tick,
		NewsInterval: newsInterval,
		HistoryDays:  cfg.Simulation.HistoryDays,
		NewsCap:      cfg.News.HistoryCap,
	}), nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func fmtTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
