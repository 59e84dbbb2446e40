package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/stocksim/indicators"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a headless simulation for a fixed number of ticks",
	Long: `Advance the market a fixed number of ticks without serving HTTP.

Useful for eyeballing the price model and news generator, or for
producing a journaled session to query later.

Example:
  stocksim run -c simulator.yaml -t 100 -n 20`,
	RunE: runRun,
}

var (
	runConfigPath string
	runTicks      int
	runNewsEvery  int
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "path to config file (YAML or JSON)")
	runCmd.Flags().IntVarP(&runTicks, "ticks", "t", 100, "number of price ticks to simulate")
	runCmd.Flags().IntVarP(&runNewsEvery, "news-every", "n", 15, "emit a news story every N ticks (0 disables)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(runConfigPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	j, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	engine, err := buildEngine(cfg, j)
	if err != nil {
		return err
	}

	open := engine.Quotes()
	fmt.Printf("Simulating %d ticks across %d instruments\n\n", runTicks, len(open))

	emas := make(map[string]*indicators.StreamingEMA, len(open))
	for _, q := range open {
		emas[q.Symbol] = indicators.NewStreamingEMA(20)
	}

	for i := 1; i <= runTicks; i++ {
		engine.TickOnce()
		for _, q := range engine.Quotes() {
			emas[q.Symbol].Update(q.Price)
		}
		if runNewsEvery > 0 && i%runNewsEvery == 0 {
			engine.EmitStory()
		}
	}

	fmt.Printf("%-6s %10s %10s %8s %10s\n", "SYMBOL", "OPEN", "CLOSE", "CHANGE", "EMA20")
	for i, q := range engine.Quotes() {
		pct := (q.Price - open[i].Price) / open[i].Price * 100
		fmt.Printf("%-6s %10.2f %10.2f %7.2f%% %10.2f\n",
			q.Symbol, open[i].Price, q.Price, pct, emas[q.Symbol].Value())
	}

	stories := engine.Stories()
	if len(stories) > 0 {
		fmt.Printf("\nNews (%d stories, newest first):\n", len(stories))
		for _, s := range stories {
			fmt.Printf("  [%s] %s (impact %+.3f)\n", s.Category, s.Headline, s.Impact)
		}
	}

	return nil
}
