package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/stocksim/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulation over HTTP",
	Long: `Start the market simulation and expose it over HTTP.

The server provides REST endpoints for quotes, news, and portfolio
operations, plus a websocket feed of live engine events at /ws.

Example:
  stocksim serve -c simulator.yaml`,
	RunE: runServe,
}

var serveConfigPath string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "path to config file (YAML or JSON)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(serveConfigPath)
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

	engine.Start()
	defer engine.Stop()

	srv := server.New(engine, cfg.Server, nil)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(cfg.Server.Listen)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-sigCh:
		fmt.Printf("\nReceived %s, shutting down\n", sig)
		return nil
	}
}
