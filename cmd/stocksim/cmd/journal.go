package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/stocksim/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query journaled transactions",
	Long: `Query and display transaction records from the SQLite journal.

Subcommands:
  tx    - Get details of a specific transaction by ID
  list  - List all transactions for a portfolio
  state - Show the latest journaled portfolio snapshot

Examples:
  stocksim journal tx <tx-id>
  stocksim journal list <portfolio-id>
  stocksim journal state <portfolio-id>`,
}

var journalTxCmd = &cobra.Command{
	Use:   "tx <tx-id>",
	Short: "Get details of a specific transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTx,
}

var journalListCmd = &cobra.Command{
	Use:   "list <portfolio-id>",
	Short: "List a portfolio's transactions in execution order",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalList,
}

var journalStateCmd = &cobra.Command{
	Use:   "state <portfolio-id>",
	Short: "Show the latest journaled snapshot of a portfolio",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalState,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalTxCmd)
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalStateCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./stocksim.sqlite", "path to SQLite journal DB")
}

func runJournalTx(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	pid, tx, err := j.GetTransaction(args[0])
	if err != nil {
		return fmt.Errorf("get transaction: %w", err)
	}

	fmt.Printf("Transaction %s\n", tx.ID)
	fmt.Printf("  Portfolio: %s\n", pid)
	fmt.Printf("  %s %d x %s @ $%.2f (total $%.2f)\n",
		tx.Type, tx.Quantity, tx.Symbol, tx.PricePerUnit, tx.TotalValue)
	fmt.Printf("  Executed: %s\n", fmtTime(tx.Timestamp))
	return nil
}

func runJournalList(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	txs, err := j.ListTransactions(args[0])
	if err != nil {
		return fmt.Errorf("query transactions: %w", err)
	}
	if len(txs) == 0 {
		fmt.Println("No transactions recorded")
		return nil
	}

	fmt.Printf("%-20s %-4s %-6s %6s %10s %10s\n",
		"EXECUTED", "TYPE", "SYMBOL", "QTY", "PRICE", "TOTAL")
	for _, tx := range txs {
		fmt.Printf("%-20s %-4s %-6s %6d %10.2f %10.2f\n",
			fmtTime(tx.Timestamp), tx.Type, tx.Symbol, tx.Quantity, tx.PricePerUnit, tx.TotalValue)
	}
	return nil
}

func runJournalState(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	snap, err := j.LatestState(args[0])
	if err != nil {
		return fmt.Errorf("query state: %w", err)
	}

	fmt.Printf("Portfolio %s as of %s\n", snap.PortfolioID, fmtTime(snap.Time))
	fmt.Printf("  Cash: $%.2f\n", snap.CashBalance)
	for _, h := range snap.Holdings {
		fmt.Printf("  %-6s %6d shares, avg paid $%.2f\n", h.Symbol, h.Quantity, h.AvgPricePaid)
	}
	return nil
}
