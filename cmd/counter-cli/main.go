package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "counter-cli",
	Short: "Counter program command line tool",
	Long: `Counter program command line tool for creating counter accounts and
submitting initialize, increment and decrement instructions against a local
sqlite-backed ledger.`,
}

var dbPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "./ledger.db", "path to the ledger database")

	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(airdropCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(incrementCmd)
	rootCmd.AddCommand(decrementCmd)
	rootCmd.AddCommand(showCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
