package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/govm-net/counter/client"
)

var showAddr string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current counter value",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShow(showAddr)
	},
}

func init() {
	showCmd.Flags().StringVar(&showAddr, "counter", "", "counter account address")
}

func runShow(counterAddr string) error {
	key, err := parsePubkey("counter", counterAddr)
	if err != nil {
		return err
	}

	engine, err := openEngine()
	if err != nil {
		return err
	}
	defer engine.Close()

	acct, err := engine.Ledger().GetAccount(key)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}
	if len(acct.Data) == 0 {
		fmt.Printf("counter %s is not initialized\n", key)
		return nil
	}

	value, err := client.ReadCounter(acct.Data)
	if err != nil {
		return fmt.Errorf("failed to read counter: %w", err)
	}
	fmt.Printf("counter %s = %d\n", key, value)
	return nil
}
