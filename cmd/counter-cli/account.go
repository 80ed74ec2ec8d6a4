package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/govm-net/counter/client"
	"github.com/govm-net/counter/counter"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a new keypair",
	RunE: func(cmd *cobra.Command, args []string) error {
		keypair, err := client.NewKeypair()
		if err != nil {
			return fmt.Errorf("failed to generate keypair: %w", err)
		}
		fmt.Println("pubkey:", keypair.Public)
		fmt.Println("private:", hex.EncodeToString(keypair.Private))
		return nil
	},
}

var (
	airdropTo     string
	airdropAmount uint64
)

var airdropCmd = &cobra.Command{
	Use:   "airdrop",
	Short: "Credit lamports to an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAirdrop(airdropTo, airdropAmount)
	},
}

var (
	createKey      string
	createLamports uint64
	createSpace    uint64
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Allocate a counter account owned by the program",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCreate(createKey, createLamports, createSpace)
	},
}

func init() {
	airdropCmd.Flags().StringVar(&airdropTo, "to", "", "recipient address")
	airdropCmd.Flags().Uint64Var(&airdropAmount, "amount", 1_000_000, "lamports to credit")

	createCmd.Flags().StringVar(&createKey, "counter", "", "counter account address")
	createCmd.Flags().Uint64Var(&createLamports, "lamports", 1_000, "initial lamports")
	createCmd.Flags().Uint64Var(&createSpace, "space", counter.RecordSize, "storage capacity in bytes")
}

func runAirdrop(to string, amount uint64) error {
	key, err := parsePubkey("to", to)
	if err != nil {
		return err
	}

	engine, err := openEngine()
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := engine.Ledger().Fund(key, amount); err != nil {
		return fmt.Errorf("failed to fund account: %w", err)
	}
	fmt.Printf("balance of %s: %d\n", key, engine.Ledger().Balance(key))
	return nil
}

func runCreate(counterAddr string, lamports, space uint64) error {
	key, err := parsePubkey("counter", counterAddr)
	if err != nil {
		return err
	}

	engine, err := openEngine()
	if err != nil {
		return err
	}
	defer engine.Close()

	if _, err := engine.Ledger().CreateAccount(key, counter.ProgramID, lamports, space); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	fmt.Printf("created counter account %s with %d bytes\n", key, space)
	return nil
}
