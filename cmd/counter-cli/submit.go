package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/govm-net/counter/client"
	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/counter"
	"github.com/govm-net/counter/types"
)

var (
	counterAddr   string
	authorityAddr string
	initialValue  uint64
	stepValue     uint64
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a counter account with a starting value",
	RunE: func(cmd *cobra.Command, args []string) error {
		target, authority, err := mutationKeys()
		if err != nil {
			return err
		}
		return submit(client.NewInitializeInstruction(counter.ProgramID, target, authority, initialValue))
	},
}

var incrementCmd = &cobra.Command{
	Use:   "increment",
	Short: "Increment a counter",
	RunE: func(cmd *cobra.Command, args []string) error {
		target, authority, err := mutationKeys()
		if err != nil {
			return err
		}
		return submit(client.NewIncrementInstruction(counter.ProgramID, target, authority, stepFlag(cmd)))
	},
}

var decrementCmd = &cobra.Command{
	Use:   "decrement",
	Short: "Decrement a counter",
	RunE: func(cmd *cobra.Command, args []string) error {
		target, authority, err := mutationKeys()
		if err != nil {
			return err
		}
		return submit(client.NewDecrementInstruction(counter.ProgramID, target, authority, stepFlag(cmd)))
	},
}

func init() {
	for _, cmd := range []*cobra.Command{initCmd, incrementCmd, decrementCmd} {
		cmd.Flags().StringVar(&counterAddr, "counter", "", "counter account address")
		cmd.Flags().StringVar(&authorityAddr, "authority", "", "signing authority address")
	}
	initCmd.Flags().Uint64Var(&initialValue, "value", 0, "initial counter value")
	incrementCmd.Flags().Uint64Var(&stepValue, "step", 0, "step size (default 1 when omitted)")
	decrementCmd.Flags().Uint64Var(&stepValue, "step", 0, "step size (default 1 when omitted)")
}

func mutationKeys() (target, authority core.Pubkey, err error) {
	target, err = parsePubkey("counter", counterAddr)
	if err != nil {
		return
	}
	authority, err = parsePubkey("authority", authorityAddr)
	return
}

// stepFlag returns the step only when the flag was set, so the instruction
// keeps the optional-step wire form.
func stepFlag(cmd *cobra.Command) *uint64 {
	if !cmd.Flags().Changed("step") {
		return nil
	}
	step := stepValue
	return &step
}

func submit(in types.Instruction) error {
	engine, err := openEngine()
	if err != nil {
		return err
	}
	defer engine.Close()

	receipt, err := engine.Execute(in)
	if err != nil {
		if receipt != nil {
			return fmt.Errorf("instruction failed with code %d: %w", receipt.ErrCode, err)
		}
		return err
	}
	fmt.Printf("committed tx %s in slot %d (%d compute units)\n",
		receipt.Hash, receipt.Slot, receipt.UnitsConsumed)
	return nil
}
