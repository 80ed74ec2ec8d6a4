// Package mock provides an in-process harness for exercising programs
// against an in-memory ledger, standing in for a real chain in tests.
package mock

import (
	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/ledger"
	"github.com/govm-net/counter/runtime"
	"github.com/govm-net/counter/types"

	_ "github.com/govm-net/counter/ledger/memory"
)

// Harness wraps an engine over the memory ledger.
type Harness struct {
	engine *runtime.Engine
}

// NewHarness creates a harness with an empty ledger and no programs.
func NewHarness() (*Harness, error) {
	engine, err := runtime.NewEngine(&runtime.Config{
		LedgerType: string(ledger.MemoryBackendType),
	})
	if err != nil {
		return nil, err
	}
	return &Harness{engine: engine}, nil
}

// RegisterProgram makes a program invokable under the given identity.
func (h *Harness) RegisterProgram(programID core.Pubkey, process runtime.ProcessFunc) error {
	return h.engine.Register(programID, process)
}

// Fund airdrops lamports to an account, creating it if needed.
func (h *Harness) Fund(key core.Pubkey, lamports uint64) error {
	return h.engine.Ledger().Fund(key, lamports)
}

// CreateAccount allocates a program-owned account with the given storage
// capacity, the host-side step a payer performs before initialize.
func (h *Harness) CreateAccount(key, owner core.Pubkey, lamports, space uint64) error {
	_, err := h.engine.Ledger().CreateAccount(key, owner, lamports, space)
	return err
}

// Submit executes one instruction against the ledger.
func (h *Harness) Submit(in types.Instruction) (*types.Receipt, error) {
	return h.engine.Execute(in)
}

// AccountData returns a copy of an account's stored data region.
func (h *Harness) AccountData(key core.Pubkey) ([]byte, error) {
	acct, err := h.engine.Ledger().GetAccount(key)
	if err != nil {
		return nil, err
	}
	return acct.Data, nil
}

// Balance returns an account's lamports.
func (h *Harness) Balance(key core.Pubkey) uint64 {
	return h.engine.Ledger().Balance(key)
}

// Ledger exposes the underlying ledger for direct inspection.
func (h *Harness) Ledger() types.Ledger {
	return h.engine.Ledger()
}

// Close releases the harness.
func (h *Harness) Close() error {
	return h.engine.Close()
}
