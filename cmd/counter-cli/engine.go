package main

import (
	"fmt"

	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/counter"
	"github.com/govm-net/counter/ledger"
	"github.com/govm-net/counter/runtime"

	_ "github.com/govm-net/counter/ledger/db"
)

// openEngine creates an engine over the sqlite ledger with the counter
// program registered.
func openEngine() (*runtime.Engine, error) {
	engine, err := runtime.NewEngine(&runtime.Config{
		LedgerType:   string(ledger.DBBackendType),
		LedgerParams: map[string]any{"db_path": dbPath},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	if err := engine.Register(counter.ProgramID, counter.Process); err != nil {
		engine.Close()
		return nil, err
	}
	return engine, nil
}

func parsePubkey(flag, value string) (core.Pubkey, error) {
	if value == "" {
		return core.Pubkey{}, fmt.Errorf("--%s is required", flag)
	}
	key, err := core.PubkeyFromString(value)
	if err != nil {
		return core.Pubkey{}, fmt.Errorf("invalid --%s: %w", flag, err)
	}
	return key, nil
}
