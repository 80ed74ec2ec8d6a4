// Package runtime hosts native programs and gives each invocation
// all-or-nothing semantics over the ledger: either every storage write of a
// call is committed, or none is.
package runtime

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/ledger"
	"github.com/govm-net/counter/types"
)

// ProcessFunc is a native program entry point. The engine calls it with the
// program's identity, the accounts the instruction declared, and the raw
// payload bytes.
type ProcessFunc func(programID core.Pubkey, accounts []*core.AccountInfo, data []byte) error

// Errors returned by the engine itself, as opposed to program failures.
var (
	ErrUnknownProgram         = errors.New("unknown program")
	ErrProgramExists          = errors.New("program already registered")
	ErrReadonlyDataModified   = errors.New("read-only account data modified")
	ErrReadonlyBalanceChanged = errors.New("read-only account balance changed")
)

// Config represents engine configuration.
type Config struct {
	LedgerType    string         // Ledger backend name ("memory", "db")
	LedgerParams  map[string]any // Backend parameters
	ComputeBudget uint64         // Max compute units per invocation, 0 = default
}

// Engine is the host front door: it resolves programs, loads accounts,
// invokes the processor, and commits or discards the resulting writes.
type Engine struct {
	config   *Config
	ledger   types.Ledger
	mu       sync.Mutex
	programs map[core.Pubkey]ProcessFunc
	slot     uint64
}

// NewEngine creates a new engine backed by the configured ledger.
func NewEngine(config *Config) (*Engine, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	led, err := ledger.Get(ledger.BackendType(config.LedgerType), config.LedgerParams)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	if config.ComputeBudget == 0 {
		config.ComputeBudget = DefaultComputeBudget
	}

	return &Engine{
		config:   config,
		ledger:   led,
		programs: make(map[core.Pubkey]ProcessFunc),
		slot:     1,
	}, nil
}

func validateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("config is nil")
	}
	return nil
}

// Register makes a program invokable under the given identity.
func (e *Engine) Register(programID core.Pubkey, process ProcessFunc) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.programs[programID]; exists {
		return fmt.Errorf("%w: %s", ErrProgramExists, programID)
	}
	e.programs[programID] = process
	return nil
}

// Ledger exposes the engine's account store to tooling.
func (e *Engine) Ledger() types.Ledger {
	return e.ledger
}

// Close releases the underlying ledger.
func (e *Engine) Close() error {
	return e.ledger.Close()
}

// Execute runs one instruction with all-or-nothing semantics. The returned
// receipt carries the failure code when the program rejected the
// instruction; err is non-nil for both program and engine failures.
func (e *Engine) Execute(in types.Instruction) (*types.Receipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	process, exists := e.programs[in.ProgramID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProgram, in.ProgramID)
	}

	meter := NewMeter(e.config.ComputeBudget)
	if err := meter.Consume(baseInvocationCost + perDataByteCost*uint64(len(in.Data))); err != nil {
		return nil, err
	}

	stored, infos, err := e.loadAccounts(in.Accounts)
	if err != nil {
		return nil, err
	}

	slot := e.slot
	e.slot++
	hash := transactionHash(in, slot)
	record := &types.TransactionRecord{
		Hash:      hash,
		Slot:      slot,
		ProgramID: in.ProgramID,
		Accounts:  accountKeys(in.Accounts),
		Data:      in.Data,
	}
	receipt := &types.Receipt{Hash: hash, Slot: slot}

	if err := process(in.ProgramID, infos, in.Data); err != nil {
		// Discard the working copies; the ledger never saw them.
		record.ErrCode = core.ErrorCode(err)
		receipt.ErrCode = record.ErrCode
		receipt.UnitsConsumed = meter.Used()
		if recErr := e.ledger.RecordTransaction(record); recErr != nil {
			slog.Error("failed to record failed transaction", "tx", hash.String(), "error", recErr)
		}
		e.ledger.Log(in.ProgramID, "InvocationFailed", "tx", hash.String(), "code", record.ErrCode)
		return receipt, err
	}

	writes, err := collectWrites(in.Accounts, stored, infos)
	if err != nil {
		return nil, err
	}
	if err := e.ledger.CommitInvocation(writes, record); err != nil {
		return nil, fmt.Errorf("failed to commit invocation: %w", err)
	}

	receipt.UnitsConsumed = meter.Used()
	e.ledger.Log(in.ProgramID, "InvocationCommitted", "tx", hash.String(), "slot", slot)
	return receipt, nil
}

// loadAccounts builds the program's working copies from ledger state. Data
// gets the account's full allocated capacity so a program may grow the
// written region in place.
func (e *Engine) loadAccounts(metas []types.AccountMeta) ([]*types.Account, []*core.AccountInfo, error) {
	stored := make([]*types.Account, 0, len(metas))
	infos := make([]*core.AccountInfo, 0, len(metas))
	for _, meta := range metas {
		acct, err := e.ledger.GetAccount(meta.Key)
		if err != nil {
			return nil, nil, err
		}

		space := int(acct.Space)
		if space < len(acct.Data) {
			space = len(acct.Data)
		}
		data := make([]byte, len(acct.Data), space)
		copy(data, acct.Data)
		infos = append(infos, &core.AccountInfo{
			Key:        acct.Key,
			Owner:      acct.Owner,
			Lamports:   acct.Lamports,
			Data:       data,
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
		})
		stored = append(stored, acct)
	}
	return stored, infos, nil
}

// collectWrites turns the post-invocation working copies into ledger writes,
// rejecting mutations of accounts the instruction did not declare writable.
func collectWrites(metas []types.AccountMeta, stored []*types.Account, infos []*core.AccountInfo) ([]*types.Account, error) {
	writes := make([]*types.Account, 0, len(metas))
	for i, meta := range metas {
		before, after := stored[i], infos[i]
		if !meta.IsWritable {
			if !bytes.Equal(before.Data, after.Data) {
				return nil, fmt.Errorf("%w: %s", ErrReadonlyDataModified, meta.Key)
			}
			if before.Lamports != after.Lamports {
				return nil, fmt.Errorf("%w: %s", ErrReadonlyBalanceChanged, meta.Key)
			}
			continue
		}
		writes = append(writes, &types.Account{
			Key:      before.Key,
			Owner:    before.Owner,
			Lamports: after.Lamports,
			Space:    before.Space,
			Data:     after.Data,
		})
	}
	return writes, nil
}

func accountKeys(metas []types.AccountMeta) []core.Pubkey {
	keys := make([]core.Pubkey, 0, len(metas))
	for _, meta := range metas {
		keys = append(keys, meta.Key)
	}
	return keys
}

// transactionHash derives a deterministic identifier for one invocation.
func transactionHash(in types.Instruction, slot uint64) core.Hash {
	var buf bytes.Buffer
	buf.Write(in.ProgramID[:])
	for _, meta := range in.Accounts {
		buf.Write(meta.Key[:])
	}
	buf.Write(in.Data)
	var slotBytes [8]byte
	binary.LittleEndian.PutUint64(slotBytes[:], slot)
	buf.Write(slotBytes[:])
	return core.HashBytes(buf.Bytes())
}
