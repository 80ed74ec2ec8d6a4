// Package types contains the shared type definitions used by the host
// runtime, the ledger backends, and client tooling.
package types

import "github.com/govm-net/counter/core"

// AccountMeta declares how an instruction uses one account.
type AccountMeta struct {
	Key        core.Pubkey
	IsSigner   bool
	IsWritable bool
}

// Instruction is a built instruction ready for submission: the program to
// invoke, the accounts it touches in order, and the opaque payload bytes.
type Instruction struct {
	ProgramID core.Pubkey
	Accounts  []AccountMeta
	Data      []byte
}

// Account is the persisted state of one account. Space is the allocated
// capacity of the storage region; Data holds only the written prefix.
type Account struct {
	Key      core.Pubkey
	Owner    core.Pubkey
	Lamports uint64
	Space    uint64
	Data     []byte
}

// TransactionRecord is the committed trace of one invocation. ErrCode is 0
// for success, otherwise the program failure code.
type TransactionRecord struct {
	Hash      core.Hash
	Slot      uint64
	ProgramID core.Pubkey
	Accounts  []core.Pubkey
	Data      []byte
	ErrCode   uint32
}

// Receipt is returned to the submitter of an instruction.
type Receipt struct {
	Hash          core.Hash
	Slot          uint64
	ErrCode       uint32
	UnitsConsumed uint64
}

// Ledger persists accounts and the records of committed invocations.
// The runtime commits all writes of one invocation atomically through
// CommitInvocation, or not at all.
type Ledger interface {
	// CreateAccount allocates a new account with the given storage capacity.
	CreateAccount(key, owner core.Pubkey, lamports, space uint64) (*Account, error)
	// GetAccount loads an account, or ErrAccountNotFound.
	GetAccount(key core.Pubkey) (*Account, error)
	// CommitInvocation applies account writes and the transaction record in
	// one atomic step.
	CommitInvocation(accounts []*Account, record *TransactionRecord) error
	// RecordTransaction stores a transaction record alone, used for failed
	// invocations whose account writes were discarded.
	RecordTransaction(record *TransactionRecord) error

	// Fund credits an account, creating a system-owned one if absent.
	Fund(key core.Pubkey, amount uint64) error
	// Transfer moves lamports between existing accounts.
	Transfer(from, to core.Pubkey, amount uint64) error
	// Balance returns an account's lamports, zero if absent.
	Balance(key core.Pubkey) uint64

	// Log emits a host-side event attributed to a program.
	Log(program core.Pubkey, event string, keyValues ...any)

	Close() error
}
