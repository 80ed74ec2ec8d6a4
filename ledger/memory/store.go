// Package memory implements the in-memory ledger backend.
package memory

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/ledger"
	"github.com/govm-net/counter/types"
)

// Store keeps all accounts and transaction records in maps. It backs tests
// and the mock harness.
type Store struct {
	mu       sync.Mutex
	accounts map[core.Pubkey]*types.Account
	records  []*types.TransactionRecord
}

func init() {
	ledger.Register(ledger.MemoryBackendType, NewStore)
}

// NewStore creates an empty in-memory ledger. It takes no parameters.
func NewStore(params map[string]any) (types.Ledger, error) {
	return &Store{
		accounts: make(map[core.Pubkey]*types.Account),
	}, nil
}

// CreateAccount allocates a new account with the given storage capacity.
func (s *Store) CreateAccount(key, owner core.Pubkey, lamports, space uint64) (*types.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[key]; exists {
		return nil, fmt.Errorf("%w: %s", types.ErrAccountExists, key)
	}

	acct := &types.Account{
		Key:      key,
		Owner:    owner,
		Lamports: lamports,
		Space:    space,
	}
	s.accounts[key] = acct
	return cloneAccount(acct), nil
}

// GetAccount loads a copy of an account.
func (s *Store) GetAccount(key core.Pubkey) (*types.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, exists := s.accounts[key]
	if !exists {
		return nil, fmt.Errorf("%w: %s", types.ErrAccountNotFound, key)
	}
	return cloneAccount(acct), nil
}

// CommitInvocation applies account writes and the transaction record in one
// step. The single lock makes the commit atomic against readers.
func (s *Store) CommitInvocation(accounts []*types.Account, record *types.TransactionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acct := range accounts {
		if _, exists := s.accounts[acct.Key]; !exists {
			return fmt.Errorf("%w: %s", types.ErrAccountNotFound, acct.Key)
		}
	}
	for _, acct := range accounts {
		s.accounts[acct.Key] = cloneAccount(acct)
	}
	s.records = append(s.records, record)
	return nil
}

// RecordTransaction stores a transaction record alone.
func (s *Store) RecordTransaction(record *types.TransactionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

// Records returns all stored transaction records, oldest first.
func (s *Store) Records() []*types.TransactionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*types.TransactionRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Fund credits an account, creating a system-owned one if absent.
func (s *Store) Fund(key core.Pubkey, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, exists := s.accounts[key]
	if !exists {
		acct = &types.Account{Key: key, Owner: core.SystemOwner}
		s.accounts[key] = acct
	}
	acct.Lamports += amount
	return nil
}

// Transfer moves lamports between existing accounts.
func (s *Store) Transfer(from, to core.Pubkey, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fromAcct, exists := s.accounts[from]
	if !exists {
		return fmt.Errorf("%w: %s", types.ErrAccountNotFound, from)
	}
	toAcct, exists := s.accounts[to]
	if !exists {
		return fmt.Errorf("%w: %s", types.ErrAccountNotFound, to)
	}
	if fromAcct.Lamports < amount {
		return types.ErrInsufficientFunds
	}

	fromAcct.Lamports -= amount
	toAcct.Lamports += amount
	return nil
}

// Balance returns an account's lamports, zero if absent.
func (s *Store) Balance(key core.Pubkey) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, exists := s.accounts[key]
	if !exists {
		return 0
	}
	return acct.Lamports
}

// Log emits a host-side event attributed to a program.
func (s *Store) Log(program core.Pubkey, event string, keyValues ...any) {
	params := []any{
		"program", program.String(),
		"event", event,
	}
	params = append(params, keyValues...)
	slog.Info("ledger event", params...)
}

func (s *Store) Close() error {
	return nil
}

func cloneAccount(acct *types.Account) *types.Account {
	out := *acct
	out.Data = make([]byte, len(acct.Data))
	copy(out.Data, acct.Data)
	return &out
}
