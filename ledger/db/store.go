// Package db implements the sqlite-backed ledger using GORM.
package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/ledger"
	"github.com/govm-net/counter/types"
)

const defaultDBPath = "./ledger.db"

type DBAccount struct {
	gorm.Model
	Address  string `gorm:"column:address;not null;unique;index;size:64"`
	Owner    string `gorm:"column:owner_address;not null;index;size:64"`
	Lamports uint64 `gorm:"column:lamports;not null;default:0"`
	Space    uint64 `gorm:"column:space;not null;default:0"`
	Data     []byte `gorm:"column:account_data;type:blob;default:''"`
}

func (DBAccount) TableName() string {
	return "accounts"
}

type DBTransaction struct {
	gorm.Model
	Hash      string `gorm:"column:tx_hash;not null;unique;index;size:66"`
	Slot      uint64 `gorm:"column:slot;not null;index"`
	Program   string `gorm:"column:program_address;not null;index;size:64"`
	Accounts  []byte `gorm:"column:account_keys;type:blob;not null"` // JSON encoded address list
	Data      []byte `gorm:"column:tx_data;type:blob;default:''"`
	ErrCode   uint32 `gorm:"column:err_code;not null;default:0"`
}

func (DBTransaction) TableName() string {
	return "transactions"
}

type DBEvent struct {
	gorm.Model
	Program   string `gorm:"column:program_address;not null;index;size:64"`
	EventName string `gorm:"column:event_name;not null;index;size:255"`
	KeyValues []byte `gorm:"column:key_values;type:blob;not null"` // JSON encoded key-value pairs
}

func (DBEvent) TableName() string {
	return "events"
}

// Store implements types.Ledger on sqlite.
type Store struct {
	db *gorm.DB
}

func init() {
	ledger.Register(ledger.DBBackendType, NewStore)
}

// NewStore opens (or creates) the sqlite ledger. Recognized params:
// "db_path" (string) overrides the database file location.
func NewStore(params map[string]any) (types.Ledger, error) {
	dbPath := defaultDBPath
	if path, ok := params["db_path"].(string); ok && path != "" {
		dbPath = path
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	gdb, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := gdb.AutoMigrate(
		&DBAccount{},
		&DBTransaction{},
		&DBEvent{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: gdb}, nil
}

// CreateAccount allocates a new account with the given storage capacity.
func (s *Store) CreateAccount(key, owner core.Pubkey, lamports, space uint64) (*types.Account, error) {
	var existing DBAccount
	result := s.db.Where("address = ?", key.String()).First(&existing)
	if result.Error == nil {
		return nil, fmt.Errorf("%w: %s", types.ErrAccountExists, key)
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check account: %w", result.Error)
	}

	row := &DBAccount{
		Address:  key.String(),
		Owner:    owner.String(),
		Lamports: lamports,
		Space:    space,
	}
	if err := s.db.Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return &types.Account{
		Key:      key,
		Owner:    owner,
		Lamports: lamports,
		Space:    space,
	}, nil
}

// GetAccount loads an account.
func (s *Store) GetAccount(key core.Pubkey) (*types.Account, error) {
	var row DBAccount
	result := s.db.Where("address = ?", key.String()).First(&row)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", types.ErrAccountNotFound, key)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get account: %w", result.Error)
	}
	return rowToAccount(&row)
}

// CommitInvocation applies account writes and the transaction record in a
// single database transaction.
func (s *Store) CommitInvocation(accounts []*types.Account, record *types.TransactionRecord) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, acct := range accounts {
			result := tx.Model(&DBAccount{}).Where("address = ?", acct.Key.String()).
				Updates(map[string]any{
					"lamports":     acct.Lamports,
					"account_data": acct.Data,
				})
			if result.Error != nil {
				return fmt.Errorf("failed to update account: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", types.ErrAccountNotFound, acct.Key)
			}
		}
		return createTransactionRow(tx, record)
	})
}

// RecordTransaction stores a transaction record alone.
func (s *Store) RecordTransaction(record *types.TransactionRecord) error {
	return createTransactionRow(s.db, record)
}

func createTransactionRow(tx *gorm.DB, record *types.TransactionRecord) error {
	keys := make([]string, 0, len(record.Accounts))
	for _, key := range record.Accounts {
		keys = append(keys, key.String())
	}
	encoded, err := json.Marshal(keys)
	if err != nil {
		return fmt.Errorf("failed to marshal account keys: %w", err)
	}

	row := &DBTransaction{
		Hash:     record.Hash.String(),
		Slot:     record.Slot,
		Program:  record.ProgramID.String(),
		Accounts: encoded,
		Data:     record.Data,
		ErrCode:  record.ErrCode,
	}
	if err := tx.Create(row).Error; err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

// Fund credits an account, creating a system-owned one if absent.
func (s *Store) Fund(key core.Pubkey, amount uint64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var row DBAccount
		result := tx.Where("address = ?", key.String()).First(&row)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return tx.Create(&DBAccount{
				Address:  key.String(),
				Owner:    core.SystemOwner.String(),
				Lamports: amount,
			}).Error
		}
		if result.Error != nil {
			return fmt.Errorf("failed to get account: %w", result.Error)
		}
		return tx.Model(&DBAccount{}).Where("address = ?", key.String()).
			Update("lamports", row.Lamports+amount).Error
	})
}

// Transfer moves lamports between existing accounts.
func (s *Store) Transfer(from, to core.Pubkey, amount uint64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var fromRow DBAccount
		result := tx.Where("address = ?", from.String()).First(&fromRow)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", types.ErrAccountNotFound, from)
		}
		if result.Error != nil {
			return fmt.Errorf("failed to get sender: %w", result.Error)
		}
		if fromRow.Lamports < amount {
			return types.ErrInsufficientFunds
		}

		var toRow DBAccount
		result = tx.Where("address = ?", to.String()).First(&toRow)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", types.ErrAccountNotFound, to)
		}
		if result.Error != nil {
			return fmt.Errorf("failed to get recipient: %w", result.Error)
		}

		if err := tx.Model(&DBAccount{}).Where("address = ?", from.String()).
			Update("lamports", fromRow.Lamports-amount).Error; err != nil {
			return fmt.Errorf("failed to update sender: %w", err)
		}
		if err := tx.Model(&DBAccount{}).Where("address = ?", to.String()).
			Update("lamports", toRow.Lamports+amount).Error; err != nil {
			return fmt.Errorf("failed to update recipient: %w", err)
		}
		return nil
	})
}

// Balance returns an account's lamports, zero if absent.
func (s *Store) Balance(key core.Pubkey) uint64 {
	var row DBAccount
	result := s.db.Where("address = ?", key.String()).First(&row)
	if result.Error != nil {
		return 0
	}
	return row.Lamports
}

// Log stores a host-side event and mirrors it to the process log.
func (s *Store) Log(program core.Pubkey, event string, keyValues ...any) {
	data, err := json.Marshal(keyValues)
	if err != nil {
		slog.Error("failed to marshal event data", "error", err)
		return
	}

	row := &DBEvent{
		Program:   program.String(),
		EventName: event,
		KeyValues: data,
	}
	if err := s.db.Create(row).Error; err != nil {
		slog.Error("failed to save event", "error", err)
		return
	}

	params := []any{
		"program", program.String(),
		"event", event,
	}
	params = append(params, keyValues...)
	slog.Info("ledger event", params...)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func rowToAccount(row *DBAccount) (*types.Account, error) {
	key, err := core.PubkeyFromString(row.Address)
	if err != nil {
		return nil, fmt.Errorf("corrupt account address %q: %w", row.Address, err)
	}
	owner, err := core.PubkeyFromString(row.Owner)
	if err != nil {
		return nil, fmt.Errorf("corrupt owner address %q: %w", row.Owner, err)
	}
	data := make([]byte, len(row.Data))
	copy(data, row.Data)
	return &types.Account{
		Key:      key,
		Owner:    owner,
		Lamports: row.Lamports,
		Space:    row.Space,
		Data:     data,
	}, nil
}
