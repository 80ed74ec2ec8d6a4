package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/ledger"
	"github.com/govm-net/counter/ledger/memory"
	"github.com/govm-net/counter/types"
)

var (
	testProgramID = core.PubkeyFromSeed("test.program")
	testAccount   = core.PubkeyFromSeed("test.account")
	testAuthority = core.PubkeyFromSeed("test.authority")
)

func setupTestEngine(t *testing.T) (*Engine, *memory.Store) {
	t.Helper()
	engine, err := NewEngine(&Config{LedgerType: string(ledger.MemoryBackendType)})
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })

	store := engine.Ledger().(*memory.Store)
	_, err = store.CreateAccount(testAccount, testProgramID, 100, 8)
	require.NoError(t, err)
	require.NoError(t, store.Fund(testAuthority, 1000))
	return engine, store
}

// writeAll fills the target account's region with the given byte.
func writeAll(b byte) ProcessFunc {
	return func(programID core.Pubkey, accounts []*core.AccountInfo, data []byte) error {
		target := accounts[0]
		if err := target.Grow(target.Space()); err != nil {
			return err
		}
		for i := range target.Data {
			target.Data[i] = b
		}
		return nil
	}
}

func failWith(err error) ProcessFunc {
	return func(programID core.Pubkey, accounts []*core.AccountInfo, data []byte) error {
		target := accounts[0]
		if growErr := target.Grow(target.Space()); growErr != nil {
			return growErr
		}
		target.Data[0] = 0xff
		return err
	}
}

func testInstruction(writable bool) types.Instruction {
	return types.Instruction{
		ProgramID: testProgramID,
		Data:      []byte{1, 2, 3},
		Accounts: []types.AccountMeta{
			{Key: testAccount, IsWritable: writable},
			{Key: testAuthority, IsSigner: true},
		},
	}
}

func TestExecuteCommitsWrites(t *testing.T) {
	engine, store := setupTestEngine(t)
	require.NoError(t, engine.Register(testProgramID, writeAll(7)))

	receipt, err := engine.Execute(testInstruction(true))
	require.NoError(t, err)
	assert.Equal(t, core.CodeSuccess, receipt.ErrCode)
	assert.NotZero(t, receipt.UnitsConsumed)

	acct, err := store.GetAccount(testAccount)
	require.NoError(t, err)
	assert.Equal(t, []byte{7, 7, 7, 7, 7, 7, 7, 7}, acct.Data)

	records := store.Records()
	require.Len(t, records, 1)
	assert.Equal(t, receipt.Hash, records[0].Hash)
	assert.Equal(t, core.CodeSuccess, records[0].ErrCode)
}

func TestExecuteRollsBackOnProgramError(t *testing.T) {
	engine, store := setupTestEngine(t)
	require.NoError(t, engine.Register(testProgramID, failWith(core.ErrArithmeticOverflow)))

	receipt, err := engine.Execute(testInstruction(true))
	assert.ErrorIs(t, err, core.ErrArithmeticOverflow)
	require.NotNil(t, receipt)
	assert.Equal(t, core.CodeArithmeticOverflow, receipt.ErrCode)

	// The working copy was discarded; stored state is byte-identical.
	acct, err := store.GetAccount(testAccount)
	require.NoError(t, err)
	assert.Empty(t, acct.Data)

	// The failure is still recorded.
	records := store.Records()
	require.Len(t, records, 1)
	assert.Equal(t, core.CodeArithmeticOverflow, records[0].ErrCode)
}

func TestExecuteRejectsReadonlyWrites(t *testing.T) {
	engine, store := setupTestEngine(t)
	require.NoError(t, engine.Register(testProgramID, writeAll(9)))

	_, err := engine.Execute(testInstruction(false))
	assert.ErrorIs(t, err, ErrReadonlyDataModified)

	acct, err := store.GetAccount(testAccount)
	require.NoError(t, err)
	assert.Empty(t, acct.Data)
}

func TestExecuteUnknownProgram(t *testing.T) {
	engine, _ := setupTestEngine(t)

	_, err := engine.Execute(testInstruction(true))
	assert.ErrorIs(t, err, ErrUnknownProgram)
}

func TestExecuteUnknownAccount(t *testing.T) {
	engine, _ := setupTestEngine(t)
	require.NoError(t, engine.Register(testProgramID, writeAll(1)))

	in := testInstruction(true)
	in.Accounts[0].Key = core.PubkeyFromSeed("no.such.account")
	_, err := engine.Execute(in)
	assert.ErrorIs(t, err, types.ErrAccountNotFound)
}

func TestRegisterDuplicateProgram(t *testing.T) {
	engine, _ := setupTestEngine(t)
	require.NoError(t, engine.Register(testProgramID, writeAll(1)))
	assert.ErrorIs(t, engine.Register(testProgramID, writeAll(2)), ErrProgramExists)
}

func TestExecuteEnforcesComputeBudget(t *testing.T) {
	engine, err := NewEngine(&Config{
		LedgerType:    string(ledger.MemoryBackendType),
		ComputeBudget: 1,
	})
	require.NoError(t, err)
	defer engine.Close()
	require.NoError(t, engine.Register(testProgramID, writeAll(1)))

	_, err = engine.Execute(testInstruction(true))
	assert.ErrorIs(t, err, ErrComputeBudgetExceeded)
}

func TestSlotAdvancesPerExecution(t *testing.T) {
	engine, _ := setupTestEngine(t)
	require.NoError(t, engine.Register(testProgramID, writeAll(1)))

	first, err := engine.Execute(testInstruction(true))
	require.NoError(t, err)
	second, err := engine.Execute(testInstruction(true))
	require.NoError(t, err)

	assert.Equal(t, first.Slot+1, second.Slot)
	assert.NotEqual(t, first.Hash, second.Hash)
}

func TestMeter(t *testing.T) {
	meter := NewMeter(100)

	require.NoError(t, meter.Consume(60))
	assert.Equal(t, uint64(60), meter.Used())
	assert.Equal(t, uint64(40), meter.Remaining())

	assert.ErrorIs(t, meter.Consume(50), ErrComputeBudgetExceeded)
	assert.Equal(t, uint64(100), meter.Used())
}
