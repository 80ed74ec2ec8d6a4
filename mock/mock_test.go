package mock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govm-net/counter/client"
	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/counter"
)

func uint64Ptr(v uint64) *uint64 {
	return &v
}

// setupCounter builds a harness with the counter program registered, a
// funded payer, and an allocated (but uninitialized) counter account.
func setupCounter(t *testing.T) (*Harness, core.Pubkey, core.Pubkey) {
	t.Helper()

	harness, err := NewHarness()
	require.NoError(t, err)
	t.Cleanup(func() { harness.Close() })
	require.NoError(t, harness.RegisterProgram(counter.ProgramID, counter.Process))

	payerKeys, err := client.NewKeypair()
	require.NoError(t, err)
	counterKeys, err := client.NewKeypair()
	require.NoError(t, err)
	payer, counterKey := payerKeys.Public, counterKeys.Public

	require.NoError(t, harness.Fund(payer, 1_000_000_000))
	require.Equal(t, uint64(1_000_000_000), harness.Balance(payer))
	require.NoError(t, harness.CreateAccount(counterKey, counter.ProgramID, 1_000, counter.RecordSize))
	return harness, counterKey, payer
}

func readCounter(t *testing.T, harness *Harness, counterKey core.Pubkey) uint64 {
	t.Helper()
	data, err := harness.AccountData(counterKey)
	require.NoError(t, err)
	value, err := client.ReadCounter(data)
	require.NoError(t, err)
	return value
}

func TestInitializeAndIncrement(t *testing.T) {
	harness, counterKey, payer := setupCounter(t)

	receipt, err := harness.Submit(client.NewInitializeInstruction(counter.ProgramID, counterKey, payer, 100))
	require.NoError(t, err)
	assert.Equal(t, core.CodeSuccess, receipt.ErrCode)
	assert.Equal(t, uint64(100), readCounter(t, harness, counterKey))

	_, err = harness.Submit(client.NewIncrementInstruction(counter.ProgramID, counterKey, payer, nil))
	require.NoError(t, err)
	assert.Equal(t, uint64(101), readCounter(t, harness, counterKey))
}

func TestDecrementUnderflowIsRolledBack(t *testing.T) {
	harness, counterKey, payer := setupCounter(t)

	_, err := harness.Submit(client.NewInitializeInstruction(counter.ProgramID, counterKey, payer, 5))
	require.NoError(t, err)

	receipt, err := harness.Submit(client.NewDecrementInstruction(counter.ProgramID, counterKey, payer, uint64Ptr(10)))
	assert.ErrorIs(t, err, core.ErrArithmeticUnderflow)
	assert.Equal(t, core.CodeArithmeticUnderflow, receipt.ErrCode)
	assert.Equal(t, uint64(5), readCounter(t, harness, counterKey))
}

func TestReinitializationIsRejected(t *testing.T) {
	harness, counterKey, payer := setupCounter(t)

	_, err := harness.Submit(client.NewInitializeInstruction(counter.ProgramID, counterKey, payer, 7))
	require.NoError(t, err)

	receipt, err := harness.Submit(client.NewInitializeInstruction(counter.ProgramID, counterKey, payer, 9999))
	assert.ErrorIs(t, err, core.ErrAccountAlreadyInitialized)
	assert.Equal(t, core.CodeAccountAlreadyInitialized, receipt.ErrCode)
	assert.Equal(t, uint64(7), readCounter(t, harness, counterKey))
}

func TestIncrementBeforeInitializeFails(t *testing.T) {
	harness, counterKey, payer := setupCounter(t)

	receipt, err := harness.Submit(client.NewIncrementInstruction(counter.ProgramID, counterKey, payer, nil))
	assert.ErrorIs(t, err, core.ErrUninitializedAccount)
	assert.Equal(t, core.CodeUninitializedAccount, receipt.ErrCode)

	data, err := harness.AccountData(counterKey)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestStepSequenceComposition(t *testing.T) {
	harness, counterKey, payer := setupCounter(t)

	_, err := harness.Submit(client.NewInitializeInstruction(counter.ProgramID, counterKey, payer, 1000))
	require.NoError(t, err)

	increments := []uint64{3, 14, 159}
	decrements := []uint64{26, 5}
	for _, step := range increments {
		_, err := harness.Submit(client.NewIncrementInstruction(counter.ProgramID, counterKey, payer, uint64Ptr(step)))
		require.NoError(t, err)
	}
	for _, step := range decrements {
		_, err := harness.Submit(client.NewDecrementInstruction(counter.ProgramID, counterKey, payer, uint64Ptr(step)))
		require.NoError(t, err)
	}

	// 1000 + (3+14+159) - (26+5)
	assert.Equal(t, uint64(1145), readCounter(t, harness, counterKey))
}

func TestForeignOwnedAccountIsRejected(t *testing.T) {
	harness, _, payer := setupCounter(t)

	foreign := core.PubkeyFromSeed("mock.foreign.account")
	require.NoError(t, harness.CreateAccount(foreign, core.PubkeyFromSeed("other.program"), 0, counter.RecordSize))

	receipt, err := harness.Submit(client.NewInitializeInstruction(counter.ProgramID, foreign, payer, 1))
	assert.ErrorIs(t, err, core.ErrInvalidOwner)
	assert.Equal(t, core.CodeInvalidOwner, receipt.ErrCode)
}
