// Package client builds counter program instructions and reads counter
// state for display. Payloads produced here are byte-compatible with the
// program's decoder.
package client

import (
	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/counter"
	"github.com/govm-net/counter/types"
)

// NewInitializeInstruction builds the instruction that writes the initial
// record into the counter account. The payer signs and funds the account.
//
// Accounts expected in order:
//
//	0. [writable] Counter account
//	1. [signer]   Payer account
func NewInitializeInstruction(programID, counterKey, payer core.Pubkey, initialValue uint64) types.Instruction {
	return types.Instruction{
		ProgramID: programID,
		Data: counter.Instruction{
			Kind:         counter.KindInitialize,
			InitialValue: initialValue,
		}.Encode(),
		Accounts: []types.AccountMeta{
			{
				Key:        counterKey,
				IsWritable: true,
			},
			{
				Key:        payer,
				IsSigner:   true,
				IsWritable: true,
			},
		},
	}
}

// NewIncrementInstruction builds the instruction that adds step to the
// counter. A nil step means the default of 1.
//
// Accounts expected in order:
//
//	0. [writable] Counter account
//	1. [signer]   Authority account
func NewIncrementInstruction(programID, counterKey, authority core.Pubkey, step *uint64) types.Instruction {
	return mutateInstruction(programID, counterKey, authority, counter.KindIncrement, step)
}

// NewDecrementInstruction builds the instruction that subtracts step from
// the counter. A nil step means the default of 1.
//
// Accounts expected in order:
//
//	0. [writable] Counter account
//	1. [signer]   Authority account
func NewDecrementInstruction(programID, counterKey, authority core.Pubkey, step *uint64) types.Instruction {
	return mutateInstruction(programID, counterKey, authority, counter.KindDecrement, step)
}

func mutateInstruction(programID, counterKey, authority core.Pubkey, kind counter.InstructionKind, step *uint64) types.Instruction {
	return types.Instruction{
		ProgramID: programID,
		Data: counter.Instruction{
			Kind: kind,
			Step: step,
		}.Encode(),
		Accounts: []types.AccountMeta{
			{
				Key:        counterKey,
				IsWritable: true,
			},
			{
				Key:      authority,
				IsSigner: true,
			},
		},
	}
}

// ReadCounter decodes the counter value from raw account data.
func ReadCounter(data []byte) (uint64, error) {
	record, err := counter.DecodeRecord(data)
	if err != nil {
		return 0, err
	}
	return record.Count, nil
}
