package counter

import "github.com/govm-net/counter/core"

// ProgramID is the identity the counter program is registered under.
var ProgramID = core.PubkeyFromSeed("counter.program.v1")

// Account order expected by every instruction:
//
//	0. [writable] counter account
//	1. [signer]   authority (payer on initialize)
const (
	targetAccountIndex    = 0
	authorityAccountIndex = 1
	minAccounts           = 2
)

// Process is the program entry point. The host supplies the program's own
// identity, the ordered accounts the transaction declared, and the raw
// instruction payload. A nil return means the host may commit the storage
// writes; any error aborts the invocation with nothing committed.
func Process(programID core.Pubkey, accounts []*core.AccountInfo, data []byte) error {
	instruction, err := DecodeInstruction(data)
	if err != nil {
		return err
	}
	target, err := validate(programID, accounts, instruction)
	if err != nil {
		return err
	}
	return apply(target, instruction)
}

// validate enforces authorization and lifecycle rules before any mutation.
// An account counts as initialized once its data region has been written,
// i.e. its visible length is non-zero.
func validate(programID core.Pubkey, accounts []*core.AccountInfo, in Instruction) (*core.AccountInfo, error) {
	if len(accounts) < minAccounts {
		return nil, core.ErrNotEnoughAccounts
	}
	target := accounts[targetAccountIndex]
	authority := accounts[authorityAccountIndex]

	switch in.Kind {
	case KindInitialize:
		if len(target.Data) > 0 {
			return nil, core.ErrAccountAlreadyInitialized
		}
	default:
		if len(target.Data) < RecordSize {
			return nil, core.ErrUninitializedAccount
		}
	}

	if target.Owner != programID {
		return nil, core.ErrInvalidOwner
	}
	if !authority.IsSigner {
		return nil, core.ErrMissingSigner
	}
	if in.Kind == KindInitialize && target.Space() < RecordSize {
		return nil, core.ErrAccountDataTooSmall
	}
	return target, nil
}

// apply runs the state transition. The new value is computed in full before
// anything is written, so a failed check leaves the stored record untouched.
func apply(target *core.AccountInfo, in Instruction) error {
	switch in.Kind {
	case KindInitialize:
		if err := target.Grow(RecordSize); err != nil {
			return err
		}
		return Record{Count: in.InitialValue}.Serialize(target.Data)
	case KindIncrement:
		record, err := DecodeRecord(target.Data)
		if err != nil {
			return err
		}
		next, ok := checkedAdd(record.Count, in.StepOrDefault())
		if !ok {
			return core.ErrArithmeticOverflow
		}
		return Record{Count: next}.Serialize(target.Data)
	case KindDecrement:
		record, err := DecodeRecord(target.Data)
		if err != nil {
			return err
		}
		next, ok := checkedSub(record.Count, in.StepOrDefault())
		if !ok {
			return core.ErrArithmeticUnderflow
		}
		return Record{Count: next}.Serialize(target.Data)
	}
	// unreachable: DecodeInstruction rejects unknown tags
	return core.ErrInvalidInstructionData
}

func checkedAdd(a, b uint64) (uint64, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}

func checkedSub(a, b uint64) (uint64, bool) {
	if b > a {
		return 0, false
	}
	return a - b, true
}
