package core

import "errors"

// Errors a program may return to the host. The host maps each to a distinct
// failure code via ErrorCode and discards all storage writes of the failed
// invocation.
var (
	ErrInvalidInstructionData    = errors.New("invalid instruction data")
	ErrAccountAlreadyInitialized = errors.New("account already initialized")
	ErrUninitializedAccount      = errors.New("uninitialized account")
	ErrInvalidOwner              = errors.New("account not owned by program")
	ErrMissingSigner             = errors.New("missing required signature")
	ErrNotEnoughAccounts         = errors.New("not enough accounts")
	ErrAccountDataTooSmall       = errors.New("account data too small")
	ErrArithmeticOverflow        = errors.New("arithmetic overflow")
	ErrArithmeticUnderflow       = errors.New("arithmetic underflow")
	ErrInvalidPubkey             = errors.New("invalid public key")
)

// Failure codes surfaced to transaction submitters. 0 is reserved for
// success; CodeUnknown covers errors outside the program taxonomy.
const (
	CodeSuccess                   uint32 = 0
	CodeInvalidInstructionData    uint32 = 1
	CodeAccountAlreadyInitialized uint32 = 2
	CodeUninitializedAccount      uint32 = 3
	CodeInvalidOwner              uint32 = 4
	CodeMissingSigner             uint32 = 5
	CodeNotEnoughAccounts         uint32 = 6
	CodeAccountDataTooSmall       uint32 = 7
	CodeArithmeticOverflow        uint32 = 8
	CodeArithmeticUnderflow       uint32 = 9
	CodeUnknown                   uint32 = 255
)

// ErrorCode maps a program error to its failure code.
func ErrorCode(err error) uint32 {
	switch {
	case err == nil:
		return CodeSuccess
	case errors.Is(err, ErrInvalidInstructionData):
		return CodeInvalidInstructionData
	case errors.Is(err, ErrAccountAlreadyInitialized):
		return CodeAccountAlreadyInitialized
	case errors.Is(err, ErrUninitializedAccount):
		return CodeUninitializedAccount
	case errors.Is(err, ErrInvalidOwner):
		return CodeInvalidOwner
	case errors.Is(err, ErrMissingSigner):
		return CodeMissingSigner
	case errors.Is(err, ErrNotEnoughAccounts):
		return CodeNotEnoughAccounts
	case errors.Is(err, ErrAccountDataTooSmall):
		return CodeAccountDataTooSmall
	case errors.Is(err, ErrArithmeticOverflow):
		return CodeArithmeticOverflow
	case errors.Is(err, ErrArithmeticUnderflow):
		return CodeArithmeticUnderflow
	default:
		return CodeUnknown
	}
}
