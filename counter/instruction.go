// Package counter implements the counter program: a state-transition handler
// invoked by the runtime for every transaction that targets it. It decodes
// the instruction payload, validates the supplied accounts, and applies the
// requested transition to the persisted record with checked arithmetic.
package counter

import (
	"encoding/binary"
	"fmt"

	"github.com/govm-net/counter/core"
)

// InstructionKind is the wire tag selecting the instruction variant.
type InstructionKind uint8

const (
	KindInitialize InstructionKind = iota
	KindIncrement
	KindDecrement
)

// Step presence flag on the wire.
const (
	stepAbsent  byte = 0
	stepPresent byte = 1
)

// Instruction is one decoded instruction payload. Kind selects the variant:
// InitialValue is meaningful only for initialize, Step only for increment
// and decrement, where nil means the default step of 1.
type Instruction struct {
	Kind         InstructionKind
	InitialValue uint64
	Step         *uint64
}

// DecodeInstruction parses an untrusted payload into an Instruction.
// The payload must be consumed exactly; trailing bytes are rejected.
func DecodeInstruction(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return Instruction{}, fmt.Errorf("%w: empty payload", core.ErrInvalidInstructionData)
	}
	kind := InstructionKind(data[0])
	body := data[1:]
	switch kind {
	case KindInitialize:
		if len(body) != 8 {
			return Instruction{}, fmt.Errorf("%w: initialize wants 8 value bytes, got %d",
				core.ErrInvalidInstructionData, len(body))
		}
		return Instruction{Kind: kind, InitialValue: binary.LittleEndian.Uint64(body)}, nil
	case KindIncrement, KindDecrement:
		step, err := decodeStep(body)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Kind: kind, Step: step}, nil
	default:
		return Instruction{}, fmt.Errorf("%w: unknown tag %d", core.ErrInvalidInstructionData, data[0])
	}
}

func decodeStep(body []byte) (*uint64, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: missing step flag", core.ErrInvalidInstructionData)
	}
	switch body[0] {
	case stepAbsent:
		if len(body) != 1 {
			return nil, fmt.Errorf("%w: trailing bytes after step flag", core.ErrInvalidInstructionData)
		}
		return nil, nil
	case stepPresent:
		if len(body) != 9 {
			return nil, fmt.Errorf("%w: step wants 8 bytes, got %d",
				core.ErrInvalidInstructionData, len(body)-1)
		}
		step := binary.LittleEndian.Uint64(body[1:])
		return &step, nil
	default:
		return nil, fmt.Errorf("%w: invalid step flag %d", core.ErrInvalidInstructionData, body[0])
	}
}

// Encode renders the instruction in its wire form, the exact inverse of
// DecodeInstruction. Client tooling builds payloads through it.
func (in Instruction) Encode() []byte {
	if in.Kind == KindInitialize {
		out := make([]byte, 9)
		out[0] = byte(KindInitialize)
		binary.LittleEndian.PutUint64(out[1:], in.InitialValue)
		return out
	}
	if in.Step == nil {
		return []byte{byte(in.Kind), stepAbsent}
	}
	out := make([]byte, 10)
	out[0] = byte(in.Kind)
	out[1] = stepPresent
	binary.LittleEndian.PutUint64(out[2:], *in.Step)
	return out
}

// StepOrDefault returns the effective step size, 1 when absent. A present
// step of 0 is a valid no-op.
func (in Instruction) StepOrDefault() uint64 {
	if in.Step == nil {
		return 1
	}
	return *in.Step
}
