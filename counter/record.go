package counter

import (
	"encoding/binary"
	"fmt"

	"github.com/govm-net/counter/core"
)

// RecordSize is the serialized size of a Record.
const RecordSize = 8

// Record is the persisted counter state: 8 bytes, little-endian, at the
// start of the account's data region.
type Record struct {
	Count uint64
}

// DecodeRecord reads a Record from the start of an account data region.
func DecodeRecord(data []byte) (Record, error) {
	if len(data) < RecordSize {
		return Record{}, fmt.Errorf("%w: record wants %d bytes, got %d",
			core.ErrAccountDataTooSmall, RecordSize, len(data))
	}
	return Record{Count: binary.LittleEndian.Uint64(data[:RecordSize])}, nil
}

// Serialize writes the record into the first RecordSize bytes of data,
// in place, without resizing the region.
func (r Record) Serialize(data []byte) error {
	if len(data) < RecordSize {
		return fmt.Errorf("%w: record wants %d bytes, got %d",
			core.ErrAccountDataTooSmall, RecordSize, len(data))
	}
	binary.LittleEndian.PutUint64(data[:RecordSize], r.Count)
	return nil
}
