// Package core provides the fundamental types and errors shared by programs
// that run on the runtime and by the host that invokes them.
// Program code only needs this package to process an invocation.
package core

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/mr-tron/base58"
)

// Pubkey identifies an account or a program.
type Pubkey [32]byte

// Hash is a 32-byte digest, used for transaction identifiers.
type Hash [32]byte

var ZeroPubkey = Pubkey{}

// SystemOwner marks accounts that belong to no program. Freshly funded
// accounts (payers, authorities) carry it as their owner.
var SystemOwner = Pubkey{}

func (p Pubkey) String() string {
	return base58.Encode(p[:])
}

func (p Pubkey) IsZero() bool {
	return p == ZeroPubkey
}

// PubkeyFromString parses a base58-encoded public key.
func PubkeyFromString(s string) (Pubkey, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return Pubkey{}, ErrInvalidPubkey
	}
	if len(raw) != len(Pubkey{}) {
		return Pubkey{}, ErrInvalidPubkey
	}
	var p Pubkey
	copy(p[:], raw)
	return p, nil
}

// PubkeyFromSeed derives a deterministic key from a seed string. Program
// identities are fixed this way so clients and the runtime agree on them.
func PubkeyFromSeed(seed string) Pubkey {
	return Pubkey(sha256.Sum256([]byte(seed)))
}

// HashBytes computes the digest used for transaction hashes.
func HashBytes(data []byte) Hash {
	return Hash(sha256.Sum256(data))
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}
