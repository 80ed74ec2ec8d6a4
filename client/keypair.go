package client

import (
	"crypto/ed25519"
	"crypto/rand"

	"github.com/govm-net/counter/core"
)

// Keypair is an ed25519 keypair whose public key doubles as the account
// address.
type Keypair struct {
	Public  core.Pubkey
	Private ed25519.PrivateKey
}

// NewKeypair generates a fresh keypair.
func NewKeypair() (*Keypair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}

	var key core.Pubkey
	copy(key[:], pub)
	return &Keypair{Public: key, Private: priv}, nil
}

// Sign signs a message with the private key.
func (k *Keypair) Sign(message []byte) []byte {
	return ed25519.Sign(k.Private, message)
}
