package keysource

import (
	"bytes"
	"context"
	"fmt"

	"github.com/herumi/bls-eth-go-binary/bls"

	"github.com/faheelsattar/bolt/pkgs/crypto"
)

// SecretKeysSource signs with raw in-memory BLS secret keys. Public keys are
// derived by scalar multiplication with the G1 generator.
type SecretKeysSource struct {
	keys []*bls.SecretKey
}

// NewSecretKeysSource parses the hex-encoded secret keys.
func NewSecretKeysSource(secretKeys []string) (*SecretKeysSource, error) {
	keys := make([]*bls.SecretKey, 0, len(secretKeys))
	for i, s := range secretKeys {
		sk, err := crypto.SecretKeyFromHex(s)
		if err != nil {
			return nil, fmt.Errorf("secret key at index %d: %w", i, err)
		}
		keys = append(keys, sk)
	}
	return &SecretKeysSource{keys: keys}, nil
}

func (s *SecretKeysSource) PublicKeys() ([][]byte, error) {
	pubs := make([][]byte, 0, len(s.keys))
	for _, sk := range s.keys {
		pubs = append(pubs, sk.GetPublicKey().Serialize())
	}
	return pubs, nil
}

func (s *SecretKeysSource) Sign(_ context.Context, pubKey []byte, signingRoot [32]byte) ([]byte, error) {
	for _, sk := range s.keys {
		if bytes.Equal(sk.GetPublicKey().Serialize(), pubKey) {
			return sk.SignByte(signingRoot[:]).Serialize(), nil
		}
	}
	return nil, ErrUnknownKey
}
