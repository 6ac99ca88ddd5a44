package crypto

import (
	"fmt"

	"github.com/herumi/bls-eth-go-binary/bls"
	"github.com/pkg/errors"
)

const (
	// BLSPubKeyLength is the byte length of a compressed G1 public key.
	BLSPubKeyLength = 48
	// BLSSignatureLength is the byte length of a compressed G2 signature.
	BLSSignatureLength = 96
)

// ErrMalformedPoint marks input that does not decode to a valid curve point
// in the correct subgroup.
var ErrMalformedPoint = errors.New("malformed BLS point")

func init() {
	_ = bls.Init(bls.BLS12_381)
	_ = bls.SetETHmode(bls.EthModeDraft07)
}

// ParseBLSPublicKey deserializes a compressed G1 public key. Deserialization
// in ETH mode enforces the on-curve and subgroup checks.
func ParseBLSPublicKey(b []byte) (*bls.PublicKey, error) {
	if len(b) != BLSPubKeyLength {
		return nil, errors.Wrapf(ErrMalformedPoint, "public key must be %d bytes, got %d", BLSPubKeyLength, len(b))
	}
	pk := &bls.PublicKey{}
	if err := pk.Deserialize(b); err != nil {
		return nil, errors.Wrapf(ErrMalformedPoint, "deserialize public key: %s", err)
	}
	return pk, nil
}

// ParseBLSSignature deserializes a compressed G2 signature.
func ParseBLSSignature(b []byte) (*bls.Sign, error) {
	if len(b) != BLSSignatureLength {
		return nil, errors.Wrapf(ErrMalformedPoint, "signature must be %d bytes, got %d", BLSSignatureLength, len(b))
	}
	sig := &bls.Sign{}
	if err := sig.Deserialize(b); err != nil {
		return nil, errors.Wrapf(ErrMalformedPoint, "deserialize signature: %s", err)
	}
	return sig, nil
}

// SecretKeyFromHex parses a hex-encoded BLS secret key scalar.
func SecretKeyFromHex(s string) (*bls.SecretKey, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	sk := &bls.SecretKey{}
	if err := sk.DeserializeHexStr(s); err != nil {
		return nil, fmt.Errorf("failed to parse secret key: %w", err)
	}
	return sk, nil
}

// SecretKeyFromBytes builds a BLS secret key from a raw 32 byte scalar.
func SecretKeyFromBytes(b []byte) (*bls.SecretKey, error) {
	sk := &bls.SecretKey{}
	if err := sk.Deserialize(b); err != nil {
		return nil, fmt.Errorf("failed to parse secret key: %w", err)
	}
	return sk, nil
}

// VerifySignature runs the pairing check of sig over signingRoot under pubKey.
func VerifySignature(pubKey *bls.PublicKey, signingRoot [32]byte, sig *bls.Sign) bool {
	return sig.VerifyByte(pubKey, signingRoot[:])
}
