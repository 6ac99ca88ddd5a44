package delegation

import (
	"github.com/pkg/errors"

	"github.com/faheelsattar/bolt/pkgs/crypto"
)

// Verification outcomes. Distinguished for diagnostics; all of them mean the
// message carries no authority.
var (
	// ErrBadSignature means the pairing check failed.
	ErrBadSignature = errors.New("invalid delegation signature")
	// ErrWrongChain means the message targets a different chain than the
	// verifier is configured for.
	ErrWrongChain = errors.New("delegation message is scoped to a different chain")
)

// Verifier checks signed messages against one fixed chain. The registry's
// verification path and the off-chain store loader both go through this exact
// code, so they cannot reach different verdicts for the same input.
type Verifier struct {
	chain crypto.Chain
}

func NewVerifier(chain crypto.Chain) *Verifier {
	return &Verifier{chain: chain}
}

// Verify recomputes the canonical signing root of sm and runs the BLS
// pairing check under the validator pubkey. Returns nil only for a message
// that is well-formed, chain-scoped here, and correctly signed.
func (v *Verifier) Verify(sm *SignedMessage) error {
	if sm.Message.ChainID != v.chain.ID {
		return errors.Wrapf(ErrWrongChain, "got %d, want %d", sm.Message.ChainID, v.chain.ID)
	}

	pubKey, err := crypto.ParseBLSPublicKey(sm.Message.ValidatorPubKey)
	if err != nil {
		return err
	}
	if _, err := crypto.ParseBLSPublicKey(sm.Message.DelegateePubKey); err != nil {
		return err
	}
	sig, err := crypto.ParseBLSSignature(sm.Signature)
	if err != nil {
		return err
	}

	root, err := sm.Message.SigningRoot(v.chain)
	if err != nil {
		return err
	}
	if !crypto.VerifySignature(pubKey, root, sig) {
		return ErrBadSignature
	}
	return nil
}
