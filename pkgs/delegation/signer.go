package delegation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/faheelsattar/bolt/pkgs/crypto"
	"github.com/faheelsattar/bolt/pkgs/keysource"
)

// Sign builds and signs one message per key held by the source, granting or
// revoking authority towards delegateePubKey on the given chain. Each message
// carries its own signature; there is no aggregation. Every produced message
// is verified before it is returned, so a bad key source cannot emit an
// artifact the loader would later drop.
func Sign(
	ctx context.Context,
	logger *zap.Logger,
	source keysource.KeySource,
	delegateePubKey []byte,
	chain crypto.Chain,
	action Action,
) ([]*SignedMessage, error) {
	if _, err := crypto.ParseBLSPublicKey(delegateePubKey); err != nil {
		return nil, fmt.Errorf("delegatee pubkey: %w", err)
	}

	pubKeys, err := source.PublicKeys()
	if err != nil {
		return nil, fmt.Errorf("failed to list public keys: %w", err)
	}
	if len(pubKeys) == 0 {
		return nil, fmt.Errorf("key source holds no keys")
	}

	verifier := NewVerifier(chain)
	signed := make([]*SignedMessage, 0, len(pubKeys))
	for _, pubKey := range pubKeys {
		msg := Message{
			Action:          action,
			ChainID:         chain.ID,
			ValidatorPubKey: pubKey,
			DelegateePubKey: delegateePubKey,
		}
		root, err := msg.SigningRoot(chain)
		if err != nil {
			return nil, err
		}
		sig, err := source.Sign(ctx, pubKey, root)
		if err != nil {
			return nil, fmt.Errorf("failed to sign for key %x: %w", pubKey, err)
		}

		sm := &SignedMessage{Message: msg, Signature: sig}
		if err := verifier.Verify(sm); err != nil {
			return nil, fmt.Errorf("produced signature does not verify for key %x: %w", pubKey, err)
		}
		signed = append(signed, sm)

		logger.Debug("signed message",
			zap.String("action", action.String()),
			zap.String("validator", fmt.Sprintf("%x", pubKey)))
	}

	logger.Info("signed delegation messages",
		zap.Int("count", len(signed)),
		zap.String("chain", chain.Name),
		zap.String("action", action.String()))
	return signed, nil
}
