// Package store holds the off-chain agent's view of delegated signing
// authority, built once at startup from a verified batch of delegation and
// revocation messages.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"

	"github.com/faheelsattar/bolt/pkgs/crypto"
	"github.com/faheelsattar/bolt/pkgs/delegation"
)

// Entry is one active delegation.
type Entry struct {
	ValidatorPubKey []byte
	DelegateePubKey []byte
}

// Store answers "who may sign for validator V". Immutable after load;
// reloading means building a new Store.
type Store struct {
	delegations map[[crypto.BLSPubKeyLength]byte][]byte
}

// Load verifies every message and folds the survivors into a delegation map.
// Verification is pure and runs in parallel; the apply pass is sequential in
// file order, so the last applicable action for a validator wins. A message
// failing verification is dropped with a logged reason and never aborts the
// load: the agent keeps serving the validators whose delegations are valid.
func Load(logger *zap.Logger, verifier *delegation.Verifier, msgs []*delegation.SignedMessage) *Store {
	logger = logger.Named("delegation-store")

	verdicts := iter.Map(msgs, func(sm **delegation.SignedMessage) error {
		if *sm == nil {
			return errors.New("null delegation message")
		}
		return verifier.Verify(*sm)
	})

	s := &Store{delegations: make(map[[crypto.BLSPubKeyLength]byte][]byte)}
	accepted := 0
	for i, sm := range msgs {
		if err := verdicts[i]; err != nil {
			logger.Warn("dropping delegation message",
				zap.Int("index", i),
				zap.Error(err))
			continue
		}
		s.apply(logger, sm)
		accepted++
	}

	logger.Info("delegation store loaded",
		zap.Int("messages", len(msgs)),
		zap.Int("accepted", accepted),
		zap.Int("active", len(s.delegations)))
	return s
}

func (s *Store) apply(logger *zap.Logger, sm *delegation.SignedMessage) {
	key := toKey(sm.Message.ValidatorPubKey)
	switch sm.Message.Action {
	case delegation.ActionDelegate:
		s.delegations[key] = append([]byte(nil), sm.Message.DelegateePubKey...)
	case delegation.ActionRevoke:
		// Revoking a delegatee that is not the active one is a no-op.
		active, ok := s.delegations[key]
		if !ok || string(active) != string(sm.Message.DelegateePubKey) {
			logger.Warn("revocation does not match active delegation",
				zap.String("validator", fmt.Sprintf("%x", sm.Message.ValidatorPubKey)))
			return
		}
		delete(s.delegations, key)
	}
}

// LoadFile reads a delegation artifact (an ordered JSON array of signed
// messages) and builds the store from it. Records are decoded one by one:
// a record that does not decode is dropped with a logged reason, the same
// way the verification pass drops records that do not verify, so one bad
// record never takes down its valid siblings.
func LoadFile(logger *zap.Logger, verifier *delegation.Verifier, path string) (*Store, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read delegations file: %w", err)
	}
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse delegations file: %w", err)
	}

	msgs := make([]*delegation.SignedMessage, 0, len(records))
	for i, record := range records {
		sm := &delegation.SignedMessage{}
		if err := json.Unmarshal(record, sm); err != nil {
			logger.Warn("skipping undecodable delegation record",
				zap.Int("index", i),
				zap.Error(err))
			continue
		}
		msgs = append(msgs, sm)
	}
	return Load(logger, verifier, msgs), nil
}

// ResolveSigner returns the active delegatee for validatorPubKey, if any.
// A false return means no active delegation; whether to fall back to the
// validator's own key is the caller's policy.
func (s *Store) ResolveSigner(validatorPubKey []byte) ([]byte, bool) {
	delegatee, ok := s.delegations[toKey(validatorPubKey)]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), delegatee...), true
}

// Len reports the number of active delegations.
func (s *Store) Len() int {
	return len(s.delegations)
}

// Delegations returns a snapshot of the active delegation set.
func (s *Store) Delegations() []Entry {
	entries := make([]Entry, 0, len(s.delegations))
	for validator, delegatee := range s.delegations {
		entries = append(entries, Entry{
			ValidatorPubKey: append([]byte(nil), validator[:]...),
			DelegateePubKey: append([]byte(nil), delegatee...),
		})
	}
	return entries
}

func toKey(pubKey []byte) [crypto.BLSPubKeyLength]byte {
	var key [crypto.BLSPubKeyLength]byte
	copy(key[:], pubKey)
	return key
}
