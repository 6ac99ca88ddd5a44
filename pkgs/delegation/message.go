// Package delegation implements the signed message protocol by which a
// validator key grants (or revokes) commitment-signing authority to a
// delegatee key.
package delegation

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	util "github.com/wealdtech/go-eth2-util"

	"github.com/faheelsattar/bolt/pkgs/crypto"
)

// Action discriminates the two message kinds a validator key can sign.
type Action uint8

const (
	// ActionDelegate grants signing authority to the delegatee pubkey.
	ActionDelegate Action = 0
	// ActionRevoke withdraws a previously granted authority.
	ActionRevoke Action = 1
)

func (a Action) String() string {
	switch a {
	case ActionDelegate:
		return "delegate"
	case ActionRevoke:
		return "revoke"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(a))
	}
}

// ParseAction parses the CLI spelling of an action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "delegate":
		return ActionDelegate, nil
	case "revoke":
		return ActionRevoke, nil
	default:
		return 0, fmt.Errorf("unknown action %q, want delegate or revoke", s)
	}
}

// Message is the payload a validator key signs. The signature covers the
// exact (action, chainID, validator, delegatee) tuple; altering any field
// invalidates it.
type Message struct {
	Action          Action
	ChainID         uint64
	ValidatorPubKey []byte
	DelegateePubKey []byte
}

// Digest is the canonical byte encoding of the message, hashed: a fixed-width
// concatenation of action (1 byte), chain ID (8 bytes big-endian) and the two
// compressed pubkeys (48 bytes each). Signer and verifier must never disagree
// on this encoding.
func (m *Message) Digest() [32]byte {
	var chainID [8]byte
	binary.BigEndian.PutUint64(chainID[:], m.ChainID)

	h := util.SHA256(
		[]byte{byte(m.Action)},
		chainID[:],
		m.ValidatorPubKey,
		m.DelegateePubKey,
	)

	var digest [32]byte
	copy(digest[:], h)
	return digest
}

// SigningRoot binds the digest to the delegation domain of the given chain.
func (m *Message) SigningRoot(chain crypto.Chain) ([32]byte, error) {
	return crypto.ComputeSigningRoot(m.Digest(), crypto.DomainTypeDelegation, chain)
}

// SignedMessage pairs a message with the BLS signature of its validator key.
type SignedMessage struct {
	Message   Message
	Signature []byte
}

type messageJSON struct {
	Action          uint8         `json:"action"`
	ChainID         uint64        `json:"chain_id"`
	ValidatorPubKey hexutil.Bytes `json:"validator_pubkey"`
	DelegateePubKey hexutil.Bytes `json:"delegatee_pubkey"`
}

type signedMessageJSON struct {
	Message   messageJSON   `json:"message"`
	Signature hexutil.Bytes `json:"signature"`
}

func (s *SignedMessage) MarshalJSON() ([]byte, error) {
	return json.Marshal(signedMessageJSON{
		Message: messageJSON{
			Action:          uint8(s.Message.Action),
			ChainID:         s.Message.ChainID,
			ValidatorPubKey: s.Message.ValidatorPubKey,
			DelegateePubKey: s.Message.DelegateePubKey,
		},
		Signature: s.Signature,
	})
}

func (s *SignedMessage) UnmarshalJSON(data []byte) error {
	var sm signedMessageJSON
	if err := json.Unmarshal(data, &sm); err != nil {
		return fmt.Errorf("failed to unmarshal signed message: %w", err)
	}
	s.Message = Message{
		Action:          Action(sm.Message.Action),
		ChainID:         sm.Message.ChainID,
		ValidatorPubKey: sm.Message.ValidatorPubKey,
		DelegateePubKey: sm.Message.DelegateePubKey,
	}
	s.Signature = sm.Signature
	return nil
}
