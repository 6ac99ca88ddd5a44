// Package registry holds the authoritative mapping of validator identity to
// controller, operator and commitment limits. It is the in-memory reference
// model of the on-chain contract: concurrent access is serialized here by a
// lock the way transactions are serialized by block ordering on chain.
package registry

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	util "github.com/wealdtech/go-eth2-util"
	"go.uber.org/zap"

	"github.com/faheelsattar/bolt/pkgs/crypto"
)

// Registry state errors. No retry is meaningful for any of them; the caller
// must change its request.
var (
	ErrValidatorAlreadyExists       = errors.New("validator already exists")
	ErrNotRegisteredValidator       = errors.New("validator is not registered")
	ErrInvalidAuthorizedOperator    = errors.New("authorized operator must not be the zero address")
	ErrUnsafeRegistrationNotAllowed = errors.New("unsafe registration is not allowed")
	ErrUnauthorizedCaller           = errors.New("caller is not authorized")
	ErrBadSignature                 = errors.New("invalid registration signature")
)

// Validator is one registry entry. Entries are tombstoned on deregistration,
// never physically deleted, so a pubkey slot keeps its history: a tombstoned
// pubkey can never be registered again.
type Validator struct {
	PubKey               []byte
	Exists               bool
	Controller           common.Address
	AuthorizedOperator   common.Address
	MaxCommittedGasLimit uint64
}

// EventType enumerates the registry mutations an observer can see.
type EventType string

const (
	EventValidatorRegistered   EventType = "ValidatorRegistered"
	EventValidatorDeregistered EventType = "ValidatorDeregistered"
	EventOperatorUpdated       EventType = "OperatorUpdated"
	EventGasLimitUpdated       EventType = "GasLimitUpdated"
)

// Event records one successful registry mutation.
type Event struct {
	Type       EventType
	PubKey     []byte
	Controller common.Address
	Operator   common.Address
	GasLimit   uint64
}

// Options configures a registry at construction. AllowUnsafeRegistration is
// explicit injected state, default off; it is mutable only through
// SetUnsafeRegistration by the admin.
type Options struct {
	Chain                   crypto.Chain
	Admin                   common.Address
	AllowUnsafeRegistration bool
	Logger                  *zap.Logger
}

type Registry struct {
	mu sync.RWMutex

	chain       crypto.Chain
	admin       common.Address
	allowUnsafe bool
	logger      *zap.Logger

	validators map[[crypto.BLSPubKeyLength]byte]*Validator
	events     []Event
}

func New(opts Options) *Registry {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		chain:       opts.Chain,
		admin:       opts.Admin,
		allowUnsafe: opts.AllowUnsafeRegistration,
		logger:      logger.Named("validator-registry"),
		validators:  make(map[[crypto.BLSPubKeyLength]byte]*Validator),
	}
}

// RegistrationDigest is the canonical payload of the proof-of-possession a
// validator signs to register: its own pubkey bound to the controller
// address, so a captured proof cannot be replayed by another controller.
func RegistrationDigest(pubKey []byte, controller common.Address) [32]byte {
	h := util.SHA256(pubKey, controller.Bytes())
	var digest [32]byte
	copy(digest[:], h)
	return digest
}

// RegistrationSigningRoot binds the registration digest to the registration
// domain of the given chain.
func RegistrationSigningRoot(pubKey []byte, controller common.Address, chain crypto.Chain) ([32]byte, error) {
	return crypto.ComputeSigningRoot(RegistrationDigest(pubKey, controller), crypto.DomainTypeRegistration, chain)
}

// RegisterValidator registers pubKey with a BLS proof-of-possession over the
// registration domain. The caller becomes the controller.
func (r *Registry) RegisterValidator(caller common.Address, pubKey, signature []byte, maxCommittedGasLimit uint64, operator common.Address) error {
	pk, err := crypto.ParseBLSPublicKey(pubKey)
	if err != nil {
		return err
	}
	sig, err := crypto.ParseBLSSignature(signature)
	if err != nil {
		return err
	}
	root, err := RegistrationSigningRoot(pubKey, caller, r.chain)
	if err != nil {
		return err
	}
	if !crypto.VerifySignature(pk, root, sig) {
		return ErrBadSignature
	}

	return r.register(caller, pubKey, maxCommittedGasLimit, operator)
}

// RegisterValidatorUnsafe registers pubKey without a proof-of-possession.
// Gated by the unsafe-registration flag; exists only as a bootstrap
// affordance before proofs are universally available.
func (r *Registry) RegisterValidatorUnsafe(caller common.Address, pubKey []byte, maxCommittedGasLimit uint64, operator common.Address) error {
	r.mu.RLock()
	allowed := r.allowUnsafe
	r.mu.RUnlock()
	if !allowed {
		return ErrUnsafeRegistrationNotAllowed
	}
	if _, err := crypto.ParseBLSPublicKey(pubKey); err != nil {
		return err
	}
	return r.register(caller, pubKey, maxCommittedGasLimit, operator)
}

func (r *Registry) register(caller common.Address, pubKey []byte, maxCommittedGasLimit uint64, operator common.Address) error {
	if operator == (common.Address{}) {
		return ErrInvalidAuthorizedOperator
	}

	key, err := toKey(pubKey)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// A tombstoned slot blocks re-registration as much as a live one does.
	if _, ok := r.validators[key]; ok {
		return ErrValidatorAlreadyExists
	}

	r.validators[key] = &Validator{
		PubKey:               append([]byte(nil), pubKey...),
		Exists:               true,
		Controller:           caller,
		AuthorizedOperator:   operator,
		MaxCommittedGasLimit: maxCommittedGasLimit,
	}
	r.emit(Event{
		Type:       EventValidatorRegistered,
		PubKey:     pubKey,
		Controller: caller,
		Operator:   operator,
		GasLimit:   maxCommittedGasLimit,
	})
	return nil
}

// DeregisterValidator tombstones the entry. Controller only.
func (r *Registry) DeregisterValidator(caller common.Address, pubKey []byte) error {
	key, err := toKey(pubKey)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.validators[key]
	if !ok || !v.Exists {
		return ErrNotRegisteredValidator
	}
	if v.Controller != caller {
		return ErrUnauthorizedCaller
	}

	v.Exists = false
	r.emit(Event{
		Type:       EventValidatorDeregistered,
		PubKey:     pubKey,
		Controller: caller,
	})
	return nil
}

// UpdateMaxCommittedGasLimit mutates the per-slot gas bound. Controller only.
func (r *Registry) UpdateMaxCommittedGasLimit(caller common.Address, pubKey []byte, limit uint64) error {
	key, err := toKey(pubKey)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.validators[key]
	if !ok || !v.Exists {
		return ErrNotRegisteredValidator
	}
	if v.Controller != caller {
		return ErrUnauthorizedCaller
	}

	v.MaxCommittedGasLimit = limit
	r.emit(Event{
		Type:       EventGasLimitUpdated,
		PubKey:     pubKey,
		Controller: caller,
		GasLimit:   limit,
	})
	return nil
}

// UpdateAuthorizedOperator rotates the registry-level operator. Controller
// only; operator must be non-zero.
func (r *Registry) UpdateAuthorizedOperator(caller common.Address, pubKey []byte, operator common.Address) error {
	if operator == (common.Address{}) {
		return ErrInvalidAuthorizedOperator
	}
	key, err := toKey(pubKey)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.validators[key]
	if !ok || !v.Exists {
		return ErrNotRegisteredValidator
	}
	if v.Controller != caller {
		return ErrUnauthorizedCaller
	}

	v.AuthorizedOperator = operator
	r.emit(Event{
		Type:       EventOperatorUpdated,
		PubKey:     pubKey,
		Controller: caller,
		Operator:   operator,
	})
	return nil
}

// GetValidatorByPubkey returns a copy of the live entry for pubKey.
func (r *Registry) GetValidatorByPubkey(pubKey []byte) (Validator, error) {
	key, err := toKey(pubKey)
	if err != nil {
		return Validator{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.validators[key]
	if !ok || !v.Exists {
		return Validator{}, ErrNotRegisteredValidator
	}
	return *v, nil
}

// SetUnsafeRegistration toggles the unsafe-registration flag. Admin only.
func (r *Registry) SetUnsafeRegistration(caller common.Address, allowed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if caller != r.admin {
		return ErrUnauthorizedCaller
	}
	r.allowUnsafe = allowed
	r.logger.Info("unsafe registration flag updated", zap.Bool("allowed", allowed))
	return nil
}

// Events returns a snapshot of the mutation log.
func (r *Registry) Events() []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Event(nil), r.events...)
}

func (r *Registry) emit(ev Event) {
	r.events = append(r.events, ev)
	r.logger.Info("registry event",
		zap.String("type", string(ev.Type)),
		zap.String("pubkey", common.Bytes2Hex(ev.PubKey)),
		zap.String("controller", ev.Controller.Hex()))
}

// toKey keys the validator map by pubkey. The length check keeps a
// wrong-length query from zero-padding or truncating into a stored key.
func toKey(pubKey []byte) ([crypto.BLSPubKeyLength]byte, error) {
	var key [crypto.BLSPubKeyLength]byte
	if len(pubKey) != crypto.BLSPubKeyLength {
		return key, errors.Wrapf(crypto.ErrMalformedPoint, "public key must be %d bytes, got %d", crypto.BLSPubKeyLength, len(pubKey))
	}
	copy(key[:], pubKey)
	return key, nil
}
