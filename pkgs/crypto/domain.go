package crypto

import (
	"fmt"
	"strings"

	"github.com/attestantio/go-eth2-client/spec/phase0"
	types "github.com/wealdtech/go-eth2-types/v2"
)

// Domain separation tags. A signature produced for one purpose must never
// verify under another, so every signing surface gets its own tag:
//
//   - DomainTypeCommitment is the commit-boost domain used for inclusion
//     commitments ("Comm" in little-endian ASCII).
//   - DomainTypeDelegation covers delegation and revocation messages.
//   - DomainTypeRegistration covers the registry's proof-of-possession.
var (
	DomainTypeCommitment   = types.DomainType{0x6d, 0x6d, 0x6f, 0x43}
	DomainTypeDelegation   = types.DomainType{0x44, 0x6c, 0x67, 0x74}
	DomainTypeRegistration = types.DomainType{0x52, 0x65, 0x67, 0x6e}
)

// Chain identifies a target network for replay scoping. The genesis fork
// version feeds the signing domain, so the same message signed for two chains
// yields two unrelated signatures.
type Chain struct {
	Name               string
	ID                 uint64
	GenesisForkVersion [4]byte
}

var (
	Mainnet  = Chain{Name: "mainnet", ID: 1, GenesisForkVersion: [4]byte{0x00, 0x00, 0x00, 0x00}}
	Holesky  = Chain{Name: "holesky", ID: 17000, GenesisForkVersion: [4]byte{0x01, 0x01, 0x70, 0x00}}
	Helder   = Chain{Name: "helder", ID: 7014190335, GenesisForkVersion: [4]byte{0x10, 0x00, 0x00, 0x00}}
	Kurtosis = Chain{Name: "kurtosis", ID: 3151908, GenesisForkVersion: [4]byte{0x10, 0x00, 0x00, 0x38}}
)

var chains = []Chain{Mainnet, Holesky, Helder, Kurtosis}

// ChainByName resolves a chain by its lowercase name.
func ChainByName(name string) (Chain, error) {
	for _, c := range chains {
		if c.Name == strings.ToLower(name) {
			return c, nil
		}
	}
	return Chain{}, fmt.Errorf("unknown chain %q", name)
}

// ChainByID resolves a chain by its chain ID.
func ChainByID(id uint64) (Chain, error) {
	for _, c := range chains {
		if c.ID == id {
			return c, nil
		}
	}
	return Chain{}, fmt.Errorf("unknown chain id %d", id)
}

// ComputeDomain mixes a domain type with the chain's genesis fork version.
// The genesis validators root is zero, as for deposit domains.
func ComputeDomain(domainType types.DomainType, chain Chain) ([]byte, error) {
	return types.ComputeDomain(domainType, chain.GenesisForkVersion[:], types.ZeroGenesisValidatorsRoot)
}

// ComputeSigningRoot wraps an object root and a domain into the standard
// phase0 signing container and returns its hash tree root. Signer and
// verifier must agree on this byte-for-byte.
func ComputeSigningRoot(objectRoot [32]byte, domainType types.DomainType, chain Chain) ([32]byte, error) {
	domain, err := ComputeDomain(domainType, chain)
	if err != nil {
		return [32]byte{}, fmt.Errorf("failed to compute domain: %w", err)
	}

	signingData := phase0.SigningData{
		ObjectRoot: objectRoot,
	}
	copy(signingData.Domain[:], domain[:])

	root, err := signingData.HashTreeRoot()
	if err != nil {
		return [32]byte{}, fmt.Errorf("failed to determine the root hash of signing container: %w", err)
	}
	return root, nil
}
