package crypto

import (
	"testing"

	"github.com/herumi/bls-eth-go-binary/bls"
	"github.com/stretchr/testify/require"
)

func TestDomainTypesAreDistinct(t *testing.T) {
	require.NotEqual(t, DomainTypeDelegation, DomainTypeCommitment)
	require.NotEqual(t, DomainTypeDelegation, DomainTypeRegistration)
	require.NotEqual(t, DomainTypeRegistration, DomainTypeCommitment)
}

func TestComputeSigningRootDeterministic(t *testing.T) {
	var objectRoot [32]byte
	copy(objectRoot[:], []byte("some object root for signing tes"))

	root1, err := ComputeSigningRoot(objectRoot, DomainTypeDelegation, Holesky)
	require.NoError(t, err)
	root2, err := ComputeSigningRoot(objectRoot, DomainTypeDelegation, Holesky)
	require.NoError(t, err)
	require.Equal(t, root1, root2)

	// A different domain or chain yields a different root.
	rootCommitment, err := ComputeSigningRoot(objectRoot, DomainTypeCommitment, Holesky)
	require.NoError(t, err)
	require.NotEqual(t, root1, rootCommitment)

	rootMainnet, err := ComputeSigningRoot(objectRoot, DomainTypeDelegation, Mainnet)
	require.NoError(t, err)
	require.NotEqual(t, root1, rootMainnet)
}

func TestChainLookups(t *testing.T) {
	c, err := ChainByName("holesky")
	require.NoError(t, err)
	require.Equal(t, uint64(17000), c.ID)

	c, err = ChainByID(1)
	require.NoError(t, err)
	require.Equal(t, "mainnet", c.Name)

	_, err = ChainByName("sepolia")
	require.Error(t, err)
	_, err = ChainByID(42)
	require.Error(t, err)
}

func TestParseBLSPublicKey(t *testing.T) {
	sk := &bls.SecretKey{}
	sk.SetByCSPRNG()
	serialized := sk.GetPublicKey().Serialize()

	pk, err := ParseBLSPublicKey(serialized)
	require.NoError(t, err)
	require.Equal(t, serialized, pk.Serialize())

	_, err = ParseBLSPublicKey(serialized[:47])
	require.ErrorIs(t, err, ErrMalformedPoint)

	garbage := make([]byte, BLSPubKeyLength)
	for i := range garbage {
		garbage[i] = 0xff
	}
	_, err = ParseBLSPublicKey(garbage)
	require.ErrorIs(t, err, ErrMalformedPoint)
}

func TestParseBLSSignature(t *testing.T) {
	sk := &bls.SecretKey{}
	sk.SetByCSPRNG()
	sig := sk.SignByte([]byte("msg")).Serialize()

	parsed, err := ParseBLSSignature(sig)
	require.NoError(t, err)
	require.Equal(t, sig, parsed.Serialize())

	_, err = ParseBLSSignature(sig[:95])
	require.ErrorIs(t, err, ErrMalformedPoint)
}

func TestVerifySignature(t *testing.T) {
	sk := &bls.SecretKey{}
	sk.SetByCSPRNG()

	var root [32]byte
	copy(root[:], []byte("root"))
	sig := sk.SignByte(root[:])

	require.True(t, VerifySignature(sk.GetPublicKey(), root, sig))

	var otherRoot [32]byte
	copy(otherRoot[:], []byte("other"))
	require.False(t, VerifySignature(sk.GetPublicKey(), otherRoot, sig))
}
