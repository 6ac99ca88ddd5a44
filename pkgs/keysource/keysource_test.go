package keysource

import (
	"context"
	"testing"

	"github.com/herumi/bls-eth-go-binary/bls"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestKey(t *testing.T) *bls.SecretKey {
	t.Helper()
	sk := &bls.SecretKey{}
	sk.SetByCSPRNG()
	return sk
}

func TestConfigSelectExactlyOne(t *testing.T) {
	logger := zap.NewNop()

	_, err := Config{}.Select(logger)
	require.ErrorIs(t, err, ErrAmbiguousKeySource)

	_, err = Config{
		SecretKeys:   []string{newTestKey(t).SerializeToHexStr()},
		KeystorePath: t.TempDir(),
	}.Select(logger)
	require.ErrorIs(t, err, ErrAmbiguousKeySource)

	_, err = Config{
		SecretKeys: []string{newTestKey(t).SerializeToHexStr()},
		RemoteURL:  "https://signer.example",
	}.Select(logger)
	require.ErrorIs(t, err, ErrAmbiguousKeySource)

	source, err := Config{
		SecretKeys: []string{newTestKey(t).SerializeToHexStr()},
	}.Select(logger)
	require.NoError(t, err)
	require.IsType(t, &SecretKeysSource{}, source)
}

func TestSecretKeysSource(t *testing.T) {
	sk1 := newTestKey(t)
	sk2 := newTestKey(t)

	source, err := NewSecretKeysSource([]string{
		sk1.SerializeToHexStr(),
		"0x" + sk2.SerializeToHexStr(),
	})
	require.NoError(t, err)

	pubs, err := source.PublicKeys()
	require.NoError(t, err)
	require.Len(t, pubs, 2)
	require.Equal(t, sk1.GetPublicKey().Serialize(), pubs[0])
	require.Equal(t, sk2.GetPublicKey().Serialize(), pubs[1])

	var root [32]byte
	copy(root[:], []byte("signing root"))

	sig, err := source.Sign(context.Background(), pubs[0], root)
	require.NoError(t, err)
	parsed := &bls.Sign{}
	require.NoError(t, parsed.Deserialize(sig))
	require.True(t, parsed.VerifyByte(sk1.GetPublicKey(), root[:]))

	// Key not held by the source.
	_, err = source.Sign(context.Background(), newTestKey(t).GetPublicKey().Serialize(), root)
	require.ErrorIs(t, err, ErrUnknownKey)
}

func TestSecretKeysSourceRejectsGarbage(t *testing.T) {
	_, err := NewSecretKeysSource([]string{"nothex"})
	require.Error(t, err)
}
