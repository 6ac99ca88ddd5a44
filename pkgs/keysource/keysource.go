// Package keysource abstracts the three ways an operator can hold BLS
// validator keys: raw secret keys, EIP-2335 encrypted keystores, and a
// remote signing service. All variants expose the same signing capability
// so the delegation signer does not care where key material lives.
package keysource

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Sentinel errors. Configuration errors are fatal pre-flight failures;
// the rest are surfaced per-key so callers can skip and continue.
var (
	// ErrAmbiguousKeySource means zero or more than one variant was selected.
	ErrAmbiguousKeySource = errors.New("exactly one key source must be configured")
	// ErrUnknownKey means the requested public key is not held by this source.
	ErrUnknownKey = errors.New("unknown public key")
	// ErrKeystoreDecryption means a keystore entry could not be decrypted
	// with the provided password.
	ErrKeystoreDecryption = errors.New("keystore decryption failed")
	// ErrConnection is a transport-level failure talking to a remote signer.
	// Distinct from cryptographic rejection so callers may retry.
	ErrConnection = errors.New("remote signer connection error")
	// ErrRemoteRejected means the remote signer refused the signing request.
	ErrRemoteRejected = errors.New("remote signer rejected the request")
)

// KeySource provides BLS signing capability over a fixed set of keys.
// Implementations own any decrypted key material for their lifetime and
// never persist it.
type KeySource interface {
	// PublicKeys returns the compressed G1 public keys this source can sign for.
	PublicKeys() ([][]byte, error)
	// Sign produces a compressed G2 signature over signingRoot under the key
	// identified by pubKey. Returns ErrUnknownKey if the key is not held.
	Sign(ctx context.Context, pubKey []byte, signingRoot [32]byte) ([]byte, error)
}

// RemoteTLS carries the mutual-TLS connection parameters for a remote signer.
type RemoteTLS struct {
	ClientCertPath string
	ClientKeyPath  string
	CACertPath     string
}

// Config selects exactly one key source variant. Selecting zero or more than
// one is a configuration error caught before any cryptographic operation.
type Config struct {
	// SecretKeys holds hex-encoded raw BLS secret keys.
	SecretKeys []string
	// KeystorePath points at a directory of EIP-2335 keystore files.
	KeystorePath string
	// KeystorePassword is a password shared by every keystore entry.
	KeystorePassword string
	// KeystorePasswordDir holds one password file per pubkey, named by the
	// hex-encoded public key.
	KeystorePasswordDir string
	// RemoteURL is the endpoint of a remote signing service.
	RemoteURL string
	// RemoteTLS configures mutual TLS towards the remote signer.
	RemoteTLS RemoteTLS
	// RemotePassphrase is a wallet passphrase reference sent to the remote
	// signer with each request.
	RemotePassphrase string
}

// Select validates the config and constructs the chosen variant.
func (c Config) Select(logger *zap.Logger) (KeySource, error) {
	selected := 0
	if len(c.SecretKeys) > 0 {
		selected++
	}
	if c.KeystorePath != "" {
		selected++
	}
	if c.RemoteURL != "" {
		selected++
	}
	if selected != 1 {
		return nil, errors.Wrapf(ErrAmbiguousKeySource, "%d variants selected", selected)
	}

	switch {
	case len(c.SecretKeys) > 0:
		return NewSecretKeysSource(c.SecretKeys)
	case c.KeystorePath != "":
		secret, err := newKeystoreSecret(c.KeystorePassword, c.KeystorePasswordDir)
		if err != nil {
			return nil, err
		}
		return NewKeystoreSource(logger, c.KeystorePath, secret)
	default:
		return NewRemoteSignerSource(c.RemoteURL, c.RemoteTLS, c.RemotePassphrase)
	}
}
