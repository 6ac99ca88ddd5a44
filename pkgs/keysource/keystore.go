package keysource

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/herumi/bls-eth-go-binary/bls"
	"github.com/pkg/errors"
	keystorev4 "github.com/wealdtech/go-eth2-wallet-encryptor-keystorev4"
	"go.uber.org/zap"

	"github.com/faheelsattar/bolt/pkgs/crypto"
)

// keystoreSecret resolves the decryption password for a given pubkey: either
// one password shared by every entry, or one password file per pubkey.
type keystoreSecret struct {
	shared      string
	passwordDir string
}

func newKeystoreSecret(shared, passwordDir string) (keystoreSecret, error) {
	if shared == "" && passwordDir == "" {
		return keystoreSecret{}, errors.New("keystore password or password directory required")
	}
	if shared != "" && passwordDir != "" {
		return keystoreSecret{}, errors.New("keystore password and password directory are mutually exclusive")
	}
	if passwordDir != "" {
		if _, err := os.Stat(passwordDir); err != nil {
			return keystoreSecret{}, fmt.Errorf("keystore password directory: %w", err)
		}
	}
	return keystoreSecret{shared: shared, passwordDir: passwordDir}, nil
}

func (s keystoreSecret) passwordFor(pubKeyHex string) (string, error) {
	if s.shared != "" {
		return s.shared, nil
	}
	pubKeyHex = strings.TrimPrefix(pubKeyHex, "0x")
	for _, name := range []string{pubKeyHex, "0x" + pubKeyHex, pubKeyHex + ".txt"} {
		data, err := os.ReadFile(filepath.Join(s.passwordDir, name))
		if err == nil {
			return strings.TrimSpace(string(data)), nil
		}
	}
	return "", fmt.Errorf("no password file for pubkey %s", pubKeyHex)
}

// eip2335Keystore is the subset of the EIP-2335 JSON format we need.
type eip2335Keystore struct {
	Crypto  map[string]interface{} `json:"crypto"`
	PubKey  string                 `json:"pubkey"`
	Version uint                   `json:"version"`
}

// KeystoreSource signs with keys decrypted from a directory of EIP-2335
// keystore files. Decryption happens once at construction; a failure on one
// entry is logged and skipped so the remaining entries stay usable.
type KeystoreSource struct {
	keys []*bls.SecretKey
}

// NewKeystoreSource loads and decrypts every keystore entry under path.
func NewKeystoreSource(logger *zap.Logger, path string, secret keystoreSecret) (*KeystoreSource, error) {
	paths, err := keystorePaths(path)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no keystore files found under %s", path)
	}

	source := &KeystoreSource{}
	for _, p := range paths {
		sk, err := decryptKeystoreFile(p, secret)
		if err != nil {
			logger.Warn("skipping keystore entry",
				zap.String("path", p),
				zap.Error(err))
			continue
		}
		source.keys = append(source.keys, sk)
	}
	if len(source.keys) == 0 {
		return nil, errors.Wrap(ErrKeystoreDecryption, "no keystore entry could be decrypted")
	}
	return source, nil
}

// keystorePaths collects every JSON file directly under dir or one level
// below it (one subdirectory per pubkey is a common layout).
func keystorePaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore directory: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			nested, err := os.ReadDir(filepath.Join(dir, entry.Name()))
			if err != nil {
				return nil, err
			}
			for _, n := range nested {
				if !n.IsDir() && strings.HasSuffix(n.Name(), ".json") {
					paths = append(paths, filepath.Join(dir, entry.Name(), n.Name()))
				}
			}
			continue
		}
		if strings.HasSuffix(entry.Name(), ".json") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths, nil
}

func decryptKeystoreFile(path string, secret keystoreSecret) (*bls.SecretKey, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore file: %w", err)
	}
	var ks eip2335Keystore
	if err := json.Unmarshal(data, &ks); err != nil {
		return nil, fmt.Errorf("failed to parse keystore JSON: %w", err)
	}
	if ks.Crypto == nil {
		return nil, errors.New("keystore file has no crypto section")
	}

	password, err := secret.passwordFor(ks.PubKey)
	if err != nil {
		return nil, err
	}

	skBytes, err := keystorev4.New().Decrypt(ks.Crypto, password)
	if err != nil {
		return nil, errors.Wrapf(ErrKeystoreDecryption, "%s", err)
	}
	sk, err := crypto.SecretKeyFromBytes(skBytes)
	if err != nil {
		return nil, err
	}

	// The embedded pubkey must match the decrypted scalar.
	if ks.PubKey != "" {
		want := strings.TrimPrefix(ks.PubKey, "0x")
		got := hex.EncodeToString(sk.GetPublicKey().Serialize())
		if !strings.EqualFold(want, got) {
			return nil, fmt.Errorf("keystore pubkey %s does not match decrypted key %s", want, got)
		}
	}
	return sk, nil
}

func (s *KeystoreSource) PublicKeys() ([][]byte, error) {
	pubs := make([][]byte, 0, len(s.keys))
	for _, sk := range s.keys {
		pubs = append(pubs, sk.GetPublicKey().Serialize())
	}
	return pubs, nil
}

func (s *KeystoreSource) Sign(_ context.Context, pubKey []byte, signingRoot [32]byte) ([]byte, error) {
	for _, sk := range s.keys {
		if bytes.Equal(sk.GetPublicKey().Serialize(), pubKey) {
			return sk.SignByte(signingRoot[:]).Serialize(), nil
		}
	}
	return nil, ErrUnknownKey
}
