package keysource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/imroc/req/v3"
	"github.com/pkg/errors"
)

const remoteRequestTimeout = 10 * time.Second

// RemoteSignerSource signs through a remote signing service holding the key
// material. The wire shape follows the web3signer API: the caller computes
// the signing root, the service applies the key.
type RemoteSignerSource struct {
	client     *req.Client
	passphrase string
}

type remoteSignRequest struct {
	SigningRoot hexutil.Bytes `json:"signingRoot"`
	Passphrase  string        `json:"passphrase,omitempty"`
}

type remoteSignResponse struct {
	Signature hexutil.Bytes `json:"signature"`
}

// NewRemoteSignerSource builds the HTTP client, including mutual TLS when
// certificate paths are provided.
func NewRemoteSignerSource(url string, tls RemoteTLS, passphrase string) (*RemoteSignerSource, error) {
	client := req.C().
		SetBaseURL(strings.TrimRight(url, "/")).
		SetTimeout(remoteRequestTimeout)

	if tls.ClientCertPath != "" || tls.ClientKeyPath != "" {
		if tls.ClientCertPath == "" || tls.ClientKeyPath == "" {
			return nil, errors.New("remote signer client certificate and key must both be provided")
		}
		client.SetCertFromFile(tls.ClientCertPath, tls.ClientKeyPath)
	}
	if tls.CACertPath != "" {
		client.SetRootCertsFromFile(tls.CACertPath)
	}

	return &RemoteSignerSource{client: client, passphrase: passphrase}, nil
}

func (s *RemoteSignerSource) PublicKeys() ([][]byte, error) {
	res, err := s.client.R().Get("/api/v1/eth2/publicKeys")
	if err != nil {
		return nil, errors.Wrapf(ErrConnection, "%s", err)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrapf(ErrConnection, "%s", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(ErrRemoteRejected, "status %d: %s", res.StatusCode, body)
	}

	var hexKeys []string
	if err := json.Unmarshal(body, &hexKeys); err != nil {
		return nil, fmt.Errorf("failed to parse public keys response: %w", err)
	}
	keys := make([][]byte, 0, len(hexKeys))
	for _, h := range hexKeys {
		b, err := hexutil.Decode(h)
		if err != nil {
			return nil, fmt.Errorf("invalid public key %q in response: %w", h, err)
		}
		keys = append(keys, b)
	}
	return keys, nil
}

func (s *RemoteSignerSource) Sign(ctx context.Context, pubKey []byte, signingRoot [32]byte) ([]byte, error) {
	payload, err := json.Marshal(remoteSignRequest{
		SigningRoot: signingRoot[:],
		Passphrase:  s.passphrase,
	})
	if err != nil {
		return nil, err
	}

	r := s.client.R().SetContext(ctx)
	r.SetBodyBytes(payload)
	r.SetContentType("application/json")
	res, err := r.Post(fmt.Sprintf("/api/v1/eth2/sign/%s", hexutil.Encode(pubKey)))
	if err != nil {
		return nil, errors.Wrapf(ErrConnection, "%s", err)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrapf(ErrConnection, "%s", err)
	}

	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrUnknownKey
	default:
		return nil, errors.Wrapf(ErrRemoteRejected, "status %d: %s", res.StatusCode, body)
	}

	var signResponse remoteSignResponse
	if err := json.Unmarshal(body, &signResponse); err != nil {
		return nil, fmt.Errorf("failed to parse sign response: %w", err)
	}
	return signResponse.Signature, nil
}
