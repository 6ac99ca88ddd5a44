package keysource

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-chi/chi/v5"
	"github.com/herumi/bls-eth-go-binary/bls"
	"github.com/stretchr/testify/require"
)

// mockSignerServer is a minimal remote signer holding one BLS key.
func mockSignerServer(t *testing.T, sk *bls.SecretKey) *httptest.Server {
	t.Helper()
	pubKeyHex := hexutil.Encode(sk.GetPublicKey().Serialize())

	r := chi.NewRouter()
	r.Get("/api/v1/eth2/publicKeys", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]string{pubKeyHex})
	})
	r.Post("/api/v1/eth2/sign/{pubkey}", func(w http.ResponseWriter, req *http.Request) {
		if chi.URLParam(req, "pubkey") != pubKeyHex {
			http.Error(w, "key not found", http.StatusNotFound)
			return
		}
		var body remoteSignRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		sig := sk.SignByte(body.SigningRoot).Serialize()
		_ = json.NewEncoder(w).Encode(remoteSignResponse{Signature: sig})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestRemoteSignerSource(t *testing.T) {
	sk := newTestKey(t)
	srv := mockSignerServer(t, sk)

	source, err := NewRemoteSignerSource(srv.URL, RemoteTLS{}, "")
	require.NoError(t, err)

	pubs, err := source.PublicKeys()
	require.NoError(t, err)
	require.Len(t, pubs, 1)
	require.Equal(t, sk.GetPublicKey().Serialize(), pubs[0])

	var root [32]byte
	copy(root[:], []byte("remote signing root"))
	sig, err := source.Sign(context.Background(), pubs[0], root)
	require.NoError(t, err)

	parsed := &bls.Sign{}
	require.NoError(t, parsed.Deserialize(sig))
	require.True(t, parsed.VerifyByte(sk.GetPublicKey(), root[:]))
}

func TestRemoteSignerUnknownKey(t *testing.T) {
	sk := newTestKey(t)
	srv := mockSignerServer(t, sk)

	source, err := NewRemoteSignerSource(srv.URL, RemoteTLS{}, "")
	require.NoError(t, err)

	var root [32]byte
	_, err = source.Sign(context.Background(), newTestKey(t).GetPublicKey().Serialize(), root)
	require.ErrorIs(t, err, ErrUnknownKey)
}

func TestRemoteSignerRejection(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/v1/eth2/sign/{pubkey}", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "slashing protection veto", http.StatusPreconditionFailed)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	source, err := NewRemoteSignerSource(srv.URL, RemoteTLS{}, "")
	require.NoError(t, err)

	var root [32]byte
	_, err = source.Sign(context.Background(), newTestKey(t).GetPublicKey().Serialize(), root)
	require.ErrorIs(t, err, ErrRemoteRejected)
}

// Transport failures must surface as ErrConnection, never as a rejection,
// so the caller knows a retry is meaningful.
func TestRemoteSignerConnectionError(t *testing.T) {
	srv := httptest.NewServer(chi.NewRouter())
	url := srv.URL
	srv.Close()

	source, err := NewRemoteSignerSource(url, RemoteTLS{}, "")
	require.NoError(t, err)

	_, err = source.PublicKeys()
	require.ErrorIs(t, err, ErrConnection)

	var root [32]byte
	_, err = source.Sign(context.Background(), newTestKey(t).GetPublicKey().Serialize(), root)
	require.ErrorIs(t, err, ErrConnection)
}

func TestRemoteSignerContextCancellation(t *testing.T) {
	sk := newTestKey(t)

	r := chi.NewRouter()
	r.Post("/api/v1/eth2/sign/{pubkey}", func(w http.ResponseWriter, req *http.Request) {
		select {
		case <-req.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	source, err := NewRemoteSignerSource(srv.URL, RemoteTLS{}, "")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var root [32]byte
	_, err = source.Sign(ctx, sk.GetPublicKey().Serialize(), root)
	require.ErrorIs(t, err, ErrConnection)
}

func TestRemoteTLSRequiresBothCertAndKey(t *testing.T) {
	_, err := NewRemoteSignerSource("https://signer.example", RemoteTLS{ClientCertPath: "cert.pem"}, "")
	require.Error(t, err)
}
