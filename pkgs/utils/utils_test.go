package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHexToAddress(t *testing.T) {
	addr, err := HexToAddress("0x0000000000000000000000000000000000000042")
	require.NoError(t, err)
	require.Equal(t, byte(0x42), addr[19])

	addr2, err := HexToAddress("0000000000000000000000000000000000000042")
	require.NoError(t, err)
	require.Equal(t, addr, addr2)

	_, err = HexToAddress("0x42")
	require.Error(t, err)
	_, err = HexToAddress("zz")
	require.Error(t, err)
}

func TestHexToBLSPubKey(t *testing.T) {
	raw := make([]byte, 48)
	raw[0] = 0xa0
	hexStr := "0x" + func() string {
		const digits = "0123456789abcdef"
		out := make([]byte, 96)
		for i, b := range raw {
			out[i*2] = digits[b>>4]
			out[i*2+1] = digits[b&0x0f]
		}
		return string(out)
	}()

	pk, err := HexToBLSPubKey(hexStr)
	require.NoError(t, err)
	require.Equal(t, raw, pk)

	_, err = HexToBLSPubKey("0xdead")
	require.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, WriteJSON(path, map[string]int{"a": 1}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, 1, decoded["a"])
}
