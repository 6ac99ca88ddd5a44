package utils

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"

	"github.com/faheelsattar/bolt/pkgs/crypto"
)

// WriteJSON writes data as indented JSON to filepath.
func WriteJSON(filepath string, data any) error {
	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()
	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// HexToAddress parses a 20 byte hex address with or without 0x prefix.
func HexToAddress(s string) (common.Address, error) {
	var a common.Address
	if has0xPrefix(s) {
		s = s[2:]
	}
	decodedBytes, err := hex.DecodeString(s)
	if err != nil {
		return common.Address{}, err
	}
	if len(decodedBytes) != 20 {
		return common.Address{}, fmt.Errorf("not valid ETH address with len %d", len(decodedBytes))
	}
	a.SetBytes(decodedBytes)
	return a, nil
}

// HexToBLSPubKey parses a compressed G1 public key with or without 0x prefix.
func HexToBLSPubKey(s string) ([]byte, error) {
	if has0xPrefix(s) {
		s = s[2:]
	}
	decodedBytes, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(decodedBytes) != crypto.BLSPubKeyLength {
		return nil, fmt.Errorf("not valid BLS pubkey with len %d", len(decodedBytes))
	}
	return decodedBytes, nil
}

func has0xPrefix(str string) bool {
	return len(str) >= 2 && str[0] == '0' && (str[1] == 'x' || str[1] == 'X')
}
