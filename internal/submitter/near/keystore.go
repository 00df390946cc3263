package near

import (
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mr-tron/base58"
)

// Credentials file as written by near-cli (~/.near-credentials/...): base58
// keys with an "ed25519:" prefix, the private part being the 64-byte expanded
// key (seed || public key).
type credentialsFile struct {
	AccountID  string `json:"account_id"`
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

type KeyPair struct {
	AccountID  string
	PublicKey  PublicKey
	PrivateKey ed25519.PrivateKey
}

func LoadKeyPair(path string) (KeyPair, error) {
	var kp KeyPair

	b, err := os.ReadFile(path)
	if err != nil {
		return kp, err
	}

	var creds credentialsFile
	err = json.Unmarshal(b, &creds)
	if err != nil {
		return kp, err
	}

	if creds.AccountID == "" {
		return kp, fmt.Errorf("Credentials file %s has no account_id", path)
	}

	pub, err := decodeKey(creds.PublicKey, ed25519.PublicKeySize)
	if err != nil {
		return kp, fmt.Errorf("Invalid public_key in %s: %w", path, err)
	}

	priv, err := decodeKey(creds.PrivateKey, ed25519.PrivateKeySize)
	if err != nil {
		return kp, fmt.Errorf("Invalid private_key in %s: %w", path, err)
	}

	kp.AccountID = creds.AccountID
	kp.PublicKey = PublicKey{KeyType: ed25519KeyType}
	copy(kp.PublicKey.Data[:], pub)
	kp.PrivateKey = ed25519.PrivateKey(priv)

	return kp, nil
}

func decodeKey(encoded string, size int) ([]byte, error) {
	encoded = strings.TrimPrefix(encoded, "ed25519:")

	data, err := base58.Decode(encoded)
	if err != nil {
		return nil, err
	}

	if len(data) != size {
		return nil, fmt.Errorf("Expected %d key bytes, got %d", size, len(data))
	}

	return data, nil
}

// PublicKeyString renders the key in the "ed25519:<base58>" wire form.
func (k KeyPair) PublicKeyString() string {
	return "ed25519:" + base58.Encode(k.PublicKey.Data[:])
}
