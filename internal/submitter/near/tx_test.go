package near

import (
	"crypto/ed25519"
	"crypto/sha256"
	"math/big"
	"testing"

	"github.com/near/borsh-go"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return pub, priv
}

func testTransaction(pub ed25519.PublicKey, action Action) Transaction {
	tx := Transaction{
		SignerID:   "faucet.testnet",
		Nonce:      42,
		ReceiverID: "linkdrop.testnet",
		Actions:    []Action{action},
	}
	tx.PublicKey.KeyType = ed25519KeyType
	copy(tx.PublicKey.Data[:], pub)
	copy(tx.BlockHash[:], []byte("0123456789abcdef0123456789abcdef"))
	return tx
}

func TestSignedTransactionRoundTrip(t *testing.T) {
	pub, priv := testKey(t)
	deposit, _ := new(big.Int).SetString("1010000000000000000000000", 10)
	tx := testTransaction(pub, NewFunctionCall("send", []byte(`{"public_key":"ed25519:abc"}`), 300000000000000, deposit))

	signed, err := Sign(tx, priv)
	require.NoError(t, err)

	data, err := borsh.Serialize(signed)
	require.NoError(t, err)

	var decoded SignedTransaction
	require.NoError(t, borsh.Deserialize(&decoded, data))

	require.Equal(t, tx.SignerID, decoded.Transaction.SignerID)
	require.Equal(t, tx.Nonce, decoded.Transaction.Nonce)
	require.Equal(t, tx.ReceiverID, decoded.Transaction.ReceiverID)
	require.Len(t, decoded.Transaction.Actions, 1)

	call := decoded.Transaction.Actions[0]
	require.Equal(t, borsh.Enum(2), call.Enum)
	require.Equal(t, "send", call.FunctionCall.MethodName)
	require.Equal(t, uint64(300000000000000), call.FunctionCall.Gas)
	require.Zero(t, deposit.Cmp(&call.FunctionCall.Deposit))
}

func TestSignatureVerifies(t *testing.T) {
	pub, priv := testKey(t)
	tx := testTransaction(pub, NewTransfer(big.NewInt(7)))

	signed, err := Sign(tx, priv)
	require.NoError(t, err)
	require.Equal(t, uint8(ed25519KeyType), signed.Signature.KeyType)

	// The signature covers the sha256 digest of the borsh-serialized tx.
	payload, err := borsh.Serialize(tx)
	require.NoError(t, err)
	digest := sha256.Sum256(payload)
	require.True(t, ed25519.Verify(pub, digest[:], signed.Signature.Data[:]))
}

func TestTransferAction(t *testing.T) {
	amount := big.NewInt(200)
	action := NewTransfer(amount)
	require.Equal(t, borsh.Enum(3), action.Enum)
	require.Zero(t, amount.Cmp(&action.Transfer.Deposit))
}
