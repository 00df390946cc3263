package near

import (
	"crypto/ed25519"
	"crypto/sha256"
	"math/big"

	"github.com/near/borsh-go"
)

const ed25519KeyType = 0

// Borsh schema of a NEAR transaction. Variant order inside Action mirrors the
// protocol's Action enum and must not be rearranged.

type PublicKey struct {
	KeyType uint8
	Data    [32]byte
}

type Signature struct {
	KeyType uint8
	Data    [64]byte
}

type AccessKey struct {
	Nonce      uint64
	Permission AccessKeyPermission
}

type AccessKeyPermission struct {
	Enum         borsh.Enum `borsh_enum:"true"`
	FunctionCall FunctionCallPermission
	FullAccess   struct{}
}

type FunctionCallPermission struct {
	Allowance   *big.Int
	ReceiverID  string
	MethodNames []string
}

type CreateAccount struct{}

type DeployContract struct {
	Code []byte
}

type FunctionCall struct {
	MethodName string
	Args       []byte
	Gas        uint64
	Deposit    big.Int
}

type Transfer struct {
	Deposit big.Int
}

type Stake struct {
	Stake     big.Int
	PublicKey PublicKey
}

type AddKey struct {
	PublicKey PublicKey
	AccessKey AccessKey
}

type DeleteKey struct {
	PublicKey PublicKey
}

type DeleteAccount struct {
	BeneficiaryID string
}

type Action struct {
	Enum           borsh.Enum `borsh_enum:"true"`
	CreateAccount  CreateAccount
	DeployContract DeployContract
	FunctionCall   FunctionCall
	Transfer       Transfer
	Stake          Stake
	AddKey         AddKey
	DeleteKey      DeleteKey
	DeleteAccount  DeleteAccount
}

func NewFunctionCall(methodName string, args []byte, gas uint64, deposit *big.Int) Action {
	return Action{
		Enum: 2,
		FunctionCall: FunctionCall{
			MethodName: methodName,
			Args:       args,
			Gas:        gas,
			Deposit:    *deposit,
		},
	}
}

func NewTransfer(deposit *big.Int) Action {
	return Action{
		Enum: 3,
		Transfer: Transfer{
			Deposit: *deposit,
		},
	}
}

type Transaction struct {
	SignerID   string
	PublicKey  PublicKey
	Nonce      uint64
	ReceiverID string
	BlockHash  [32]byte
	Actions    []Action
}

type SignedTransaction struct {
	Transaction Transaction
	Signature   Signature
}

// Sign serializes the transaction, hashes it and signs the digest with the
// account's ed25519 key.
func Sign(tx Transaction, key ed25519.PrivateKey) (SignedTransaction, error) {
	data, err := borsh.Serialize(tx)
	if err != nil {
		return SignedTransaction{}, err
	}

	digest := sha256.Sum256(data)

	signed := SignedTransaction{
		Transaction: tx,
		Signature: Signature{
			KeyType: ed25519KeyType,
		},
	}
	copy(signed.Signature.Data[:], ed25519.Sign(key, digest[:]))

	return signed, nil
}
