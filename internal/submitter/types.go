package submitter

import (
	"context"
	"math/big"
)

type Result struct {
	Success bool
	TxHash  string
}

// ISubmitter submits funded transactions to the target network. One attempt,
// no retry; a failed or unconfirmed transaction is reported to the caller.
type ISubmitter interface {
	// CreateAccount funds a linkdrop bound to publicKey, attaching amount
	// (yoctoNEAR) and gas.
	CreateAccount(c context.Context, publicKey string, amount *big.Int, gas uint64) (Result, error)
	// SendMoney transfers amount (yoctoNEAR) to accountID.
	SendMoney(c context.Context, accountID string, amount *big.Int) (Result, error)
}
