package oracle

import (
	"context"
	"math/big"
)

// IBalanceOracle reports a user's holding on the eligibility ledger.
type IBalanceOracle interface {
	Balance(c context.Context, address string) (*big.Int, error)
}
