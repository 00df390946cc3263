package eth

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/lmittmann/w3"
	"github.com/lmittmann/w3/module/eth"
	"github.com/nearfaucet/backend/internal/oracle"
)

type Oracle struct {
	client  *w3.Client
	timeout time.Duration
}

func NewOracle(client *w3.Client, timeout time.Duration) oracle.IBalanceOracle {
	return &Oracle{
		client:  client,
		timeout: timeout,
	}
}

func (o *Oracle) Balance(c context.Context, address string) (*big.Int, error) {
	ctx, cancel := context.WithTimeout(c, o.timeout)
	defer cancel()

	var balance big.Int
	err := o.client.CallCtx(
		ctx,
		eth.Balance(common.HexToAddress(address), nil).Returns(&balance),
	)
	if err != nil {
		return nil, fmt.Errorf("Ethereum balance request failed: %w", err)
	}

	return &balance, nil
}
