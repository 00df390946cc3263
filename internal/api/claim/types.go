package claim

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/nearfaucet/backend/internal/api/users/repository"
	"github.com/nearfaucet/backend/internal/oracle"
	"github.com/nearfaucet/backend/internal/resolver"
	"github.com/nearfaucet/backend/internal/submitter"
	"github.com/shopspring/decimal"
)

var (
	ErrUnauthorized = fmt.Errorf("You can only access yourself")
	ErrSubmission   = fmt.Errorf("Transaction was not applied as expected")
)

// Params are the faucet thresholds and amounts, injected at construction.
type Params struct {
	// Minimum Ethereum balance (wei) required to claim.
	MinBalance *big.Int
	// Amount (yoctoNEAR) attached to the linkdrop on each claim.
	TokensToAttach *big.Int
	ClaimGas       uint64
	// Reward (NEAR) owed per successful referral.
	AffiliateReward decimal.Decimal
}

type ClaimApi struct {
	repository repository.UserRepository
	oracle     oracle.IBalanceOracle
	submitter  submitter.ISubmitter
	resolver   resolver.IResolver
	params     Params
	locks      *keyedMutex
}

func NewClaimAPI(
	repository repository.UserRepository,
	oracle oracle.IBalanceOracle,
	submitter submitter.ISubmitter,
	resolver resolver.IResolver,
	params Params,
) ClaimApi {
	return ClaimApi{
		repository: repository,
		oracle:     oracle,
		submitter:  submitter,
		resolver:   resolver,
		params:     params,
		locks:      newKeyedMutex(),
	}
}

type ClaimResult struct {
	Status bool                  `json:"status"`
	Text   string                `json:"text"`
	Tx     string                `json:"tx,omitempty"`
	User   *repository.UserModel `json:"user,omitempty"`
}

type RefLinkResult struct {
	AccountID string `json:"account_id"`
}

// keyedMutex serializes the load-check-submit-write sequence per user record
// so that concurrent requests for the same user get at most one winning
// mutation. Entries are never evicted; the user set is small.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{
		locks: map[string]*sync.Mutex{},
	}
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
