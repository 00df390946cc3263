package claim

import (
	"context"
	"errors"
	"fmt"

	"github.com/nearfaucet/backend/internal/api/users/repository"
	"github.com/nearfaucet/backend/internal/resolver"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// yoctoDecimals shifts NEAR to its minor unit (1 NEAR = 10^24 yoctoNEAR).
const yoctoDecimals = 24

// Claim runs the one-time linkdrop purchase for userID: eligibility gates,
// key reservation, transfer, then the claimed flag and the referral credit.
// The referral is credited only after the transfer confirms.
func (a ClaimApi) Claim(c context.Context, userID string, publicKey string, refUserID string, requester string) (ClaimResult, error) {
	if requester != userID {
		return ClaimResult{}, ErrUnauthorized
	}

	unlock := a.locks.Lock(userID)
	defer unlock()

	user, err := a.repository.Get(c, userID)
	if err != nil {
		return ClaimResult{}, err
	}

	if user.Claimed != 0 {
		return ClaimResult{Status: false, Text: "Already claimed"}, nil
	}

	if user.NearPublicKey != "" {
		return ClaimResult{Status: false, Text: "Public Key already exists"}, nil
	}

	balance, err := a.oracle.Balance(c, user.Address)
	if err != nil {
		return ClaimResult{}, err
	}

	if balance.Cmp(a.params.MinBalance) < 0 {
		return ClaimResult{Status: false, Text: fmt.Sprintf("Ethereum balance is too small %s", balance)}, nil
	}

	// Reserve the key before the transfer: a second request for this record
	// now stops at the public-key gate. A transfer failure leaves the record
	// linked but unclaimed; Reconcile picks those up.
	err = a.repository.SetNearPublicKey(c, user.ID, publicKey)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ClaimResult{Status: false, Text: "Public Key already exists"}, nil
		}
		return ClaimResult{}, err
	}
	user.NearPublicKey = publicKey

	result, err := a.submitter.CreateAccount(c, publicKey, a.params.TokensToAttach, a.params.ClaimGas)
	if err != nil {
		return ClaimResult{}, err
	}
	if !result.Success {
		return ClaimResult{}, ErrSubmission
	}

	if refUserID != "" && refUserID != user.ID {
		err = a.repository.SetReferrer(c, user.ID, refUserID)
		if err == nil {
			user.RefUserID = refUserID
			err = a.repository.AddAffiliateSale(c, refUserID)
			if err != nil {
				logrus.WithError(err).Warnf("Failed to credit affiliate sale to %s", refUserID)
			}
		} else if !errors.Is(err, repository.ErrConflict) {
			logrus.WithError(err).Warnf("Failed to set referrer for %s", user.ID)
		}
	}

	err = a.repository.MarkClaimed(c, user.ID)
	if err != nil {
		return ClaimResult{}, err
	}
	user.Claimed = 1

	return ClaimResult{
		Status: true,
		Text:   "Linkdrop purchase succeeded!",
		Tx:     result.TxHash,
		User:   &user,
	}, nil
}

// ClaimAffiliateReward pays the whole owed referral backlog in one transfer to
// the account that consumed the user's linked key.
func (a ClaimApi) ClaimAffiliateReward(c context.Context, userID string, requester string) (ClaimResult, error) {
	if requester != userID {
		return ClaimResult{}, ErrUnauthorized
	}

	unlock := a.locks.Lock(userID)
	defer unlock()

	user, err := a.repository.Get(c, userID)
	if err != nil {
		return ClaimResult{}, err
	}

	if user.NearPublicKey == "" {
		return ClaimResult{Status: false, Text: "No linked NEAR account"}, nil
	}

	owed := user.TotalAffiliates - user.ClaimedAffiliates
	if owed <= 0 {
		return ClaimResult{Status: false, Text: "Nothing to withdraw"}, nil
	}

	res, err := a.resolver.ResolveAccountForKey(c, user.NearPublicKey)
	if err != nil || res.State == resolver.Pending {
		return ClaimResult{Status: false, Text: "Account is not resolved yet"}, nil
	}
	if res.State == resolver.NotFound {
		return ClaimResult{Status: false, Text: "Unknown account"}, nil
	}

	amount := a.params.AffiliateReward.
		Mul(decimal.NewFromInt(owed)).
		Shift(yoctoDecimals).
		BigInt()

	result, err := a.submitter.SendMoney(c, res.AccountID, amount)
	if err != nil {
		return ClaimResult{}, err
	}
	if !result.Success {
		// Nothing settled: the owed amount stays claimable on retry.
		return ClaimResult{}, ErrSubmission
	}

	// Settle to the total observed before the transfer; sales recorded in the
	// meantime stay owed.
	err = a.repository.SettleAffiliates(c, user.ID, user.TotalAffiliates, user.ClaimedAffiliates)
	if err != nil {
		return ClaimResult{}, err
	}
	user.ClaimedAffiliates = user.TotalAffiliates

	return ClaimResult{
		Status: true,
		Text:   "Affiliate reward sent",
		Tx:     result.TxHash,
		User:   &user,
	}, nil
}

func (a ClaimApi) GetRefInfo(c context.Context, userID string, requester string) (*repository.UserModel, error) {
	if requester != userID {
		return nil, ErrUnauthorized
	}

	user, err := a.repository.Get(c, userID)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetRefLinkAvailability reports the NEAR account behind the user's linked
// key, or an empty account id while there is none (or it is not resolved yet).
func (a ClaimApi) GetRefLinkAvailability(c context.Context, userID string, requester string) (RefLinkResult, error) {
	if requester != userID {
		return RefLinkResult{}, ErrUnauthorized
	}

	user, err := a.repository.Get(c, userID)
	if err != nil {
		return RefLinkResult{}, err
	}

	if user.NearPublicKey == "" {
		return RefLinkResult{}, nil
	}

	res, err := a.resolver.ResolveAccountForKey(c, user.NearPublicKey)
	if err != nil || res.State != resolver.Found {
		return RefLinkResult{}, nil
	}

	return RefLinkResult{AccountID: res.AccountID}, nil
}

type ReconcileSummary struct {
	Confirmed int
	Released  int
	Pending   int
}

// Reconcile sweeps records stuck in "linked but not claimed" (a transfer
// failed or the process died between the key write and the claimed write).
// A key the indexer shows as consumed means the drop went through: the record
// is marked claimed. Keys the indexer does not know are released only when
// release is set, since the indexer may simply be lagging.
func (a ClaimApi) Reconcile(c context.Context, release bool) (ReconcileSummary, error) {
	var summary ReconcileSummary

	stuck, err := a.repository.ListStuck(c)
	if err != nil {
		return summary, err
	}

	for _, user := range stuck {
		unlock := a.locks.Lock(user.ID)

		res, resolveErr := a.resolver.ResolveAccountForKey(c, user.NearPublicKey)
		switch {
		case resolveErr != nil || res.State == resolver.Pending:
			summary.Pending++
		case res.State == resolver.Found:
			err = a.repository.MarkClaimed(c, user.ID)
			if err != nil {
				logrus.WithError(err).Warnf("Failed to confirm claim for %s", user.ID)
			} else {
				logrus.Infof("Confirmed claim for %s (account %s)", user.ID, res.AccountID)
				summary.Confirmed++
			}
		case release:
			err = a.repository.ClearNearPublicKey(c, user.ID)
			if err != nil {
				logrus.WithError(err).Warnf("Failed to release key for %s", user.ID)
			} else {
				logrus.Infof("Released key reservation for %s", user.ID)
				summary.Released++
			}
		default:
			summary.Pending++
		}

		unlock()
	}

	return summary, nil
}
