package explorer

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/nearfaucet/backend/internal/resolver"
	"github.com/sirupsen/logrus"
)

// The explorer database indexes access keys and receipts. A linkdrop claim
// deletes the one-time key; the receipt that follows the deletion names the
// account the drop was claimed into. The generator account runs the linkdrop
// contract itself and never represents an end user.
const accountQuery = `
with delete_key_transaction as (
    select
        originated_from_transaction_hash
            from access_keys
            join receipts on access_keys.deleted_by_receipt_id = receipts.receipt_id
                where public_key = $1
)
select
    receiver_account_id
        from delete_key_transaction
        join receipts using(originated_from_transaction_hash)
            where receiver_account_id != $2
`

type Resolver struct {
	db               *sql.DB
	generatorAccount string
	timeout          time.Duration
}

func NewResolver(dsn string, generatorAccount string, timeout time.Duration) (*Resolver, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	return &Resolver{
		db:               db,
		generatorAccount: generatorAccount,
		timeout:          timeout,
	}, nil
}

func (r *Resolver) ResolveAccountForKey(c context.Context, publicKey string) (resolver.Resolution, error) {
	ctx, cancel := context.WithTimeout(c, r.timeout)
	defer cancel()

	var accountID string
	err := r.db.QueryRowContext(ctx, accountQuery, publicKey, r.generatorAccount).Scan(&accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return resolver.Resolution{State: resolver.NotFound}, nil
		}

		// Indexer unreachable or lagging: the mapping may still appear.
		logrus.WithError(err).Warnf("Explorer lookup failed for key %s", publicKey)
		return resolver.Resolution{State: resolver.Pending}, err
	}

	return resolver.Resolution{State: resolver.Found, AccountID: accountID}, nil
}

func (r *Resolver) Close() error {
	return r.db.Close()
}
