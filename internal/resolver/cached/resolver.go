package cached

import (
	"context"
	"errors"

	"github.com/nearfaucet/backend/internal/resolver"
	"github.com/nearfaucet/backend/internal/resolver/kv"
	"github.com/sirupsen/logrus"
)

// Resolver memoizes Found resolutions. A key is consumed by exactly one
// account, so a resolved mapping never changes and can be served from the
// store without asking the explorer again.
type Resolver struct {
	inner resolver.IResolver
	store kv.Store
}

func NewResolver(inner resolver.IResolver, store kv.Store) *Resolver {
	return &Resolver{
		inner: inner,
		store: store,
	}
}

func (r *Resolver) ResolveAccountForKey(c context.Context, publicKey string) (resolver.Resolution, error) {
	accountID, err := r.store.Get(publicKey)
	if err == nil {
		return resolver.Resolution{State: resolver.Found, AccountID: accountID}, nil
	}
	if !errors.Is(err, kv.ErrNotFound) {
		logrus.WithError(err).Warn("Resolver cache read failed")
	}

	res, err := r.inner.ResolveAccountForKey(c, publicKey)
	if err != nil {
		return res, err
	}

	if res.State == resolver.Found {
		err = r.store.Set(publicKey, res.AccountID)
		if err != nil {
			logrus.WithError(err).Warn("Resolver cache write failed")
		}
	}

	return res, nil
}
