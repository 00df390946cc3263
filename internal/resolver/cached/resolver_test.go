package cached

import (
	"context"
	"testing"

	"github.com/nearfaucet/backend/internal/resolver"
	"github.com/nearfaucet/backend/internal/resolver/kv/memory"
	"github.com/stretchr/testify/require"
)

type fakeInner struct {
	res   resolver.Resolution
	err   error
	calls int
}

func (f *fakeInner) ResolveAccountForKey(c context.Context, publicKey string) (resolver.Resolution, error) {
	f.calls++
	return f.res, f.err
}

func TestCachedResolverMemoizesFound(t *testing.T) {
	inner := &fakeInner{res: resolver.Resolution{State: resolver.Found, AccountID: "alice.near"}}
	r := NewResolver(inner, memory.NewStore())

	res, err := r.ResolveAccountForKey(context.Background(), "ed25519:k1")
	require.NoError(t, err)
	require.Equal(t, resolver.Found, res.State)
	require.Equal(t, "alice.near", res.AccountID)

	// Second lookup never reaches the explorer.
	res, err = r.ResolveAccountForKey(context.Background(), "ed25519:k1")
	require.NoError(t, err)
	require.Equal(t, "alice.near", res.AccountID)
	require.Equal(t, 1, inner.calls)
}

func TestCachedResolverDoesNotCacheMisses(t *testing.T) {
	inner := &fakeInner{res: resolver.Resolution{State: resolver.NotFound}}
	r := NewResolver(inner, memory.NewStore())

	res, err := r.ResolveAccountForKey(context.Background(), "ed25519:k1")
	require.NoError(t, err)
	require.Equal(t, resolver.NotFound, res.State)

	// The key may resolve later: every miss goes back to the explorer.
	inner.res = resolver.Resolution{State: resolver.Found, AccountID: "bob.near"}
	res, err = r.ResolveAccountForKey(context.Background(), "ed25519:k1")
	require.NoError(t, err)
	require.Equal(t, "bob.near", res.AccountID)
	require.Equal(t, 2, inner.calls)
}

func TestCachedResolverPassesThroughPending(t *testing.T) {
	inner := &fakeInner{res: resolver.Resolution{State: resolver.Pending}}
	r := NewResolver(inner, memory.NewStore())

	res, _ := r.ResolveAccountForKey(context.Background(), "ed25519:k1")
	require.Equal(t, resolver.Pending, res.State)
}
