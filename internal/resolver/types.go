package resolver

import "context"

type State int

const (
	// Found: the key was consumed by an account on the target network.
	Found State = iota
	// NotFound: the indexer answered and no consuming account exists.
	NotFound
	// Pending: the indexer is lagging or unreachable; the mapping may still
	// appear later.
	Pending
)

type Resolution struct {
	State     State
	AccountID string
}

// IResolver maps a linkdrop public key to the NEAR account that ultimately
// consumed it. Best effort: a claim submitted moments ago typically resolves
// as Pending or NotFound until the indexer catches up.
type IResolver interface {
	ResolveAccountForKey(c context.Context, publicKey string) (Resolution, error)
}
