package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound = fmt.Errorf("Not Found")
	// ErrConflict is returned by the guarded mutations when the precondition
	// no longer holds (key already linked, record already claimed, counter
	// settled by a concurrent writer).
	ErrConflict = fmt.Errorf("Conflicting update")
)

type UserRepository interface {
	Migrate() error
	Create(c context.Context, user UserModel) error
	Get(c context.Context, id string) (UserModel, error)
	GetByAddress(c context.Context, address string) (UserModel, error)
	NewLogin(c context.Context, id string, nonce string) error

	// SetNearPublicKey links key to the user, only while no key is linked yet.
	SetNearPublicKey(c context.Context, id string, key string) error
	// SetReferrer records who referred the user, only while unset.
	SetReferrer(c context.Context, id string, refUserID string) error
	// MarkClaimed flips the claimed flag, only from unclaimed.
	MarkClaimed(c context.Context, id string) error
	// ClearNearPublicKey releases a key reservation on an unclaimed record.
	ClearNearPublicKey(c context.Context, id string) error
	// AddAffiliateSale credits one referral to the user. An unknown id is a
	// silent no-op.
	AddAffiliateSale(c context.Context, id string) error
	// SettleAffiliates sets claimed_affiliates to upto, guarded by the value
	// the caller observed. ErrConflict when another writer settled first.
	SettleAffiliates(c context.Context, id string, upto int64, observed int64) error
	// ListStuck returns records with a linked key but no confirmed claim.
	ListStuck(c context.Context) ([]UserModel, error)
}

type UserModel struct {
	gorm.Model
	ID        string    `json:"id" gorm:"primarykey"`
	Address   string    `json:"address" gorm:"uniqueindex"`
	Nonce     string    `json:"nonce"`
	LastLogin time.Time `json:"lastLogin"`

	NearPublicKey     string `json:"nearPublicKey"`
	Claimed           int    `json:"claimed"`
	RefUserID         string `json:"refUserId"`
	TotalAffiliates   int64  `json:"totalAffiliates"`
	ClaimedAffiliates int64  `json:"claimedAffiliates"`
}
