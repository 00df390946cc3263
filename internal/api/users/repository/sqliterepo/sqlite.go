package sqliterepo

import (
	"context"
	"time"

	"github.com/nearfaucet/backend/internal/api/users/repository"
	"gorm.io/gorm"
)

func (r *Sqlite) Migrate() error {
	return r.db.AutoMigrate(&repository.UserModel{})
}

func (r *Sqlite) Create(c context.Context, user repository.UserModel) error {
	result := r.db.WithContext(c).Create(&user)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *Sqlite) Get(c context.Context, id string) (repository.UserModel, error) {
	var user repository.UserModel
	result := r.db.WithContext(c).Find(&user, "id = ?", id)
	if result.Error != nil {
		return user, result.Error
	}
	if user.ID == "" {
		return user, repository.ErrNotFound
	}
	return user, nil
}

func (r *Sqlite) GetByAddress(c context.Context, address string) (repository.UserModel, error) {
	var user repository.UserModel
	result := r.db.WithContext(c).Find(&user, "address = ?", address)
	if result.Error != nil {
		return user, result.Error
	}
	return user, nil
}

func (r *Sqlite) NewLogin(c context.Context, id string, nonce string) error {
	result := r.db.WithContext(c).Model(&repository.UserModel{}).Where("id = ?", id).Updates(&repository.UserModel{Nonce: nonce, LastLogin: time.Now()})
	if result.Error != nil {
		return result.Error
	}

	return nil
}

func (r *Sqlite) SetNearPublicKey(c context.Context, id string, key string) error {
	result := r.db.WithContext(c).Model(&repository.UserModel{}).
		Where("id = ? AND (near_public_key = '' OR near_public_key IS NULL)", id).
		Update("near_public_key", key)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrConflict
	}

	return nil
}

func (r *Sqlite) SetReferrer(c context.Context, id string, refUserID string) error {
	result := r.db.WithContext(c).Model(&repository.UserModel{}).
		Where("id = ? AND (ref_user_id = '' OR ref_user_id IS NULL)", id).
		Update("ref_user_id", refUserID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrConflict
	}

	return nil
}

func (r *Sqlite) MarkClaimed(c context.Context, id string) error {
	result := r.db.WithContext(c).Model(&repository.UserModel{}).
		Where("id = ? AND claimed = 0", id).
		Update("claimed", 1)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrConflict
	}

	return nil
}

func (r *Sqlite) ClearNearPublicKey(c context.Context, id string) error {
	result := r.db.WithContext(c).Model(&repository.UserModel{}).
		Where("id = ? AND claimed = 0", id).
		Update("near_public_key", "")
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrConflict
	}

	return nil
}

func (r *Sqlite) AddAffiliateSale(c context.Context, id string) error {
	result := r.db.WithContext(c).Model(&repository.UserModel{}).
		Where("id = ?", id).
		Update("total_affiliates", gorm.Expr("total_affiliates + 1"))
	if result.Error != nil {
		return result.Error
	}
	// Unknown referrer: nothing credited, not an error.

	return nil
}

func (r *Sqlite) SettleAffiliates(c context.Context, id string, upto int64, observed int64) error {
	result := r.db.WithContext(c).Model(&repository.UserModel{}).
		Where("id = ? AND claimed_affiliates = ?", id, observed).
		Update("claimed_affiliates", upto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrConflict
	}

	return nil
}

func (r *Sqlite) ListStuck(c context.Context) ([]repository.UserModel, error) {
	var users []repository.UserModel
	result := r.db.WithContext(c).Find(&users, "near_public_key <> '' AND claimed = 0")
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}
