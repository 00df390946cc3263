package sqliterepo

import (
	"github.com/nearfaucet/backend/internal/api/users/repository"
	"gorm.io/gorm"
)

type Sqlite struct {
	db *gorm.DB
}

func NewSqliteRepository(db *gorm.DB) (repository.UserRepository, error) {
	return &Sqlite{
		db: db,
	}, nil
}
