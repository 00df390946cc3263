package sqlite

import (
	"github.com/nearfaucet/backend/internal/resolver/kv"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	db *gorm.DB
}

type StoreModel struct {
	gorm.Model
	Key   string `gorm:"uniqueindex"`
	Value string
}

func NewStore(db *gorm.DB) (kv.Store, error) {
	err := db.AutoMigrate(&StoreModel{})
	if err != nil {
		return nil, err
	}
	return &Store{
		db: db,
	}, nil
}

func (s *Store) Get(key string) (string, error) {
	var model StoreModel
	result := s.db.Find(&model, "key = ?", key)
	if result.Error != nil {
		return "", result.Error
	}

	if model.Key == "" {
		return "", kv.ErrNotFound
	}

	return model.Value, nil
}

func (s *Store) Set(key string, val string) error {
	model := StoreModel{
		Key:   key,
		Value: val,
	}

	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&model)
	if result.Error != nil {
		return result.Error
	}

	return nil
}
