package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"taskbuddy/internal/model"
)

// UserRepository handles the users table.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure inserts the user if missing. Calling it again is a no-op.
func (r *UserRepository) Ensure(ctx context.Context, id int64) error {
	var user model.User
	db := r.db.WithContext(ctx)
	err := db.First(&user, id).Error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := db.Create(&model.User{ID: id}).Error; err != nil {
			return translate("create user", err)
		}
		return nil
	default:
		return translate("find user", err)
	}
}

// AllIDs returns every known user id.
func (r *UserRepository) AllIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Pluck("id", &ids).Error; err != nil {
		return nil, translate("list users", err)
	}
	return ids, nil
}
