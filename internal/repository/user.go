package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"MazalTov/internal/model"
)

// UserRepository 用户存取接口
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*model.User, error)
	// GetOrCreateByExternalID 按网关身份查找用户，不存在则创建
	GetOrCreateByExternalID(ctx context.Context, externalID string, publicID int64) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetOrCreateByExternalID(ctx context.Context, externalID string, publicID int64) (*model.User, error) {
	user, err := r.GetByExternalID(ctx, externalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := &model.User{
		PublicID:             publicID,
		ExternalID:           externalID,
		Role:                 model.UserRoleMember,
		NotificationChannels: model.NotificationChannels{},
	}

	// 并发创建时以 external_id 唯一索引兜底，冲突则重读
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_id"}},
			DoNothing: true,
		}).
		Create(created).Error
	if err != nil {
		return nil, err
	}

	return r.GetByExternalID(ctx, externalID)
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}
