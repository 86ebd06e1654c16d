package repository

import (
	"context"

	"importhub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChannelRepository interface {
	Create(ctx context.Context, channel *model.Channel) error
	Update(ctx context.Context, channel *model.Channel) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*model.Channel, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.Channel, error)
	ListActive(ctx context.Context, userID uuid.UUID) ([]model.Channel, error)
}

type channelRepository struct {
	db *gorm.DB
}

func NewChannelRepository(db *gorm.DB) ChannelRepository {
	return &channelRepository{db: db}
}

func (r *channelRepository) Create(ctx context.Context, channel *model.Channel) error {
	return GetDB(ctx, r.db).Create(channel).Error
}

func (r *channelRepository) Update(ctx context.Context, channel *model.Channel) error {
	return GetDB(ctx, r.db).Save(channel).Error
}

func (r *channelRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ? AND user_id = ?", id, userID).Delete(&model.Channel{}).Error
}

func (r *channelRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*model.Channel, error) {
	var channel model.Channel
	if err := GetDB(ctx, r.db).First(&channel, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	return &channel, nil
}

func (r *channelRepository) List(ctx context.Context, userID uuid.UUID) ([]model.Channel, error) {
	var channels []model.Channel
	if err := GetDB(ctx, r.db).Where("user_id = ?", userID).Order("name asc").Find(&channels).Error; err != nil {
		return nil, err
	}
	return channels, nil
}

func (r *channelRepository) ListActive(ctx context.Context, userID uuid.UUID) ([]model.Channel, error) {
	var channels []model.Channel
	if err := GetDB(ctx, r.db).Where("user_id = ? AND active = ?", userID, true).Order("name asc").Find(&channels).Error; err != nil {
		return nil, err
	}
	return channels, nil
}
