package repository

import (
	"context"

	"media_upload_service/internal/media/domain"

	"gorm.io/gorm"
)

// VideoRepo definition video records store
type VideoRepo interface {
	AutoMigrate() error
	Create(ctx context.Context, video *domain.Video) error
	ListRecent(ctx context.Context) ([]domain.Video, error)
}

// videoRepo gorm implementation of VideoRepo
type videoRepo struct {
	db *gorm.DB
}

// NewVideoRepo create VideoRepo
func NewVideoRepo(db *gorm.DB) VideoRepo {
	return &videoRepo{db: db}
}

// AutoMigrate 根據 Video 模型建立或更新資料表，不會刪除既有欄位
func (r *videoRepo) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Video{})
}

// Create insert one video, CreatedAt is filled by gorm when zero
func (r *videoRepo) Create(ctx context.Context, video *domain.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

// ListRecent all videos, newest first
// 先按 created_at 降序，再按 id 排序讓相同時間的紀錄順序穩定
func (r *videoRepo) ListRecent(ctx context.Context) ([]domain.Video, error) {
	videos := make([]domain.Video, 0)
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id").Find(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}
