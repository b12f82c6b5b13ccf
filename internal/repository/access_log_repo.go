package repository

import (
	"time"

	"gigstream-go/internal/model"

	"gorm.io/gorm"
)

type AccessLogRepository struct {
	db *gorm.DB
}

func NewAccessLogRepository(db *gorm.DB) *AccessLogRepository {
	return &AccessLogRepository{db: db}
}

// Create 追加一条访问日志
func (r *AccessLogRepository) Create(log *model.AccessLog) error {
	return r.db.Create(log).Error
}

// ListByVideoAndRange 查询媒资在时间区间内的访问日志（闭区间，按时间升序）
func (r *AccessLogRepository) ListByVideoAndRange(videoID int64, start, end time.Time) ([]model.AccessLog, error) {
	var logs []model.AccessLog
	err := r.db.Where("video_id = ? AND created_at >= ? AND created_at <= ?", videoID, start, end).
		Order("created_at ASC").Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// CountByVideo 媒资的访问日志总数
func (r *AccessLogRepository) CountByVideo(videoID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.AccessLog{}).Where("video_id = ?", videoID).Count(&count).Error
	return count, err
}
