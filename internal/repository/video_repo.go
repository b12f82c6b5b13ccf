package repository

import (
	"time"

	"gigstream-go/internal/model"

	"gorm.io/gorm"
)

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// GetByID 根据 ID 获取媒资
func (r *VideoRepository) GetByID(id int64) (*model.Video, error) {
	var video model.Video
	err := r.db.Where("id = ?", id).First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// GetByIDAndOwner 根据媒资 ID + 所有者 ID 查询（权限校验用）
func (r *VideoRepository) GetByIDAndOwner(videoID, ownerID int64) (*model.Video, error) {
	var video model.Video
	err := r.db.Where("id = ? AND owner_id = ?", videoID, ownerID).First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// GetByIDWithJobs 根据 ID 获取媒资（含全部转码作业）
func (r *VideoRepository) GetByIDWithJobs(id int64) (*model.Video, error) {
	var video model.Video
	err := r.db.Preload("TranscodeJobs").Where("id = ?", id).First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// GetByIDs 批量查询（ES 搜索回表用）
func (r *VideoRepository) GetByIDs(ids []int64) ([]model.Video, error) {
	var videos []model.Video
	err := r.db.Where("id IN ?", ids).Find(&videos).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}

// Create 创建媒资记录
func (r *VideoRepository) Create(video *model.Video) error {
	return r.db.Create(video).Error
}

// Update 更新媒资字段
func (r *VideoRepository) Update(id int64, updates map[string]interface{}) (*model.Video, error) {
	result := r.db.Model(&model.Video{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}

// MarkTerminal 写入终态（ready/failed）及处理完成时间
func (r *VideoRepository) MarkTerminal(id int64, status, cdnBaseURL string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":       status,
		"processed_at": &now,
	}
	if cdnBaseURL != "" {
		updates["cdn_base_url"] = cdnBaseURL
	}
	_, err := r.Update(id, updates)
	return err
}

// ListByOwner 所有者媒资列表（分页、状态筛选、标题/描述模糊搜索）
// 每条记录带已完成的转码作业，供列表直接展示可用产物
func (r *VideoRepository) ListByOwner(ownerID int64, skip, limit int, status, search *string) ([]model.Video, int64, error) {
	query := r.db.Model(&model.Video{}).Where("owner_id = ?", ownerID)

	if status != nil && *status != "" {
		query = query.Where("status = ?", *status)
	}
	if search != nil && *search != "" {
		query = query.Where("title ILIKE ? OR description ILIKE ?", "%"+*search+"%", "%"+*search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var videos []model.Video
	err := query.Order("created_at DESC").Offset(skip).Limit(limit).
		Preload("TranscodeJobs", "status = ?", model.JobStatusCompleted).
		Find(&videos).Error
	if err != nil {
		return nil, 0, err
	}

	return videos, total, nil
}

// IncrementViewCount 播放量 +1
func (r *VideoRepository) IncrementViewCount(id int64) error {
	return r.db.Model(&model.Video{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// DeleteCascade 级联硬删除：访问日志、转码作业、媒资行在一个事务内删除
func (r *VideoRepository) DeleteCascade(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("video_id = ?", id).Delete(&model.AccessLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&model.TranscodeJob{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.Video{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
