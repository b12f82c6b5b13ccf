package repository

import (
	"time"

	"gigstream-go/internal/model"

	"gorm.io/gorm"
)

type TranscodeJobRepository struct {
	db *gorm.DB
}

func NewTranscodeJobRepository(db *gorm.DB) *TranscodeJobRepository {
	return &TranscodeJobRepository{db: db}
}

// GetByID 根据 ID 获取作业
func (r *TranscodeJobRepository) GetByID(id int64) (*model.TranscodeJob, error) {
	var job model.TranscodeJob
	err := r.db.Where("id = ?", id).First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// CreateBatch 批量创建作业（一次转码请求的全部组合一起入库）
func (r *TranscodeJobRepository) CreateBatch(jobs []model.TranscodeJob) error {
	return r.db.Create(&jobs).Error
}

// ListByVideo 获取媒资的全部作业
func (r *TranscodeJobRepository) ListByVideo(videoID int64) ([]model.TranscodeJob, error) {
	var jobs []model.TranscodeJob
	err := r.db.Where("video_id = ?", videoID).Order("id ASC").Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// ListCompletedByVideoAndFormat 获取媒资指定格式的已完成作业
func (r *TranscodeJobRepository) ListCompletedByVideoAndFormat(videoID int64, format string) ([]model.TranscodeJob, error) {
	var jobs []model.TranscodeJob
	err := r.db.Where("video_id = ? AND format = ? AND status = ?", videoID, format, model.JobStatusCompleted).
		Order("id ASC").Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// MarkProcessing 认领作业：pending → processing 并记录开始时间
// WHERE 条件限制只认领 pending 行，重复投递不会把终态作业拉回去
func (r *TranscodeJobRepository) MarkProcessing(id int64) (bool, error) {
	now := time.Now()
	result := r.db.Model(&model.TranscodeJob{}).
		Where("id = ? AND status = ?", id, model.JobStatusPending).
		Updates(map[string]interface{}{
			"status":     model.JobStatusProcessing,
			"started_at": &now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkCompleted 作业成功：写入产物信息和结束时间
func (r *TranscodeJobRepository) MarkCompleted(id int64, outputKey string, outputSize int64, outputBitrateKbps int) error {
	now := time.Now()
	result := r.db.Model(&model.TranscodeJob{}).
		Where("id = ? AND status = ?", id, model.JobStatusProcessing).
		Updates(map[string]interface{}{
			"status":              model.JobStatusCompleted,
			"output_key":          outputKey,
			"output_size":         outputSize,
			"output_bitrate_kbps": outputBitrateKbps,
			"completed_at":        &now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkFailed 作业失败：记录失败原因和结束时间
func (r *TranscodeJobRepository) MarkFailed(id int64, errMsg string) error {
	now := time.Now()
	if len(errMsg) > 1000 {
		errMsg = errMsg[:1000]
	}
	result := r.db.Model(&model.TranscodeJob{}).
		Where("id = ? AND status IN ?", id, []string{model.JobStatusPending, model.JobStatusProcessing}).
		Updates(map[string]interface{}{
			"status":        model.JobStatusFailed,
			"error_message": errMsg,
			"completed_at":  &now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
