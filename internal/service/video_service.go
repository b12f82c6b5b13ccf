package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"gigstream-go/internal/api/dto"
	"gigstream-go/internal/config"
	infraCDN "gigstream-go/internal/infra/cdn"
	infraES "gigstream-go/internal/infra/elasticsearch"
	infraKafka "gigstream-go/internal/infra/kafka"
	infraMinio "gigstream-go/internal/infra/minio"
	"gigstream-go/internal/model"
	"gigstream-go/internal/repository"
	"gigstream-go/internal/transcode"
	"gigstream-go/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrMediaNotFound 媒资不存在，或属于其他所有者
	// 权限不足也返回这个错误：对外统一 404，避免泄露媒资归属
	ErrMediaNotFound = errors.New("媒资不存在")
	// ErrStorageFailed 对象存储操作失败
	ErrStorageFailed = errors.New("存储服务异常")
)

type VideoService struct {
	videoRepo *repository.VideoRepository
	jobRepo   *repository.TranscodeJobRepository
}

func NewVideoService(videoRepo *repository.VideoRepository, jobRepo *repository.TranscodeJobRepository) *VideoService {
	return &VideoService{videoRepo: videoRepo, jobRepo: jobRepo}
}

// Upload 媒资上传：先写 MinIO，成功后才入库并投递提取任务
// 存储失败时不会留下媒资行
func (s *VideoService) Upload(ownerID int64, req *dto.MediaUploadRequest, fileReader io.Reader, fileSize int64, fileFormat string) (*dto.MediaInfo, error) {
	// 对象键按所有者和上传时间划分，uuid 后缀避免碰撞
	objectKey := fmt.Sprintf("raw/%d/%d_%s.%s", ownerID, time.Now().UnixNano(), uuid.NewString(), fileFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	contentType := "video/" + fileFormat
	if _, err := infraMinio.UploadFile(ctx, infraMinio.RawBucket, objectKey, fileReader, fileSize, contentType); err != nil {
		logger.Error("Upload to MinIO failed",
			zap.Int64("owner_id", ownerID),
			zap.String("object_key", objectKey),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrStorageFailed, err)
	}

	video := &model.Video{
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		ObjectKey:   objectKey,
		FileSize:    fileSize,
		FileFormat:  fileFormat,
		Status:      model.VideoStatusUploading,
	}

	if err := s.videoRepo.Create(video); err != nil {
		return nil, err
	}

	cfg := config.GetKafka()
	task := &infraKafka.ExtractTask{
		VideoID:    video.ID,
		Bucket:     infraMinio.RawBucket,
		ObjectName: objectKey,
	}

	if err := infraKafka.SendExtractTask(ctx, cfg.Topics["media_extract"], task); err != nil {
		logger.Error("Send extract task failed", zap.Int64("video_id", video.ID), zap.Error(err))
		_ = s.videoRepo.MarkTerminal(video.ID, model.VideoStatusFailed, "")
		return nil, fmt.Errorf("提交提取任务失败: %w", err)
	}

	return toMediaInfo(video, false), nil
}

// List 所有者媒资列表，每条带已完成的转码作业
func (s *VideoService) List(ownerID int64, page, pageSize int, status, search *string) (*dto.MediaListData, error) {
	skip := (page - 1) * pageSize
	videos, total, err := s.videoRepo.ListByOwner(ownerID, skip, pageSize, status, search)
	if err != nil {
		return nil, err
	}
	return buildMediaListData(videos, total, page, pageSize), nil
}

// GetDetail 媒资详情（含全部作业，仅所有者可见）
func (s *VideoService) GetDetail(videoID, ownerID int64) (*dto.MediaInfo, error) {
	video, err := s.videoRepo.GetByIDWithJobs(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}
	if video.OwnerID != ownerID {
		return nil, ErrMediaNotFound
	}

	return toMediaInfo(video, true), nil
}

// GetSignedURL 生成原片的签名下载地址（默认 1 小时有效）
func (s *VideoService) GetSignedURL(videoID, ownerID int64) (*dto.SignedURLData, error) {
	video, err := s.videoRepo.GetByIDAndOwner(videoID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}

	expiry := config.GetUpload().SignedURLExpiryDuration()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	url, err := infraMinio.GetPresignedURL(ctx, infraMinio.RawBucket, video.ObjectKey, expiry)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailed, err)
	}

	return &dto.SignedURLData{
		URL:       url,
		ExpiresIn: int(expiry.Seconds()),
	}, nil
}

// Delete 级联删除：清理对象存储和 CDN 后删除数据行
// 对象删除按键逐个执行，单个失败只记录日志不中断整体删除
func (s *VideoService) Delete(videoID, ownerID int64) error {
	video, err := s.videoRepo.GetByIDAndOwner(videoID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMediaNotFound
		}
		return err
	}

	jobs, err := s.jobRepo.ListByVideo(videoID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	purgePaths := make([]string, 0, len(jobs)+2)

	// 原始文件
	if err := infraMinio.RemoveObject(ctx, infraMinio.RawBucket, video.ObjectKey); err != nil {
		logger.Error("Remove raw object failed", zap.Int64("video_id", videoID), zap.Error(err))
	}

	// 缩略图
	thumbKey := transcode.ThumbnailKey(videoID)
	if err := infraMinio.RemoveObject(ctx, infraMinio.PublicBucket, thumbKey); err != nil {
		logger.Error("Remove thumbnail failed", zap.Int64("video_id", videoID), zap.Error(err))
	} else {
		purgePaths = append(purgePaths, "/"+infraMinio.PublicBucket+"/"+thumbKey)
	}

	// 单文件转码产物（HLS 产物走前缀删除）
	for i := range jobs {
		job := &jobs[i]
		if job.Status != model.JobStatusCompleted || job.Format == transcode.FormatHLS {
			continue
		}
		if err := infraMinio.RemoveObject(ctx, infraMinio.PublicBucket, job.OutputKey); err != nil {
			logger.Error("Remove rendition failed",
				zap.Int64("video_id", videoID),
				zap.String("key", job.OutputKey),
				zap.Error(err),
			)
			continue
		}
		purgePaths = append(purgePaths, "/"+infraMinio.PublicBucket+"/"+job.OutputKey)
	}

	// HLS 前缀整体清理
	removed := infraMinio.RemovePrefix(ctx, infraMinio.PublicBucket, transcode.HLSPrefix(videoID))
	for _, key := range removed {
		purgePaths = append(purgePaths, "/"+infraMinio.PublicBucket+"/"+key)
	}

	if err := infraCDN.Purge(ctx, purgePaths); err != nil {
		logger.Error("CDN purge failed", zap.Int64("video_id", videoID), zap.Error(err))
	}

	if err := s.videoRepo.DeleteCascade(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMediaNotFound
		}
		return err
	}

	// ES 文档同步删除（尽力而为）
	if infraES.Available() {
		if err := infraES.DeleteVideo(ctx, videoID); err != nil {
			logger.Warn("Delete ES document failed", zap.Int64("video_id", videoID), zap.Error(err))
		}
	}

	logger.Info("Media deleted",
		zap.Int64("video_id", videoID),
		zap.Int64("owner_id", ownerID),
		zap.Int("purged_paths", len(purgePaths)),
	)

	return nil
}

// toMediaInfo 将 model.Video 转换为 dto.MediaInfo
func toMediaInfo(video *model.Video, includeJobs bool) *dto.MediaInfo {
	info := &dto.MediaInfo{
		ID:           video.ID,
		OwnerID:      video.OwnerID,
		Title:        video.Title,
		Description:  video.Description,
		ThumbnailURL: video.ThumbnailURL,
		FileSize:     video.FileSize,
		FileFormat:   video.FileFormat,
		Duration:     video.Duration,
		Codec:        video.Codec,
		Width:        video.Width,
		Height:       video.Height,
		BitrateKbps:  video.BitrateKbps,
		Status:       video.Status,
		CDNBaseURL:   video.CDNBaseURL,
		ViewCount:    video.ViewCount,
		UploadedAt:   video.UploadedAt,
		ProcessedAt:  video.ProcessedAt,
		CreatedAt:    video.CreatedAt,
		UpdatedAt:    video.UpdatedAt,
	}

	if includeJobs && len(video.TranscodeJobs) > 0 {
		info.TranscodeJobs = toTranscodeJobInfos(video.TranscodeJobs)
	}

	return info
}

func buildMediaListData(videos []model.Video, total int64, page, pageSize int) *dto.MediaListData {
	items := make([]dto.MediaInfo, 0, len(videos))
	for i := range videos {
		items = append(items, *toMediaInfo(&videos[i], true))
	}

	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)

	return &dto.MediaListData{
		Media:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

func toTranscodeJobInfos(jobs []model.TranscodeJob) []dto.TranscodeJobInfo {
	infos := make([]dto.TranscodeJobInfo, 0, len(jobs))
	for i := range jobs {
		job := &jobs[i]
		infos = append(infos, dto.TranscodeJobInfo{
			ID:                job.ID,
			VideoID:           job.VideoID,
			Format:            job.Format,
			Resolution:        job.Resolution,
			Status:            job.Status,
			OutputKey:         job.OutputKey,
			OutputSize:        job.OutputSize,
			OutputBitrateKbps: job.OutputBitrateKbps,
			ErrorMessage:      job.ErrorMessage,
			StartedAt:         job.StartedAt,
			CompletedAt:       job.CompletedAt,
			CreatedAt:         job.CreatedAt,
		})
	}
	return infos
}
