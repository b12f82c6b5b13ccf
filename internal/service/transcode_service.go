package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gigstream-go/internal/api/dto"
	"gigstream-go/internal/config"
	infraCDN "gigstream-go/internal/infra/cdn"
	infraKafka "gigstream-go/internal/infra/kafka"
	infraMinio "gigstream-go/internal/infra/minio"
	"gigstream-go/internal/model"
	"gigstream-go/internal/repository"
	"gigstream-go/internal/transcode"
	"gigstream-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrInvalidTranscodeTarget 请求了不支持的格式或分辨率
	ErrInvalidTranscodeTarget = errors.New("不支持的转码目标")
	// ErrNoStreamReady 尚无已完成的 HLS 作业，无法提供自适应播放
	ErrNoStreamReady = errors.New("暂无可播放的流")
)

type TranscodeService struct {
	videoRepo *repository.VideoRepository
	jobRepo   *repository.TranscodeJobRepository
}

// buildTranscodeJobs 展开格式 × 分辨率的笛卡尔积，每个组合一条 pending 作业
func buildTranscodeJobs(videoID int64, formats, resolutions []string) []model.TranscodeJob {
	jobs := make([]model.TranscodeJob, 0, len(formats)*len(resolutions))
	for _, format := range formats {
		for _, resolution := range resolutions {
			jobs = append(jobs, model.TranscodeJob{
				VideoID:    videoID,
				Format:     format,
				Resolution: resolution,
				Status:     model.JobStatusPending,
			})
		}
	}
	return jobs
}

func NewTranscodeService(videoRepo *repository.VideoRepository, jobRepo *repository.TranscodeJobRepository) *TranscodeService {
	return &TranscodeService{videoRepo: videoRepo, jobRepo: jobRepo}
}

// RequestTranscode 受理转码请求：格式 × 分辨率 笛卡尔积展开为作业并逐个投递
// 重复请求会产生新的作业，不去重
func (s *TranscodeService) RequestTranscode(videoID, ownerID int64, req *dto.TranscodeRequest) (*dto.TranscodeAcceptedData, error) {
	video, err := s.videoRepo.GetByIDAndOwner(videoID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}

	cfg := config.GetTranscode()
	formats, err := transcode.NormalizeFormats(req.Formats, cfg.DefaultFormats)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTranscodeTarget, err)
	}
	resolutions, err := transcode.NormalizeResolutions(req.Resolutions, cfg.DefaultResolutions)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTranscodeTarget, err)
	}

	jobs := buildTranscodeJobs(videoID, formats, resolutions)
	if len(jobs) == 0 {
		return nil, fmt.Errorf("%w: 目标组合为空", ErrInvalidTranscodeTarget)
	}

	if err := s.jobRepo.CreateBatch(jobs); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	kafkaCfg := config.GetKafka()
	topic := kafkaCfg.Topics["media_transcode"]

	// 投递失败只影响对应作业：标记失败后继续投递其余作业
	for i := range jobs {
		job := &jobs[i]
		task := &infraKafka.TranscodeJobTask{
			JobID:      job.ID,
			VideoID:    videoID,
			Bucket:     infraMinio.RawBucket,
			SourceKey:  video.ObjectKey,
			Format:     job.Format,
			Resolution: job.Resolution,
		}
		if err := infraKafka.SendTranscodeJobTask(ctx, topic, task); err != nil {
			logger.Error("Send transcode task failed",
				zap.Int64("job_id", job.ID),
				zap.Int64("video_id", videoID),
				zap.Error(err),
			)
			_ = s.jobRepo.MarkFailed(job.ID, "任务投递失败: "+err.Error())
			job.Status = model.JobStatusFailed
		}
	}

	logger.Info("Transcode jobs accepted",
		zap.Int64("video_id", videoID),
		zap.Int("job_count", len(jobs)),
		zap.Strings("formats", formats),
		zap.Strings("resolutions", resolutions),
	)

	return &dto.TranscodeAcceptedData{
		VideoID:  videoID,
		JobCount: len(jobs),
		Jobs:     toTranscodeJobInfos(jobs),
	}, nil
}

// GetStatus 转码进度：逐作业明细 + 按状态计数
func (s *TranscodeService) GetStatus(videoID, ownerID int64) (*dto.TranscodeStatusData, error) {
	video, err := s.videoRepo.GetByIDAndOwner(videoID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}

	jobs, err := s.jobRepo.ListByVideo(videoID)
	if err != nil {
		return nil, err
	}

	counts := map[string]int{
		model.JobStatusPending:    0,
		model.JobStatusProcessing: 0,
		model.JobStatusCompleted:  0,
		model.JobStatusFailed:     0,
	}
	for i := range jobs {
		counts[jobs[i].Status]++
	}

	return &dto.TranscodeStatusData{
		VideoID:     videoID,
		VideoStatus: video.Status,
		Jobs:        toTranscodeJobInfos(jobs),
		Counts:      counts,
	}, nil
}

// GetStream 自适应播放信息：主播放列表地址 + 已就绪的变体列表
// 任何已认证用户可访问；在第一个 HLS 作业完成前返回 ErrNoStreamReady
func (s *TranscodeService) GetStream(videoID int64) (*dto.StreamData, error) {
	video, err := s.videoRepo.GetByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}

	jobs, err := s.jobRepo.ListCompletedByVideoAndFormat(videoID, transcode.FormatHLS)
	if err != nil {
		return nil, err
	}

	completed := transcode.CompletedHLSJobs(jobs)
	if len(completed) == 0 {
		return nil, ErrNoStreamReady
	}

	baseURL := s.streamBaseURL(video)

	variants := make([]dto.StreamVariant, 0, len(completed))
	for i := range completed {
		job := &completed[i]
		r, ok := transcode.LookupRendition(job.Resolution)
		if !ok {
			continue
		}
		variants = append(variants, dto.StreamVariant{
			Resolution: job.Resolution,
			Bandwidth:  r.Bandwidth,
			URL:        fmt.Sprintf("%s/%s", baseURL, transcode.VariantPlaylistKey(videoID, job.Resolution)),
		})
	}

	return &dto.StreamData{
		MasterPlaylistURL: fmt.Sprintf("/api/v1/media/%d/stream/master.m3u8", videoID),
		VariantPlaylists:  variants,
	}, nil
}

// GetMasterPlaylist 实时生成主播放列表文本，变体指向 CDN 上的对象
func (s *TranscodeService) GetMasterPlaylist(videoID int64) (string, error) {
	video, err := s.videoRepo.GetByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrMediaNotFound
		}
		return "", err
	}

	jobs, err := s.jobRepo.ListCompletedByVideoAndFormat(videoID, transcode.FormatHLS)
	if err != nil {
		return "", err
	}
	if len(transcode.CompletedHLSJobs(jobs)) == 0 {
		return "", ErrNoStreamReady
	}

	return transcode.BuildMasterPlaylist(jobs, s.streamBaseURL(video)), nil
}

// streamBaseURL 变体对象的访问基础地址：优先媒资上记录的 CDN 地址
func (s *TranscodeService) streamBaseURL(video *model.Video) string {
	if video.CDNBaseURL != "" {
		return video.CDNBaseURL
	}
	return fmt.Sprintf("%s/%s", infraCDN.BaseURL(), infraMinio.PublicBucket)
}
