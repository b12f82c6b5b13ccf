package transcode

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gigstream-go/internal/config"
	infraCDN "gigstream-go/internal/infra/cdn"
	infraKafka "gigstream-go/internal/infra/kafka"
	infraMinio "gigstream-go/internal/infra/minio"
	"gigstream-go/internal/model"
	"gigstream-go/internal/repository"
	"gigstream-go/pkg/logger"

	"go.uber.org/zap"
)

const workDir = "/tmp/gigstream-media"

// Worker 执行提取和转码任务
// 作业行只由认领它的 worker 修改，聚合状态在每个作业结束后重新推导
type Worker struct {
	videoRepo *repository.VideoRepository
	jobRepo   *repository.TranscodeJobRepository
}

func NewWorker(videoRepo *repository.VideoRepository, jobRepo *repository.TranscodeJobRepository) *Worker {
	return &Worker{videoRepo: videoRepo, jobRepo: jobRepo}
}

// HandleExtractTask 处理元信息提取任务：
//  1. 媒资进入 processing
//  2. 下载原始文件到本地临时目录
//  3. ffprobe 探测时长/编码/分辨率/码率并写回
//  4. 在时长 10% 处截取缩略图并上传
//
// 探测和缩略图互不阻塞，单边失败只记录日志；
// 状态先于下载推进，之后任何一步整体失败媒资都停留在 processing，
// 由查询接口暴露这一状态
func (w *Worker) HandleExtractTask(task *infraKafka.ExtractTask) error {
	taskDir := filepath.Join(workDir, fmt.Sprintf("extract-%d", task.VideoID))
	if err := os.MkdirAll(taskDir, 0755); err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(taskDir)

	logger.Info("Extract task started",
		zap.Int64("video_id", task.VideoID),
		zap.String("object", task.ObjectName),
	)

	ctx, cancel := context.WithTimeout(context.Background(), config.GetTranscode().TaskTimeoutDuration())
	defer cancel()

	video, err := w.videoRepo.GetByID(task.VideoID)
	if err != nil {
		return fmt.Errorf("load video %d: %w", task.VideoID, err)
	}
	if next, ok := IngestTransition(video.Status); ok {
		if _, err := w.videoRepo.Update(task.VideoID, map[string]interface{}{
			"status": next,
		}); err != nil {
			return fmt.Errorf("mark processing: %w", err)
		}
	}

	srcFile := filepath.Join(taskDir, "raw")
	if err := infraMinio.DownloadToFile(ctx, task.Bucket, task.ObjectName, srcFile); err != nil {
		return fmt.Errorf("download source: %w", err)
	}

	// 探测源文件信息
	duration := 0
	probe, probeErr := Probe(srcFile)
	if probeErr != nil {
		logger.Error("Probe media failed",
			zap.Int64("video_id", task.VideoID),
			zap.Error(probeErr),
		)
	} else {
		duration = probe.Duration
		if _, err := w.videoRepo.Update(task.VideoID, map[string]interface{}{
			"duration":     probe.Duration,
			"codec":        probe.Codec,
			"width":        probe.Width,
			"height":       probe.Height,
			"bitrate_kbps": probe.BitrateKbps,
		}); err != nil {
			logger.Error("Save probe result failed",
				zap.Int64("video_id", task.VideoID),
				zap.Error(err),
			)
		}
	}

	// 截取并上传缩略图（与探测互不影响）
	thumbFile := filepath.Join(taskDir, "thumb.jpg")
	if err := ExtractThumbnail(srcFile, thumbFile, ThumbnailOffset(duration)); err != nil {
		logger.Error("Extract thumbnail failed",
			zap.Int64("video_id", task.VideoID),
			zap.Error(err),
		)
		return nil
	}

	thumbKey := ThumbnailKey(task.VideoID)
	if _, err := infraMinio.UploadLocalFile(ctx, infraMinio.PublicBucket, thumbKey, thumbFile, "image/jpeg"); err != nil {
		logger.Error("Upload thumbnail failed",
			zap.Int64("video_id", task.VideoID),
			zap.Error(err),
		)
		return nil
	}

	thumbURL := fmt.Sprintf("%s/%s/%s", infraCDN.BaseURL(), infraMinio.PublicBucket, thumbKey)
	if _, err := w.videoRepo.Update(task.VideoID, map[string]interface{}{
		"thumbnail_url": thumbURL,
	}); err != nil {
		logger.Error("Save thumbnail url failed",
			zap.Int64("video_id", task.VideoID),
			zap.Error(err),
		)
	}

	logger.Info("Extract task completed", zap.Int64("video_id", task.VideoID))
	return nil
}

// HandleTranscodeJob 处理一个转码作业的完整流程：
// 认领 → 下载 → 转码/切片 → 上传 → 写终态 → 重新推导媒资聚合状态
// 失败写入作业行，不向上抛出中断兄弟作业
func (w *Worker) HandleTranscodeJob(task *infraKafka.TranscodeJobTask) error {
	claimed, err := w.jobRepo.MarkProcessing(task.JobID)
	if err != nil {
		return fmt.Errorf("claim job %d: %w", task.JobID, err)
	}
	if !claimed {
		// 重复投递或作业已到终态，直接丢弃
		logger.Warn("Job not claimable, skipping",
			zap.Int64("job_id", task.JobID),
			zap.Int64("video_id", task.VideoID),
		)
		return nil
	}

	logger.Info("Transcode job started",
		zap.Int64("job_id", task.JobID),
		zap.Int64("video_id", task.VideoID),
		zap.String("format", task.Format),
		zap.String("resolution", task.Resolution),
	)

	taskDir := filepath.Join(workDir, fmt.Sprintf("job-%d", task.JobID))
	if err := os.MkdirAll(taskDir, 0755); err != nil {
		return w.failJob(task, fmt.Errorf("create work dir: %w", err))
	}
	defer os.RemoveAll(taskDir)

	rendition, ok := LookupRendition(task.Resolution)
	if !ok {
		return w.failJob(task, fmt.Errorf("unknown resolution tier: %s", task.Resolution))
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.GetTranscode().TaskTimeoutDuration())
	defer cancel()

	srcFile := filepath.Join(taskDir, "source")
	if err := infraMinio.DownloadToFile(ctx, task.Bucket, task.SourceKey, srcFile); err != nil {
		return w.failJob(task, fmt.Errorf("download source: %w", err))
	}

	var outputKey string
	var outputSize int64

	if task.Format == FormatHLS {
		outputKey, outputSize, err = w.packageHLS(ctx, task, srcFile, taskDir, rendition)
	} else {
		outputKey, outputSize, err = w.transcodeSingle(ctx, task, srcFile, taskDir, rendition)
	}
	if err != nil {
		return w.failJob(task, err)
	}

	if err := w.jobRepo.MarkCompleted(task.JobID, outputKey, outputSize, rendition.VideoBitrateKbps); err != nil {
		logger.Error("Mark job completed failed",
			zap.Int64("job_id", task.JobID),
			zap.Error(err),
		)
		return err
	}

	logger.Info("Transcode job completed",
		zap.Int64("job_id", task.JobID),
		zap.Int64("video_id", task.VideoID),
		zap.String("output_key", outputKey),
		zap.Int64("output_size", outputSize),
	)

	w.finalizeVideo(task.VideoID)
	return nil
}

// transcodeSingle mp4/webm 单文件转码并上传
func (w *Worker) transcodeSingle(ctx context.Context, task *infraKafka.TranscodeJobTask, srcFile, taskDir string, r Rendition) (string, int64, error) {
	dstFile := filepath.Join(taskDir, "output."+OutputExtension(task.Format))
	if err := Transcode(srcFile, dstFile, task.Format, r); err != nil {
		return "", 0, err
	}

	outputKey := OutputKey(task.VideoID, task.Format, task.Resolution)
	size, err := infraMinio.UploadLocalFile(ctx, infraMinio.PublicBucket, outputKey, dstFile, OutputContentType(task.Format))
	if err != nil {
		return "", 0, fmt.Errorf("upload output: %w", err)
	}
	return outputKey, size, nil
}

// packageHLS 切片并逐个上传变体播放列表和 ts 切片
func (w *Worker) packageHLS(ctx context.Context, task *infraKafka.TranscodeJobTask, srcFile, taskDir string, r Rendition) (string, int64, error) {
	outDir := filepath.Join(taskDir, "hls")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", 0, fmt.Errorf("create hls dir: %w", err)
	}

	files, err := PackageHLS(srcFile, outDir, r, config.GetTranscode().SegmentDuration)
	if err != nil {
		return "", 0, err
	}

	prefix := VariantPrefix(task.VideoID, task.Resolution)
	var totalSize int64
	for _, f := range files {
		key := prefix + filepath.Base(f)
		size, err := infraMinio.UploadLocalFile(ctx, infraMinio.PublicBucket, key, f, HLSContentType(f))
		if err != nil {
			return "", 0, fmt.Errorf("upload hls object %s: %w", key, err)
		}
		totalSize += size
	}

	return VariantPlaylistKey(task.VideoID, task.Resolution), totalSize, nil
}

// failJob 写入作业失败并重新推导媒资状态，返回原始错误供调用方记录
func (w *Worker) failJob(task *infraKafka.TranscodeJobTask, originalErr error) error {
	logger.Error("Transcode job failed",
		zap.Int64("job_id", task.JobID),
		zap.Int64("video_id", task.VideoID),
		zap.String("format", task.Format),
		zap.String("resolution", task.Resolution),
		zap.Error(originalErr),
	)

	if err := w.jobRepo.MarkFailed(task.JobID, originalErr.Error()); err != nil {
		logger.Error("Mark job failed failed",
			zap.Int64("job_id", task.JobID),
			zap.Error(err),
		)
	}

	w.finalizeVideo(task.VideoID)
	return originalErr
}

// finalizeVideo 重新读取媒资的全部作业并推导聚合状态
// 读取的是全量作业而不是计数器，从多个完成路径重复触发是安全的：
// 未全部结束时直接返回，全部结束时写入终态并广播状态事件
func (w *Worker) finalizeVideo(videoID int64) {
	jobs, err := w.jobRepo.ListByVideo(videoID)
	if err != nil {
		logger.Error("List jobs for finalize failed",
			zap.Int64("video_id", videoID),
			zap.Error(err),
		)
		return
	}

	status, settled := ResolveVideoStatus(jobs)
	if !settled {
		return
	}

	video, err := w.videoRepo.GetByID(videoID)
	if err != nil {
		logger.Error("Load video for finalize failed",
			zap.Int64("video_id", videoID),
			zap.Error(err),
		)
		return
	}
	if video.Status == status {
		return
	}

	cdnBaseURL := ""
	if status == model.VideoStatusReady {
		cdnBaseURL = fmt.Sprintf("%s/%s", infraCDN.BaseURL(), infraMinio.PublicBucket)
	}

	if err := w.videoRepo.MarkTerminal(videoID, status, cdnBaseURL); err != nil {
		logger.Error("Mark video terminal failed",
			zap.Int64("video_id", videoID),
			zap.String("status", status),
			zap.Error(err),
		)
		return
	}

	logger.Info("Video reached terminal status",
		zap.Int64("video_id", videoID),
		zap.String("status", status),
		zap.Int("jobs", len(jobs)),
	)

	// 广播状态事件，API 侧消费后同步 ES
	topic := config.GetKafka().Topics["media_status"]
	if topic == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := infraKafka.SendStatusEvent(ctx, topic, &infraKafka.MediaStatusEvent{
		VideoID: videoID,
		Status:  status,
	}); err != nil {
		logger.Error("Send status event failed",
			zap.Int64("video_id", videoID),
			zap.Error(err),
		)
	}
}
