package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"gigstream-go/internal/config"
	infraCDN "gigstream-go/internal/infra/cdn"
	"gigstream-go/internal/infra/database"
	infraKafka "gigstream-go/internal/infra/kafka"
	infraMinio "gigstream-go/internal/infra/minio"
	"gigstream-go/internal/repository"
	"gigstream-go/internal/transcode"
	"gigstream-go/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	if err := infraMinio.Init(&cfg.MinIO); err != nil {
		logger.Fatal("Failed to init minio", zap.Error(err))
	}

	if err := infraKafka.InitProducer(&cfg.Kafka); err != nil {
		logger.Fatal("Failed to init kafka producer", zap.Error(err))
	}
	defer infraKafka.CloseProducer()

	infraCDN.Init(&cfg.CDN)

	db := database.Get()
	videoRepo := repository.NewVideoRepository(db)
	jobRepo := repository.NewTranscodeJobRepository(db)
	worker := transcode.NewWorker(videoRepo, jobRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听系统信号，优雅退出
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		runExtractConsumer(ctx, cfg, worker)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		runTranscodeConsumer(ctx, cfg, worker)
	}()

	wg.Wait()
	logger.Info("Worker stopped")
}

// runExtractConsumer 消费元信息提取任务，逐条处理
// 探测和缩略图开销远小于转码，不需要并发
func runExtractConsumer(ctx context.Context, cfg *config.Config, worker *transcode.Worker) {
	topic := cfg.Kafka.Topics["media_extract"]
	groupID := "gigstream-extract-worker"

	reader := infraKafka.NewReader(cfg.Kafka.Brokers, topic, groupID)
	defer reader.Close()

	logger.Info("Extract consumer started",
		zap.String("topic", topic),
		zap.String("group", groupID),
	)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("Extract consumer stopped")
				return
			}
			logger.Error("Failed to read kafka message", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		var task infraKafka.ExtractTask
		if err := json.Unmarshal(msg.Value, &task); err != nil {
			logger.Error("Failed to unmarshal extract task",
				zap.Error(err),
				zap.ByteString("value", msg.Value),
			)
			continue
		}

		if err := worker.HandleExtractTask(&task); err != nil {
			logger.Error("Extract task failed",
				zap.Int64("video_id", task.VideoID),
				zap.Error(err),
			)
		}
	}
}

// runTranscodeConsumer 消费转码作业，信号量限制同时转码的作业数
// 读取不受限制，排队在信号量上而不是 Kafka 里
func runTranscodeConsumer(ctx context.Context, cfg *config.Config, worker *transcode.Worker) {
	topic := cfg.Kafka.Topics["media_transcode"]
	groupID := "gigstream-transcode-worker"

	concurrency := cfg.Transcode.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	reader := infraKafka.NewReader(cfg.Kafka.Brokers, topic, groupID)
	defer reader.Close()

	logger.Info("Transcode consumer started",
		zap.String("topic", topic),
		zap.String("group", groupID),
		zap.Int("concurrency", concurrency),
	)

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			logger.Error("Failed to read kafka message", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		var task infraKafka.TranscodeJobTask
		if err := json.Unmarshal(msg.Value, &task); err != nil {
			logger.Error("Failed to unmarshal transcode task",
				zap.Error(err),
				zap.ByteString("value", msg.Value),
			)
			continue
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(task infraKafka.TranscodeJobTask) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := worker.HandleTranscodeJob(&task); err != nil {
				logger.Error("Transcode job failed",
					zap.Int64("job_id", task.JobID),
					zap.Int64("video_id", task.VideoID),
					zap.Error(err),
				)
			}
		}(task)
	}

	// 等待在途作业跑完再退出
	wg.Wait()
	logger.Info("Transcode consumer stopped")
}
