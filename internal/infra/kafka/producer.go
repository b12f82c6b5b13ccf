package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gigstream-go/internal/config"
	"gigstream-go/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var producer *kafka.Writer

// ExtractTask 元信息提取任务消息体
// 上传接口入库后发送，worker 消费后探测时长/编码并截取缩略图
type ExtractTask struct {
	VideoID    int64  `json:"video_id"`
	Bucket     string `json:"bucket"`
	ObjectName string `json:"object_name"`
}

// TranscodeJobTask 单个转码作业消息体，一个（格式, 分辨率）组合一条
type TranscodeJobTask struct {
	JobID      int64  `json:"job_id"`
	VideoID    int64  `json:"video_id"`
	Bucket     string `json:"bucket"`
	SourceKey  string `json:"source_key"`
	Format     string `json:"format"`
	Resolution string `json:"resolution"`
}

// MediaStatusEvent 媒资状态变更事件
// worker 在媒资到达终态后发送，API 侧消费用于 ES 同步
type MediaStatusEvent struct {
	VideoID int64  `json:"video_id"`
	Status  string `json:"status"`
}

// InitProducer 初始化 Kafka 生产者
func InitProducer(cfg *config.KafkaConfig) error {
	producer = &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	logger.Info("Kafka producer initialized",
		zap.Strings("brokers", cfg.Brokers),
	)

	return nil
}

// SendExtractTask 发送元信息提取任务
func SendExtractTask(ctx context.Context, topic string, task *ExtractTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal extract task: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(fmt.Sprintf("video-%d", task.VideoID)),
		Value: payload,
	}

	if err := producer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to send extract task: %w", err)
	}

	logger.Info("Extract task sent",
		zap.Int64("video_id", task.VideoID),
		zap.String("topic", topic),
		zap.String("object", task.ObjectName),
	)

	return nil
}

// SendTranscodeJobTask 发送转码作业任务
// 按作业 ID 作为 key，保证同一作业的消息落在同一分区内有序
func SendTranscodeJobTask(ctx context.Context, topic string, task *TranscodeJobTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal transcode job task: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(fmt.Sprintf("job-%d", task.JobID)),
		Value: payload,
	}

	if err := producer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to send transcode job task: %w", err)
	}

	logger.Info("Transcode job task sent",
		zap.Int64("job_id", task.JobID),
		zap.Int64("video_id", task.VideoID),
		zap.String("format", task.Format),
		zap.String("resolution", task.Resolution),
	)

	return nil
}

// SendStatusEvent 发送媒资状态变更事件
func SendStatusEvent(ctx context.Context, topic string, event *MediaStatusEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal status event: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(fmt.Sprintf("video-%d", event.VideoID)),
		Value: payload,
	}

	if err := producer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to send status event: %w", err)
	}
	return nil
}

// CloseProducer 关闭生产者
func CloseProducer() error {
	if producer == nil {
		return nil
	}
	logger.Info("Kafka producer closed")
	return producer.Close()
}
