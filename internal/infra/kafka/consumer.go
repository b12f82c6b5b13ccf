package kafka

import (
	"context"
	"encoding/json"
	"time"

	"gigstream-go/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// NewReader 创建消费者 Reader（at-least-once，按消费组提交位点）
func NewReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		StartOffset:    kafka.LastOffset,
	})
}

// StatusEventHandler 处理媒资状态事件的回调函数
type StatusEventHandler func(event *MediaStatusEvent) error

// StartStatusEventConsumer 启动状态事件消费者（阻塞，需在 goroutine 中运行）
// ctx 取消后会自动停止
func StartStatusEventConsumer(ctx context.Context, brokers []string, topic, groupID string, handler StatusEventHandler) {
	reader := NewReader(brokers, topic, groupID)

	defer func() {
		if err := reader.Close(); err != nil {
			logger.Error("Failed to close kafka consumer", zap.Error(err))
		}
		logger.Info("Kafka status event consumer stopped")
	}()

	logger.Info("Kafka status event consumer started",
		zap.String("topic", topic),
		zap.String("group", groupID),
	)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("Failed to read kafka message", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		var event MediaStatusEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("Failed to unmarshal status event",
				zap.Error(err),
				zap.ByteString("value", msg.Value),
			)
			continue
		}

		logger.Info("Received media status event",
			zap.Int64("video_id", event.VideoID),
			zap.String("status", event.Status),
		)

		if err := handler(&event); err != nil {
			logger.Error("Failed to handle status event",
				zap.Int64("video_id", event.VideoID),
				zap.Error(err),
			)
		}
	}
}
