package elasticsearch

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"gigstream-go/internal/config"
	"gigstream-go/pkg/logger"

	"go.uber.org/zap"
)

// mediaIndexName 读取配置中的媒资索引名
func mediaIndexName() string {
	cfg := config.GetElasticsearch()
	name := cfg.Index["media"]
	if name == "" {
		name = "media"
	}
	return name
}

// GetMediaIndexMapping 返回 media 索引的 mapping
func GetMediaIndexMapping() string {
	return `{
		"settings": {
			"number_of_shards": 1,
			"number_of_replicas": 0
		},
		"mappings": {
			"properties": {
				"id": {"type": "long"},
				"owner_id": {"type": "long"},
				"title": {
					"type": "text",
					"fields": {"keyword": {"type": "keyword", "ignore_above": 200}}
				},
				"description": {"type": "text"},
				"status": {"type": "keyword"},
				"file_format": {"type": "keyword"},
				"file_size": {"type": "long"},
				"duration": {"type": "integer"},
				"view_count": {"type": "long"},
				"uploaded_at": {"type": "date", "format": "strict_date_optional_time||epoch_millis"},
				"updated_at": {"type": "date", "format": "strict_date_optional_time||epoch_millis"}
			}
		}
	}`
}

// EnsureMediaIndex 确保 media 索引存在，不存在则创建
func EnsureMediaIndex(ctx context.Context) error {
	indexName := mediaIndexName()

	exists, err := IndicesExists(ctx, indexName)
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	if exists {
		logger.Info("Elasticsearch media index already exists", zap.String("index", indexName))
		return nil
	}

	body := bytes.NewReader([]byte(GetMediaIndexMapping()))
	resp, err := IndicesCreate(ctx, indexName, body)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("create index failed: %s", resp.String())
	}

	logger.Info("Elasticsearch media index created", zap.String("index", indexName))
	return nil
}

// InitIndexes 初始化所有索引（启动时调用）
func InitIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return EnsureMediaIndex(ctx)
}
