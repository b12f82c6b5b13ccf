package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gigstream-go/internal/model"
	"gigstream-go/pkg/logger"

	"go.uber.org/zap"
)

// ESMediaDoc ES 媒资文档结构
type ESMediaDoc struct {
	ID          int64  `json:"id"`
	OwnerID     int64  `json:"owner_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	FileFormat  string `json:"file_format"`
	FileSize    int64  `json:"file_size"`
	Duration    int    `json:"duration"`
	ViewCount   int64  `json:"view_count"`
	UploadedAt  string `json:"uploaded_at"`
	UpdatedAt   string `json:"updated_at"`
}

func videoToESDoc(v *model.Video) *ESMediaDoc {
	duration := 0
	if v.Duration != nil {
		duration = *v.Duration
	}
	return &ESMediaDoc{
		ID:          v.ID,
		OwnerID:     v.OwnerID,
		Title:       v.Title,
		Description: v.Description,
		Status:      v.Status,
		FileFormat:  v.FileFormat,
		FileSize:    v.FileSize,
		Duration:    duration,
		ViewCount:   v.ViewCount,
		UploadedAt:  v.UploadedAt.Format(time.RFC3339),
		UpdatedAt:   v.UpdatedAt.Format(time.RFC3339),
	}
}

// SyncVideo 同步单个媒资到 ES
func SyncVideo(ctx context.Context, v *model.Video) error {
	indexName := mediaIndexName()

	doc := videoToESDoc(v)
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	resp, err := Index(ctx, indexName, fmt.Sprintf("%d", v.ID), bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("index document failed: %s", resp.String())
	}

	logger.Debug("Media synced to ES", zap.Int64("video_id", v.ID))
	return nil
}

// DeleteVideo 从 ES 删除媒资文档
func DeleteVideo(ctx context.Context, videoID int64) error {
	indexName := mediaIndexName()

	resp, err := Delete(ctx, indexName, fmt.Sprintf("%d", videoID))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.IsError() && resp.StatusCode != 404 {
		return fmt.Errorf("delete document failed: %s", resp.String())
	}
	return nil
}
