package cdn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"gigstream-go/internal/config"
	"gigstream-go/pkg/logger"

	"go.uber.org/zap"
)

var httpClient *http.Client

// Init 初始化 CDN 客户端
func Init(cfg *config.CDNConfig) {
	httpClient = &http.Client{Timeout: cfg.TimeoutDuration()}

	if !cfg.Enabled {
		logger.Info("CDN disabled, serving public URLs directly")
		return
	}
	logger.Info("CDN client initialized",
		zap.String("base_url", cfg.BaseURL),
		zap.String("purge_url", cfg.PurgeURL),
	)
}

// BaseURL 返回媒资的分发基础地址
// CDN 未启用时回退到 MinIO 公开地址
func BaseURL() string {
	cfg := config.GetCDN()
	if cfg.Enabled && cfg.BaseURL != "" {
		return strings.TrimRight(cfg.BaseURL, "/")
	}
	minioCfg := config.GetMinIO()
	scheme := "http"
	if minioCfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, minioCfg.Endpoint)
}

// purgeRequest 刷新接口请求体
type purgeRequest struct {
	Paths []string `json:"paths"`
}

// Purge 向 CDN 刷新接口提交失效路径
// 未启用时为空操作；失败只记录日志，调用方不需要回滚删除
func Purge(ctx context.Context, paths []string) error {
	cfg := config.GetCDN()
	if !cfg.Enabled || len(paths) == 0 {
		return nil
	}

	body, err := json.Marshal(purgeRequest{Paths: paths})
	if err != nil {
		return fmt.Errorf("failed to marshal purge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.PurgeURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build purge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send purge request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("cdn purge failed with status %d", resp.StatusCode)
	}

	logger.Info("CDN purge submitted", zap.Int("paths", len(paths)))
	return nil
}
