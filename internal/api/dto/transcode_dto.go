package dto

import "time"

// TranscodeRequest 转码请求，目标为空时使用配置的默认组合
type TranscodeRequest struct {
	Formats     []string `json:"formats" binding:"omitempty"`
	Resolutions []string `json:"resolutions" binding:"omitempty"`
}

// TranscodeJobInfo 转码作业详情
type TranscodeJobInfo struct {
	ID                int64      `json:"id"`
	VideoID           int64      `json:"video_id"`
	Format            string     `json:"format"`
	Resolution        string     `json:"resolution"`
	Status            string     `json:"status"`
	OutputKey         string     `json:"output_key,omitempty"`
	OutputSize        int64      `json:"output_size,omitempty"`
	OutputBitrateKbps int        `json:"output_bitrate_kbps,omitempty"`
	ErrorMessage      string     `json:"error_message,omitempty"`
	StartedAt         *time.Time `json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at"`
	CreatedAt         time.Time  `json:"created_at"`
}

// TranscodeAcceptedData 转码请求受理结果
type TranscodeAcceptedData struct {
	VideoID  int64              `json:"video_id"`
	JobCount int                `json:"job_count"`
	Jobs     []TranscodeJobInfo `json:"jobs"`
}

// TranscodeStatusData 转码进度：逐作业明细 + 按状态计数
type TranscodeStatusData struct {
	VideoID     int64              `json:"video_id"`
	VideoStatus string             `json:"video_status"`
	Jobs        []TranscodeJobInfo `json:"jobs"`
	Counts      map[string]int     `json:"counts"`
}

// StreamVariant 单个可播放的 HLS 变体
type StreamVariant struct {
	Resolution string `json:"resolution"`
	Bandwidth  int    `json:"bandwidth"`
	URL        string `json:"url"`
}

// StreamData 自适应播放信息
type StreamData struct {
	MasterPlaylistURL string          `json:"master_playlist_url"`
	VariantPlaylists  []StreamVariant `json:"variant_playlists"`
}
