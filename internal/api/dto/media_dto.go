package dto

import "time"

// MediaUploadRequest 媒资上传请求（multipart/form-data）
type MediaUploadRequest struct {
	Title       string `form:"title" binding:"required,min=1,max=200"`
	Description string `form:"description" binding:"omitempty"`
}

// MediaInfo 媒资详情
type MediaInfo struct {
	ID            int64              `json:"id"`
	OwnerID       int64              `json:"owner_id"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	ThumbnailURL  string             `json:"thumbnail_url"`
	FileSize      int64              `json:"file_size"`
	FileFormat    string             `json:"file_format"`
	Duration      *int               `json:"duration"`
	Codec         string             `json:"codec"`
	Width         int                `json:"width"`
	Height        int                `json:"height"`
	BitrateKbps   int                `json:"bitrate_kbps"`
	Status        string             `json:"status"`
	CDNBaseURL    string             `json:"cdn_base_url"`
	ViewCount     int64              `json:"view_count"`
	UploadedAt    time.Time          `json:"uploaded_at"`
	ProcessedAt   *time.Time         `json:"processed_at"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	TranscodeJobs []TranscodeJobInfo `json:"transcode_jobs,omitempty"`
}

// MediaListData 媒资列表响应数据
type MediaListData struct {
	Media      []MediaInfo `json:"media"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int64       `json:"total_pages"`
}

// SignedURLData 原片签名下载地址
type SignedURLData struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"` // 秒
}
