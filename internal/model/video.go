package model

import "time"

// 视频状态机：uploading → processing → ready | failed
// 状态只允许向前推进，唯一的例外是所有者发起的删除（整行级联删除）
const (
	VideoStatusUploading  = "uploading"
	VideoStatusProcessing = "processing"
	VideoStatusReady      = "ready"
	VideoStatusFailed     = "failed"
)

// Video 媒资模型：一次上传的媒体文件及其派生产物的聚合根
type Video struct {
	ID           int64      `gorm:"primaryKey;autoIncrement;comment:媒资标识" json:"id"`
	OwnerID      int64      `gorm:"not null;index:idx_owner_id;index:idx_composite_owner_status;comment:所有者ID" json:"owner_id"`
	Title        string     `gorm:"size:200;not null;comment:标题" json:"title"`
	Description  string     `gorm:"type:text;comment:描述" json:"description"`
	ObjectKey    string     `gorm:"size:500;not null;comment:原始文件对象键" json:"object_key"`
	ThumbnailURL string     `gorm:"size:500;comment:缩略图地址" json:"thumbnail_url"`
	FileSize     int64      `gorm:"default:0;comment:原始文件大小（字节）" json:"file_size"`
	FileFormat   string     `gorm:"size:20;comment:原始文件格式" json:"file_format"`
	Duration     *int       `gorm:"comment:时长（秒），探测前为空" json:"duration"`
	Codec        string     `gorm:"size:50;comment:源视频编码" json:"codec"`
	Width        int        `gorm:"comment:源视频宽度" json:"width"`
	Height       int        `gorm:"comment:源视频高度" json:"height"`
	BitrateKbps  int        `gorm:"comment:源视频码率（kbps）" json:"bitrate_kbps"`
	Status       string     `gorm:"size:20;default:'uploading';index:idx_status;index:idx_composite_owner_status;comment:媒资状态" json:"status"`
	CDNBaseURL   string     `gorm:"size:500;comment:CDN分发基础地址" json:"cdn_base_url"`
	ViewCount    int64      `gorm:"default:0;comment:播放量" json:"view_count"`
	UploadedAt   time.Time  `gorm:"autoCreateTime;comment:上传时间" json:"uploaded_at"`
	ProcessedAt  *time.Time `gorm:"comment:处理完成时间" json:"processed_at"`
	CreatedAt    time.Time  `gorm:"autoCreateTime;index:idx_videos_created_at;comment:创建时间" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	// 关联关系
	TranscodeJobs []TranscodeJob `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE" json:"transcode_jobs,omitempty"`
	AccessLogs    []AccessLog    `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE" json:"access_logs,omitempty"`
}

func (Video) TableName() string {
	return "videos"
}

// IsTerminal 媒资是否已到达终态
func (v *Video) IsTerminal() bool {
	return v.Status == VideoStatusReady || v.Status == VideoStatusFailed
}
