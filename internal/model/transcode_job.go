package model

import "time"

// 转码作业状态机：pending → processing → completed | failed（终态不可变）
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// TranscodeJob 转码作业：一个（格式, 分辨率档位）组合对应一行
// 作业一旦到达终态，只有媒资级联删除会再触碰这一行
type TranscodeJob struct {
	ID                int64      `gorm:"primaryKey;autoIncrement;comment:作业标识" json:"id"`
	VideoID           int64      `gorm:"not null;index:idx_jobs_video_id;index:idx_composite_video_status;comment:所属媒资ID" json:"video_id"`
	Format            string     `gorm:"size:20;not null;comment:目标格式（mp4/webm/hls）" json:"format"`
	Resolution        string     `gorm:"size:10;not null;comment:目标分辨率档位（sd/hd/fhd/qhd/uhd）" json:"resolution"`
	Status            string     `gorm:"size:20;default:'pending';index:idx_jobs_status;index:idx_composite_video_status;comment:作业状态" json:"status"`
	OutputKey         string     `gorm:"size:500;comment:产物对象键，完成前为空" json:"output_key"`
	OutputSize        int64      `gorm:"default:0;comment:产物大小（字节）" json:"output_size"`
	OutputBitrateKbps int        `gorm:"default:0;comment:产物码率（kbps）" json:"output_bitrate_kbps"`
	ErrorMessage      string     `gorm:"size:1000;comment:失败原因" json:"error_message"`
	StartedAt         *time.Time `gorm:"comment:开始时间" json:"started_at"`
	CompletedAt       *time.Time `gorm:"comment:结束时间" json:"completed_at"`
	CreatedAt         time.Time  `gorm:"autoCreateTime;comment:创建时间" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	// 关联关系
	Video Video `gorm:"foreignKey:VideoID" json:"video,omitempty"`
}

func (TranscodeJob) TableName() string {
	return "transcode_jobs"
}

// IsTerminal 作业是否已到达终态
func (j *TranscodeJob) IsTerminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}
