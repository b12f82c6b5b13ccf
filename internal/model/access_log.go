package model

import "time"

// AccessLog 播放访问日志，只追加不修改，读侧做聚合统计
type AccessLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:日志标识" json:"id"`
	VideoID   int64     `gorm:"not null;index:idx_logs_video_id;index:idx_composite_video_time,priority:1;comment:媒资ID" json:"video_id"`
	IPAddress string    `gorm:"size:45;not null;comment:访问者IP" json:"ip_address"`
	Country   string    `gorm:"size:100;comment:访问者国家" json:"country"`
	UserAgent string    `gorm:"size:500;comment:UA" json:"user_agent"`
	WatchTime *int      `gorm:"comment:观看时长（秒）" json:"watch_time"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_composite_video_time,priority:2;comment:访问时间" json:"created_at"`

	// 关联关系
	Video Video `gorm:"foreignKey:VideoID" json:"video,omitempty"`
}

func (AccessLog) TableName() string {
	return "access_logs"
}
