package dto

// AccessRequest 播放访问上报，IP 从请求连接取
type AccessRequest struct {
	WatchTime *int   `json:"watch_time" binding:"omitempty,min=0"`
	Country   string `json:"country" binding:"omitempty,max=100"`
	UserAgent string `json:"user_agent" binding:"omitempty,max=500"`
}

// CountryViews 按国家聚合的播放量
type CountryViews struct {
	Country string `json:"country"`
	Views   int64  `json:"views"`
}

// DailyViews 按天聚合的播放量
type DailyViews struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Views int64  `json:"views"`
}

// AnalyticsData 访问统计聚合结果
type AnalyticsData struct {
	VideoID          int64          `json:"video_id"`
	StartDate        string         `json:"start_date"`
	EndDate          string         `json:"end_date"`
	TotalViews       int64          `json:"total_views"`
	UniqueViewers    int64          `json:"unique_viewers"`
	AverageWatchTime float64        `json:"average_watch_time"`
	TopCountries     []CountryViews `json:"top_countries"`
	DailyViews       []DailyViews   `json:"daily_views"`
}
