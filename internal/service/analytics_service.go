package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"gigstream-go/internal/api/dto"
	"gigstream-go/internal/config"
	infraRedis "gigstream-go/internal/infra/redis"
	"gigstream-go/internal/model"
	"gigstream-go/internal/repository"
	"gigstream-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const topCountryLimit = 5

// ErrInvalidDateRange 日期区间格式错误或顺序颠倒
var ErrInvalidDateRange = errors.New("无效的日期区间")

type AnalyticsService struct {
	videoRepo *repository.VideoRepository
	logRepo   *repository.AccessLogRepository
}

func NewAnalyticsService(videoRepo *repository.VideoRepository, logRepo *repository.AccessLogRepository) *AnalyticsService {
	return &AnalyticsService{videoRepo: videoRepo, logRepo: logRepo}
}

// RecordAccess 记录一次播放访问并递增播放量
// 任何已认证用户都可以上报，不做所有者校验
func (s *AnalyticsService) RecordAccess(videoID int64, req *dto.AccessRequest, ipAddress string) error {
	if _, err := s.videoRepo.GetByID(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMediaNotFound
		}
		return err
	}

	accessLog := &model.AccessLog{
		VideoID:   videoID,
		IPAddress: ipAddress,
		Country:   req.Country,
		UserAgent: req.UserAgent,
		WatchTime: req.WatchTime,
	}
	if err := s.logRepo.Create(accessLog); err != nil {
		return err
	}

	if err := s.videoRepo.IncrementViewCount(videoID); err != nil {
		logger.Error("Increment view count failed", zap.Int64("video_id", videoID), zap.Error(err))
	}

	return nil
}

// GetAnalytics 访问统计聚合（仅所有者可见），结果短时缓存在 Redis
// start/end 为 YYYY-MM-DD，闭区间；end 扩展到当天末尾
func (s *AnalyticsService) GetAnalytics(videoID, ownerID int64, startDate, endDate string) (*dto.AnalyticsData, error) {
	if _, err := s.videoRepo.GetByIDAndOwner(videoID, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}

	start, end, err := parseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cacheKey := fmt.Sprintf("analytics:%d:%s:%s", videoID, startDate, endDate)
	if cached, err := infraRedis.Get().Get(ctx, cacheKey).Result(); err == nil {
		var data dto.AnalyticsData
		if err := json.Unmarshal([]byte(cached), &data); err == nil {
			return &data, nil
		}
	}

	logs, err := s.logRepo.ListByVideoAndRange(videoID, start, end)
	if err != nil {
		return nil, err
	}

	data := aggregateAccessLogs(videoID, startDate, endDate, logs)

	if raw, err := json.Marshal(data); err == nil {
		ttl := config.GetAnalytics().CacheTTLDuration()
		if err := infraRedis.Get().Set(ctx, cacheKey, raw, ttl).Err(); err != nil {
			logger.Warn("Cache analytics failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	return data, nil
}

// parseDateRange 解析日期区间；缺省为最近 30 天
func parseDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	now := time.Now()
	start := now.AddDate(0, 0, -30)
	end := now

	if startDate != "" {
		parsed, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: 开始日期格式错误 %s", ErrInvalidDateRange, startDate)
		}
		start = parsed
	}
	if endDate != "" {
		parsed, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: 结束日期格式错误 %s", ErrInvalidDateRange, endDate)
		}
		// 闭区间：扩展到当天末尾
		end = parsed.Add(24*time.Hour - time.Nanosecond)
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: 结束日期早于开始日期", ErrInvalidDateRange)
	}

	return start, end, nil
}

// aggregateAccessLogs 在内存中对访问日志做全部聚合
// 独立观众按 IP 去重；平均观看时长只统计上报了时长的记录
func aggregateAccessLogs(videoID int64, startDate, endDate string, logs []model.AccessLog) *dto.AnalyticsData {
	data := &dto.AnalyticsData{
		VideoID:      videoID,
		StartDate:    startDate,
		EndDate:      endDate,
		TotalViews:   int64(len(logs)),
		TopCountries: []dto.CountryViews{},
		DailyViews:   []dto.DailyViews{},
	}

	uniqueIPs := make(map[string]struct{})
	countryCounts := make(map[string]int64)
	dailyCounts := make(map[string]int64)
	var watchSum, watchCount int64

	for i := range logs {
		log := &logs[i]
		uniqueIPs[log.IPAddress] = struct{}{}
		if log.Country != "" {
			countryCounts[log.Country]++
		}
		dailyCounts[log.CreatedAt.Format("2006-01-02")]++
		if log.WatchTime != nil {
			watchSum += int64(*log.WatchTime)
			watchCount++
		}
	}

	data.UniqueViewers = int64(len(uniqueIPs))
	if watchCount > 0 {
		data.AverageWatchTime = float64(watchSum) / float64(watchCount)
	}

	for country, views := range countryCounts {
		data.TopCountries = append(data.TopCountries, dto.CountryViews{Country: country, Views: views})
	}
	sort.Slice(data.TopCountries, func(i, j int) bool {
		if data.TopCountries[i].Views != data.TopCountries[j].Views {
			return data.TopCountries[i].Views > data.TopCountries[j].Views
		}
		return data.TopCountries[i].Country < data.TopCountries[j].Country
	})
	if len(data.TopCountries) > topCountryLimit {
		data.TopCountries = data.TopCountries[:topCountryLimit]
	}

	for date, views := range dailyCounts {
		data.DailyViews = append(data.DailyViews, dto.DailyViews{Date: date, Views: views})
	}
	sort.Slice(data.DailyViews, func(i, j int) bool {
		return data.DailyViews[i].Date < data.DailyViews[j].Date
	})

	return data
}
