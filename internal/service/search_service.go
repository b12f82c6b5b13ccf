package service

import (
	"context"
	"time"

	"gigstream-go/internal/api/dto"
	infraES "gigstream-go/internal/infra/elasticsearch"
	"gigstream-go/internal/model"
	"gigstream-go/internal/repository"
	"gigstream-go/pkg/logger"

	"go.uber.org/zap"
)

type SearchService struct {
	videoRepo *repository.VideoRepository
}

func NewSearchService(videoRepo *repository.VideoRepository) *SearchService {
	return &SearchService{videoRepo: videoRepo}
}

// SearchMedia 在所有者媒资范围内做关键词搜索
// ES 可用时走 ES（相关度排序 + DB 回表），否则降级到数据库模糊匹配
func (s *SearchService) SearchMedia(ownerID int64, keyword string, page, pageSize int) (*dto.MediaListData, error) {
	skip := (page - 1) * pageSize

	if !infraES.Available() {
		return s.searchFromDB(ownerID, keyword, skip, page, pageSize)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ids, total, err := infraES.SearchMediaIDs(ctx, ownerID, keyword, skip, pageSize)
	if err != nil {
		logger.Warn("ES search failed, falling back to database",
			zap.Int64("owner_id", ownerID),
			zap.String("keyword", keyword),
			zap.Error(err),
		)
		return s.searchFromDB(ownerID, keyword, skip, page, pageSize)
	}

	if len(ids) == 0 {
		return buildMediaListData(nil, total, page, pageSize), nil
	}

	videos, err := s.videoRepo.GetByIDs(ids)
	if err != nil {
		return nil, err
	}

	// 回表结果按 ES 相关度顺序重排
	byID := make(map[int64]*model.Video, len(videos))
	for i := range videos {
		byID[videos[i].ID] = &videos[i]
	}
	ordered := make([]model.Video, 0, len(ids))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			ordered = append(ordered, *v)
		}
	}

	return buildMediaListData(ordered, total, page, pageSize), nil
}

func (s *SearchService) searchFromDB(ownerID int64, keyword string, skip, page, pageSize int) (*dto.MediaListData, error) {
	videos, total, err := s.videoRepo.ListByOwner(ownerID, skip, pageSize, nil, &keyword)
	if err != nil {
		return nil, err
	}
	return buildMediaListData(videos, total, page, pageSize), nil
}

// SyncMediaToES 将媒资最新状态同步到 ES（状态事件消费侧调用）
func (s *SearchService) SyncMediaToES(videoID int64) error {
	if !infraES.Available() {
		return nil
	}

	video, err := s.videoRepo.GetByID(videoID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return infraES.SyncVideo(ctx, video)
}
