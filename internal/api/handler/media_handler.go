package handler

import (
	"errors"
	"path/filepath"
	"strconv"
	"strings"

	"gigstream-go/internal/api/dto"
	"gigstream-go/internal/api/middleware"
	"gigstream-go/internal/api/response"
	"gigstream-go/internal/config"
	"gigstream-go/internal/service"
	"gigstream-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MediaHandler struct {
	videoService  *service.VideoService
	searchService *service.SearchService
}

func NewMediaHandler(videoService *service.VideoService, searchService *service.SearchService) *MediaHandler {
	return &MediaHandler{
		videoService:  videoService,
		searchService: searchService,
	}
}

var allowedUploadFormats = map[string]bool{
	".mp4": true, ".avi": true, ".mov": true,
	".mkv": true, ".flv": true, ".webm": true,
}

// Upload 上传媒资
// @Summary 上传媒资
// @Description 上传媒体文件，入库后异步提取元数据和缩略图
// @Tags 媒资
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "标题"
// @Param description formData string false "描述"
// @Param media_file formData file true "媒体文件"
// @Success 201 {object} response.Response{data=dto.MediaInfo} "上传成功"
// @Failure 400 {object} response.ErrorResponse "参数无效"
// @Failure 413 {object} response.ErrorResponse "文件过大"
// @Router /media/upload [post]
func (h *MediaHandler) Upload(c *gin.Context) {
	var req dto.MediaUploadRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	file, err := c.FormFile("media_file")
	if err != nil {
		response.BadRequest(c, "请上传媒体文件")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedUploadFormats[ext] {
		response.BadRequest(c, "不支持的文件格式，支持: mp4, avi, mov, mkv, flv, webm")
		return
	}

	if file.Size == 0 {
		response.BadRequest(c, "文件不能为空")
		return
	}
	if maxSize := config.GetUpload().MaxSizeBytes; file.Size > maxSize {
		response.PayloadTooLarge(c, "文件超过大小上限")
		return
	}

	currentUserID, _ := middleware.GetCurrentUserID(c)

	f, err := file.Open()
	if err != nil {
		response.InternalError(c, "打开上传文件失败")
		return
	}
	defer f.Close()

	info, err := h.videoService.Upload(currentUserID, &req, f, file.Size, strings.TrimPrefix(ext, "."))
	if err != nil {
		logger.Error("Upload media failed", zap.Error(err))
		response.InternalError(c, "上传失败: "+err.Error())
		return
	}

	response.Created(c, "上传成功，元数据提取任务已提交", info)
}

// List 媒资列表
// @Summary 媒资列表
// @Description 当前用户的媒资列表，支持状态筛选和关键词搜索
// @Tags 媒资
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param status query string false "状态筛选"
// @Param q query string false "关键词搜索"
// @Success 200 {object} response.Response{data=dto.MediaListData} "获取成功"
// @Router /media [get]
func (h *MediaHandler) List(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)
	page, pageSize := parsePagination(c)

	// 带关键词时走搜索服务（ES 优先，DB 降级）
	if keyword := c.Query("q"); keyword != "" {
		data, err := h.searchService.SearchMedia(currentUserID, keyword, page, pageSize)
		if err != nil {
			logger.Error("Search media failed", zap.Error(err))
			response.InternalError(c, "搜索失败")
			return
		}
		response.OK(c, "搜索成功", data)
		return
	}

	var status *string
	if v := c.Query("status"); v != "" {
		status = &v
	}

	data, err := h.videoService.List(currentUserID, page, pageSize, status, nil)
	if err != nil {
		logger.Error("List media failed", zap.Error(err))
		response.InternalError(c, "获取媒资列表失败")
		return
	}

	response.OK(c, "获取媒资列表成功", data)
}

// GetDetail 媒资详情
// @Summary 媒资详情
// @Description 媒资详情（含全部转码作业），仅所有者可见
// @Tags 媒资
// @Produce json
// @Security BearerAuth
// @Param id path int true "媒资ID"
// @Success 200 {object} response.Response{data=dto.MediaInfo} "获取成功"
// @Failure 404 {object} response.ErrorResponse "媒资不存在"
// @Router /media/{id} [get]
func (h *MediaHandler) GetDetail(c *gin.Context) {
	videoID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的媒资ID")
		return
	}

	currentUserID, _ := middleware.GetCurrentUserID(c)

	info, err := h.videoService.GetDetail(videoID, currentUserID)
	if err != nil {
		handleMediaError(c, err)
		return
	}

	response.OK(c, "获取媒资详情成功", info)
}

// GetSignedURL 原片签名下载地址
// @Summary 原片签名下载地址
// @Description 生成原始文件的限时签名下载地址
// @Tags 媒资
// @Produce json
// @Security BearerAuth
// @Param id path int true "媒资ID"
// @Success 200 {object} response.Response{data=dto.SignedURLData} "获取成功"
// @Failure 404 {object} response.ErrorResponse "媒资不存在"
// @Router /media/{id}/url [get]
func (h *MediaHandler) GetSignedURL(c *gin.Context) {
	videoID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的媒资ID")
		return
	}

	currentUserID, _ := middleware.GetCurrentUserID(c)

	data, err := h.videoService.GetSignedURL(videoID, currentUserID)
	if err != nil {
		handleMediaError(c, err)
		return
	}

	response.OK(c, "获取下载地址成功", data)
}

// Delete 删除媒资
// @Summary 删除媒资
// @Description 级联删除媒资及全部产物、日志，并清理对象存储和 CDN
// @Tags 媒资
// @Produce json
// @Security BearerAuth
// @Param id path int true "媒资ID"
// @Success 200 {object} response.Response "删除成功"
// @Failure 404 {object} response.ErrorResponse "媒资不存在"
// @Router /media/{id} [delete]
func (h *MediaHandler) Delete(c *gin.Context) {
	videoID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的媒资ID")
		return
	}

	currentUserID, _ := middleware.GetCurrentUserID(c)

	if err := h.videoService.Delete(videoID, currentUserID); err != nil {
		handleMediaError(c, err)
		return
	}

	response.OK(c, "删除媒资成功", nil)
}

func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

// handleMediaError 媒资相关错误到 HTTP 状态码的统一映射
// 无权限和不存在都映射为 404，不暴露媒资归属
func handleMediaError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMediaNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrNoStreamReady):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrInvalidTranscodeTarget):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, err.Error())
	default:
		logger.Error("Media operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
