package handler

import (
	"net/http"
	"strconv"

	"gigstream-go/internal/api/dto"
	"gigstream-go/internal/api/middleware"
	"gigstream-go/internal/api/response"
	"gigstream-go/internal/service"

	"github.com/gin-gonic/gin"
)

type TranscodeHandler struct {
	transcodeService *service.TranscodeService
}

func NewTranscodeHandler(transcodeService *service.TranscodeService) *TranscodeHandler {
	return &TranscodeHandler{transcodeService: transcodeService}
}

// RequestTranscode 发起转码
// @Summary 发起转码
// @Description 按格式 × 分辨率组合创建转码作业并异步执行，目标为空时使用默认组合
// @Tags 转码
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "媒资ID"
// @Param request body dto.TranscodeRequest false "转码目标"
// @Success 200 {object} response.Response{data=dto.TranscodeAcceptedData} "已受理"
// @Failure 400 {object} response.ErrorResponse "目标无效"
// @Failure 404 {object} response.ErrorResponse "媒资不存在"
// @Router /media/{id}/transcode [post]
func (h *TranscodeHandler) RequestTranscode(c *gin.Context) {
	videoID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的媒资ID")
		return
	}

	var req dto.TranscodeRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	currentUserID, _ := middleware.GetCurrentUserID(c)

	data, err := h.transcodeService.RequestTranscode(videoID, currentUserID, &req)
	if err != nil {
		handleMediaError(c, err)
		return
	}

	response.OK(c, "转码任务已提交", data)
}

// GetStatus 转码进度
// @Summary 转码进度
// @Description 媒资全部转码作业的明细与按状态计数
// @Tags 转码
// @Produce json
// @Security BearerAuth
// @Param id path int true "媒资ID"
// @Success 200 {object} response.Response{data=dto.TranscodeStatusData} "获取成功"
// @Failure 404 {object} response.ErrorResponse "媒资不存在"
// @Router /media/{id}/transcode-status [get]
func (h *TranscodeHandler) GetStatus(c *gin.Context) {
	videoID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的媒资ID")
		return
	}

	currentUserID, _ := middleware.GetCurrentUserID(c)

	data, err := h.transcodeService.GetStatus(videoID, currentUserID)
	if err != nil {
		handleMediaError(c, err)
		return
	}

	response.OK(c, "获取转码进度成功", data)
}

// GetStream 自适应播放信息
// @Summary 自适应播放信息
// @Description 主播放列表地址和已就绪的 HLS 变体，任何已认证用户可访问
// @Tags 转码
// @Produce json
// @Security BearerAuth
// @Param id path int true "媒资ID"
// @Success 200 {object} response.Response{data=dto.StreamData} "获取成功"
// @Failure 404 {object} response.ErrorResponse "媒资不存在或暂无可播放的流"
// @Router /media/{id}/stream [get]
func (h *TranscodeHandler) GetStream(c *gin.Context) {
	videoID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的媒资ID")
		return
	}

	data, err := h.transcodeService.GetStream(videoID)
	if err != nil {
		handleMediaError(c, err)
		return
	}

	response.OK(c, "获取播放信息成功", data)
}

// GetMasterPlaylist 主播放列表
// @Summary 主播放列表
// @Description 实时生成的 HLS 主播放列表文本，变体随完成进度增长
// @Tags 转码
// @Produce application/vnd.apple.mpegurl
// @Security BearerAuth
// @Param id path int true "媒资ID"
// @Success 200 {string} string "m3u8 文本"
// @Failure 404 {object} response.ErrorResponse "媒资不存在或暂无可播放的流"
// @Router /media/{id}/stream/master.m3u8 [get]
func (h *TranscodeHandler) GetMasterPlaylist(c *gin.Context) {
	videoID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的媒资ID")
		return
	}

	playlist, err := h.transcodeService.GetMasterPlaylist(videoID)
	if err != nil {
		handleMediaError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/vnd.apple.mpegurl", []byte(playlist))
}
