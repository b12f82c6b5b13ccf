package handler

import (
	"strconv"

	"gigstream-go/internal/api/dto"
	"gigstream-go/internal/api/middleware"
	"gigstream-go/internal/api/response"
	"gigstream-go/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// RecordAccess 上报播放访问
// @Summary 上报播放访问
// @Description 记录一次播放访问并递增播放量，任何已认证用户可上报
// @Tags 统计
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "媒资ID"
// @Param request body dto.AccessRequest false "访问信息"
// @Success 201 {object} response.Response "上报成功"
// @Failure 404 {object} response.ErrorResponse "媒资不存在"
// @Router /media/{id}/access [post]
func (h *AnalyticsHandler) RecordAccess(c *gin.Context) {
	videoID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的媒资ID")
		return
	}

	var req dto.AccessRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	if req.UserAgent == "" {
		req.UserAgent = c.Request.UserAgent()
	}

	if err := h.analyticsService.RecordAccess(videoID, &req, c.ClientIP()); err != nil {
		handleMediaError(c, err)
		return
	}

	response.Created(c, "访问记录成功", nil)
}

// GetAnalytics 访问统计
// @Summary 访问统计
// @Description 时间区间内的播放量、独立观众、平均观看时长、国家与按日分布，仅所有者可见
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param id path int true "媒资ID"
// @Param start_date query string false "开始日期 YYYY-MM-DD"
// @Param end_date query string false "结束日期 YYYY-MM-DD"
// @Success 200 {object} response.Response{data=dto.AnalyticsData} "获取成功"
// @Failure 404 {object} response.ErrorResponse "媒资不存在"
// @Router /media/{id}/analytics [get]
func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	videoID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的媒资ID")
		return
	}

	currentUserID, _ := middleware.GetCurrentUserID(c)

	data, err := h.analyticsService.GetAnalytics(videoID, currentUserID, c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		handleMediaError(c, err)
		return
	}

	response.OK(c, "获取统计成功", data)
}
