package router

import (
	"gigstream-go/internal/api/handler"
	"gigstream-go/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// Setup 注册所有业务路由
func Setup(
	r *gin.Engine,
	mediaHandler *handler.MediaHandler,
	transcodeHandler *handler.TranscodeHandler,
	analyticsHandler *handler.AnalyticsHandler,
) {
	v1 := r.Group("/api/v1")

	// --- 媒资模块（全部需要登录） ---
	media := v1.Group("/media", middleware.AuthRequired())
	{
		media.POST("/upload", mediaHandler.Upload)
		media.GET("", mediaHandler.List)
		media.GET("/:id", mediaHandler.GetDetail)
		media.DELETE("/:id", mediaHandler.Delete)
		media.GET("/:id/url", mediaHandler.GetSignedURL)

		// 转码与播放
		media.POST("/:id/transcode", transcodeHandler.RequestTranscode)
		media.GET("/:id/transcode-status", transcodeHandler.GetStatus)
		media.GET("/:id/stream", transcodeHandler.GetStream)
		media.GET("/:id/stream/master.m3u8", transcodeHandler.GetMasterPlaylist)

		// 访问统计
		media.POST("/:id/access", analyticsHandler.RecordAccess)
		media.GET("/:id/analytics", analyticsHandler.GetAnalytics)
	}
}
