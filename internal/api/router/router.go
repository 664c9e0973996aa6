package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"course-planner/backend/config"
	"course-planner/backend/internal/api/handler"
	"course-planner/backend/internal/api/middleware"
)

// Setup 初始化并返回 Gin 路由引擎
// limiter 为 nil 时不限流
func Setup(cfg *config.Config, h *handler.Handler, limiter middleware.RateLimiter, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	if cfg.RateLimit.Enabled && limiter != nil {
		v1.Use(middleware.RateLimit(limiter, cfg.RateLimit.Limit, cfg.RateLimit.Window))
	}
	{
		// 课程模块
		courses := v1.Group("/courses")
		{
			courses.GET("", h.Course.ListCourses)
			courses.POST("", h.Course.CreateCourse)
			courses.PUT("/:id", h.Course.UpdateCourse)
			courses.DELETE("/:id", h.Course.DeleteCourse)
		}

		// 上传模块（只登记元数据）
		uploads := v1.Group("/uploads")
		{
			uploads.GET("", h.Upload.ListUploads)
			uploads.POST("/pdf", h.Upload.UploadPDF)
		}

		// 聊天模块
		chat := v1.Group("/chat")
		{
			chat.POST("", h.Chat.Send)
			chat.GET("/history", h.Chat.History)
		}

		// 课表模块
		schedule := v1.Group("/schedule")
		{
			schedule.GET("", h.Schedule.GetSchedule)
			schedule.POST("/build", h.Schedule.Build)
			schedule.GET("/export.xlsx", h.Schedule.ExportXLSX)
			schedule.GET("/export.ics", h.Schedule.ExportICS)
		}

		// 学业规划模块
		v1.POST("/nlp/preferences", h.Plan.NormalizePreferences)
		plans := v1.Group("/plans")
		{
			plans.GET("/degree", h.Plan.DegreePlan)
			plans.GET("/prerequisites", h.Plan.Prerequisites)
			plans.GET("/check", h.Plan.Check)
		}
	}

	return r
}
