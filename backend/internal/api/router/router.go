package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"oilsafe-hub/backend/config"
	"oilsafe-hub/backend/internal/api/handler"
	"oilsafe-hub/backend/internal/api/middleware"
	"oilsafe-hub/backend/pkg/jwt"
	"oilsafe-hub/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，登录接口限流）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 技师档案模块
			technicians := authorized.Group("/technicians")
			{
				technicians.GET("", h.Technician.ListTechnicians)
				technicians.GET("/:id", h.Technician.GetTechnician)
				technicians.POST("", middleware.RoleAuth("admin", "planner"), h.Technician.CreateTechnician)
				technicians.PUT("/:id", middleware.RoleAuth("admin", "planner"), h.Technician.UpdateTechnician)
				technicians.DELETE("/:id", middleware.RoleAuth("admin"), h.Technician.DeleteTechnician)
			}

			// 客户模块
			clients := authorized.Group("/clients")
			{
				clients.GET("", h.Client.ListClients)
				clients.GET("/:id", h.Client.GetClient)
				clients.POST("", middleware.RoleAuth("admin", "planner"), h.Client.CreateClient)
				clients.PUT("/:id", middleware.RoleAuth("admin", "planner"), h.Client.UpdateClient)
				clients.DELETE("/:id", middleware.RoleAuth("admin"), h.Client.DeleteClient)
			}

			// 工单模块
			jobs := authorized.Group("/jobs")
			{
				jobs.GET("", h.Job.ListJobs)
				jobs.GET("/:id", h.Job.GetJob)
				jobs.POST("", middleware.RoleAuth("admin", "planner"), h.Job.CreateJob)
				jobs.PUT("/:id", middleware.RoleAuth("admin", "planner"), h.Job.UpdateJob)
				jobs.DELETE("/:id", middleware.RoleAuth("admin"), h.Job.DeleteJob)
			}

			// 服务报告模块
			reports := authorized.Group("/reports")
			{
				reports.GET("", h.Report.ListReports)
				reports.GET("/:id", h.Report.GetReport)
				reports.POST("", h.Report.CreateReport)
				reports.PUT("/:id", h.Report.UpdateReport)
				reports.DELETE("/:id", middleware.RoleAuth("admin"), h.Report.DeleteReport)
			}

			// 排程记录模块
			schedulingRecords := authorized.Group("/scheduling-records")
			{
				schedulingRecords.GET("", h.Scheduling.ListRecords)
				schedulingRecords.GET("/:id", h.Scheduling.GetRecord)
				schedulingRecords.POST("", middleware.RoleAuth("admin", "planner"), h.Scheduling.CreateRecord)
				schedulingRecords.PUT("/:id", middleware.RoleAuth("admin", "planner"), h.Scheduling.UpdateRecord)
				schedulingRecords.DELETE("/:id", middleware.RoleAuth("admin", "planner"), h.Scheduling.DeleteRecord)
			}

			// 日历聚合模块
			calendar := authorized.Group("/calendar")
			{
				calendar.GET("/events", h.Calendar.Events)
				calendar.GET("/agenda", h.Calendar.Agenda)
				calendar.GET("/timeline", h.Calendar.Timeline)
				calendar.POST("/relocate", middleware.RoleAuth("admin", "planner"), h.Calendar.Relocate)
				calendar.GET("/relocations", middleware.RoleAuth("admin", "planner"), h.Calendar.ListRelocations)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/timeline.xlsx", middleware.RoleAuth("admin", "planner"), h.Export.ExportTimeline)
				export.GET("/technicians/:id/calendar.ics", h.Export.TechnicianCalendar)
			}
		}
	}

	return r
}
