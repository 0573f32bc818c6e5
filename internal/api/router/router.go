package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"store-ops/config"
	"store-ops/internal/api/handler"
	"store-ops/internal/api/middleware"
	"store-ops/internal/model"
	"store-ops/pkg/jwt"
	"store-ops/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(middleware.RequestID())
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 定时任务入口（cron 密钥鉴权）
		cron := v1.Group("/cron")
		cron.Use(middleware.CronAuth(cfg.Report.CronSecret))
		{
			cron.POST("/unmanaged-stores", h.Report.RunUnmanaged)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb, logger))
		authorized.Use(middleware.RateLimit(rdb, cfg.Auth.RateLimit, cfg.Auth.RateWindow))
		{
			// 经营者看板
			business := authorized.Group("/business")
			business.Use(middleware.RoleAuth(model.RoleBusinessOwner, model.RoleAdmin))
			{
				business.GET("/stores/status", h.StoreStatus.GetCompanyStatuses)
				business.GET("/stores/status/export", h.Export.ExportStoreStatus)
				business.GET("/reports/unmanaged", h.Report.GetUnmanaged)
			}

			// 店长看板
			manager := authorized.Group("/store-manager")
			manager.Use(middleware.RoleAuth(model.RoleStoreManager))
			{
				manager.GET("/stores/status", h.StoreStatus.GetManagerStatuses)
			}

			// 员工
			staff := authorized.Group("/staff")
			staff.Use(middleware.RoleAuth(model.RoleStaff))
			{
				staff.GET("/checklist-progress", h.Checklist.GetStaffProgress)
			}

			authorized.GET("/checklists/:id/progress", h.Checklist.GetProgress)
		}
	}

	return r
}
