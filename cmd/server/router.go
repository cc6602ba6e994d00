package main

import (
	"careers-page-builder/internal/company"
	"careers-page-builder/internal/config"
	"careers-page-builder/internal/datasource"
	"careers-page-builder/internal/draft"
	"careers-page-builder/internal/metrics"
	"careers-page-builder/internal/middleware"
	"careers-page-builder/internal/presence"
	"careers-page-builder/internal/publish"
	"careers-page-builder/internal/revalidate"
	"careers-page-builder/internal/user"
	"careers-page-builder/internal/worker"
	"careers-page-builder/redis"
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// deps is everything the router is built from
type deps struct {
	cfg         *config.Config
	ds          *datasource.DataSource
	cache       *redis.Cache
	pool        *worker.WorkerPool
	revalidator *revalidate.Client
}

func newRouter(d deps) *gin.Engine {
	cfg := d.cfg

	// Initialize services
	userService := user.NewService(d.ds.Users)
	guard := company.NewGuard(d.ds.Companies)
	companyService := company.NewService(d.ds.Companies, guard, d.cache, cfg.PageCacheTTL)
	draftService := draft.NewService(d.ds.Drafts, d.ds.Companies, guard)
	publishService := publish.NewService(
		d.ds.Drafts,
		d.ds.Companies,
		guard,
		publish.NewApplier(d.ds.Pages),
		publish.WithNotifier(publish.NewAsyncNotifier(d.pool, companyService, d.revalidator)),
	)
	presenceService := presence.NewService(d.ds.Presence, guard, presence.WithWindow(cfg.PresenceWindow))

	// Initialize handlers
	userHandler := user.NewHandler(userService, cfg.Environment == "production", cfg.RefreshTokenTTL)
	companyHandler := company.NewHandler(companyService)
	draftHandler := draft.NewHandler(draftService)
	publishHandler := publish.NewHandler(publishService)
	presenceHandler := presence.NewHandler(presenceService, cfg.HeartbeatInterval)

	authMiddleware := &middleware.Auth{UserService: userService}
	requireUser := authMiddleware.AuthMiddleWare()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(metrics.NewHTTPMetrics("careers-page-builder").Middleware())
	router.Use(middleware.ErrorHandler())

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.Environment == "development" {
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	} else {
		corsConfig.AllowOrigins = []string{cfg.FrontendAddress}
	}
	router.Use(cors.New(corsConfig))

	// Operational routes
	router.GET("/health", healthHandler(d.ds))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// User routes
	router.POST("/register", userHandler.Register)
	router.POST("/login", userHandler.Login)
	router.POST("/refresh", userHandler.RefreshToken)
	router.DELETE("/logout", requireUser, userHandler.Logout)
	router.GET("/profile", requireUser, userHandler.GetProfile)

	// Company routes
	router.POST("/companies", requireUser, companyHandler.Create)
	router.GET("/companies", requireUser, companyHandler.List)
	router.GET("/companies/:id", requireUser, companyHandler.ShowLive)
	router.GET("/public/companies/:slug", companyHandler.ShowPublic)

	// Draft and publish routes
	router.POST("/drafts", requireUser, draftHandler.SaveDraft)
	router.GET("/drafts", requireUser, draftHandler.GetDraft)
	router.POST("/drafts/publish", requireUser, publishHandler.Publish)

	// Presence routes
	router.POST("/editor/heartbeat", requireUser, presenceHandler.Heartbeat)
	router.DELETE("/editor/heartbeat", requireUser, presenceHandler.Leave)

	return router
}

func healthHandler(ds *datasource.DataSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := ds.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "unavailable",
				"data_source": ds.Mode,
				"error":       err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "data_source": ds.Mode})
	}
}
