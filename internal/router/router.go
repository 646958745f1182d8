package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/edugen/studio/internal/config"
	"github.com/edugen/studio/internal/handler"
	"github.com/edugen/studio/internal/middleware"
	"github.com/edugen/studio/internal/response"
	"github.com/edugen/studio/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Material *handler.MaterialHandler
	Generate *handler.GenerateHandler
	Export   *handler.ExportHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background work such as the rate limiter's sweeper.
func SetupRouter(
	ctx context.Context,
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// The browser client sends the session cookie, so origins must be
	// listed explicitly; with none configured any origin is echoed back.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowOriginFunc = func(string) bool { return true }
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Exported files are binary; everything else is JSON worth compressing.
	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Quality: middleware.DefaultBrotliConfig.Quality,
		Skipper: middleware.SkipPaths("/api/export/"),
	}))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.JSON(c, http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.Use(middleware.NoStore())

	session := []gin.HandlerFunc{
		middleware.RequireSession(authService, cfg.SessionCookie),
		middleware.RequireKnownUser(authService),
	}

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	authLimiter := middleware.NewRateLimiter(ctx, cfg.AuthRateLimit, time.Minute)

	auth := api.Group("/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/logout", handlers.Auth.Logout)
		auth.GET("/me", append(session, handlers.Auth.Me)...)
	}

	// ─── 2. Materials (Session) ────────────────────────────────────────
	materials := api.Group("/materials")
	materials.Use(session...)
	{
		materials.GET("", handlers.Material.ListMaterials)
		materials.GET("/:id", handlers.Material.GetMaterial)
		materials.PUT("/:id", handlers.Material.UpdateMaterial)
		materials.DELETE("/:id", handlers.Material.DeleteMaterial)
		materials.POST("/:id/generate-questions", handlers.Material.GenerateQuestions)
	}

	// ─── 3. Generation & Export (Session) ──────────────────────────────
	authed := api.Group("")
	authed.Use(session...)
	{
		authed.POST("/generate", handlers.Generate.Generate)
		authed.GET("/export/:format/:id", handlers.Export.Export)
	}

	return router
}
