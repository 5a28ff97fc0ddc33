package handler

import (
	"net/http"

	"gameportal/backend/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// RouterConfig carries the settings the HTTP layer needs.
type RouterConfig struct {
	JWTSecret      string
	AllowedOrigins []string
	Identities     auth.IdentitySyncer
}

// NewRouter wires every route onto a gin engine.
func NewRouter(h *Handler, cfg RouterConfig, log *zap.SugaredLogger) *gin.Engine {
	h.upgrader = newUpgrader(cfg.AllowedOrigins)

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log.Named("access")), CORS(cfg.AllowedOrigins))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	requireUser := auth.AuthMiddleware(cfg.JWTSecret, cfg.Identities)
	optionalUser := auth.OptionalAuthMiddleware(cfg.JWTSecret, cfg.Identities)

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Public catalog routes; a token only adds favorite flags
		gameRoutes := apiV1.Group("/games")
		{
			gameRoutes.GET("", optionalUser, h.SearchGames)
			gameRoutes.GET("/:slug", optionalUser, h.GetGame)
			gameRoutes.POST("/:slug/play", requireUser, withIDParam("slug"), h.RecordPlay)
			gameRoutes.POST("/:slug/favorite", requireUser, withIDParam("slug"), h.ToggleFavoriteGame)
		}

		apiV1.GET("/categories", h.ListCategories)
		apiV1.GET("/categories/:slug", h.GetCategory)
		apiV1.GET("/tags", h.GetTags)
		apiV1.GET("/achievements", h.ListAchievements)
		apiV1.GET("/events", h.StreamEvents)
		apiV1.GET("/events/ws", h.EventsWebSocket)

		// User routes (protected)
		userRoutes := apiV1.Group("/users/me")
		userRoutes.Use(requireUser)
		{
			userRoutes.GET("", h.GetMe)
			userRoutes.GET("/history", h.GetMyHistory)
			userRoutes.GET("/achievements", h.GetMyAchievements)
		}

		// Admin routes (protected by auth and admin check)
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(requireUser, auth.AdminMiddleware())
		{
			adminGameRoutes := adminRoutes.Group("/games")
			{
				adminGameRoutes.POST("", h.CreateGame)
				adminGameRoutes.GET("/:id", h.GetGameAdmin)
				adminGameRoutes.PUT("/:id", h.UpdateGame)
				adminGameRoutes.POST("/:id/activate", h.ActivateGame)
				adminGameRoutes.POST("/:id/deactivate", h.DeactivateGame)
			}

			categories := adminRoutes.Group("/categories")
			{
				categories.POST("", h.CreateCategory)
				categories.POST("/swap", h.SwapCategories)
				categories.PUT("/:id", h.UpdateCategory)
				categories.DELETE("/:id", h.DeleteCategory)
				categories.POST("/:id/move", h.MoveCategory)
			}

			tags := adminRoutes.Group("/tags")
			{
				tags.PUT("/:id", h.UpdateTag)
				tags.DELETE("/:id", h.DeleteTag)
			}

			users := adminRoutes.Group("/users")
			{
				users.GET("", h.ListUsers)
				users.PUT("/:id/role", h.SetUserRole)
			}
		}
	}

	return router
}

// withIDParam exposes a numeric path segment under the "id" name. gin
// requires one wildcard name per path position, so /games/:slug also
// carries ids for the play and favorite routes.
func withIDParam(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Params = append(c.Params, gin.Param{Key: "id", Value: c.Param(name)})
		c.Next()
	}
}
