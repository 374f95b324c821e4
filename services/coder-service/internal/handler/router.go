package handler

import (
	"ai-coder/services/coder-service/internal/application"
	"ai-coder/services/coder-service/internal/domain"
	"ai-coder/services/coder-service/internal/middleware"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

type Dependencies struct {
	ServiceName string
	Logger      *log.Logger
	Tokens      domain.TokenService

	// Redis enables rate limiting when non-nil.
	Redis        *redis.Client
	RateLimitQPS int

	Auth         *application.AuthService
	Sessions     *application.SessionService
	Interactions *application.InteractionService
	Code         *application.CodeService
}

func NewRouter(d Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Logger))
	if d.Redis != nil && d.RateLimitQPS > 0 {
		r.Use(middleware.RateLimit(d.Redis, d.RateLimitQPS))
	}

	r.GET("/health", Health(d.ServiceName))

	api := r.Group("/api/v1")
	{
		authHandler := NewAuthHandler(d.Auth)
		auth := api.Group("/auth")
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.GET("/me", middleware.JwtAuth(d.Tokens), authHandler.Me)

		coder := api.Group("/coder")
		coder.Use(middleware.JwtAuth(d.Tokens))
		{
			sessionHandler := NewSessionHandler(d.Sessions)
			coder.GET("/workspace", sessionHandler.Workspace)
			coder.GET("/sessions", sessionHandler.List)
			coder.POST("/sessions", sessionHandler.Create)
			coder.GET("/sessions/:id", sessionHandler.Get)
			coder.PATCH("/sessions/:id", sessionHandler.Update)
			coder.DELETE("/sessions/:id", sessionHandler.Delete)
			coder.GET("/sessions/:id/export", sessionHandler.Export)
			// action-style aliases kept for older clients
			coder.PATCH("/sessions/:id/update_session", sessionHandler.Update)
			coder.DELETE("/sessions/:id/delete_session", sessionHandler.Delete)

			interactionHandler := NewInteractionHandler(d.Interactions)
			coder.GET("/interactions", interactionHandler.List)
			coder.POST("/interactions", interactionHandler.Create)
			coder.GET("/interactions/:id", interactionHandler.Get)
			coder.DELETE("/interactions/:id", interactionHandler.Delete)

			codeHandler := NewCodeHandler(d.Code)
			coder.POST("/run_code", codeHandler.Run)
			coder.POST("/format_code", codeHandler.Format)
		}
	}
	return r
}
