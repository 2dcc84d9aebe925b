package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/nyaysetu/nyaysetu/internal/middleware"
)

type RouterDeps struct {
	Chat      *ChatHandler
	Voice     *VoiceHandler
	Health    *HealthHandler
	RateLimit *middleware.RateLimiter
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.GET("/health", deps.Health.Health)
	api.GET("/voice/:key", deps.Voice.GetAudio)

	chatGroup := api.Group("")
	if deps.RateLimit != nil {
		chatGroup.Use(deps.RateLimit.Handle())
	}
	chatGroup.POST("/chat", deps.Chat.Chat)
	chatGroup.POST("/chat/voice", deps.Voice.Chat)
}
