package server

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/askroom-backend/internal/http/handlers"
	"github.com/yungbote/askroom-backend/internal/http/middleware"
	"github.com/yungbote/askroom-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log             *logger.Logger
	ServiceName     string
	TracingEnabled  bool
	HealthHandler   *handlers.HealthHandler
	RoomHandler     *handlers.RoomHandler
	AudioHandler    *handlers.AudioHandler
	QuestionHandler *handlers.QuestionHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	if cfg.TracingEnabled {
		router.Use(otelgin.Middleware(cfg.ServiceName))
	}
	router.Use(middleware.AttachTraceContext())
	router.Use(middleware.RequestLogger(cfg.Log))

	router.GET("/health", cfg.HealthHandler.HealthCheck)
	router.GET("/ping", cfg.HealthHandler.Ping)

	router.POST("/rooms", cfg.RoomHandler.CreateRoom)
	router.GET("/rooms", cfg.RoomHandler.ListRooms)
	router.GET("/rooms/:roomID/questions", cfg.RoomHandler.ListRoomQuestions)
	router.POST("/rooms/:roomID/questions", cfg.QuestionHandler.CreateQuestion)
	router.GET("/rooms/:roomID/chunks", cfg.RoomHandler.ListRoomChunks)
	router.POST("/rooms/:roomID/audio", cfg.AudioHandler.UploadAudio)

	return router
}
