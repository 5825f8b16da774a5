package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"siteinspect_backend/internal/logger"
	"siteinspect_backend/pkg/contextkeys"
)

// RequestIDMiddleware присваивает каждому запросу уникальный ID
// и пробрасывает его в контекст и заголовок ответа.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}

// LoggingMiddleware логирует каждый HTTP-запрос через slog.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		logger.HTTPLog(method, path, c.Writer.Status(), time.Since(start),
			"request_id", logger.GetRequestID(c.Request.Context()),
			"client_ip", c.ClientIP(),
		)
	}
}

// CORSMiddleware разрешает кросс-доменные запросы.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, Owner, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// DBMiddleware кладет *gorm.DB в контекст запроса.
// Если в контексте уже есть подключение (например, транзакция из теста),
// используется оно.
func DBMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Request.Context().Value(contextkeys.DBContextKey).(*gorm.DB); ok {
			c.Next()
			return
		}

		ctx := contextkeys.WithDB(c.Request.Context(), db)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
