package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/marketplace-backend/internal/service"
)

// Context ключи для gin.Context.
const (
	ContextCallerKey = "caller"
)

// AuthMiddleware проверяет bearer токен и кладёт вызывающего в контекст.
func AuthMiddleware(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := extractToken(c.GetHeader("Authorization"))
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "требуется авторизация"})
			return
		}

		caller, err := auth.Authenticate(c.Request.Context(), key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "токен невалиден"})
			return
		}

		c.Set(ContextCallerKey, *caller)
		c.Next()
	}
}

// extractToken вырезает ключ из заголовка Authorization.
// Принимаются схемы "Bearer <key>" и "Token <key>".
func extractToken(header string) string {
	switch {
	case strings.HasPrefix(header, "Bearer "):
		return strings.TrimPrefix(header, "Bearer ")
	case strings.HasPrefix(header, "Token "):
		return strings.TrimPrefix(header, "Token ")
	}
	return ""
}
