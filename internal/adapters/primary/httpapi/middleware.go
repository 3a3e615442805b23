package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jupiterclapton/circle/internal/core/ports"
)

const userIDKey = "user_id"

// requestTimeout borne chaque requête, et donc chaque appel store
// qu'elle déclenche : un Postgres/Neo4j/Redis qui ne répond pas finit
// en DeadlineExceeded, que les repos traduisent ErrStoreUnavailable
// (503), au lieu de bloquer le client indéfiniment.
const requestTimeout = 10 * time.Second

// RequestTimeout pose la deadline sur le contexte de la requête.
func RequestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// AuthRequired valide le token du header x-auth-token et injecte
// l'identité résolue dans le contexte gin. Le coeur ne voit jamais de
// credentials, seulement un user id.
func AuthRequired(identity ports.IdentityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("x-auth-token")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errBody("No token, auth denied"))
			return
		}

		userID, err := identity.ValidateToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errBody("Token is not valid"))
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// callerID retourne l'identité injectée par AuthRequired.
func callerID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// RequestLogger trace chaque requête en slog structuré.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
