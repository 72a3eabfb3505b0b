package middleware

import (
	"context"
	"net/http"
	"strings"

	"workorder-api/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	userKey  = "auth.user"
	tokenKey = "auth.token"
)

// Authenticator resolves a bearer token into a user.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
}

// RequireAuth rejects requests without a valid `Authorization: Bearer <token>` header
// and stores the caller on the context.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			WriteError(c, err)
			return
		}

		c.Set(userKey, user)
		c.Set(tokenKey, token)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// CurrentUser returns the authenticated caller, or nil outside RequireAuth.
func CurrentUser(c *gin.Context) *models.User {
	user, _ := c.Get(userKey)
	u, _ := user.(*models.User)
	return u
}

// AccessToken returns the caller's bearer token.
func AccessToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}
