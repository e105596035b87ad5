package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"estatehub/api/internal/config"
	"estatehub/api/internal/models"
	"estatehub/api/internal/response"
	"estatehub/api/internal/security"
)

// SessionCookie is the http-only cookie carrying the session token.
const SessionCookie = "jwt"

const userContextKey = "current_user"

// UserSource resolves a token's user id against the store.
type UserSource interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

// Protect rejects requests without a verifiable identity. The bearer header
// takes precedence over the session cookie.
func Protect(cfg *config.AppConfig, users UserSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := resolveUser(c, cfg, users)
		if !ok {
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// SoftAuth runs the same checks as Protect but never rejects: any failure
// just proceeds as anonymous.
func SoftAuth(cfg *config.AppConfig, users UserSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := security.ParseSessionToken(token, cfg.Security.JWTSecret)
		if err != nil {
			c.Next()
			return
		}

		id, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			c.Next()
			return
		}

		user, err := users.GetByID(c.Request.Context(), id)
		if err != nil || user.ChangedPasswordAfter(claims.IssuedAt.Time) {
			c.Next()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// RestrictTo admits exactly the callers whose role is in the given set.
// Denial answers 401, matching the platform's observed contract.
func RestrictTo(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			response.Unauthorized(c, "you are not logged in")
			return
		}

		if _, ok := roleSet[user.Role]; !ok {
			response.Unauthorized(c, "you do not have permission to perform this action")
			return
		}

		c.Next()
	}
}

// CurrentUser returns the identity attached by Protect or SoftAuth.
func CurrentUser(c *gin.Context) (models.User, bool) {
	userVal, exists := c.Get(userContextKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := userVal.(models.User)
	return user, ok
}

// SetCurrentUser attaches an identity directly; used by tests.
func SetCurrentUser(c *gin.Context, user models.User) {
	c.Set(userContextKey, user)
}

func resolveUser(c *gin.Context, cfg *config.AppConfig, users UserSource) (models.User, bool) {
	token := extractToken(c)
	if token == "" {
		response.Unauthorized(c, "you are not logged in")
		return models.User{}, false
	}

	claims, err := security.ParseSessionToken(token, cfg.Security.JWTSecret)
	if err != nil {
		response.Unauthorized(c, "invalid or expired token")
		return models.User{}, false
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		response.Unauthorized(c, "invalid or expired token")
		return models.User{}, false
	}

	user, err := users.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Unauthorized(c, "the user no longer exists")
		return models.User{}, false
	}

	if user.ChangedPasswordAfter(claims.IssuedAt.Time) {
		response.Unauthorized(c, "recently changed password, please login again")
		return models.User{}, false
	}

	return user, true
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}
