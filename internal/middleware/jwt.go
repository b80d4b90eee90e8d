package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/qa-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/qa-dashboard-api/pkg/errors"
	"github.com/noah-isme/qa-dashboard-api/pkg/logger"
	"github.com/noah-isme/qa-dashboard-api/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

// queryTokenParam carries the access token for clients that cannot set headers (EventSource).
const queryTokenParam = "access_token"

// TokenValidator verifies access tokens.
type TokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

type jwtOptions struct {
	allowQueryToken bool
}

// JWTOption customises the JWT middleware.
type JWTOption func(*jwtOptions)

// AllowQueryToken accepts the token from the access_token query parameter when no header is sent.
func AllowQueryToken() JWTOption {
	return func(o *jwtOptions) { o.allowQueryToken = true }
}

// JWT protects routes by requiring a valid access token.
func JWT(tokens TokenValidator, opts ...JWTOption) gin.HandlerFunc {
	var options jwtOptions
	for _, opt := range opts {
		opt(&options)
	}
	return func(c *gin.Context) {
		raw, err := bearerToken(c, options.allowQueryToken)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(raw)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Set(logger.ActorKey, claims.Email)
		c.Next()
	}
}

func bearerToken(c *gin.Context, allowQuery bool) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if allowQuery {
			if token := c.Query(queryTokenParam); token != "" {
				return token, nil
			}
		}
		return "", appErrors.ErrUnauthorized
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}

// ClaimsFromContext returns the verified claims, if any.
func ClaimsFromContext(c *gin.Context) (*models.JWTClaims, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.JWTClaims)
	return claims, ok && claims != nil
}

// IdentityFromContext returns the authenticated reviewer.
func IdentityFromContext(c *gin.Context) (models.Identity, bool) {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return models.Identity{}, false
	}
	return claims.Identity(), true
}
