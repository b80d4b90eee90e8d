package middleware

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/qa-dashboard-api/pkg/errors"
	"github.com/noah-isme/qa-dashboard-api/pkg/response"
)

// AccessChecker decides which signed-in reviewers may use the dashboard.
type AccessChecker interface {
	Allowed(email string) bool
}

// RequireAccess rejects authenticated reviewers outside the allowlist. It must run after JWT.
func RequireAccess(policy AccessChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFromContext(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if policy != nil && !policy.Allowed(identity.Email) {
			response.Error(c, appErrors.ErrAccessDenied)
			c.Abort()
			return
		}
		c.Next()
	}
}
