package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-enrollment-api/internal/models"
	appErrors "github.com/noah-isme/course-enrollment-api/pkg/errors"
	"github.com/noah-isme/course-enrollment-api/pkg/response"
)

// ContextAdminKey is the gin context key storing the verified admin identity.
const ContextAdminKey = "currentAdmin"

type adminAuthorizer interface {
	Authorize(ctx context.Context, header string) (*models.AdminIdentity, error)
}

// Admin protects routes by requiring a verified bearer token. Rejected
// requests never reach the handler.
func Admin(guard adminAuthorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if guard == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		ident, err := guard.Authorize(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextAdminKey, ident)
		c.Next()
	}
}

// CurrentAdmin returns the identity stored by Admin.
func CurrentAdmin(c *gin.Context) (*models.AdminIdentity, bool) {
	value, exists := c.Get(ContextAdminKey)
	if !exists {
		return nil, false
	}
	ident, ok := value.(*models.AdminIdentity)
	return ident, ok && ident != nil
}
