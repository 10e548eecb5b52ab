package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/course-enrollment-api/internal/models"
	appErrors "github.com/noah-isme/course-enrollment-api/pkg/errors"
	"github.com/noah-isme/course-enrollment-api/pkg/identity"
)

// AdminGuard verifies admin bearer tokens before any admin operation runs.
type AdminGuard struct {
	verifier identity.Verifier
	logger   *zap.Logger
}

// NewAdminGuard constructs the guard.
func NewAdminGuard(verifier identity.Verifier, logger *zap.Logger) *AdminGuard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminGuard{verifier: verifier, logger: logger}
}

// Authorize validates an Authorization header value and returns the identity.
func (g *AdminGuard) Authorize(ctx context.Context, header string) (*models.AdminIdentity, error) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "missing bearer token")
	}
	if g == nil || g.verifier == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "admin access is not configured")
	}

	ident, err := g.verifier.Verify(ctx, strings.TrimSpace(parts[1]))
	if err != nil {
		g.logger.Warn("admin token rejected", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}
	return ident, nil
}
