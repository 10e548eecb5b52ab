// Package identity verifies admin bearer tokens and extracts the subject.
package identity

import (
	"context"
	"errors"

	"github.com/noah-isme/course-enrollment-api/internal/models"
)

// ErrInvalidToken is returned when a token fails verification.
var ErrInvalidToken = errors.New("invalid identity token")

// Verifier validates a raw bearer token and returns the verified identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*models.AdminIdentity, error)
}

// VerifierFunc adapts a function into a Verifier.
type VerifierFunc func(ctx context.Context, token string) (*models.AdminIdentity, error)

// Verify calls f.
func (f VerifierFunc) Verify(ctx context.Context, token string) (*models.AdminIdentity, error) {
	return f(ctx, token)
}
