package identity

import (
	"context"
	"fmt"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"

	"github.com/noah-isme/course-enrollment-api/internal/models"
)

// GoogleVerifier validates Google-issued ID tokens against the configured audiences.
type GoogleVerifier struct {
	verifier  googleAuthIDTokenVerifier.Verifier
	audiences []string
}

// NewGoogleVerifier constructs a GoogleVerifier. The verifier caches Google's
// signing certificates, so one instance is shared for the process lifetime.
func NewGoogleVerifier(audiences []string) *GoogleVerifier {
	return &GoogleVerifier{verifier: googleAuthIDTokenVerifier.Verifier{}, audiences: audiences}
}

// Verify checks signature, expiry and audience, then decodes subject and email.
func (v *GoogleVerifier) Verify(_ context.Context, token string) (*models.AdminIdentity, error) {
	if err := v.verifier.VerifyIDToken(token, v.audiences); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(token)
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidToken, err)
	}
	if claimSet.Sub == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return &models.AdminIdentity{Subject: claimSet.Sub, Email: claimSet.Email}, nil
}
