package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/course-enrollment-api/internal/models"
	"github.com/noah-isme/course-enrollment-api/internal/repository"
	appErrors "github.com/noah-isme/course-enrollment-api/pkg/errors"
)

type clubInterestRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, interest *models.ClubInterest) error
}

// ClubInterestRequest is the interest-list signup payload.
type ClubInterestRequest struct {
	Name      string   `json:"nome" validate:"required"`
	Email     string   `json:"email" validate:"required,email"`
	Phone     string   `json:"telefone"`
	Interests []string `json:"interesses"`
	Consent   bool     `json:"consentimento" validate:"required"`
	Website   string   `json:"website"`
}

// ClubService manages the interest list.
type ClubService struct {
	repo          clubInterestRepository
	notifications *NotificationService
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewClubService constructs the club service.
func NewClubService(repo clubInterestRepository, notifications *NotificationService, validate *validator.Validate, logger *zap.Logger) *ClubService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClubService{repo: repo, notifications: notifications, validator: validate, logger: logger}
}

// Register adds an email to the interest list. Emails are unique.
func (s *ClubService) Register(ctx context.Context, req ClubInterestRequest) (*models.ClubInterest, error) {
	if strings.TrimSpace(req.Website) != "" {
		s.logger.Warn("honeypot field filled on club signup")
		return nil, appErrors.ErrInvalidRequest
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = NormalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid club signup payload")
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check club signup")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}

	interests := make([]string, 0, len(req.Interests))
	for _, item := range req.Interests {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			interests = append(interests, trimmed)
		}
	}
	interest := &models.ClubInterest{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     strings.TrimSpace(req.Phone),
		Interests: interests,
		Consent:   req.Consent,
		CreatedAt: models.NowLocal(),
	}
	if err := s.repo.Create(ctx, interest); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
		}
		return nil, appErrors.Internal(err, "failed to register club signup")
	}

	s.notifications.ClubInterestRegistered(ctx, interest)
	return interest, nil
}

// Exists reports whether email is already on the interest list.
func (s *ClubService) Exists(ctx context.Context, email string) (bool, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return false, appErrors.Clone(appErrors.ErrValidation, "email is required")
	}
	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return false, appErrors.Internal(err, "failed to check club signup")
	}
	return exists, nil
}
