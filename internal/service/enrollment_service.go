package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/course-enrollment-api/internal/models"
	"github.com/noah-isme/course-enrollment-api/internal/repository"
	appErrors "github.com/noah-isme/course-enrollment-api/pkg/errors"
	"github.com/noah-isme/course-enrollment-api/pkg/money"
)

type enrollmentRepository interface {
	ExistsByNationalIDAndCourse(ctx context.Context, nationalID, courseTitle string) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, int, error)
	Delete(ctx context.Context, id string) error
	UpdatePayment(ctx context.Context, id string, method models.PaymentMethod, reference, url string) error
	UpdateSubscription(ctx context.Context, id string, requested bool, at time.Time) error
}

// CreateEnrollmentRequest is the public intake form.
type CreateEnrollmentRequest struct {
	FullName       string `json:"nomeCompleto" validate:"required"`
	NationalID     string `json:"cpf" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"whatsapp" validate:"required"`
	CourseTitle    string `json:"curso" validate:"required"`
	AcceptedTerms  bool   `json:"aceitouTermos" validate:"required"`
	Gender         string `json:"sexo"`
	BirthDate      string `json:"dataNascimento"`
	ITBackground   string `json:"formacaoTI"`
	School         string `json:"ondeEstuda"`
	Referral       string `json:"comoSoube"`
	ReferralFriend string `json:"nomeAmigo"`
	Coupon         string `json:"cupom"`
	Website        string `json:"website"`
	IP             string `json:"-"`
	UserAgent      string `json:"-"`
}

// PaymentLinkRequest asks for a payment link on an existing enrollment.
type PaymentLinkRequest struct {
	EnrollmentID string `json:"inscricaoId" validate:"required"`
	Method       string `json:"metodo" validate:"required"`
}

// SubscriptionRequest toggles the subscription flag of an enrollment.
type SubscriptionRequest struct {
	EnrollmentID string `json:"inscricaoId" validate:"required"`
	Subscribe    *bool  `json:"assinatura" validate:"required"`
}

// EnrollmentService orchestrates intake, payment links and admin operations on enrollments.
type EnrollmentService struct {
	repo          enrollmentRepository
	guard         *DuplicateGuard
	catalog       *CatalogService
	pricing       *PricingEngine
	payments      *PaymentRequestBuilder
	notifications *NotificationService
	metrics       *MetricsService
	courseFamily  string
	validator     *validator.Validate
	logger        *zap.Logger
	now           func() time.Time
	newID         func() string
}

// EnrollmentServiceConfig wires collaborators for EnrollmentService.
type EnrollmentServiceConfig struct {
	Repository    enrollmentRepository
	Catalog       *CatalogService
	Pricing       *PricingEngine
	Payments      *PaymentRequestBuilder
	Notifications *NotificationService
	Metrics       *MetricsService
	// SubscriptionFamily restricts the subscription toggle to course titles containing it.
	SubscriptionFamily string
	Validator          *validator.Validate
	Logger             *zap.Logger
}

// NewEnrollmentService constructs the enrollment service.
func NewEnrollmentService(cfg EnrollmentServiceConfig) *EnrollmentService {
	if cfg.Validator == nil {
		cfg.Validator = validator.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Pricing == nil {
		cfg.Pricing = NewPricingEngine(DefaultPricingPolicy())
	}
	return &EnrollmentService{
		repo:          cfg.Repository,
		guard:         NewDuplicateGuard(cfg.Repository),
		catalog:       cfg.Catalog,
		pricing:       cfg.Pricing,
		payments:      cfg.Payments,
		notifications: cfg.Notifications,
		metrics:       cfg.Metrics,
		courseFamily:  cfg.SubscriptionFamily,
		validator:     cfg.Validator,
		logger:        cfg.Logger,
		now:           models.NowLocal,
		newID:         uuid.NewString,
	}
}

// Create validates and persists a new enrollment.
func (s *EnrollmentService) Create(ctx context.Context, req CreateEnrollmentRequest) (*models.Enrollment, error) {
	if strings.TrimSpace(req.Website) != "" {
		s.logger.Warn("honeypot field filled, rejecting submission", zap.String("ip", req.IP), zap.String("user_agent", req.UserAgent))
		s.metrics.RecordRejection(RejectHoneypot)
		return nil, appErrors.ErrInvalidRequest
	}

	req.FullName = strings.TrimSpace(req.FullName)
	req.NationalID = NormalizeNationalID(req.NationalID)
	req.Email = NormalizeEmail(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.CourseTitle = strings.TrimSpace(req.CourseTitle)
	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordRejection(RejectValidation)
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	if err := s.guard.Check(ctx, req.NationalID, req.CourseTitle); err != nil {
		if errors.Is(err, appErrors.ErrConflict) {
			s.metrics.RecordRejection(RejectDuplicate)
		}
		return nil, err
	}

	course, base, err := s.catalog.ResolveCourse(ctx, req.CourseTitle)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			s.metrics.RecordRejection(RejectCourseMissing)
		}
		return nil, err
	}
	if !course.Active {
		s.metrics.RecordRejection(RejectInactive)
		return nil, appErrors.ErrCourseInactive
	}

	rule := s.catalog.ResolveCoupon(ctx, req.Coupon, course.Title)
	enrollment := &models.Enrollment{
		ID:             s.newID(),
		FullName:       req.FullName,
		NationalID:     req.NationalID,
		Email:          req.Email,
		Phone:          req.Phone,
		Gender:         strings.TrimSpace(req.Gender),
		BirthDate:      strings.TrimSpace(req.BirthDate),
		ITBackground:   strings.TrimSpace(req.ITBackground),
		School:         strings.TrimSpace(req.School),
		Referral:       strings.TrimSpace(req.Referral),
		ReferralFriend: strings.TrimSpace(req.ReferralFriend),
		CourseTitle:    course.Title,
		SubmittedAt:    s.now(),
		ClientIP:       req.IP,
		UserAgent:      req.UserAgent,
		AcceptedTerms:  req.AcceptedTerms,
		BasePrice:      base,
		FinalPrice:     s.pricing.Price(base, rule),
	}
	if rule != nil {
		code := rule.Code
		enrollment.CouponCode = &code
	}

	if err := s.repo.Create(ctx, enrollment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.metrics.RecordRejection(RejectDuplicate)
			return nil, appErrors.Clone(appErrors.ErrConflict, "already enrolled in this course")
		}
		return nil, appErrors.Internal(err, "failed to create enrollment")
	}

	s.metrics.RecordEnrollment(enrollment.CourseTitle, rule != nil)
	s.logger.Info("enrollment created",
		zap.String("id", enrollment.ID),
		zap.String("course", enrollment.CourseTitle),
		zap.String("final_price", money.String(enrollment.FinalPrice)),
	)
	s.notifications.EnrollmentCreated(ctx, enrollment)
	return enrollment, nil
}

// Get returns an enrollment by id.
func (s *EnrollmentService) Get(ctx context.Context, id string) (*models.Enrollment, error) {
	if strings.TrimSpace(id) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "inscricaoId is required")
	}
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Internal(err, "failed to load enrollment")
	}
	return enrollment, nil
}

// IssuePaymentLink creates a provider charge for an enrollment and records it.
func (s *EnrollmentService) IssuePaymentLink(ctx context.Context, req PaymentLinkRequest) (*models.PaymentLink, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "inscricaoId and metodo are required")
	}
	method, ok := models.ParsePaymentMethod(req.Method)
	if !ok {
		s.metrics.RecordPaymentLink(req.Method, "invalid_method", 0)
		return nil, appErrors.ErrInvalidMethod
	}

	enrollment, err := s.Get(ctx, req.EnrollmentID)
	if err != nil {
		return nil, err
	}

	charge, err := s.payments.Build(enrollment, method, fmt.Sprintf("%s:%s", enrollment.ID, s.newID()))
	if err != nil {
		return nil, err
	}
	result, err := s.payments.Issue(ctx, charge)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdatePayment(ctx, enrollment.ID, method, result.ProviderID, result.URL); err != nil {
		s.logger.Error("failed to record payment link",
			zap.String("enrollment_id", enrollment.ID), zap.String("provider_id", result.ProviderID), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to record payment link")
	}

	return &models.PaymentLink{
		EnrollmentID:     enrollment.ID,
		ID:               result.ProviderID,
		URL:              result.URL,
		Method:           method,
		Value:            charge.Value,
		Installments:     charge.Installments,
		InstallmentValue: charge.InstallmentValue,
		DueDate:          charge.DueDate.Format("2006-01-02"),
	}, nil
}

// PricingInfo returns the payment options for an enrollment.
func (s *EnrollmentService) PricingInfo(ctx context.Context, id string) (*models.PricingSummary, error) {
	enrollment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	pix, card := s.payments.Preview(enrollment.CourseTitle, enrollment.FinalPrice)
	summary := &models.PricingSummary{
		EnrollmentID: enrollment.ID,
		CourseTitle:  enrollment.CourseTitle,
		BasePrice:    enrollment.BasePrice,
		FinalPrice:   enrollment.FinalPrice,
		Discount:     s.pricing.Discount(enrollment.BasePrice, enrollment.FinalPrice),
		Pix:          pix,
		Card:         card,
	}
	if enrollment.HasCoupon() {
		summary.CouponCode = *enrollment.CouponCode
	}
	return summary, nil
}

// SetSubscription records the subscription choice for an enrollment in the
// subscription course family.
func (s *EnrollmentService) SetSubscription(ctx context.Context, req SubscriptionRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "inscricaoId and assinatura are required")
	}

	enrollment, err := s.Get(ctx, req.EnrollmentID)
	if err != nil {
		return nil, err
	}
	if !s.inSubscriptionFamily(enrollment.CourseTitle) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "subscription is not available for this course")
	}

	at := s.now()
	if err := s.repo.UpdateSubscription(ctx, enrollment.ID, *req.Subscribe, at); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Internal(err, "failed to update subscription")
	}
	enrollment.SubscriptionRequested = *req.Subscribe
	enrollment.SubscriptionUpdatedAt = &at
	return enrollment, nil
}

// List returns enrollments newest first with pagination metadata.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, *models.Pagination, error) {
	filter.CourseTitle = strings.TrimSpace(filter.CourseTitle)
	enrollments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list enrollments")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = repository.DefaultPageSize
	}
	if size > repository.MaxPageSize {
		size = repository.MaxPageSize
	}
	return enrollments, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Delete removes an enrollment.
func (s *EnrollmentService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return appErrors.Internal(err, "failed to delete enrollment")
	}
	s.logger.Info("enrollment deleted", zap.String("id", id))
	return nil
}

func (s *EnrollmentService) inSubscriptionFamily(courseTitle string) bool {
	if s.courseFamily == "" {
		return true
	}
	return strings.Contains(strings.ToLower(courseTitle), strings.ToLower(s.courseFamily))
}
