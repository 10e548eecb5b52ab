package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/course-enrollment-api/internal/models"
	appErrors "github.com/noah-isme/course-enrollment-api/pkg/errors"
	"github.com/noah-isme/course-enrollment-api/pkg/money"
)

const (
	cacheKeyCourseList  = "courses:all"
	cacheKeyCourseID    = "courses:id:"
	cacheKeyCourseTitle = "courses:title:"
	cachePatternCourses = "courses:*"
)

// Coupon resolution outcomes recorded in metrics.
const (
	couponApplied      = "applied"
	couponNotFound     = "not_found"
	couponInactive     = "inactive"
	couponMalformed    = "invalid"
	couponLookupFailed = "lookup_failed"
)

type courseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	FindByTitle(ctx context.Context, title string) (*models.Course, error)
	List(ctx context.Context) ([]models.Course, error)
}

type couponRepository interface {
	FindByCodeAndCourse(ctx context.Context, code, courseTitle string) (*models.Coupon, error)
}

// CouponCheckRequest is the query for a public coupon check.
type CouponCheckRequest struct {
	Code        string `form:"cupom" validate:"required"`
	CourseTitle string `form:"curso" validate:"required"`
}

// CouponCheck reports whether a coupon applies and the resulting price.
type CouponCheck struct {
	Code       string              `json:"cupom"`
	Course     string              `json:"curso"`
	Valid      bool                `json:"valido"`
	Type       models.DiscountType `json:"tipo,omitempty"`
	BasePrice  decimal.Decimal     `json:"precoBase"`
	FinalPrice decimal.Decimal     `json:"precoFinal"`
	Discount   decimal.Decimal     `json:"desconto"`
}

// CatalogService resolves courses and coupons.
type CatalogService struct {
	courses   courseRepository
	coupons   couponRepository
	pricing   *PricingEngine
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService constructs the catalog service. cache may be nil.
func NewCatalogService(courses courseRepository, coupons couponRepository, pricing *PricingEngine, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if pricing == nil {
		pricing = NewPricingEngine(DefaultPricingPolicy())
	}
	return &CatalogService{
		courses:   courses,
		coupons:   coupons,
		pricing:   pricing,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// ResolveCourse finds a course by its title and parses its base price.
func (s *CatalogService) ResolveCourse(ctx context.Context, title string) (*models.Course, decimal.Decimal, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, decimal.Zero, appErrors.Clone(appErrors.ErrValidation, "course is required")
	}

	key := cacheKeyCourseTitle + title
	var course models.Course
	if !s.cache.Get(ctx, key, &course) {
		found, err := s.courses.FindByTitle(ctx, title)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, decimal.Zero, appErrors.Clone(appErrors.ErrNotFound, "course not found")
			}
			return nil, decimal.Zero, appErrors.Internal(err, "failed to load course")
		}
		course = *found
		s.cache.Set(ctx, key, course)
	}

	base, err := money.ParseBRL(course.Price)
	if err != nil {
		return nil, decimal.Zero, appErrors.Internal(err, "course price is malformed")
	}
	return &course, money.Round(base), nil
}

// ResolveCoupon returns the discount rule for code on courseTitle. Any coupon
// that is unknown, inactive, malformed or cannot be looked up yields no rule,
// so the student pays the base price.
func (s *CatalogService) ResolveCoupon(ctx context.Context, code, courseTitle string) *models.DiscountRule {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}

	coupon, err := s.coupons.FindByCodeAndCourse(ctx, code, courseTitle)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordCouponResolution(couponNotFound)
			return nil
		}
		s.logger.Warn("coupon lookup failed, charging base price",
			zap.String("coupon", code), zap.String("course", courseTitle), zap.Error(err))
		s.metrics.RecordCouponResolution(couponLookupFailed)
		return nil
	}
	if !coupon.Applicable() {
		s.metrics.RecordCouponResolution(couponInactive)
		return nil
	}

	rule, err := parseDiscountRule(coupon)
	if err != nil {
		s.logger.Warn("coupon discount is malformed", zap.String("coupon", code), zap.Error(err))
		s.metrics.RecordCouponResolution(couponMalformed)
		return nil
	}
	s.metrics.RecordCouponResolution(couponApplied)
	return rule
}

// CheckCoupon previews a coupon against a course's base price.
func (s *CatalogService) CheckCoupon(ctx context.Context, req CouponCheckRequest) (*CouponCheck, error) {
	req.Code = strings.TrimSpace(req.Code)
	req.CourseTitle = strings.TrimSpace(req.CourseTitle)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cupom and curso are required")
	}

	course, base, err := s.ResolveCourse(ctx, req.CourseTitle)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return &CouponCheck{Code: req.Code, Course: req.CourseTitle}, nil
		}
		return nil, err
	}

	rule := s.ResolveCoupon(ctx, req.Code, course.Title)
	final := s.pricing.Price(base, rule)
	check := &CouponCheck{
		Code:       req.Code,
		Course:     course.Title,
		Valid:      rule != nil,
		BasePrice:  base,
		FinalPrice: final,
		Discount:   s.pricing.Discount(base, final),
	}
	if rule != nil {
		check.Type = rule.Type
	}
	return check, nil
}

// ListCourses returns the public catalog.
func (s *CatalogService) ListCourses(ctx context.Context) ([]models.CourseView, error) {
	var views []models.CourseView
	if s.cache.Get(ctx, cacheKeyCourseList, &views) {
		return views, nil
	}

	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list courses")
	}
	views = make([]models.CourseView, 0, len(courses))
	for _, course := range courses {
		views = append(views, courseView(course))
	}
	s.cache.Set(ctx, cacheKeyCourseList, views)
	return views, nil
}

// GetCourse returns a single course by id.
func (s *CatalogService) GetCourse(ctx context.Context, id string) (*models.CourseView, error) {
	key := cacheKeyCourseID + id
	var view models.CourseView
	if s.cache.Get(ctx, key, &view) {
		return &view, nil
	}

	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Internal(err, "failed to load course")
	}
	view = courseView(*course)
	s.cache.Set(ctx, key, view)
	return &view, nil
}

// InvalidateCatalog drops every cached catalog entry.
func (s *CatalogService) InvalidateCatalog(ctx context.Context) {
	s.cache.Invalidate(ctx, cachePatternCourses)
}

func courseView(course models.Course) models.CourseView {
	view := models.CourseView{Course: course}
	if price, err := money.ParseBRL(course.Price); err == nil {
		view.PriceValue = money.String(price)
	}
	return view
}

var maxPercentDiscount = decimal.NewFromInt(100)

func parseDiscountRule(coupon *models.Coupon) (*models.DiscountRule, error) {
	amount, err := money.ParseBRL(coupon.DiscountValue)
	if err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, errors.New("negative discount")
	}
	switch coupon.DiscountType {
	case models.DiscountPercentage:
		if amount.GreaterThan(maxPercentDiscount) {
			return nil, errors.New("percentage discount above 100")
		}
	case models.DiscountFixed:
	default:
		return nil, errors.New("unknown discount type " + string(coupon.DiscountType))
	}
	return &models.DiscountRule{Code: coupon.Code, Type: coupon.DiscountType, Amount: amount}, nil
}
