package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/course-enrollment-api/internal/models"
	appErrors "github.com/noah-isme/course-enrollment-api/pkg/errors"
	"github.com/noah-isme/course-enrollment-api/pkg/money"
	"github.com/noah-isme/course-enrollment-api/pkg/payment"
)

// PaymentGateway creates charges at the payment provider.
type PaymentGateway interface {
	CreateCharge(ctx context.Context, req models.ChargeRequest) (*models.ChargeResult, error)
}

// PaymentRequestBuilder turns an enrollment and a method into a provider charge.
type PaymentRequestBuilder struct {
	policy  PricingPolicy
	gateway PaymentGateway
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewPaymentRequestBuilder constructs the builder.
func NewPaymentRequestBuilder(policy PricingPolicy, gateway PaymentGateway, metrics *MetricsService, logger *zap.Logger) *PaymentRequestBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentRequestBuilder{policy: policy, gateway: gateway, metrics: metrics, logger: logger, now: models.NowLocal}
}

// Build prepares the charge for enrollment paid with method, starting from the
// enrollment's final price.
func (b *PaymentRequestBuilder) Build(enrollment *models.Enrollment, method models.PaymentMethod, externalRef string) (models.ChargeRequest, error) {
	req := models.ChargeRequest{
		Method:            method,
		Name:              enrollment.CourseTitle,
		Description:       fmt.Sprintf("Inscrição %s - %s", enrollment.CourseTitle, enrollment.FullName),
		ExternalReference: externalRef,
		CustomerName:      enrollment.FullName,
		CustomerEmail:     enrollment.Email,
		CustomerDocument:  enrollment.NationalID,
		CustomerPhone:     enrollment.Phone,
	}

	switch method {
	case models.PaymentMethodPIX:
		req.Value = b.pixValue(enrollment.CourseTitle, enrollment.FinalPrice)
		req.Installments = 1
		req.InstallmentValue = req.Value
		req.DueDays = b.policy.PixDueDays
	case models.PaymentMethodCard:
		req.Value, req.Installments, req.InstallmentValue = b.cardValue(enrollment.CourseTitle, enrollment.FinalPrice)
		req.DueDays = b.policy.CardDueDays
	default:
		return models.ChargeRequest{}, appErrors.ErrInvalidMethod
	}
	req.DueDate = b.now().AddDate(0, 0, req.DueDays)
	return req, nil
}

// Preview computes both payment options without contacting the provider.
func (b *PaymentRequestBuilder) Preview(courseTitle string, price decimal.Decimal) (models.PixPreview, models.CardPreview) {
	pix := b.pixValue(courseTitle, price)
	card, installments, installment := b.cardValue(courseTitle, price)
	return models.PixPreview{Value: pix, Display: money.FormatBRL(pix)},
		models.CardPreview{Value: card, Display: money.FormatBRL(card), Installments: installments, InstallmentValue: installment}
}

// Issue sends the charge to the provider. Provider failures are logged with the
// upstream detail and surfaced to callers as an opaque gateway error.
func (b *PaymentRequestBuilder) Issue(ctx context.Context, req models.ChargeRequest) (*models.ChargeResult, error) {
	start := time.Now()
	result, err := b.gateway.CreateCharge(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		fields := []zap.Field{
			zap.String("method", string(req.Method)),
			zap.String("external_reference", req.ExternalReference),
			zap.Error(err),
		}
		var providerErr *payment.ProviderError
		if errors.As(err, &providerErr) {
			fields = append(fields, zap.Int("provider_status", providerErr.StatusCode))
		}
		b.logger.Error("payment provider call failed", fields...)
		b.metrics.RecordPaymentLink(string(req.Method), "provider_error", elapsed)
		return nil, appErrors.Wrap(err, appErrors.ErrUpstreamGateway.Code, appErrors.ErrUpstreamGateway.Status, appErrors.ErrUpstreamGateway.Message)
	}
	b.metrics.RecordPaymentLink(string(req.Method), "created", elapsed)
	return result, nil
}

func (b *PaymentRequestBuilder) pixValue(courseTitle string, price decimal.Decimal) decimal.Decimal {
	value := money.Round(price)
	if b.policy.IsFlagship(courseTitle) {
		value = money.Round(value.Sub(b.policy.PixFlagshipDiscount))
	}
	if !value.IsPositive() {
		value = b.policy.Floor
	}
	return value
}

func (b *PaymentRequestBuilder) cardValue(courseTitle string, price decimal.Decimal) (decimal.Decimal, int, decimal.Decimal) {
	value := money.Round(price.Add(money.Percent(price, b.policy.CardSurchargePercent)))
	installments := b.policy.CardMaxInstallments
	if b.policy.IsFlagship(courseTitle) && b.policy.FlagshipMaxInstallments > 0 {
		installments = b.policy.FlagshipMaxInstallments
	}
	if installments < 1 {
		installments = 1
	}
	installment := money.Round(value.Div(decimal.NewFromInt(int64(installments))))
	return value, installments, installment
}
