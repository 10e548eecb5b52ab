package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-enrollment-api/internal/models"
	appErrors "github.com/noah-isme/course-enrollment-api/pkg/errors"
	"github.com/noah-isme/course-enrollment-api/pkg/payment"
)

type fakeGateway struct {
	calls  []models.ChargeRequest
	result *models.ChargeResult
	err    error
}

func (f *fakeGateway) CreateCharge(ctx context.Context, req models.ChargeRequest) (*models.ChargeResult, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &models.ChargeResult{ProviderID: "lnk_1", URL: "https://pay.example/lnk_1"}, nil
}

func newTestBuilder(gateway PaymentGateway) *PaymentRequestBuilder {
	b := NewPaymentRequestBuilder(DefaultPricingPolicy(), gateway, nil, nil)
	b.now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, models.LocalZone) }
	return b
}

func enrollmentFor(title, price string) *models.Enrollment {
	return &models.Enrollment{
		ID:          "enr-1",
		FullName:    "Maria Silva",
		NationalID:  "12345678901",
		Email:       "maria@example.com",
		CourseTitle: title,
		BasePrice:   dec(price),
		FinalPrice:  dec(price),
	}
}

func TestBuildPixFlagshipDiscount(t *testing.T) {
	b := newTestBuilder(nil)

	req, err := b.Build(enrollmentFor("Formação Completa Full Stack", "1500.00"), models.PaymentMethodPIX, "enr-1:a")
	require.NoError(t, err)
	assert.Equal(t, "1350.00", req.Value.StringFixed(2))
	assert.Equal(t, 1, req.Installments)
	assert.Equal(t, 2, req.DueDays)
	assert.Equal(t, "2024-03-03", req.DueDate.Format("2006-01-02"))
	assert.Equal(t, "enr-1:a", req.ExternalReference)
}

func TestBuildPixNonFlagship(t *testing.T) {
	b := newTestBuilder(nil)

	req, err := b.Build(enrollmentFor("Introdução a Python", "1500.00"), models.PaymentMethodPIX, "ref")
	require.NoError(t, err)
	assert.Equal(t, "1500.00", req.Value.StringFixed(2))
}

func TestBuildPixClampsToFloor(t *testing.T) {
	b := newTestBuilder(nil)

	req, err := b.Build(enrollmentFor("Formação Completa", "100.00"), models.PaymentMethodPIX, "ref")
	require.NoError(t, err)
	assert.Equal(t, "0.01", req.Value.StringFixed(2))
}

func TestBuildCardSurcharge(t *testing.T) {
	b := newTestBuilder(nil)

	req, err := b.Build(enrollmentFor("Introdução a Python", "1500.00"), models.PaymentMethodCard, "ref")
	require.NoError(t, err)
	assert.Equal(t, "1620.00", req.Value.StringFixed(2))
	assert.Equal(t, 12, req.Installments)
	assert.Equal(t, "135.00", req.InstallmentValue.StringFixed(2))
	assert.Equal(t, 7, req.DueDays)
}

func TestBuildCardFlagshipInstallments(t *testing.T) {
	b := newTestBuilder(nil)

	req, err := b.Build(enrollmentFor("Formação Completa", "1500.00"), models.PaymentMethodCard, "ref")
	require.NoError(t, err)
	assert.Equal(t, 10, req.Installments)
	assert.Equal(t, "162.00", req.InstallmentValue.StringFixed(2))
}

func TestBuildUnknownMethod(t *testing.T) {
	b := newTestBuilder(nil)

	_, err := b.Build(enrollmentFor("X", "10"), models.PaymentMethod("BOLETO"), "ref")
	assert.ErrorIs(t, err, appErrors.ErrInvalidMethod)
}

func TestPreview(t *testing.T) {
	b := newTestBuilder(nil)

	pix, card := b.Preview("Introdução a Python", dec("1500"))
	assert.Equal(t, "R$ 1.500,00", pix.Display)
	assert.Equal(t, "R$ 1.620,00", card.Display)
	assert.Equal(t, 12, card.Installments)
	assert.Equal(t, "135.00", card.InstallmentValue.StringFixed(2))
}

func TestIssueMapsProviderFailure(t *testing.T) {
	gateway := &fakeGateway{err: &payment.ProviderError{StatusCode: 400, Body: `{"errors":[{"code":"invalid_value"}]}`}}
	b := newTestBuilder(gateway)

	_, err := b.Issue(context.Background(), models.ChargeRequest{Method: models.PaymentMethodPIX})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUpstreamGateway.Code, appErr.Code)
	assert.Equal(t, 500, appErr.Status)
	assert.NotContains(t, appErr.Message, "invalid_value")

	var providerErr *payment.ProviderError
	assert.True(t, errors.As(err, &providerErr))
}

func TestIssueReturnsResult(t *testing.T) {
	gateway := &fakeGateway{}
	b := newTestBuilder(gateway)

	res, err := b.Issue(context.Background(), models.ChargeRequest{Method: models.PaymentMethodCard})
	require.NoError(t, err)
	assert.Equal(t, "lnk_1", res.ProviderID)
	assert.Len(t, gateway.calls, 1)
}
