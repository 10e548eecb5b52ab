package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-enrollment-api/internal/models"
)

func TestCreateChargeCard(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/paymentLinks", r.URL.Path)
		assert.Equal(t, "key-1", r.Header.Get("access_token"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"lnk_1","url":"https://pay.example/lnk_1"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key-1", 0)
	res, err := client.CreateCharge(context.Background(), models.ChargeRequest{
		Method:            models.PaymentMethodCard,
		Name:              "Curso",
		Value:             decimal.RequireFromString("1620.00"),
		Installments:      12,
		DueDays:           7,
		ExternalReference: "enr-1:abc",
	})
	require.NoError(t, err)
	assert.Equal(t, "lnk_1", res.ProviderID)
	assert.Equal(t, "https://pay.example/lnk_1", res.URL)
	assert.Equal(t, "CREDIT_CARD", got["billingType"])
	assert.Equal(t, "INSTALLMENT", got["chargeType"])
	assert.Equal(t, float64(12), got["maxInstallmentCount"])
	assert.Equal(t, 1620.0, got["value"])
	assert.Equal(t, "enr-1:abc", got["externalReference"])
}

func TestCreateChargePix(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":"lnk_2","url":"https://pay.example/lnk_2"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k", 0).CreateCharge(context.Background(), models.ChargeRequest{
		Method:  models.PaymentMethodPIX,
		Value:   decimal.RequireFromString("1350.00"),
		DueDays: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "PIX", got["billingType"])
	assert.Equal(t, "DETACHED", got["chargeType"])
	_, hasInstallments := got["maxInstallmentCount"]
	assert.False(t, hasInstallments)
}

func TestCreateChargeProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"code":"invalid_value"}]}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k", 0).CreateCharge(context.Background(), models.ChargeRequest{Method: models.PaymentMethodPIX, Value: decimal.NewFromInt(1)})
	var providerErr *ProviderError
	require.True(t, errors.As(err, &providerErr))
	assert.Equal(t, http.StatusBadRequest, providerErr.StatusCode)
	assert.Contains(t, providerErr.Body, "invalid_value")
}

func TestCreateChargeEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k", 0).CreateCharge(context.Background(), models.ChargeRequest{Method: models.PaymentMethodPIX, Value: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
