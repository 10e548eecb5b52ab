// Package payment talks to the payment-link provider (Asaas-compatible API).
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/noah-isme/course-enrollment-api/internal/models"
	"github.com/noah-isme/course-enrollment-api/pkg/money"
)

// ProviderError reports a non-2xx provider response. Body is kept for logs only.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payment provider returned %d: %s", e.StatusCode, e.Body)
}

// ErrEmptyResponse is returned when the provider omits the link id or url.
var ErrEmptyResponse = errors.New("payment provider returned no link")

// Client issues payment links. It performs no retries; a failed call may be
// reissued with a fresh external reference.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient constructs a provider client. A zero timeout leaves calls unbounded.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{baseURL: baseURL, apiKey: apiKey, httpClient: &http.Client{Timeout: timeout}}
}

type linkRequest struct {
	Name                string  `json:"name"`
	Description         string  `json:"description,omitempty"`
	BillingType         string  `json:"billingType"`
	ChargeType          string  `json:"chargeType"`
	Value               float64 `json:"value"`
	DueDateLimitDays    int     `json:"dueDateLimitDays"`
	MaxInstallmentCount int     `json:"maxInstallmentCount,omitempty"`
	ExternalReference   string  `json:"externalReference"`
	NotificationEnabled bool    `json:"notificationEnabled"`
}

type linkResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateCharge creates one payment link for req.
func (c *Client) CreateCharge(ctx context.Context, req models.ChargeRequest) (*models.ChargeResult, error) {
	payload, err := json.Marshal(toLinkRequest(req))
	if err != nil {
		return nil, fmt.Errorf("marshal payment link: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/paymentLinks", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build payment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("access_token", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call payment provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read payment response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out linkResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode payment response: %w", err)
	}
	if out.ID == "" || out.URL == "" {
		return nil, ErrEmptyResponse
	}
	return &models.ChargeResult{ProviderID: out.ID, URL: out.URL}, nil
}

func toLinkRequest(req models.ChargeRequest) linkRequest {
	// The provider API takes a JSON number; the value is already quantized.
	value, _ := money.Round(req.Value).Float64()
	out := linkRequest{
		Name:                req.Name,
		Description:         req.Description,
		Value:               value,
		DueDateLimitDays:    req.DueDays,
		ExternalReference:   req.ExternalReference,
		NotificationEnabled: false,
	}
	switch req.Method {
	case models.PaymentMethodCard:
		out.BillingType = "CREDIT_CARD"
		out.ChargeType = "INSTALLMENT"
		out.MaxInstallmentCount = req.Installments
	default:
		out.BillingType = "PIX"
		out.ChargeType = "DETACHED"
	}
	return out
}
