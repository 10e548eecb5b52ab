package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is the checkout method chosen for a charge.
type PaymentMethod string

// Supported payment methods.
const (
	PaymentMethodPIX  PaymentMethod = "PIX"
	PaymentMethodCard PaymentMethod = "CARD"
)

// ParsePaymentMethod maps client input onto a PaymentMethod.
func ParsePaymentMethod(raw string) (PaymentMethod, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "PIX":
		return PaymentMethodPIX, true
	case "CARD", "CARTAO", "CARTÃO", "CREDIT_CARD":
		return PaymentMethodCard, true
	}
	return "", false
}

// ChargeRequest is the provider-agnostic payment request for one enrollment.
type ChargeRequest struct {
	Method            PaymentMethod
	Name              string
	Description       string
	Value             decimal.Decimal
	Installments      int
	InstallmentValue  decimal.Decimal
	DueDate           time.Time
	DueDays           int
	ExternalReference string
	CustomerName      string
	CustomerEmail     string
	CustomerDocument  string
	CustomerPhone     string
}

// ChargeResult is what the payment provider returns for a created charge.
type ChargeResult struct {
	ProviderID string
	URL        string
}

// PaymentLink is the response for an issued payment request.
type PaymentLink struct {
	EnrollmentID     string          `json:"inscricaoId"`
	ID               string          `json:"id"`
	URL              string          `json:"url"`
	Method           PaymentMethod   `json:"metodo"`
	Value            decimal.Decimal `json:"valor"`
	Installments     int             `json:"parcelas"`
	InstallmentValue decimal.Decimal `json:"valorParcela"`
	DueDate          string          `json:"vencimento"`
}

// PricingSummary is the display breakdown of an enrollment's payment options.
type PricingSummary struct {
	EnrollmentID string          `json:"inscricaoId"`
	CourseTitle  string          `json:"curso"`
	BasePrice    decimal.Decimal `json:"precoBase"`
	FinalPrice   decimal.Decimal `json:"precoFinal"`
	Discount     decimal.Decimal `json:"desconto"`
	CouponCode   string          `json:"cupom,omitempty"`
	Pix          PixPreview      `json:"pix"`
	Card         CardPreview     `json:"cartao"`
}

// PixPreview previews a PIX charge.
type PixPreview struct {
	Value   decimal.Decimal `json:"valor"`
	Display string          `json:"valorFormatado"`
}

// CardPreview previews a card charge split into installments.
type CardPreview struct {
	Value            decimal.Decimal `json:"valor"`
	Display          string          `json:"valorFormatado"`
	Installments     int             `json:"parcelas"`
	InstallmentValue decimal.Decimal `json:"valorParcela"`
}
