package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LocalZone is the fixed UTC-3 civil time used for submission timestamps.
var LocalZone = time.FixedZone("BRT", -3*60*60)

// NowLocal returns the current time in LocalZone.
func NowLocal() time.Time {
	return time.Now().In(LocalZone)
}

// Enrollment is one student's registration record for one course.
type Enrollment struct {
	ID                    string          `db:"id" json:"id"`
	FullName              string          `db:"full_name" json:"nomeCompleto"`
	NationalID            string          `db:"national_id" json:"cpf"`
	Email                 string          `db:"email" json:"email"`
	Phone                 string          `db:"phone" json:"whatsapp"`
	Gender                string          `db:"gender" json:"sexo,omitempty"`
	BirthDate             string          `db:"birth_date" json:"dataNascimento,omitempty"`
	ITBackground          string          `db:"it_background" json:"formacaoTI,omitempty"`
	School                string          `db:"school" json:"ondeEstuda,omitempty"`
	Referral              string          `db:"referral" json:"comoSoube,omitempty"`
	ReferralFriend        string          `db:"referral_friend" json:"nomeAmigo,omitempty"`
	CourseTitle           string          `db:"course_title" json:"curso"`
	SubmittedAt           time.Time       `db:"submitted_at" json:"dataInscricao"`
	ClientIP              string          `db:"client_ip" json:"ip,omitempty"`
	UserAgent             string          `db:"user_agent" json:"userAgent,omitempty"`
	AcceptedTerms         bool            `db:"accepted_terms" json:"aceitouTermos"`
	BasePrice             decimal.Decimal `db:"base_price" json:"precoBase"`
	FinalPrice            decimal.Decimal `db:"final_price" json:"precoFinal"`
	CouponCode            *string         `db:"coupon_code" json:"cupom,omitempty"`
	PaymentMethod         *string         `db:"payment_method" json:"metodoPagamento,omitempty"`
	PaymentReference      *string         `db:"payment_reference" json:"pagamentoId,omitempty"`
	PaymentURL            *string         `db:"payment_url" json:"pagamentoUrl,omitempty"`
	SubscriptionRequested bool            `db:"subscription_requested" json:"assinatura"`
	SubscriptionUpdatedAt *time.Time      `db:"subscription_updated_at" json:"assinaturaAtualizadaEm,omitempty"`
}

// HasCoupon reports whether a coupon was applied at intake.
func (e *Enrollment) HasCoupon() bool {
	return e.CouponCode != nil && *e.CouponCode != ""
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	CourseTitle string
	Page        int
	PageSize    int
}

// Pagination describes list pagination metadata.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
}
