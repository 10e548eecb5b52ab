package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-enrollment-api/internal/models"
	"github.com/noah-isme/course-enrollment-api/internal/service"
	appErrors "github.com/noah-isme/course-enrollment-api/pkg/errors"
	"github.com/noah-isme/course-enrollment-api/pkg/money"
	"github.com/noah-isme/course-enrollment-api/pkg/response"
)

type enrollmentService interface {
	Create(ctx context.Context, req service.CreateEnrollmentRequest) (*models.Enrollment, error)
	IssuePaymentLink(ctx context.Context, req service.PaymentLinkRequest) (*models.PaymentLink, error)
	PricingInfo(ctx context.Context, id string) (*models.PricingSummary, error)
	SetSubscription(ctx context.Context, req service.SubscriptionRequest) (*models.Enrollment, error)
}

// EnrollmentCreatedResponse is returned after a successful intake.
type EnrollmentCreatedResponse struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	FinalPrice  string `json:"precoFinal"`
	DisplayText string `json:"precoFormatado"`
}

// SubscriptionResponse reports the stored subscription flag.
type SubscriptionResponse struct {
	ID        string     `json:"id"`
	Requested bool       `json:"assinatura"`
	UpdatedAt *time.Time `json:"assinaturaAtualizadaEm,omitempty"`
}

// EnrollmentHandler exposes the public enrollment endpoints.
type EnrollmentHandler struct {
	enrollments enrollmentService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments enrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// Create godoc
// @Summary Submit an enrollment
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body service.CreateEnrollmentRequest true "Enrollment form"
// @Success 201 {object} EnrollmentCreatedResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /inscricao [post]
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req service.CreateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.Request.UserAgent()

	enrollment, err := h.enrollments.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, EnrollmentCreatedResponse{
		ID:          enrollment.ID,
		Message:     "inscrição realizada com sucesso",
		FinalPrice:  money.String(enrollment.FinalPrice),
		DisplayText: money.FormatBRL(enrollment.FinalPrice),
	})
}

// PaymentLink godoc
// @Summary Issue a payment link for an enrollment
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body service.PaymentLinkRequest true "Enrollment id and method (PIX or CARD)"
// @Success 200 {object} models.PaymentLink
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /paymentlink [post]
func (h *EnrollmentHandler) PaymentLink(c *gin.Context) {
	var req service.PaymentLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	link, err := h.enrollments.IssuePaymentLink(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, link)
}

// PricingInfo godoc
// @Summary Payment options for an enrollment
// @Tags Payments
// @Produce json
// @Param inscricaoId query string true "Enrollment ID"
// @Success 200 {object} models.PricingSummary
// @Failure 400 {object} response.ErrorBody
// @Router /pagamento-info [get]
func (h *EnrollmentHandler) PricingInfo(c *gin.Context) {
	summary, err := h.enrollments.PricingInfo(c.Request.Context(), strings.TrimSpace(c.Query("inscricaoId")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, summary)
}

// Subscription godoc
// @Summary Toggle the subscription intent of an enrollment
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body service.SubscriptionRequest true "Enrollment id and flag"
// @Success 200 {object} SubscriptionResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /isAssinatura [post]
func (h *EnrollmentHandler) Subscription(c *gin.Context) {
	var req service.SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	enrollment, err := h.enrollments.SetSubscription(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, SubscriptionResponse{
		ID:        enrollment.ID,
		Requested: enrollment.SubscriptionRequested,
		UpdatedAt: enrollment.SubscriptionUpdatedAt,
	})
}
