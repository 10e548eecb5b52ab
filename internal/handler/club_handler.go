package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-enrollment-api/internal/models"
	"github.com/noah-isme/course-enrollment-api/internal/service"
	appErrors "github.com/noah-isme/course-enrollment-api/pkg/errors"
	"github.com/noah-isme/course-enrollment-api/pkg/response"
)

type clubService interface {
	Register(ctx context.Context, req service.ClubInterestRequest) (*models.ClubInterest, error)
	Exists(ctx context.Context, email string) (bool, error)
}

// ClubHandler exposes the interest-list endpoints.
type ClubHandler struct {
	club clubService
}

// NewClubHandler constructs ClubHandler.
func NewClubHandler(club clubService) *ClubHandler {
	return &ClubHandler{club: club}
}

// Register godoc
// @Summary Join the interest list
// @Tags Club
// @Accept json
// @Produce json
// @Param payload body service.ClubInterestRequest true "Signup"
// @Success 201 {object} map[string]string
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /clube/interesse [post]
func (h *ClubHandler) Register(c *gin.Context) {
	var req service.ClubInterestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	interest, err := h.club.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"id": interest.ID})
}

// Check godoc
// @Summary Check whether an email is on the interest list
// @Tags Club
// @Produce json
// @Param email query string true "Email"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} response.ErrorBody
// @Router /clube/interesse [get]
func (h *ClubHandler) Check(c *gin.Context) {
	exists, err := h.club.Exists(c.Request.Context(), c.Query("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"exists": exists})
}
