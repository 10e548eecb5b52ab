package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-enrollment-api/internal/models"
	"github.com/noah-isme/course-enrollment-api/internal/service"
	"github.com/noah-isme/course-enrollment-api/pkg/response"
)

type catalogService interface {
	ListCourses(ctx context.Context) ([]models.CourseView, error)
	GetCourse(ctx context.Context, id string) (*models.CourseView, error)
	CheckCoupon(ctx context.Context, req service.CouponCheckRequest) (*service.CouponCheck, error)
}

// CatalogHandler exposes courses and coupon checks.
type CatalogHandler struct {
	catalog catalogService
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(catalog catalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Courses godoc
// @Summary List courses or fetch one by id
// @Tags Catalog
// @Produce json
// @Param id query string false "Course ID"
// @Success 200 {array} models.CourseView
// @Failure 404 {object} response.ErrorBody
// @Router /cursos [get]
func (h *CatalogHandler) Courses(c *gin.Context) {
	if id := strings.TrimSpace(c.Query("id")); id != "" {
		course, err := h.catalog.GetCourse(c.Request.Context(), id)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, course)
		return
	}

	courses, err := h.catalog.ListCourses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, courses)
}

// CheckCoupon godoc
// @Summary Check a coupon against a course
// @Tags Catalog
// @Produce json
// @Param cupom query string true "Coupon code"
// @Param curso query string true "Course title"
// @Success 200 {object} service.CouponCheck
// @Failure 400 {object} response.ErrorBody
// @Router /checa-cupom [get]
func (h *CatalogHandler) CheckCoupon(c *gin.Context) {
	req := service.CouponCheckRequest{Code: c.Query("cupom"), CourseTitle: c.Query("curso")}
	check, err := h.catalog.CheckCoupon(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, check)
}
