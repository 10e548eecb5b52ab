package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-enrollment-api/internal/models"
	"github.com/noah-isme/course-enrollment-api/internal/service"
	"github.com/noah-isme/course-enrollment-api/pkg/response"
)

type enrollmentAdminService interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Enrollment, error)
	Delete(ctx context.Context, id string) error
}

type enrollmentExporter interface {
	Export(ctx context.Context, format string, filter models.EnrollmentFilter) (*service.ExportResult, error)
}

// DeletedResponse confirms an admin removal.
type DeletedResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// AdminHandler exposes the admin enrollment endpoints. Routes are mounted
// behind middleware.Admin.
type AdminHandler struct {
	enrollments enrollmentAdminService
	exporter    enrollmentExporter
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(enrollments enrollmentAdminService, exporter enrollmentExporter) *AdminHandler {
	return &AdminHandler{enrollments: enrollments, exporter: exporter}
}

// List godoc
// @Summary List enrollments
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param curso query string false "Filter by course title"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.List
// @Failure 401 {object} response.ErrorBody
// @Router /admin/inscricoes [get]
func (h *AdminHandler) List(c *gin.Context) {
	filter := parseEnrollmentFilter(c)
	items, pagination, err := h.enrollments.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, response.List{Items: items, Pagination: pagination})
}

// Get godoc
// @Summary Enrollment detail
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Enrollment ID"
// @Success 200 {object} models.Enrollment
// @Failure 401 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /admin/inscricoes/{id} [get]
func (h *AdminHandler) Get(c *gin.Context) {
	enrollment, err := h.enrollments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, enrollment)
}

// Delete godoc
// @Summary Remove an enrollment
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Enrollment ID"
// @Success 200 {object} DeletedResponse
// @Failure 401 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /admin/inscricoes/{id} [delete]
func (h *AdminHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.enrollments.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, DeletedResponse{ID: id, Deleted: true})
}

// Export godoc
// @Summary Export enrollments as CSV or PDF
// @Tags Admin
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv (default) or pdf"
// @Param curso query string false "Filter by course title"
// @Success 200 {file} file
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /admin/inscricoes/export [get]
func (h *AdminHandler) Export(c *gin.Context) {
	result, err := h.exporter.Export(c.Request.Context(), c.Query("format"), parseEnrollmentFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, result.ContentType, result.Body)
}

func parseEnrollmentFilter(c *gin.Context) models.EnrollmentFilter {
	filter := models.EnrollmentFilter{CourseTitle: strings.TrimSpace(c.Query("curso"))}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.Query("limit")); err == nil {
		filter.PageSize = size
	}
	return filter
}
