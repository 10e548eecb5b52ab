package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-enrollment-api/internal/models"
	"github.com/noah-isme/course-enrollment-api/internal/service"
	appErrors "github.com/noah-isme/course-enrollment-api/pkg/errors"
)

type adminServiceMock struct {
	lastFilter models.EnrollmentFilter
	items      []models.Enrollment
	deleted    []string
	deleteErr  error
}

func (m *adminServiceMock) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, *models.Pagination, error) {
	m.lastFilter = filter
	return m.items, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: len(m.items)}, nil
}

func (m *adminServiceMock) Get(ctx context.Context, id string) (*models.Enrollment, error) {
	for _, e := range m.items {
		if e.ID == id {
			item := e
			return &item, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
}

func (m *adminServiceMock) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

type exporterMock struct {
	format string
}

func (m *exporterMock) Export(ctx context.Context, format string, filter models.EnrollmentFilter) (*service.ExportResult, error) {
	m.format = format
	return &service.ExportResult{Filename: "inscricoes.csv", ContentType: "text/csv; charset=utf-8", Body: []byte("ID\n")}, nil
}

func TestAdminHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &adminServiceMock{items: []models.Enrollment{{ID: "e1"}}}
	h := NewAdminHandler(mockSvc, &exporterMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/admin/inscricoes?curso=Intro&page=2&limit=10", nil)

	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Intro", mockSvc.lastFilter.CourseTitle)
	assert.Equal(t, 2, mockSvc.lastFilter.Page)
	assert.Equal(t, 10, mockSvc.lastFilter.PageSize)
	assert.Contains(t, w.Body.String(), `"items":[{"id":"e1"`)
}

func TestAdminHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &adminServiceMock{}
	h := NewAdminHandler(mockSvc, &exporterMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/admin/inscricoes/e1", nil)
	c.Params = gin.Params{{Key: "id", Value: "e1"}}

	h.Delete(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"e1","deleted":true}`, w.Body.String())
	assert.Equal(t, []string{"e1"}, mockSvc.deleted)
}

func TestAdminHandlerDeleteMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAdminHandler(&adminServiceMock{deleteErr: appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")}, &exporterMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/admin/inscricoes/x", nil)
	c.Params = gin.Params{{Key: "id", Value: "x"}}

	h.Delete(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminHandlerExport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	exporter := &exporterMock{}
	h := NewAdminHandler(&adminServiceMock{}, exporter)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/admin/inscricoes/export?format=csv", nil)

	h.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", exporter.format)
	assert.Equal(t, `attachment; filename="inscricoes.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "ID\n", w.Body.String())
}
