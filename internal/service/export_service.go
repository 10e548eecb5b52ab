package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/course-enrollment-api/internal/models"
	"github.com/noah-isme/course-enrollment-api/internal/repository"
	appErrors "github.com/noah-isme/course-enrollment-api/pkg/errors"
	"github.com/noah-isme/course-enrollment-api/pkg/export"
	"github.com/noah-isme/course-enrollment-api/pkg/money"
)

// Export formats accepted by the admin export.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type enrollmentLister interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, int, error)
}

type datasetRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
	ContentType() string
}

// ExportResult is a rendered export ready to stream.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
	Rows        int
}

var enrollmentExportHeaders = []string{
	"ID", "Data", "Nome", "CPF", "Email", "WhatsApp", "Curso", "Preço Base", "Preço Final", "Cupom", "Pagamento", "Assinatura",
}

// ExportService renders enrollment listings as CSV or PDF.
type ExportService struct {
	repo      enrollmentLister
	renderers map[string]datasetRenderer
	logger    *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(repo enrollmentLister, csv, pdf datasetRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		repo:      repo,
		renderers: map[string]datasetRenderer{ExportFormatCSV: csv, ExportFormatPDF: pdf},
		logger:    logger,
	}
}

// Export renders every enrollment matching filter in the requested format.
func (s *ExportService) Export(ctx context.Context, format string, filter models.EnrollmentFilter) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	renderer, ok := s.renderers[format]
	if !ok || renderer == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	dataset, err := s.collect(ctx, filter)
	if err != nil {
		return nil, err
	}
	body, err := renderer.Render(dataset, "Inscrições")
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render export")
	}

	s.logger.Info("enrollments exported", zap.String("format", format), zap.Int("rows", len(dataset.Rows)))
	return &ExportResult{
		Filename:    fmt.Sprintf("inscricoes-%s.%s", models.NowLocal().Format("20060102-150405"), format),
		ContentType: renderer.ContentType(),
		Body:        body,
		Rows:        len(dataset.Rows),
	}, nil
}

func (s *ExportService) collect(ctx context.Context, filter models.EnrollmentFilter) (export.Dataset, error) {
	dataset := export.Dataset{Headers: enrollmentExportHeaders}
	filter.PageSize = repository.MaxPageSize
	for page := 1; ; page++ {
		filter.Page = page
		items, total, err := s.repo.List(ctx, filter)
		if err != nil {
			return dataset, appErrors.Internal(err, "failed to list enrollments")
		}
		for _, e := range items {
			dataset.Rows = append(dataset.Rows, enrollmentRow(e))
		}
		if len(items) == 0 || len(dataset.Rows) >= total {
			return dataset, nil
		}
	}
}

func enrollmentRow(e models.Enrollment) map[string]string {
	row := map[string]string{
		"ID":          e.ID,
		"Data":        e.SubmittedAt.In(models.LocalZone).Format("02/01/2006 15:04"),
		"Nome":        e.FullName,
		"CPF":         e.NationalID,
		"Email":       e.Email,
		"WhatsApp":    e.Phone,
		"Curso":       e.CourseTitle,
		"Preço Base":  money.FormatBRL(e.BasePrice),
		"Preço Final": money.FormatBRL(e.FinalPrice),
		"Assinatura":  "não",
	}
	if e.HasCoupon() {
		row["Cupom"] = *e.CouponCode
	}
	if e.PaymentMethod != nil {
		row["Pagamento"] = *e.PaymentMethod
	}
	if e.SubscriptionRequested {
		row["Assinatura"] = "sim"
	}
	return row
}
