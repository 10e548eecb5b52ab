package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-enrollment-api/internal/models"
	"github.com/noah-isme/course-enrollment-api/pkg/jobs"
	"github.com/noah-isme/course-enrollment-api/pkg/notify"
)

func TestNotificationFanOutSurvivesFailures(t *testing.T) {
	metrics := NewMetricsService()
	broken := &recordingPublisher{err: errors.New("unreachable")}
	healthy := &recordingPublisher{}
	svc := NewNotificationService(metrics, nil, broken, healthy)

	coupon := "DEZ"
	svc.EnrollmentCreated(context.Background(), &models.Enrollment{
		ID: "e1", FullName: "Maria", CourseTitle: "Curso", CouponCode: &coupon,
		BasePrice: dec("200"), FinalPrice: dec("180"), SubmittedAt: time.Now(),
	})

	require.Len(t, healthy.events, 1)
	event := healthy.events[0]
	assert.Equal(t, notify.EventEnrollmentCreated, event.Type)
	assert.Equal(t, "e1", event.Key)
	assert.Equal(t, "R$ 180,00", event.Data["precoFinal"])
	assert.Equal(t, "DEZ", event.Data["cupom"])
	assert.Len(t, broken.events, 1)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.notificationErrors))
}

func TestNotificationNilServiceIsNoop(t *testing.T) {
	var svc *NotificationService
	assert.NotPanics(t, func() {
		svc.ClubInterestRegistered(context.Background(), &models.ClubInterest{ID: "c1"})
	})
}

func TestMetricsCounters(t *testing.T) {
	metrics := NewMetricsService()
	metrics.RecordEnrollment("Intro", true)
	metrics.RecordRejection(RejectHoneypot)
	metrics.RecordPaymentLink("PIX", "created", time.Millisecond)
	metrics.ObserveHTTPRequest("POST", "/api/v1/inscricao", 201, time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.enrollments.WithLabelValues("Intro", "true")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.rejections.WithLabelValues(RejectHoneypot)))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.paymentLinks.WithLabelValues("PIX", "created")))

	var nilMetrics *MetricsService
	assert.NotPanics(t, func() { nilMetrics.RecordRejection(RejectDuplicate) })
}

func TestNotificationAsyncRetriesFailedChannel(t *testing.T) {
	metrics := NewMetricsService()
	flaky := &flakyPublisher{failures: 1}
	healthy := &recordingPublisher{}
	svc := NewNotificationService(metrics, nil, flaky, healthy)
	svc.StartAsync(context.Background(), jobs.QueueConfig{Workers: 1, MaxRetries: 2, RetryDelay: time.Millisecond})

	svc.ClubInterestRegistered(context.Background(), &models.ClubInterest{ID: "c1", Name: "Ana", CreatedAt: time.Now()})

	require.Eventually(t, func() bool { return flaky.delivered() == 1 }, 2*time.Second, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `background_queue_depth{queue="notifications"} 0`)
	svc.Stop()

	assert.Equal(t, 1, healthy.count())
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.notificationErrors))
}

type flakyPublisher struct {
	mu       sync.Mutex
	failures int
	events   []notify.Event
}

func (p *flakyPublisher) Publish(ctx context.Context, event notify.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failures > 0 {
		p.failures--
		return errors.New("broker unavailable")
	}
	p.events = append(p.events, event)
	return nil
}

func (p *flakyPublisher) delivered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func TestTrackQueueDepth(t *testing.T) {
	metrics := NewMetricsService()
	depth := 3
	metrics.TrackQueueDepth("exports", func() int { return depth })
	metrics.TrackQueueDepth("exports", func() int { return 99 })

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `background_queue_depth{queue="exports"} 3`)

	var nilMetrics *MetricsService
	assert.NotPanics(t, func() { nilMetrics.TrackQueueDepth("exports", func() int { return 1 }) })
}
