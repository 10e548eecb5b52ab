package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/course-enrollment-api/internal/models"
	"github.com/noah-isme/course-enrollment-api/pkg/jobs"
	"github.com/noah-isme/course-enrollment-api/pkg/money"
	"github.com/noah-isme/course-enrollment-api/pkg/notify"
)

// NotificationService fans events out to every configured channel. Delivery is
// best-effort: failures are logged and never reach the caller.
type NotificationService struct {
	publishers []notify.Publisher
	metrics    *MetricsService
	logger     *zap.Logger
	timeout    time.Duration
	queue      *jobs.Queue
}

type delivery struct {
	publisher notify.Publisher
	event     notify.Event
}

// NewNotificationService constructs the fan-out. With no publishers it only logs.
func NewNotificationService(metrics *MetricsService, logger *zap.Logger, publishers ...notify.Publisher) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{publishers: publishers, metrics: metrics, logger: logger, timeout: 5 * time.Second}
}

// EnrollmentCreated announces a new enrollment.
func (s *NotificationService) EnrollmentCreated(ctx context.Context, e *models.Enrollment) {
	data := map[string]string{
		"id":         e.ID,
		"nome":       e.FullName,
		"email":      e.Email,
		"whatsapp":   e.Phone,
		"curso":      e.CourseTitle,
		"precoBase":  money.FormatBRL(e.BasePrice),
		"precoFinal": money.FormatBRL(e.FinalPrice),
	}
	if e.HasCoupon() {
		data["cupom"] = *e.CouponCode
	}
	s.publish(ctx, notify.Event{Type: notify.EventEnrollmentCreated, Key: e.ID, OccurredAt: e.SubmittedAt, Data: data})
}

// ClubInterestRegistered announces a new interest-list signup.
func (s *NotificationService) ClubInterestRegistered(ctx context.Context, interest *models.ClubInterest) {
	s.publish(ctx, notify.Event{
		Type:       notify.EventClubInterest,
		Key:        interest.ID,
		OccurredAt: interest.CreatedAt,
		Data: map[string]string{
			"id":    interest.ID,
			"nome":  interest.Name,
			"email": interest.Email,
		},
	})
}

// StartAsync moves delivery onto a background worker pool that retries each
// channel independently. Call it before serving traffic.
func (s *NotificationService) StartAsync(ctx context.Context, cfg jobs.QueueConfig) {
	if s == nil || len(s.publishers) == 0 {
		return
	}
	if cfg.Logger == nil {
		cfg.Logger = s.logger
	}
	s.queue = jobs.NewQueue("notifications", s.deliver, cfg)
	s.metrics.TrackQueueDepth("notifications", s.queue.Len)
	s.queue.Start(ctx)
}

// Stop drains the background queue, if any.
func (s *NotificationService) Stop() {
	if s == nil || s.queue == nil {
		return
	}
	s.queue.Stop()
}

func (s *NotificationService) deliver(ctx context.Context, job jobs.Job) error {
	d, ok := job.Payload.(delivery)
	if !ok {
		return nil
	}
	pubCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := d.publisher.Publish(pubCtx, d.event); err != nil {
		s.metrics.RecordNotificationFailure()
		return err
	}
	return nil
}

func (s *NotificationService) publish(ctx context.Context, event notify.Event) {
	if s == nil {
		return
	}
	s.logger.Info("notification", zap.String("type", event.Type), zap.String("key", event.Key))
	if len(s.publishers) == 0 {
		return
	}

	if s.queue != nil {
		for _, p := range s.publishers {
			job := jobs.Job{ID: event.Key, Kind: event.Type, Payload: delivery{publisher: p, event: event}}
			if err := s.queue.Enqueue(job); err != nil {
				s.metrics.RecordNotificationFailure()
				s.logger.Warn("notification dropped", zap.String("type", event.Type), zap.String("key", event.Key), zap.Error(err))
			}
		}
		return
	}

	// Detached from the request so a client disconnect does not cancel delivery.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()
	for _, p := range s.publishers {
		if err := p.Publish(pubCtx, event); err != nil {
			s.metrics.RecordNotificationFailure()
			s.logger.Warn("notification publish failed", zap.String("type", event.Type), zap.String("key", event.Key), zap.Error(err))
		}
	}
}
