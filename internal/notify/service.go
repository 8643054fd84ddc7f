package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexmurray/portfolio-backend/internal/enquiries"
	"github.com/alexmurray/portfolio-backend/internal/observability/metrics"
	"github.com/alexmurray/portfolio-backend/pkg/logging"
)

// Service sends the owner a notification email for each new enquiry.
// Dispatch is best-effort: the enquiry is already durable when the
// notification fires, so a failed send is logged and counted, never
// surfaced to the submitter.
type Service struct {
	email   EmailSender
	to      string
	toName  string
	timeout time.Duration
	metrics *metrics.APIMetrics
	logger  *logging.Logger

	// done is signalled after each dispatch attempt; tests use it to
	// wait for the detached goroutine.
	done chan struct{}
}

// NewService creates a notification service. A nil sender or empty
// recipient disables dispatch.
func NewService(email EmailSender, recipient, recipientName string, timeout time.Duration, m *metrics.APIMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{
		email:   email,
		to:      recipient,
		toName:  recipientName,
		timeout: timeout,
		metrics: m,
		logger:  logger,
		done:    make(chan struct{}, 16),
	}
}

// EnquiryReceived dispatches the notification in a detached goroutine
// and returns immediately.
func (s *Service) EnquiryReceived(e *enquiries.Enquiry) {
	if s == nil || s.email == nil || s.to == "" {
		s.observe("skipped")
		return
	}

	msg := s.buildMessage(e)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("notification dispatch panicked", "panic", rec, "enquiry_id", e.ID)
				s.observe("failed")
			}
			select {
			case s.done <- struct{}{}:
			default:
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.email.Send(ctx, msg); err != nil {
			s.logger.Error("enquiry notification failed", "error", err, "enquiry_id", e.ID)
			s.observe("failed")
			return
		}
		s.observe("sent")
	}()
}

// Wait blocks until one dispatch attempt finishes or the context ends.
// Only used by tests and graceful shutdown.
func (s *Service) Wait(ctx context.Context) bool {
	select {
	case <-s.done:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *Service) observe(outcome string) {
	if s != nil {
		s.metrics.ObserveNotification(outcome)
	}
}

func (s *Service) buildMessage(e *enquiries.Enquiry) EmailMessage {
	var b strings.Builder
	fmt.Fprintf(&b, "New enquiry from %s\n\n", e.Name)
	if e.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", e.Email)
	}
	if e.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", e.Phone)
	}
	if e.Requirement != "" {
		fmt.Fprintf(&b, "\nRequirement:\n%s\n", e.Requirement)
	}
	fmt.Fprintf(&b, "\nSubmitted: %s\n", e.SubmittedAt.Format("January 2, 2006 at 3:04 PM MST"))
	fmt.Fprintf(&b, "Enquiry ID: %s\n", e.ID)

	return EmailMessage{
		To:      s.to,
		ToName:  s.toName,
		Subject: fmt.Sprintf("New enquiry: %s", e.Name),
		Body:    b.String(),
	}
}
