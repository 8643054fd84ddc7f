package notify

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexmurray/portfolio-backend/internal/enquiries"
	"github.com/alexmurray/portfolio-backend/pkg/logging"
)

type capturingSender struct {
	calls atomic.Int64
	last  atomic.Value // EmailMessage
	err   error
}

func (c *capturingSender) Send(ctx context.Context, msg EmailMessage) error {
	c.calls.Add(1)
	c.last.Store(msg)
	return c.err
}

func testEnquiry() *enquiries.Enquiry {
	return &enquiries.Enquiry{
		ID:          "enq-1",
		Name:        "Jane Doe",
		Email:       "jane@example.com",
		Requirement: "Need a site",
		SubmittedAt: time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC),
		Status:      enquiries.StatusNew,
	}
}

func TestEnquiryReceivedSendsEmail(t *testing.T) {
	sender := &capturingSender{}
	svc := NewService(sender, "owner@example.com", "Owner", time.Second, nil, logging.Default())

	svc.EnquiryReceived(testEnquiry())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if !svc.Wait(ctx) {
		t.Fatal("dispatch never completed")
	}

	if sender.calls.Load() != 1 {
		t.Fatalf("expected one send, got %d", sender.calls.Load())
	}

	msg := sender.last.Load().(EmailMessage)
	if msg.To != "owner@example.com" {
		t.Errorf("unexpected recipient %q", msg.To)
	}
	if !strings.Contains(msg.Subject, "Jane Doe") {
		t.Errorf("subject should name the sender, got %q", msg.Subject)
	}
	for _, want := range []string{"jane@example.com", "Need a site", "enq-1"} {
		if !strings.Contains(msg.Body, want) {
			t.Errorf("body missing %q:\n%s", want, msg.Body)
		}
	}
}

func TestEnquiryReceivedFailureIsSwallowed(t *testing.T) {
	sender := &capturingSender{err: errors.New("smtp down")}
	svc := NewService(sender, "owner@example.com", "", time.Second, nil, logging.Default())

	// Must not panic or block the caller.
	svc.EnquiryReceived(testEnquiry())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if !svc.Wait(ctx) {
		t.Fatal("dispatch never completed")
	}
	if sender.calls.Load() != 1 {
		t.Fatalf("expected send attempt, got %d", sender.calls.Load())
	}
}

func TestEnquiryReceivedSkipsWhenDisabled(t *testing.T) {
	svc := NewService(nil, "", "", time.Second, nil, logging.Default())
	svc.EnquiryReceived(testEnquiry()) // nil sender, must be a no-op

	svc = NewService(&capturingSender{}, "", "", time.Second, nil, logging.Default())
	svc.EnquiryReceived(testEnquiry()) // no recipient, must be a no-op
}
