package notifications

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/arjunmehra/eventloft-backend/pkg/logger"
)

func TestNotifyContactForwardsEnquiry(t *testing.T) {
	sink := &capturingMailer{done: make(chan struct{}, 1)}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	d, err := NewDispatcher(sink, logg)
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}

	d.NotifyContact(context.Background(), "owner@eventloft.in", ContactMessage{
		Name:    "Ravi Kumar",
		Email:   "ravi@example.com",
		Phone:   "+919900112233",
		Message: "Do you host corporate events in January?",
	})

	select {
	case <-sink.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sink.sent))
	}
	msg := sink.sent[0]
	if msg.To != "owner@eventloft.in" {
		t.Errorf("to = %q", msg.To)
	}
	if !strings.Contains(msg.Subject, "Ravi Kumar") {
		t.Errorf("subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.Body, "ravi@example.com") || !strings.Contains(msg.Body, "+919900112233") {
		t.Errorf("body missing reply details: %q", msg.Body)
	}
	if !strings.Contains(msg.Body, "corporate events") {
		t.Errorf("body missing enquiry text: %q", msg.Body)
	}
}

func TestNotifyContactWithoutRecipientIsDropped(t *testing.T) {
	sink := &capturingMailer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	d, err := NewDispatcher(sink, logg)
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}

	d.NotifyContact(context.Background(), "  ", ContactMessage{
		Name:    "Ravi Kumar",
		Email:   "ravi@example.com",
		Message: "hello",
	})

	time.Sleep(50 * time.Millisecond)
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.sent) != 0 {
		t.Fatalf("sent %d messages, want 0", len(sink.sent))
	}
}
