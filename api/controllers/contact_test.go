package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arjunmehra/eventloft-backend/internal/notifications"
)

type capturingContactSink struct {
	recipient string
	msg       notifications.ContactMessage
	calls     int
}

func (c *capturingContactSink) NotifyContact(ctx context.Context, recipient string, msg notifications.ContactMessage) {
	c.recipient = recipient
	c.msg = msg
	c.calls++
}

func contactRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestSubmitContactForwardsEnquiry(t *testing.T) {
	sink := &capturingContactSink{}
	handler := SubmitContact(sink, "owner@eventloft.in", testLogger())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, contactRequest(
		`{"name":"Ravi Kumar","email":"ravi@example.com","message":"Do you host corporate events?"}`))

	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202 got %d", resp.Code)
	}
	if sink.calls != 1 {
		t.Fatalf("sink called %d times, want 1", sink.calls)
	}
	if sink.recipient != "owner@eventloft.in" {
		t.Errorf("recipient = %q", sink.recipient)
	}
	if sink.msg.Email != "ravi@example.com" {
		t.Errorf("message = %+v", sink.msg)
	}
}

func TestSubmitContactValidatesBody(t *testing.T) {
	sink := &capturingContactSink{}
	handler := SubmitContact(sink, "owner@eventloft.in", testLogger())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, contactRequest(`{"name":"Ravi","email":"not-an-email","message":"hi"}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if sink.calls != 0 {
		t.Fatal("sink should not be called for invalid body")
	}
}

func TestSubmitContactWithoutMailboxAnswers500(t *testing.T) {
	handler := SubmitContact(nil, "", testLogger())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, contactRequest(`{"name":"Ravi","email":"ravi@example.com","message":"hi"}`))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
