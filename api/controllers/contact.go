package controllers

import (
	"context"
	"net/http"

	"github.com/arjunmehra/eventloft-backend/api/responses"
	"github.com/arjunmehra/eventloft-backend/api/validators"
	"github.com/arjunmehra/eventloft-backend/internal/notifications"
	pkgerrors "github.com/arjunmehra/eventloft-backend/pkg/errors"
	"github.com/arjunmehra/eventloft-backend/pkg/logger"
)

// ContactSink delivers a public enquiry to the site mailbox.
type ContactSink interface {
	NotifyContact(ctx context.Context, recipient string, msg notifications.ContactMessage)
}

// SubmitContact accepts the public contact form and forwards it by email.
// Delivery is fire and forget, so the form always answers quickly.
func SubmitContact(sink ContactSink, recipient string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sink == nil || recipient == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contact mailbox unavailable"))
			return
		}

		var body notifications.ContactMessage
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sink.NotifyContact(r.Context(), recipient, body)
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]string{
			"message": "thanks for reaching out, we will get back to you soon",
		})
	}
}
