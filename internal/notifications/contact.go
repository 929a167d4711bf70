package notifications

import (
	"context"
	"fmt"
	"strings"

	"github.com/arjunmehra/eventloft-backend/pkg/mailer"
)

// ContactMessage is a public enquiry forwarded to the site mailbox.
type ContactMessage struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Message string `json:"message" validate:"required,max=2000"`
}

// NotifyContact forwards a contact form submission to the site mailbox. The
// visitor's address goes into the body so staff can reply directly.
func (d *Dispatcher) NotifyContact(ctx context.Context, recipient string, msg ContactMessage) {
	to := strings.TrimSpace(recipient)
	if to == "" {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "New enquiry from %s <%s>\n", strings.TrimSpace(msg.Name), strings.TrimSpace(msg.Email))
	if phone := strings.TrimSpace(msg.Phone); phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", phone)
	}
	b.WriteString("\n")
	b.WriteString(msg.Message)
	b.WriteString("\n")

	logCtx := d.logg.WithField(context.WithoutCancel(ctx), "contact_email", msg.Email)
	go d.deliver(logCtx, mailer.Message{
		To:      to,
		Subject: fmt.Sprintf("Website enquiry from %s", strings.TrimSpace(msg.Name)),
		Body:    b.String(),
	})
}
