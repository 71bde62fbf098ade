package notification

import (
	"fmt"
	"html"
	"time"
)

// OperatorEmails builds the operator-facing notification messages. The
// dispatch itself rides the job queue; this type only renders.
type OperatorEmails struct {
	From string
	To   string
}

// ContactNotification renders the "new contact submission" email.
func (o OperatorEmails) ContactNotification(name, email, message string, submittedAt time.Time) *Email {
	return &Email{
		From:    o.From,
		To:      o.To,
		Subject: fmt.Sprintf("New Contact Form Submission from %s", name),
		HTML: fmt.Sprintf(`<div style="font-family: sans-serif; line-height: 1.6; color: #333; max-width: 600px;">
  <h2 style="color: #040A1E;">New Contact Form Submission</h2>
  <p><strong>Name:</strong> %s</p>
  <p><strong>Email:</strong> <a href="mailto:%s">%s</a></p>
  <p><strong>Submitted:</strong> %s</p>
  <div style="background: #f7f9ff; padding: 15px; border-radius: 6px; white-space: pre-wrap;">%s</div>
</div>`,
			html.EscapeString(name),
			html.EscapeString(email), html.EscapeString(email),
			submittedAt.UTC().Format(time.RFC1123),
			html.EscapeString(message),
		),
		Text: fmt.Sprintf("New contact form submission\n\nName: %s\nEmail: %s\nSubmitted: %s\n\n%s\n",
			name, email, submittedAt.UTC().Format(time.RFC1123), message),
	}
}

// PortfolioNotification renders the "new portfolio request" email.
func (o OperatorEmails) PortfolioNotification(requesterEmail, source string, requestedAt time.Time) *Email {
	return &Email{
		From:    o.From,
		To:      o.To,
		Subject: fmt.Sprintf("New Portfolio Request from %s", requesterEmail),
		HTML: fmt.Sprintf(`<div style="font-family: sans-serif; line-height: 1.6; color: #333; max-width: 600px;">
  <h2 style="color: #040A1E;">New Portfolio Request</h2>
  <p><strong>Email:</strong> <a href="mailto:%s">%s</a></p>
  <p><strong>Source:</strong> %s</p>
  <p><strong>Requested:</strong> %s</p>
  <p>The portfolio PDF has already been sent to them.</p>
</div>`,
			html.EscapeString(requesterEmail), html.EscapeString(requesterEmail),
			html.EscapeString(source),
			requestedAt.UTC().Format(time.RFC1123),
		),
		Text: fmt.Sprintf("New portfolio request\n\nEmail: %s\nSource: %s\nRequested: %s\n\nThe portfolio PDF has already been sent to them.\n",
			requesterEmail, source, requestedAt.UTC().Format(time.RFC1123)),
	}
}
