package notification

import (
	"context"
	"fmt"
	"os"
	"sync"
)

const (
	portfolioSubject  = "Marais Roos - Web Designer & Developer Portfolio"
	portfolioFilename = "Marais-Roos-Portfolio.pdf"
)

// PortfolioMailer sends the portfolio PDF to a requester.
type PortfolioMailer struct {
	sender Sender
	from   string
	path   string

	once sync.Once
	pdf  []byte
	err  error
}

// NewPortfolioMailer creates a mailer that attaches the PDF at path. The
// file is read lazily on first send and cached for the process lifetime.
func NewPortfolioMailer(sender Sender, from, path string) *PortfolioMailer {
	return &PortfolioMailer{sender: sender, from: from, path: path}
}

// SendPortfolio emails the portfolio PDF to recipientEmail.
func (m *PortfolioMailer) SendPortfolio(ctx context.Context, recipientEmail string) error {
	m.once.Do(func() {
		m.pdf, m.err = os.ReadFile(m.path)
	})
	if m.err != nil {
		return fmt.Errorf("read portfolio pdf: %w", m.err)
	}

	email := &Email{
		From:    m.from,
		To:      recipientEmail,
		Subject: portfolioSubject,
		HTML:    portfolioHTML(),
		Text:    portfolioText(),
		Attachments: []Attachment{
			{Filename: portfolioFilename, Content: m.pdf},
		},
	}
	if err := m.sender.Send(ctx, email); err != nil {
		return fmt.Errorf("send portfolio to %s: %w", recipientEmail, err)
	}
	return nil
}

func portfolioHTML() string {
	return `<div style="font-family: sans-serif; line-height: 1.6; color: #333; max-width: 600px;">
  <p>Hey there,</p>
  <p>Thanks for your interest in my work! My portfolio is attached as a PDF:
  a selection of recent web design and development projects, with notes on the
  goals and the build behind each one.</p>
  <p>If anything catches your eye, or you would like to talk about an
  opportunity, just reply to this email or reach me at
  <a href="mailto:hello@maraisroos.co.za">hello@maraisroos.co.za</a>.</p>
  <p>Marais Roos<br>Web Designer &amp; Developer<br>
  <a href="https://maraisroos.co.za">maraisroos.co.za</a></p>
</div>`
}

func portfolioText() string {
	return `Hey there,

Thanks for your interest in my work! My portfolio is attached as a PDF: a
selection of recent web design and development projects, with notes on the
goals and the build behind each one.

If anything catches your eye, or you would like to talk about an opportunity,
just reply to this email or reach me at hello@maraisroos.co.za.

Marais Roos
Web Designer & Developer
https://maraisroos.co.za`
}
