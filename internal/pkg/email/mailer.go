// internal/pkg/email/mailer.go
package email

import (
	"bytes"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jaipurgadget/ecommerce-backend/internal/config"
)

// Mailer sends transactional mail over SMTP. When no SMTP host is
// configured every send is a logged no-op.
type Mailer struct {
	config *config.Config
	logger *logrus.Logger
}

// NewMailer creates a new mailer
func NewMailer(cfg *config.Config, logger *logrus.Logger) *Mailer {
	return &Mailer{
		config: cfg,
		logger: logger,
	}
}

// IsConfigured reports whether SMTP credentials are present
func (m *Mailer) IsConfigured() bool {
	return m.config.Email.SMTPHost != "" && m.config.Email.FromEmail != ""
}

// OrderConfirmationLine is one item row in an order confirmation
type OrderConfirmationLine struct {
	Name     string
	Quantity int
	Total    int64
}

// SendOrderConfirmation mails a plain order summary to the customer
func (m *Mailer) SendOrderConfirmation(to, userName, orderNumber string, total int64, currency string, lines []OrderConfirmationLine) {
	var body bytes.Buffer
	fmt.Fprintf(&body, "Hi %s,\r\n\r\n", userName)
	fmt.Fprintf(&body, "Thanks for your order %s.\r\n\r\n", orderNumber)
	for _, line := range lines {
		fmt.Fprintf(&body, "  %dx %s - %s\r\n", line.Quantity, line.Name, formatAmount(line.Total, currency))
	}
	fmt.Fprintf(&body, "\r\nTotal: %s\r\n\r\n", formatAmount(total, currency))
	body.WriteString("We will let you know when your order ships.\r\n")

	m.send(to, fmt.Sprintf("Order %s confirmed", orderNumber), body.String())
}

// SendEnquiryReceived mails an acknowledgement for an enquiry
func (m *Mailer) SendEnquiryReceived(to, userName, enquiryNumber string) {
	var body bytes.Buffer
	fmt.Fprintf(&body, "Hi %s,\r\n\r\n", userName)
	fmt.Fprintf(&body, "We received your enquiry %s. Our team will reach out with availability and delivery options.\r\n", enquiryNumber)

	m.send(to, fmt.Sprintf("Enquiry %s received", enquiryNumber), body.String())
}

// send delivers a single message. Failures are logged, never returned:
// mail is best effort and must not fail the request that triggered it.
func (m *Mailer) send(to, subject, textBody string) {
	if !m.IsConfigured() {
		m.logger.WithField("subject", subject).Debug("SMTP not configured, skipping mail")
		return
	}

	from := m.config.Email.FromEmail
	if m.config.Email.FromName != "" {
		from = fmt.Sprintf("%s <%s>", m.config.Email.FromName, m.config.Email.FromEmail)
	}

	headers := []string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="utf-8"`,
	}

	var msg bytes.Buffer
	msg.WriteString(strings.Join(headers, "\r\n"))
	msg.WriteString("\r\n\r\n")
	msg.WriteString(textBody)

	var auth smtp.Auth
	if m.config.Email.SMTPUsername != "" {
		auth = smtp.PlainAuth("",
			m.config.Email.SMTPUsername,
			m.config.Email.SMTPPassword,
			m.config.Email.SMTPHost)
	}

	addr := fmt.Sprintf("%s:%d", m.config.Email.SMTPHost, m.config.Email.SMTPPort)
	if err := smtp.SendMail(addr, auth, m.config.Email.FromEmail, []string{to}, msg.Bytes()); err != nil {
		m.logger.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
			"error":   err.Error(),
		}).Warn("Failed to send mail")
	}
}

func formatAmount(paise int64, currency string) string {
	return fmt.Sprintf("%s %d.%02d", currency, paise/100, paise%100)
}
