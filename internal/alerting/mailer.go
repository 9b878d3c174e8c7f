package alerting

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// MailerOptions hold SMTP connectivity and routing.
type MailerOptions struct {
	Server   string
	Port     int
	Email    string
	Password string
	To       string
}

// Mailer delivers alert notifications over SMTP with STARTTLS.
type Mailer struct {
	opts   MailerOptions
	logger zerolog.Logger
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewMailer constructs a mailer. Port 0 defaults to 587.
func NewMailer(opts MailerOptions, logger zerolog.Logger) *Mailer {
	if opts.Server == "" {
		opts.Server = "smtp.gmail.com"
	}
	if opts.Port <= 0 {
		opts.Port = 587
	}
	return &Mailer{
		opts:   opts,
		logger: logger.With().Str("component", "alert_mailer").Logger(),
		send:   smtp.SendMail,
	}
}

// SendAlert formats and delivers one alert email. Delivery failure is an
// error for the caller to log; it never aborts the render that fired it.
func (m *Mailer) SendAlert(metal string, price, changePct decimal.Decimal, trend, currencySign string) error {
	if m.opts.Email == "" || m.opts.Password == "" || m.opts.To == "" {
		return fmt.Errorf("smtp credentials not configured")
	}

	subject := fmt.Sprintf("%s Price Alert: %s%%", title(metal), signedPct(changePct))
	body := FormatAlertEmail(metal, price, changePct, trend, currencySign)

	var msg strings.Builder
	msg.WriteString("From: " + m.opts.Email + "\r\n")
	msg.WriteString("To: " + m.opts.To + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", m.opts.Server, m.opts.Port)
	auth := smtp.PlainAuth("", m.opts.Email, m.opts.Password, m.opts.Server)

	if err := m.send(addr, auth, m.opts.Email, []string{m.opts.To}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send alert email: %w", err)
	}

	m.logger.Info().Str("metal", metal).Str("to", m.opts.To).Msg("alert email sent")
	return nil
}

// FormatAlertEmail renders the HTML alert table.
func FormatAlertEmail(metal string, price, changePct decimal.Decimal, trend, currencySign string) string {
	changeColor := "red"
	if changePct.IsPositive() {
		changeColor = "green"
	}

	return fmt.Sprintf(`<html>
  <body style="font-family: Arial, sans-serif;">
    <h2 style="color: #FFD700;">%s Price Alert</h2>
    <p>A significant price change has been detected:</p>
    <table style="border-collapse: collapse; width: 100%%;">
      <tr>
        <td style="padding: 8px; border: 1px solid #ddd;"><strong>Metal:</strong></td>
        <td style="padding: 8px; border: 1px solid #ddd;">%s</td>
      </tr>
      <tr>
        <td style="padding: 8px; border: 1px solid #ddd;"><strong>Current Price:</strong></td>
        <td style="padding: 8px; border: 1px solid #ddd;">%s%s</td>
      </tr>
      <tr>
        <td style="padding: 8px; border: 1px solid #ddd;"><strong>Change:</strong></td>
        <td style="padding: 8px; border: 1px solid #ddd; color: %s;">%s%%</td>
      </tr>
      <tr>
        <td style="padding: 8px; border: 1px solid #ddd;"><strong>Trend:</strong></td>
        <td style="padding: 8px; border: 1px solid #ddd;">%s</td>
      </tr>
    </table>
    <p style="margin-top: 20px; color: #666;">
      This is an automated alert from your Gold &amp; Silver Price Monitoring System.
    </p>
  </body>
</html>`,
		title(metal), title(metal), currencySign, price.StringFixed(2), changeColor, signedPct(changePct), trend)
}

func signedPct(d decimal.Decimal) string {
	s := d.StringFixed(2)
	if !strings.HasPrefix(s, "-") {
		s = "+" + s
	}
	return s
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
