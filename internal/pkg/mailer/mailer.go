package mailer

import (
	"fmt"

	"penned/internal/pkg/config"
	"penned/pkg/logger"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer 事务性邮件发送
type Mailer interface {
	SendVerificationEmail(to, token string) error
	SendPasswordResetEmail(to, token string) error
	SendReceiptDecisionEmail(to string, approved bool) error
}

type gomailSender struct {
	dialer *gomail.Dialer
	from   string
	base   string
}

// NewMailer 创建 SMTP 邮件发送器
func NewMailer() Mailer {
	cfg := config.GlobalConfig.Mail
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &gomailSender{
		dialer: d,
		from:   from,
		base:   config.GlobalConfig.App.BaseURL,
	}
}

func (m *gomailSender) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", fmt.Sprintf("Penned <%s>", m.from))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		logger.Log.Error("Failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err))
		return err
	}
	return nil
}

func (m *gomailSender) SendVerificationEmail(to, token string) error {
	link := fmt.Sprintf("%s/auth/verify?token=%s", m.base, token)
	body := fmt.Sprintf(`
		<h2>Welcome to Penned</h2>
		<p>Click the link below to verify your email address. The link expires in 24 hours.</p>
		<p><a href="%s">Verify my email</a></p>`, link)
	return m.send(to, "Verify your Penned account", body)
}

func (m *gomailSender) SendPasswordResetEmail(to, token string) error {
	link := fmt.Sprintf("%s/auth/reset?token=%s", m.base, token)
	body := fmt.Sprintf(`
		<h2>Password reset</h2>
		<p>Click the link below to choose a new password. The link expires in 1 hour.</p>
		<p><a href="%s">Reset my password</a></p>
		<p>If you did not request this, you can ignore this email.</p>`, link)
	return m.send(to, "Reset your Penned password", body)
}

func (m *gomailSender) SendReceiptDecisionEmail(to string, approved bool) error {
	if approved {
		return m.send(to, "Your Penned subscription is active",
			`<p>Your payment receipt was approved. Your subscription is active for the next 30 days.</p>`)
	}
	return m.send(to, "Your Penned receipt was rejected",
		`<p>Your payment receipt could not be verified. Please upload a new receipt from your dashboard.</p>`)
}
