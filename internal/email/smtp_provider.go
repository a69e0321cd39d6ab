package email

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

// Dialer - часть gomail.Dialer, которой пользуется провайдер
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPProvider реализует Provider через gomail
type SMTPProvider struct {
	config   *SMTPConfig
	dialer   Dialer
	renderer TemplateRenderer
}

// NewSMTPProvider создает SMTP провайдер. renderer == nil - встроенные шаблоны.
func NewSMTPProvider(config *SMTPConfig, renderer TemplateRenderer) *SMTPProvider {
	if renderer == nil {
		renderer = NewTemplateManager()
	}
	return &SMTPProvider{
		config:   config,
		dialer:   gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		renderer: renderer,
	}
}

// WithDialer подменяет транспорт (используется в тестах)
func (p *SMTPProvider) WithDialer(d Dialer) *SMTPProvider {
	p.dialer = d
	return p
}

// Send отправляет email сообщение
func (p *SMTPProvider) Send(email *Email) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if len(email.To) == 0 {
		return fmt.Errorf("email has no recipients")
	}

	m := gomail.NewMessage()
	from := email.From
	if from == "" {
		from = m.FormatAddress(p.config.FromEmail, p.config.FromName)
	}
	m.SetHeader("From", from)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)

	switch {
	case email.HTMLBody != "" && email.Body != "":
		m.SetBody("text/plain", email.Body)
		m.AddAlternative("text/html", email.HTMLBody)
	case email.HTMLBody != "":
		m.SetBody("text/html", email.HTMLBody)
	default:
		m.SetBody("text/plain", email.Body)
	}

	if err := p.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendPasswordReset рендерит шаблон password_reset и отправляет письмо
func (p *SMTPProvider) SendPasswordReset(to, name, code string, expiresAt time.Time) error {
	html, err := p.renderer.Render(TemplatePasswordReset, TemplateData{
		"Name":      name,
		"Code":      code,
		"ExpiresAt": expiresAt.Format("02/01/2006 15:04 MST"),
	})
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	return p.Send(&Email{
		To:       []string{to},
		Subject:  "AURA - codigo para redefinir sua senha",
		Body:     fmt.Sprintf("Seu codigo de verificacao: %s", code),
		HTMLBody: html,
	})
}

// Validate проверяет конфигурацию SMTP
func (p *SMTPProvider) Validate() error {
	if p.config.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if p.config.Port <= 0 || p.config.Port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", p.config.Port)
	}
	if p.config.FromEmail == "" {
		return fmt.Errorf("SMTP from address is required")
	}
	return nil
}

// Close - gomail открывает соединение на каждую отправку
func (p *SMTPProvider) Close() error {
	return nil
}
