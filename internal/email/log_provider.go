package email

import (
	"time"

	"github.com/KelvenPer/Aura/internal/logger"
)

// LogProvider ничего не отправляет, только пишет в лог.
// Используется, когда SMTP выключен. Код попадает в лог только при exposeCodes.
type LogProvider struct {
	exposeCodes bool
}

func NewLogProvider(exposeCodes bool) *LogProvider {
	return &LogProvider{exposeCodes: exposeCodes}
}

func (p *LogProvider) Send(email *Email) error {
	logger.Info("email delivery skipped (smtp disabled)", "to", email.To, "subject", email.Subject)
	return nil
}

func (p *LogProvider) SendPasswordReset(to, name, code string, expiresAt time.Time) error {
	fields := []any{"to", to, "expires_at", expiresAt}
	if p.exposeCodes {
		fields = append(fields, "code", code)
	}
	logger.Info("password reset code issued (smtp disabled)", fields...)
	return nil
}

func (p *LogProvider) Validate() error { return nil }
func (p *LogProvider) Close() error    { return nil }
