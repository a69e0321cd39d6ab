package email

import (
	"errors"
	"testing"
	"time"

	"github.com/KelvenPer/Aura/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type recordingDialer struct {
	messages []*gomail.Message
	err      error
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	if d.err != nil {
		return d.err
	}
	d.messages = append(d.messages, m...)
	return nil
}

func testSMTPConfig() *SMTPConfig {
	return NewSMTPConfig(config.EmailConfig{
		SMTPHost:  "smtp.test",
		FromEmail: "no-reply@aura.test",
		FromName:  "AURA",
	})
}

func TestNewSMTPConfig_DefaultPort(t *testing.T) {
	assert.Equal(t, 587, testSMTPConfig().Port)
}

func TestSMTPProvider_SendPasswordReset(t *testing.T) {
	dialer := &recordingDialer{}
	provider := NewSMTPProvider(testSMTPConfig(), nil).WithDialer(dialer)

	expires := time.Date(2025, 2, 1, 10, 30, 0, 0, time.UTC)
	require.NoError(t, provider.SendPasswordReset("a@x.com", "Ana", "042917", expires))

	require.Len(t, dialer.messages, 1)
	msg := dialer.messages[0]
	assert.Equal(t, []string{"a@x.com"}, msg.GetHeader("To"))
	assert.Contains(t, msg.GetHeader("From")[0], "no-reply@aura.test")
	assert.NotEmpty(t, msg.GetHeader("Subject"))
}

func TestSMTPProvider_SendErrors(t *testing.T) {
	provider := NewSMTPProvider(testSMTPConfig(), nil).WithDialer(&recordingDialer{err: errors.New("conn refused")})
	err := provider.Send(&Email{To: []string{"a@x.com"}, Subject: "s", Body: "b"})
	assert.ErrorContains(t, err, "conn refused")

	err = provider.Send(&Email{Subject: "no recipients"})
	assert.Error(t, err)

	broken := NewSMTPProvider(&SMTPConfig{Port: 25}, nil)
	assert.ErrorContains(t, broken.Validate(), "host")
}

func TestTemplateManager(t *testing.T) {
	tm := NewTemplateManager()

	html, err := tm.Render(TemplatePasswordReset, TemplateData{
		"Name":      "Ana <script>",
		"Code":      "004211",
		"ExpiresAt": "01/02/2025 10:30 UTC",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "004211")
	assert.NotContains(t, html, "<script>", "html/template must escape user data")

	_, err = tm.Render("missing", nil)
	assert.Error(t, err)

	assert.Error(t, tm.AddTemplate("broken", "{{.Name"))
}

func TestLogProvider(t *testing.T) {
	p := NewLogProvider(false)
	assert.NoError(t, p.Validate())
	assert.NoError(t, p.SendPasswordReset("a@x.com", "Ana", "123456", time.Now()))
	assert.NoError(t, p.Send(&Email{To: []string{"a@x.com"}}))
	assert.NoError(t, p.Close())
}
