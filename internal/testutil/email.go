package testutil

import (
	"sync"
	"time"

	"github.com/KelvenPer/Aura/internal/email"
)

// SentReset - одно отправленное письмо с кодом
type SentReset struct {
	To        string
	Name      string
	Code      string
	ExpiresAt time.Time
}

// RecordingMailer запоминает отправленные письма вместо SMTP
type RecordingMailer struct {
	mu     sync.Mutex
	Sent   []*email.Email
	Resets []SentReset

	Err error
}

var _ email.Provider = (*RecordingMailer)(nil)

func (m *RecordingMailer) Send(e *email.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, e)
	return nil
}

func (m *RecordingMailer) SendPasswordReset(to, name, code string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Resets = append(m.Resets, SentReset{To: to, Name: name, Code: code, ExpiresAt: expiresAt})
	return nil
}

// LastCode - код из последнего письма, "" если писем не было
func (m *RecordingMailer) LastCode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Resets) == 0 {
		return ""
	}
	return m.Resets[len(m.Resets)-1].Code
}

func (m *RecordingMailer) Validate() error { return nil }
func (m *RecordingMailer) Close() error    { return nil }
