package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPasswordResetToken_IsUsable(t *testing.T) {
	expires := time.Date(2025, 5, 1, 12, 30, 0, 0, time.UTC)
	token := PasswordResetToken{ExpiresAt: expires}

	assert.True(t, token.IsUsable(expires.Add(-time.Minute)))
	assert.True(t, token.IsUsable(expires), "expiry instant is still valid")
	assert.False(t, token.IsUsable(expires.Add(time.Nanosecond)))

	token.Used = true
	assert.False(t, token.IsUsable(expires.Add(-time.Minute)))
}

func TestStatuses(t *testing.T) {
	assert.True(t, AppointmentConfirmed.IsValid())
	assert.False(t, AppointmentStatus("remarcado").IsValid())
	assert.True(t, TransactionExpense.IsValid())
	assert.False(t, TransactionKind("transferencia").IsValid())
}
