package services

import (
	"io"
	"testing"
	"time"

	"github.com/KelvenPer/Aura/internal/auth"
	"github.com/KelvenPer/Aura/internal/clock"
	"github.com/KelvenPer/Aura/internal/testutil"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var testNow = time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)

type authEnv struct {
	db     *gorm.DB
	clock  *clock.FakeClock
	hasher *auth.BcryptHasher
	issuer *auth.TokenIssuer
	users  *testutil.UserStore
	tokens *testutil.ResetTokenStore
	mailer *testutil.RecordingMailer
	resets PasswordResetService
	auth   AuthService
}

func newAuthEnv(t *testing.T, random io.Reader, settings ResetSettings) *authEnv {
	t.Helper()

	env := &authEnv{
		db:     testutil.NewTxDB(t, 20),
		clock:  clock.NewFake(testNow),
		hasher: auth.NewBcryptHasher(bcrypt.MinCost),
		users:  testutil.NewUserStore(),
		tokens: testutil.NewResetTokenStore(),
		mailer: &testutil.RecordingMailer{},
	}

	issuer, err := auth.NewTokenIssuer("test-secret", "HS256", 12*time.Hour, env.clock)
	require.NoError(t, err)
	env.issuer = issuer

	env.resets = NewPasswordResetService(env.users, env.tokens, env.hasher, env.mailer, env.clock, random, settings)
	env.auth = NewAuthService(env.users, env.resets, env.hasher, env.issuer, env.clock)
	return env
}

func defaultResetSettings() ResetSettings {
	return ResetSettings{TTL: 30 * time.Minute, CodeLength: 6, Supersede: true, ExposeCode: true}
}
