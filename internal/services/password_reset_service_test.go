package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KelvenPer/Aura/internal/services/dto"
	"github.com/KelvenPer/Aura/internal/testutil"
	"github.com/KelvenPer/Aura/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordReset_IssueStoresOnlyHash(t *testing.T) {
	env := newAuthEnv(t, testutil.NewCodeReader(42), defaultResetSettings())
	user := env.users.Put(env.hasher, "a@x.com", "Secret1!")

	code, record, err := env.resets.Issue(context.Background(), env.db, user)
	require.NoError(t, err)
	assert.Equal(t, "000042", code)
	assert.Equal(t, testNow.Add(30*time.Minute), record.ExpiresAt)
	assert.False(t, record.Used)
	assert.NotEqual(t, code, record.TokenHash)
	assert.True(t, env.hasher.Verify(code, record.TokenHash))
}

// Сценарий: forgot-password выдает "123456", сброс, вход с новым паролем
func TestPasswordReset_EndToEnd(t *testing.T) {
	env := newAuthEnv(t, testutil.NewCodeReader(123456), defaultResetSettings())
	ctx := context.Background()
	_, err := env.auth.Register(ctx, env.db, &dto.RegisterRequest{Name: "Ana", Email: "a@x.com", Password: "Secret1!"})
	require.NoError(t, err)

	resp, err := env.resets.RequestReset(ctx, env.db, &dto.ForgotPasswordRequest{Email: "a@x.com"})
	require.NoError(t, err)
	require.NotNil(t, resp.Token)
	assert.Equal(t, "123456", *resp.Token)
	assert.Equal(t, testNow.Add(30*time.Minute), resp.ExpiresAt)
	assert.Equal(t, "123456", env.mailer.LastCode())

	err = env.resets.ResetPassword(ctx, env.db, &dto.ResetPasswordRequest{
		Email: "a@x.com", Token: "123456", NewPassword: "NewPass2!",
	})
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, env.db, &dto.LoginRequest{Email: "a@x.com", Password: "NewPass2!"})
	assert.NoError(t, err)
	_, err = env.auth.Login(ctx, env.db, &dto.LoginRequest{Email: "a@x.com", Password: "Secret1!"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// второе погашение того же кода - тот же общий ответ, не "уже использован"
	err = env.resets.ResetPassword(ctx, env.db, &dto.ResetPasswordRequest{
		Email: "a@x.com", Token: "123456", NewPassword: "Third3!!",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetCode)
}

func TestPasswordReset_NewestCodeWins(t *testing.T) {
	tests := []struct {
		name      string
		supersede bool
	}{
		{"older codes superseded on issue", true},
		{"older codes invalidated on redeem", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := defaultResetSettings()
			settings.Supersede = tt.supersede
			env := newAuthEnv(t, testutil.NewCodeReader(111111, 222222), settings)
			ctx := context.Background()
			user := env.users.Put(env.hasher, "a@x.com", "Secret1!")

			older, _, err := env.resets.Issue(ctx, env.db, user)
			require.NoError(t, err)
			env.clock.Advance(time.Minute)
			newer, _, err := env.resets.Issue(ctx, env.db, user)
			require.NoError(t, err)

			require.NoError(t, env.resets.Redeem(ctx, env.db, user, newer, "NewPass2!"))

			err = env.resets.Redeem(ctx, env.db, user, older, "Other3!!")
			assert.ErrorIs(t, err, apperrors.ErrInvalidResetCode)

			for _, token := range env.tokens.All() {
				assert.True(t, token.Used, "token %d must be used", token.ID)
			}
		})
	}
}

func TestPasswordReset_ExpiryBoundary(t *testing.T) {
	env := newAuthEnv(t, testutil.NewCodeReader(654321, 654321), defaultResetSettings())
	ctx := context.Background()
	user := env.users.Put(env.hasher, "a@x.com", "Secret1!")

	code, _, err := env.resets.Issue(ctx, env.db, user)
	require.NoError(t, err)

	// now == expires_at еще допустимо
	env.clock.Advance(30 * time.Minute)
	require.NoError(t, env.resets.Redeem(ctx, env.db, user, code, "NewPass2!"))

	code, _, err = env.resets.Issue(ctx, env.db, user)
	require.NoError(t, err)
	env.clock.Advance(30*time.Minute + time.Second)
	err = env.resets.Redeem(ctx, env.db, user, code, "NewPass3!")
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetCode)

	// истекший код остается в базе непогашенным
	all := env.tokens.All()
	assert.False(t, all[len(all)-1].Used)
}

func TestPasswordReset_GenericFailures(t *testing.T) {
	env := newAuthEnv(t, testutil.NewCodeReader(100000), defaultResetSettings())
	ctx := context.Background()
	user := env.users.Put(env.hasher, "a@x.com", "Secret1!")

	// ни одного кода
	noCodes := env.resets.Redeem(ctx, env.db, user, "100000", "NewPass2!")

	_, _, err := env.resets.Issue(ctx, env.db, user)
	require.NoError(t, err)
	wrongCode := env.resets.Redeem(ctx, env.db, user, "999999", "NewPass2!")
	unknownEmail := env.resets.ResetPassword(ctx, env.db, &dto.ResetPasswordRequest{
		Email: "nobody@x.com", Token: "100000", NewPassword: "NewPass2!",
	})

	assert.Equal(t, apperrors.ErrInvalidResetCode, noCodes)
	assert.Equal(t, noCodes, wrongCode)
	assert.Equal(t, noCodes, unknownEmail)

	stored, _ := env.users.FindByID(nil, user.ID)
	assert.True(t, env.hasher.Verify("Secret1!", stored.PasswordHash))
}

func TestPasswordReset_LostRaceIsGeneric(t *testing.T) {
	env := newAuthEnv(t, testutil.NewCodeReader(777777), defaultResetSettings())
	ctx := context.Background()
	user := env.users.Put(env.hasher, "a@x.com", "Secret1!")

	code, _, err := env.resets.Issue(ctx, env.db, user)
	require.NoError(t, err)

	// другой запрос успевает погасить код между проверкой и UPDATE
	env.tokens.BeforeMarkUsed = func(tokenID uint) {
		env.tokens.BeforeMarkUsed = nil
		_, _ = env.tokens.MarkUsed(nil, tokenID)
	}

	err = env.resets.Redeem(ctx, env.db, user, code, "NewPass2!")
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetCode)

	stored, _ := env.users.FindByID(nil, user.ID)
	assert.True(t, env.hasher.Verify("Secret1!", stored.PasswordHash))
}

func TestPasswordReset_RequestReset_UnknownEmailSameShape(t *testing.T) {
	env := newAuthEnv(t, testutil.NewCodeReader(1), defaultResetSettings())

	resp, err := env.resets.RequestReset(context.Background(), env.db, &dto.ForgotPasswordRequest{Email: "nobody@x.com"})
	require.NoError(t, err)
	assert.Equal(t, ForgotPasswordMessage, resp.Message)
	assert.Equal(t, testNow.Add(30*time.Minute), resp.ExpiresAt)
	assert.Nil(t, resp.Token)
	assert.Empty(t, env.tokens.All())
	assert.Empty(t, env.mailer.Resets)
}

func TestPasswordReset_RequestReset_HidesCodeWhenNotExposed(t *testing.T) {
	settings := defaultResetSettings()
	settings.ExposeCode = false
	env := newAuthEnv(t, testutil.NewCodeReader(5), settings)
	env.users.Put(env.hasher, "a@x.com", "Secret1!")

	resp, err := env.resets.RequestReset(context.Background(), env.db, &dto.ForgotPasswordRequest{Email: "a@x.com"})
	require.NoError(t, err)
	assert.Nil(t, resp.Token)
	assert.Equal(t, "000005", env.mailer.LastCode())
}

func TestPasswordReset_MailFailureDoesNotChangeResponse(t *testing.T) {
	env := newAuthEnv(t, testutil.NewCodeReader(5), defaultResetSettings())
	env.users.Put(env.hasher, "a@x.com", "Secret1!")
	env.mailer.Err = errors.New("smtp down")

	resp, err := env.resets.RequestReset(context.Background(), env.db, &dto.ForgotPasswordRequest{Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, ForgotPasswordMessage, resp.Message)
	assert.Len(t, env.tokens.All(), 1)
}

func TestPasswordReset_InvalidateAll(t *testing.T) {
	settings := defaultResetSettings()
	settings.Supersede = false
	env := newAuthEnv(t, testutil.NewCodeReader(1, 2, 3), settings)
	ctx := context.Background()
	user := env.users.Put(env.hasher, "a@x.com", "Secret1!")
	other := env.users.Put(env.hasher, "b@x.com", "Secret1!")

	for _, u := range []uint{user.ID, user.ID, other.ID} {
		target, _ := env.users.FindByID(nil, u)
		_, _, err := env.resets.Issue(ctx, env.db, target)
		require.NoError(t, err)
	}

	n, err := env.resets.InvalidateAll(ctx, env.db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	tokens, err := env.tokens.ListUnusedForUser(nil, other.ID)
	require.NoError(t, err)
	assert.Len(t, tokens, 1)
}
