package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/KelvenPer/Aura/internal/clock"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var issuedAt = time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)

func newIssuer(t *testing.T, clk clock.Clock, ttl time.Duration) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer("test-secret", "HS256", ttl, clk)
	require.NoError(t, err)
	return issuer
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	clk := clock.NewFake(issuedAt)
	issuer := newIssuer(t, clk, time.Hour)

	token, expiresAt, err := issuer.Issue(42)
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(time.Hour), expiresAt)

	userID, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestTokenIssuer_ExpiryBoundary(t *testing.T) {
	clk := clock.NewFake(issuedAt)
	issuer := newIssuer(t, clk, time.Hour)

	token, _, err := issuer.Issue(7)
	require.NoError(t, err)

	clk.Set(issuedAt.Add(time.Hour - time.Second))
	_, err = issuer.Verify(token)
	assert.NoError(t, err)

	clk.Set(issuedAt.Add(time.Hour))
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	clk.Set(issuedAt.Add(2 * time.Hour))
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_DefaultTTL(t *testing.T) {
	issuer := newIssuer(t, clock.NewFake(issuedAt), 0)
	assert.Equal(t, 12*time.Hour, issuer.TTL())

	_, expiresAt, err := issuer.Issue(1)
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(12*time.Hour), expiresAt)
}

func TestTokenIssuer_RejectsBadTokens(t *testing.T) {
	clk := clock.NewFake(issuedAt)
	issuer := newIssuer(t, clk, time.Hour)
	valid, _, err := issuer.Issue(5)
	require.NoError(t, err)

	other, err := NewTokenIssuer("another-secret", "HS256", time.Hour, clk)
	require.NoError(t, err)
	foreign, _, err := other.Issue(5)
	require.NoError(t, err)

	hs512, err := NewTokenIssuer("test-secret", "HS512", time.Hour, clk)
	require.NoError(t, err)
	wrongAlg, _, err := hs512.Issue(5)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "5",
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "5",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "abc",
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"tampered payload", tampered},
		{"foreign secret", foreign},
		{"different algorithm", wrongAlg},
		{"alg none", noneToken},
		{"missing exp", noExp},
		{"non numeric subject", badSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewTokenIssuer_Validation(t *testing.T) {
	_, err := NewTokenIssuer("", "HS256", time.Hour, nil)
	assert.Error(t, err)

	_, err = NewTokenIssuer("secret", "RS256", time.Hour, nil)
	assert.Error(t, err)

	_, err = NewTokenIssuer("secret", "HS384", time.Hour, nil)
	assert.NoError(t, err)
}
