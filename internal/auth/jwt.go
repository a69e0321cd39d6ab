package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/KelvenPer/Aura/internal/clock"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL - время жизни access токена по умолчанию
const DefaultTokenTTL = 12 * time.Hour

// ErrInvalidToken - единая ошибка для битого, подделанного или истекшего токена.
// Причину наружу не отдаем.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenIssuer подписывает и проверяет bearer токены
type TokenIssuer struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
	clock  clock.Clock
}

// NewTokenIssuer создает issuer. Поддерживаются только HMAC алгоритмы (HS256/HS384/HS512).
func NewTokenIssuer(secret, algorithm string, ttl time.Duration, clk clock.Clock) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, errors.New("unsupported jwt algorithm: " + algorithm)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &TokenIssuer{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
		clock:  clk,
	}, nil
}

// TTL возвращает настроенное время жизни токена
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue выпускает токен для userID с TTL по умолчанию
func (i *TokenIssuer) Issue(userID uint) (string, time.Time, error) {
	return i.IssueWithTTL(userID, i.ttl)
}

// IssueWithTTL выпускает токен с явным временем жизни
func (i *TokenIssuer) IssueWithTTL(userID uint, ttl time.Duration) (string, time.Time, error) {
	now := i.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, claims.ExpiresAt.Time, nil
}

// Verify проверяет подпись и срок и возвращает ID пользователя.
// Токен действителен, пока now < exp.
func (i *TokenIssuer) Verify(tokenString string) (uint, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithTimeFunc(i.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	if !i.clock.Now().Before(claims.ExpiresAt.Time) {
		return 0, ErrInvalidToken
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 0)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}
