package services

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/KelvenPer/Aura/internal/auth"
	"github.com/KelvenPer/Aura/internal/clock"
	"github.com/KelvenPer/Aura/internal/email"
	"github.com/KelvenPer/Aura/internal/logger"
	"github.com/KelvenPer/Aura/internal/metrics"
	"github.com/KelvenPer/Aura/internal/models"
	"github.com/KelvenPer/Aura/internal/repositories"
	"github.com/KelvenPer/Aura/internal/services/dto"
	"github.com/KelvenPer/Aura/pkg/apperrors"

	"gorm.io/gorm"
)

// ForgotPasswordMessage - одинаковый ответ для любого email
const ForgotPasswordMessage = "If the email is registered, a reset code has been issued"

// ResetSettings - параметры кодов восстановления, фиксируются при старте
type ResetSettings struct {
	TTL        time.Duration
	CodeLength int
	// Supersede гасит старые коды пользователя при выпуске нового
	Supersede bool
	// ExposeCode возвращает код в ответе forgot-password (только не в production)
	ExposeCode bool
}

type PasswordResetService interface {
	// RequestReset выпускает код и отправляет его письмом.
	// Для неизвестного email ответ такой же, но код не создается.
	RequestReset(ctx context.Context, db *gorm.DB, req *dto.ForgotPasswordRequest) (*dto.ForgotPasswordResponse, error)
	// ResetPassword погашает код и меняет пароль. Любой провал - ErrInvalidResetCode.
	ResetPassword(ctx context.Context, db *gorm.DB, req *dto.ResetPasswordRequest) error

	Issue(ctx context.Context, db *gorm.DB, user *models.User) (string, *models.PasswordResetToken, error)
	Redeem(ctx context.Context, db *gorm.DB, user *models.User, code, newPassword string) error
	InvalidateAll(ctx context.Context, db *gorm.DB, userID uint) (int64, error)
}

type PasswordResetServiceImpl struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.PasswordResetRepository
	hasher    auth.PasswordHasher
	mailer    email.Provider
	clock     clock.Clock
	random    io.Reader
	settings  ResetSettings
}

func NewPasswordResetService(
	userRepo repositories.UserRepository,
	tokenRepo repositories.PasswordResetRepository,
	hasher auth.PasswordHasher,
	mailer email.Provider,
	clk clock.Clock,
	random io.Reader,
	settings ResetSettings,
) PasswordResetService {
	if clk == nil {
		clk = clock.Real()
	}
	if settings.TTL <= 0 {
		settings.TTL = 30 * time.Minute
	}
	if settings.CodeLength == 0 {
		settings.CodeLength = auth.DefaultResetCodeLength
	}
	return &PasswordResetServiceImpl{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		hasher:    hasher,
		mailer:    mailer,
		clock:     clk,
		random:    random,
		settings:  settings,
	}
}

func (s *PasswordResetServiceImpl) RequestReset(ctx context.Context, db *gorm.DB, req *dto.ForgotPasswordRequest) (*dto.ForgotPasswordResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			logger.CtxInfo(ctx, "Password reset requested for unknown email")
			metrics.RecordPasswordReset("issue", metrics.ResultRejected)
			return &dto.ForgotPasswordResponse{
				Message:   ForgotPasswordMessage,
				ExpiresAt: s.clock.Now().Add(s.settings.TTL),
			}, nil
		}
		return nil, apperrors.DatabaseError(err)
	}

	code, record, err := s.Issue(ctx, db, user)
	if err != nil {
		return nil, err
	}

	if s.mailer != nil {
		if err := s.mailer.SendPasswordReset(user.Email, user.Name, code, record.ExpiresAt); err != nil {
			// письмо не доставлено, но ответ клиенту от этого не меняется
			logger.CtxWithError(ctx, "Failed to deliver password reset code", err, "user_id", user.ID)
		}
	}

	resp := &dto.ForgotPasswordResponse{
		Message:   ForgotPasswordMessage,
		ExpiresAt: record.ExpiresAt,
	}
	if s.settings.ExposeCode {
		resp.Token = &code
	}
	return resp, nil
}

func (s *PasswordResetServiceImpl) ResetPassword(ctx context.Context, db *gorm.DB, req *dto.ResetPasswordRequest) error {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			metrics.RecordPasswordReset("redeem", metrics.ResultRejected)
			return apperrors.ErrInvalidResetCode
		}
		return apperrors.DatabaseError(err)
	}
	return s.Redeem(ctx, db, user, req.Token, req.NewPassword)
}

// Issue создает новый код. Открытый код возвращается один раз,
// в базе остается только его хеш.
func (s *PasswordResetServiceImpl) Issue(ctx context.Context, db *gorm.DB, user *models.User) (string, *models.PasswordResetToken, error) {
	code, err := auth.GenerateNumericCode(s.random, s.settings.CodeLength)
	if err != nil {
		metrics.RecordPasswordReset("issue", metrics.ResultError)
		return "", nil, apperrors.InternalError(err)
	}
	digest, err := s.hasher.Hash(code)
	if err != nil {
		metrics.RecordPasswordReset("issue", metrics.ResultError)
		return "", nil, apperrors.InternalError(err)
	}

	now := s.clock.Now()
	record := &models.PasswordResetToken{
		BaseModel: models.BaseModel{CreatedAt: now},
		UserID:    user.ID,
		TokenHash: digest,
		ExpiresAt: now.Add(s.settings.TTL),
	}

	var superseded int64
	err = db.Transaction(func(tx *gorm.DB) error {
		if s.settings.Supersede {
			n, err := s.tokenRepo.InvalidateForUser(tx, user.ID)
			if err != nil {
				return err
			}
			superseded = n
		}
		return s.tokenRepo.Create(tx, record)
	})
	if err != nil {
		metrics.RecordPasswordReset("issue", metrics.ResultError)
		return "", nil, apperrors.DatabaseError(err)
	}

	metrics.RecordPasswordReset("issue", metrics.ResultSuccess)
	logger.CtxInfo(ctx, "Password reset code issued",
		"user_id", user.ID,
		"token_id", record.ID,
		"superseded", superseded,
		"expires_at", record.ExpiresAt,
	)
	return code, record, nil
}

// Redeem проверяет код по непогашенным записям, новые первыми.
// Причина отказа наружу не раскрывается.
func (s *PasswordResetServiceImpl) Redeem(ctx context.Context, db *gorm.DB, user *models.User, code, newPassword string) error {
	tokens, err := s.tokenRepo.ListUnusedForUser(db, user.ID)
	if err != nil {
		metrics.RecordPasswordReset("redeem", metrics.ResultError)
		return apperrors.DatabaseError(err)
	}

	now := s.clock.Now()
	var matched *models.PasswordResetToken
	for i := range tokens {
		if !tokens[i].IsUsable(now) {
			continue
		}
		if s.hasher.Verify(code, tokens[i].TokenHash) {
			matched = &tokens[i]
			break
		}
	}
	if matched == nil {
		logger.CtxInfo(ctx, "Password reset code rejected", "user_id", user.ID, "candidates", len(tokens))
		metrics.RecordPasswordReset("redeem", metrics.ResultRejected)
		return apperrors.ErrInvalidResetCode
	}

	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		metrics.RecordPasswordReset("redeem", metrics.ResultError)
		return hashError("new_password", err)
	}

	errLostRace := errors.New("reset code consumed concurrently")
	err = db.Transaction(func(tx *gorm.DB) error {
		won, err := s.tokenRepo.MarkUsed(tx, matched.ID)
		if err != nil {
			return err
		}
		if !won {
			return errLostRace
		}
		if err := s.userRepo.UpdatePassword(tx, user.ID, digest); err != nil {
			return err
		}
		_, err = s.tokenRepo.InvalidateForUser(tx, user.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, errLostRace) {
			metrics.RecordPasswordReset("redeem", metrics.ResultRejected)
			return apperrors.ErrInvalidResetCode
		}
		metrics.RecordPasswordReset("redeem", metrics.ResultError)
		return apperrors.DatabaseError(err)
	}

	metrics.RecordPasswordReset("redeem", metrics.ResultSuccess)
	logger.CtxInfo(ctx, "Password reset completed", "user_id", user.ID, "token_id", matched.ID)
	return nil
}

// InvalidateAll гасит все живые коды пользователя (смена пароля через API)
func (s *PasswordResetServiceImpl) InvalidateAll(ctx context.Context, db *gorm.DB, userID uint) (int64, error) {
	n, err := s.tokenRepo.InvalidateForUser(db, userID)
	if err != nil {
		return 0, apperrors.DatabaseError(err)
	}
	if n > 0 {
		logger.CtxInfo(ctx, "Outstanding reset codes invalidated", "user_id", userID, "count", n)
	}
	return n, nil
}
