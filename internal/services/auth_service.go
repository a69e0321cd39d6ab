package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/KelvenPer/Aura/internal/auth"
	"github.com/KelvenPer/Aura/internal/clock"
	"github.com/KelvenPer/Aura/internal/logger"
	"github.com/KelvenPer/Aura/internal/metrics"
	"github.com/KelvenPer/Aura/internal/models"
	"github.com/KelvenPer/Aura/internal/repositories"
	"github.com/KelvenPer/Aura/internal/services/dto"
	"github.com/KelvenPer/Aura/pkg/apperrors"

	"gorm.io/gorm"
)

// AdminSettings - учетная запись для bootstrap (врач-владелец клиники)
type AdminSettings struct {
	Email    string
	Password string
	Name     string
}

type AuthService interface {
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.TokenResponse, error)
	// ResolveBearer разбирает заголовок Authorization и возвращает пользователя
	ResolveBearer(ctx context.Context, db *gorm.DB, header string) (*models.User, error)
	ChangePassword(ctx context.Context, db *gorm.DB, user *models.User, req *dto.ChangePasswordRequest) error
	// EnsureAdmin создает администратора, если его еще нет. created=false, если
	// запись уже была или bootstrap отключен.
	EnsureAdmin(ctx context.Context, db *gorm.DB, settings AdminSettings) (user *models.User, created bool, err error)
}

type AuthServiceImpl struct {
	userRepo repositories.UserRepository
	resets   PasswordResetService
	hasher   auth.PasswordHasher
	tokens   *auth.TokenIssuer
	clock    clock.Clock

	// хеш-заглушка для неизвестного email: вход тратит столько же времени
	dummyOnce   sync.Once
	dummyDigest string
}

func NewAuthService(
	userRepo repositories.UserRepository,
	resets PasswordResetService,
	hasher auth.PasswordHasher,
	tokens *auth.TokenIssuer,
	clk clock.Clock,
) AuthService {
	if clk == nil {
		clk = clock.Real()
	}
	return &AuthServiceImpl{
		userRepo: userRepo,
		resets:   resets,
		hasher:   hasher,
		tokens:   tokens,
		clock:    clk,
	}
}

// Register - регистрация нового пользователя
func (s *AuthServiceImpl) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	emailAddr := strings.TrimSpace(req.Email)

	if _, err := s.userRepo.FindByEmail(db, emailAddr); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.DatabaseError(err)
	}

	licenseID := normalizeOptional(req.LicenseID)
	if licenseID != nil {
		if _, err := s.userRepo.FindByLicenseID(db, *licenseID); err == nil {
			return nil, apperrors.ErrLicenseAlreadyExists
		} else if !errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.DatabaseError(err)
		}
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, hashError("password", err)
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = auth.DefaultRole
	}

	user := &models.User{
		BaseModel:    models.BaseModel{CreatedAt: s.clock.Now()},
		Name:         strings.TrimSpace(req.Name),
		Email:        emailAddr,
		PasswordHash: digest,
		Role:         role,
		Phone:        normalizeOptional(req.Phone),
		LicenseID:    licenseID,
		IsActive:     true,
	}

	// уникальный индекс ловит параллельную регистрацию, которая прошла проверку выше
	if err := s.userRepo.Create(db, user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrEmailTaken):
			return nil, apperrors.ErrEmailAlreadyExists
		case errors.Is(err, repositories.ErrLicenseTaken):
			return nil, apperrors.ErrLicenseAlreadyExists
		}
		return nil, apperrors.DatabaseError(err)
	}

	logger.CtxInfo(ctx, "User registered", "user_id", user.ID, "role", user.Role)
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// Login - аутентификация пользователя. Неизвестный email и неверный пароль
// дают одну и ту же ошибку.
func (s *AuthServiceImpl) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.FindByEmail(db, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.hasher.Verify(req.Password, s.dummyHash())
			metrics.RecordLogin(metrics.ResultRejected)
			return nil, apperrors.ErrInvalidCredentials
		}
		metrics.RecordLogin(metrics.ResultError)
		return nil, apperrors.DatabaseError(err)
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		metrics.RecordLogin(metrics.ResultRejected)
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		metrics.RecordLogin(metrics.ResultInactive)
		return nil, apperrors.ErrUserInactive
	}

	if s.hasher.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, db, user, req.Password)
	}

	now := s.clock.Now()
	if err := s.userRepo.UpdateLastLogin(db, user.ID, now); err != nil {
		metrics.RecordLogin(metrics.ResultError)
		return nil, apperrors.DatabaseError(err)
	}
	user.LastLogin = &now

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		metrics.RecordLogin(metrics.ResultError)
		return nil, apperrors.InternalError(err)
	}

	metrics.RecordLogin(metrics.ResultSuccess)
	logger.CtxInfo(ctx, "User logged in", "user_id", user.ID)

	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		User:        dto.NewUserResponse(user),
	}, nil
}

func (s *AuthServiceImpl) dummyHash() string {
	s.dummyOnce.Do(func() {
		digest, err := s.hasher.Hash("aura-login-placeholder")
		if err == nil {
			s.dummyDigest = digest
		}
	})
	return s.dummyDigest
}

// rehash переводит устаревший хеш на текущий алгоритм. Ошибка не мешает входу.
func (s *AuthServiceImpl) rehash(ctx context.Context, db *gorm.DB, user *models.User, password string) {
	digest, err := s.hasher.Hash(password)
	if err == nil {
		err = s.userRepo.UpdatePassword(db, user.ID, digest)
	}
	if err != nil {
		logger.CtxWithError(ctx, "Failed to upgrade password hash", err, "user_id", user.ID)
		return
	}
	user.PasswordHash = digest
	logger.CtxInfo(ctx, "Password hash upgraded", "user_id", user.ID)
}

func (s *AuthServiceImpl) ResolveBearer(ctx context.Context, db *gorm.DB, header string) (*models.User, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		metrics.RecordTokenVerification(metrics.ResultRejected)
		return nil, apperrors.ErrMissingToken
	}

	userID, err := s.tokens.Verify(token)
	if err != nil {
		logger.CtxDebug(ctx, "Bearer token rejected", "error", err.Error())
		metrics.RecordTokenVerification(metrics.ResultRejected)
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			// пользователь удален, а токен еще жив
			metrics.RecordTokenVerification(metrics.ResultRejected)
			return nil, apperrors.ErrInvalidToken
		}
		metrics.RecordTokenVerification(metrics.ResultError)
		return nil, apperrors.DatabaseError(err)
	}

	if !user.IsActive {
		metrics.RecordTokenVerification(metrics.ResultInactive)
		return nil, apperrors.ErrUserInactive
	}

	metrics.RecordTokenVerification(metrics.ResultSuccess)
	return user, nil
}

// ChangePassword меняет пароль и гасит все живые коды восстановления
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, db *gorm.DB, user *models.User, req *dto.ChangePasswordRequest) error {
	if !s.hasher.Verify(req.CurrentPassword, user.PasswordHash) {
		return apperrors.ErrCurrentPasswordIncorrect
	}

	digest, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return hashError("new_password", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.UpdatePassword(tx, user.ID, digest); err != nil {
			return err
		}
		_, err := s.resets.InvalidateAll(ctx, tx, user.ID)
		return err
	})
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok {
			return appErr
		}
		return apperrors.DatabaseError(err)
	}

	user.PasswordHash = digest
	logger.CtxInfo(ctx, "Password changed", "user_id", user.ID)
	return nil
}

func (s *AuthServiceImpl) EnsureAdmin(ctx context.Context, db *gorm.DB, settings AdminSettings) (*models.User, bool, error) {
	if settings.Email == "" || settings.Password == "" {
		logger.CtxInfo(ctx, "Admin bootstrap skipped: credentials not configured")
		return nil, false, nil
	}

	var (
		admin   *models.User
		created bool
	)
	err := db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.userRepo.FindByEmail(tx, settings.Email)
		if err == nil {
			admin = existing
			return nil
		}
		if !errors.Is(err, repositories.ErrUserNotFound) {
			return err
		}

		digest, err := s.hasher.Hash(settings.Password)
		if err != nil {
			return err
		}
		name := settings.Name
		if name == "" {
			name = "Admin"
		}
		admin = &models.User{
			BaseModel:    models.BaseModel{CreatedAt: s.clock.Now()},
			Name:         name,
			Email:        settings.Email,
			PasswordHash: digest,
			Role:         auth.DefaultRole,
			IsActive:     true,
		}
		if err := s.userRepo.Create(tx, admin); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, apperrors.InternalError(err)
	}

	if created {
		logger.CtxInfo(ctx, "Admin account created", "user_id", admin.ID, "email", admin.Email)
	} else {
		logger.CtxDebug(ctx, "Admin account already exists", "user_id", admin.ID)
	}
	return admin, created, nil
}

// hashError - слишком длинный пароль это ошибка клиента, остальное внутренняя
func hashError(field string, err error) *apperrors.AppError {
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return apperrors.ValidationError(map[string]string{field: "Must be at most 72 bytes"})
	}
	return apperrors.InternalError(err)
}

// UserIDString - id пользователя для логгера
func UserIDString(user *models.User) string {
	return strconv.FormatUint(uint64(user.ID), 10)
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
