package dto

import (
	"time"

	"github.com/KelvenPer/Aura/internal/models"
)

// RegisterRequest - запрос регистрации
type RegisterRequest struct {
	Name      string  `json:"nome" validate:"required,max=255"`
	Email     string  `json:"email" validate:"required,email,max=255"`
	Password  string  `json:"password" validate:"required,min=6,bcrypt-max"`
	Phone     *string `json:"telefone,omitempty" validate:"omitempty,max=20"`
	LicenseID *string `json:"crm,omitempty" validate:"omitempty,max=20"`
	Role      string  `json:"role,omitempty" validate:"omitempty,max=50"`
}

// LoginRequest - запрос входа. Пароль проверяется только на наличие,
// чтобы ответ на неверный пароль не отличался от ответа на неизвестный email.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Token       string `json:"token" validate:"required,min=4,max=12,numeric-code"`
	NewPassword string `json:"new_password" validate:"required,min=6,bcrypt-max"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,bcrypt-max"`
}

// UserResponse - публичное представление пользователя (без хеша пароля)
type UserResponse struct {
	ID        uint       `json:"id"`
	Name      string     `json:"nome"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Phone     *string    `json:"telefone"`
	LicenseID *string    `json:"crm"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
}

// TokenResponse - ответ на успешный вход
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

// ForgotPasswordResponse - одинаковый для известного и неизвестного email.
// Token заполняется только вне production при включенном expose_reset_code.
type ForgotPasswordResponse struct {
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
	Token     *string   `json:"token,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Phone:     user.Phone,
		LicenseID: user.LicenseID,
		IsActive:  user.IsActive,
		LastLogin: user.LastLogin,
		CreatedAt: user.CreatedAt,
	}
}
