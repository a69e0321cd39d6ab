package apperrors

import (
	"net/http"
)

// =========================================================================
// Фабрики (для оборачивания ошибок репозитория)
// =========================================================================

// ErrNotFound - "не найдено" (404)
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - невалидная операция (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// =========================================================================
// Auth
// =========================================================================

// ErrInvalidCredentials - один и тот же ответ для неизвестного email и неверного пароля
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrMissingToken - нет заголовка Authorization или схема не Bearer
var ErrMissingToken = New(
	CodeUnauthorized,
	"auth",
	"Not authenticated",
	http.StatusUnauthorized,
)

// ErrInvalidToken - битый, подделанный или истекший токен, либо удаленный пользователь
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// ErrUserInactive - учетная запись отключена (это не секрет, поэтому 403)
var ErrUserInactive = New(
	CodeInactiveAccount,
	"auth",
	"User account is inactive",
	http.StatusForbidden,
)

// ErrInvalidResetCode - любой провал при погашении кода сброса
var ErrInvalidResetCode = New(
	CodeInvalidResetCode,
	"auth",
	"Invalid or expired reset code",
	http.StatusBadRequest,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already registered",
	http.StatusBadRequest,
)

var ErrLicenseAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"License ID already registered",
	http.StatusBadRequest,
)

var ErrCurrentPasswordIncorrect = New(
	CodeValidationFailed,
	"auth",
	"Current password is incorrect",
	http.StatusBadRequest,
)

// =========================================================================
// Клиника
// =========================================================================

var ErrPatientNotFound = New(
	CodeNotFound,
	"patient",
	"Patient not found",
	http.StatusNotFound,
)

var ErrPatientAccessDenied = New(
	CodeForbidden,
	"patient",
	"Access to this patient is not allowed",
	http.StatusForbidden,
)

var ErrCPFAlreadyExists = New(
	CodeAlreadyExists,
	"patient",
	"CPF already registered",
	http.StatusBadRequest,
)

var ErrInvalidAppointmentWindow = New(
	CodeValidationFailed,
	"appointment",
	"End time must be after start time",
	http.StatusBadRequest,
)
