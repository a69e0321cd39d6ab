package validator

import (
	"log"
	"strings"
	"unicode"

	"github.com/KelvenPer/Aura/internal/auth"
	"github.com/KelvenPer/Aura/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// без правила приложение запускать нельзя
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-appointment-status", validateAppointmentStatus)
	mustRegister("is-transaction-kind", validateTransactionKind)
	mustRegister("cpf", validateCPF)
	mustRegister("numeric-code", validateNumericCode)
	mustRegister("bcrypt-max", validateBcryptMax)
}

// --- Функции валидации ---
// Пустые значения пропускаем, для этого есть 'required'

func validateAppointmentStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.AppointmentStatus(value).IsValid()
}

func validateTransactionKind(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.TransactionKind(value).IsValid()
}

// validateCPF принимает "12345678901" и "123.456.789-01"
func validateCPF(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return len(NormalizeCPF(value)) == 11 && len(value) <= 14
}

func validateNumericCode(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, r := range value {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// NormalizeCPF оставляет только цифры
func NormalizeCPF(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// validateBcryptMax - длина в байтах, а не в символах: max считает руны
func validateBcryptMax(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= auth.MaxPasswordBytes
}
