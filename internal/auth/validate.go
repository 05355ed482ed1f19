package auth

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/wimpyapp/ordering/internal/apperr"
)

const (
	MsgInvalidPhone       = "Por favor ingresa un número de teléfono válido"
	MsgInvalidPin         = "Por favor ingresa un PIN válido de 6 dígitos"
	MsgPasswordMismatch   = "Las contraseñas no coinciden"
	MsgPasswordFormat     = "La contraseña debe ser 4 dígitos numéricos"
	MsgInvalidPassword    = "Por favor ingresa una contraseña válida"
	MsgAdminPasswordEmpty = "Por favor ingresa la contraseña"

	minPhoneDigits = 7
	pinLength      = 6
	passwordLength = 4
)

var (
	nonDigit      = regexp.MustCompile(`\D`)
	numericPasswd = regexp.MustCompile(`^\d{4}$`)
)

// ValidatePhone accepts any input with at least 7 digits once everything
// else is stripped. The caller keeps sending the phone as entered.
func ValidatePhone(phone string) error {
	if len(nonDigit.ReplaceAllString(phone, "")) < minPhoneDigits {
		return apperr.Validation(MsgInvalidPhone)
	}
	return nil
}

func ValidatePin(pin string) error {
	if utf8.RuneCountInString(pin) != pinLength {
		return apperr.Validation(MsgInvalidPin)
	}
	return nil
}

// ValidateNewPassword checks the confirmation first, then the 4-digit format.
func ValidateNewPassword(password, confirm string) error {
	if password != confirm {
		return apperr.Validation(MsgPasswordMismatch)
	}
	if !numericPasswd.MatchString(password) {
		return apperr.Validation(MsgPasswordFormat)
	}
	return nil
}

func ValidateLoginPassword(password string) error {
	if utf8.RuneCountInString(password) != passwordLength {
		return apperr.Validation(MsgInvalidPassword)
	}
	return nil
}

func ValidateAdminPassword(password string) error {
	if password == "" {
		return apperr.Validation(MsgAdminPasswordEmpty)
	}
	return nil
}

func normalizePhone(phone string) string {
	return strings.TrimSpace(phone)
}
