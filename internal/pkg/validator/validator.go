package validator

import (
	"regexp"
	"unicode"
)

// emailPattern valida o formato de e-mail aceito pela API: parte local
// alfanumérica (com "." ou "_" opcional) seguida de domínio com pelo menos
// um rótulo após o "@". O match é ancorado: o e-mail inteiro deve casar.
var emailPattern = regexp.MustCompile(`^(\w+)(\.|_)?(\w*)@(\w+)(\.(\w+))+$`)

// IsValidEmail verifica se o e-mail tem o formato aceito.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsStrongPassword verifica a força mínima da senha: pelo menos 8 caracteres,
// uma maiúscula, uma minúscula e um dígito. Caracteres especiais não são exigidos.
func IsStrongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}

	var hasUpper, hasLower, hasDigit bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		}
	}

	return hasUpper && hasLower && hasDigit
}
