package auth

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// Email validation regex (RFC 5322 simplified)
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	minPasswordLength = 4
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateRegisterRequest validates a registration request
func ValidateRegisterRequest(req *RegisterRequest) error {
	errors := make([]ValidationError, 0)

	if strings.TrimSpace(req.Nome) == "" {
		errors = append(errors, ValidationError{
			Field:   "nome",
			Message: "Nome é obrigatório",
		})
	}

	if req.Email == "" {
		errors = append(errors, ValidationError{
			Field:   "email",
			Message: "Email é obrigatório",
		})
	} else if !IsValidEmail(req.Email) {
		errors = append(errors, ValidationError{
			Field:   "email",
			Message: "Email inválido",
		})
	}

	if err := validateSenha(req.Senha); err != nil {
		errors = append(errors, *err)
	}

	if len(errors) > 0 {
		return &validationErrors{Errors: errors}
	}

	return nil
}

// ValidateNovaSenha validates the new password of a reset redemption.
func ValidateNovaSenha(senha string) error {
	if err := validateSenha(senha); err != nil {
		return err
	}
	return nil
}

func validateSenha(senha string) *ValidationError {
	if senha == "" {
		return &ValidationError{
			Field:   "senha",
			Message: "Senha é obrigatória",
		}
	}
	if len(senha) < minPasswordLength {
		return &ValidationError{
			Field:   "senha",
			Message: fmt.Sprintf("Senha deve ter pelo menos %d caracteres", minPasswordLength),
		}
	}
	return nil
}

type validationErrors struct {
	Errors []ValidationError
}

func (e *validationErrors) Error() string {
	messages := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "; ")
}

// IsValidEmail checks if an email address is valid
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if len(email) > 254 {
		return false
	}
	return emailRegex.MatchString(email)
}

// SanitizeEmail normalizes an email address
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SanitizeUsername normalizes a username with the same folding applied to
// the login value, so a username registered in mixed case still matches at
// login time.
func SanitizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
