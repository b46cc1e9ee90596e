package errors

import "fmt"

// AppError represents a custom application error
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Common error codes
const (
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeMissingToken       = "MISSING_TOKEN"
	ErrCodeInvalidToken       = "INVALID_TOKEN"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeDuplicateField     = "DUPLICATE_FIELD"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// NewAppError creates a new application error
func NewAppError(code, message string, status int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
	}
}

// Common errors. Authentication failures all surface with the same pair of
// generic messages so a caller cannot probe which check failed.
var (
	ErrInvalidCredentials = NewAppError(ErrCodeInvalidCredentials, "Email/usuário ou senha incorretos", 401)
	ErrMissingToken       = NewAppError(ErrCodeMissingToken, "Token não fornecido", 401)
	ErrInvalidToken       = NewAppError(ErrCodeInvalidToken, "Token inválido", 401)
	ErrForbidden          = NewAppError(ErrCodeForbidden, "Acesso negado", 403)
	ErrAlunoNotFound      = NewAppError(ErrCodeNotFound, "Aluno não encontrado", 404)
	ErrResetTokenInvalid  = NewAppError(ErrCodeInvalidToken, "Token inválido ou expirado", 400)
)

// Duplicate returns the field-specific error for a uniqueness conflict on
// email, username or matricula.
func Duplicate(field string) *AppError {
	return NewAppError(ErrCodeDuplicateField, fmt.Sprintf("%s já cadastrado", field), 400)
}

// Validation returns a 400 validation error with a field-specific message.
func Validation(message string) *AppError {
	return NewAppError(ErrCodeValidationFailed, message, 400)
}
