package database

import (
	"errors"
	"fmt"

	apperrors "github.com/edutec/alunos-api/pkg/errors"
	"github.com/lib/pq"
)

// duplicateFields maps Postgres unique constraint names to the field named
// in the duplicate error.
var duplicateFields = map[string]string{
	"usuarios_email_key":    "Email",
	"usuarios_username_key": "Username",
	"alunos_email_key":      "Email",
	"alunos_matricula_key":  "Matrícula",
}

// MapUniqueViolation turns a Postgres unique-violation into the
// field-specific duplicate AppError, so a race that slips past a pre-check
// surfaces exactly like the pre-check would have. Any other error is
// wrapped with msg.
func MapUniqueViolation(err error, msg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		if field, ok := duplicateFields[pqErr.Constraint]; ok {
			return apperrors.Duplicate(field)
		}
		return apperrors.Duplicate("Registro")
	}
	return fmt.Errorf("%s: %w", msg, err)
}
