package database

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	apperrors "github.com/edutec/alunos-api/pkg/errors"
	"github.com/lib/pq"
)

func TestMapUniqueViolation_KnownConstraints(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		wantMsg    string
	}{
		{"usuario email", "usuarios_email_key", "Email já cadastrado"},
		{"usuario username", "usuarios_username_key", "Username já cadastrado"},
		{"aluno email", "alunos_email_key", "Email já cadastrado"},
		{"aluno matricula", "alunos_matricula_key", "Matrícula já cadastrado"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapUniqueViolation(&pq.Error{Code: "23505", Constraint: tt.constraint}, "failed to create")

			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("MapUniqueViolation() = %v, want *AppError", err)
			}
			if appErr.Code != apperrors.ErrCodeDuplicateField {
				t.Errorf("Code = %q, want %q", appErr.Code, apperrors.ErrCodeDuplicateField)
			}
			if appErr.Status != 400 {
				t.Errorf("Status = %d, want 400", appErr.Status)
			}
			if appErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", appErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestMapUniqueViolation_UnknownConstraint(t *testing.T) {
	err := MapUniqueViolation(&pq.Error{Code: "23505", Constraint: "alunos_pkey"}, "failed to create")

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("MapUniqueViolation() = %v, want *AppError", err)
	}
	if appErr.Message != "Registro já cadastrado" {
		t.Errorf("Message = %q, want %q", appErr.Message, "Registro já cadastrado")
	}
}

func TestMapUniqueViolation_OtherErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"plain error", fmt.Errorf("connection refused")},
		{"pq error other code", &pq.Error{Code: "23503", Constraint: "usuarios_aluno_id_fkey"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapUniqueViolation(tt.err, "failed to create usuario")

			var appErr *apperrors.AppError
			if errors.As(err, &appErr) {
				t.Fatalf("MapUniqueViolation() = %v, want a wrapped error, not *AppError", err)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("MapUniqueViolation() = %v, want it to wrap %v", err, tt.err)
			}
			if !strings.Contains(err.Error(), "failed to create usuario") {
				t.Errorf("error %q does not carry the context message", err.Error())
			}
		})
	}
}
