package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/edutec/alunos-api/internal/aluno"
	"github.com/edutec/alunos-api/internal/database"
	"github.com/jmoiron/sqlx"
)

// ErrResetTokenNotFound is returned when a reset token does not exist, has
// expired, or was already redeemed.
var ErrResetTokenNotFound = errors.New("reset token not found or expired")

// Repository handles credential data operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new credential repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const usuarioColumns = `id, email, username, senha_hash, role, aluno_id, created_at, updated_at`

// FindByEmailOrUsername finds a credential whose email or username matches
// the login value.
func (r *Repository) FindByEmailOrUsername(ctx context.Context, login string) (*Usuario, error) {
	var u Usuario
	query := fmt.Sprintf(`SELECT %s FROM usuarios WHERE email = $1 OR username = $1`, usuarioColumns)

	err := r.db.GetContext(ctx, &u, query, login)
	if err == sql.ErrNoRows {
		return nil, nil // Credential not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find usuario: %w", err)
	}

	return &u, nil
}

// FindByEmail finds a credential by email
func (r *Repository) FindByEmail(ctx context.Context, email string) (*Usuario, error) {
	var u Usuario
	query := fmt.Sprintf(`SELECT %s FROM usuarios WHERE email = $1`, usuarioColumns)

	err := r.db.GetContext(ctx, &u, query, email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find usuario by email: %w", err)
	}

	return &u, nil
}

// Create inserts a credential row.
func (r *Repository) Create(ctx context.Context, u *Usuario) error {
	query := `INSERT INTO usuarios (email, username, senha_hash, role, aluno_id)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query, u.Email, u.Username, u.SenhaHash, u.Role, u.AlunoID).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return database.MapUniqueViolation(err, "failed to create usuario")
	}

	return nil
}

// CreateWithAluno atomically creates a student record and its linked
// credential. Either both rows exist afterwards or neither does; a
// uniqueness race at the storage layer rolls back the whole registration
// and surfaces as the same duplicate-field error a pre-check would give.
func (r *Repository) CreateWithAluno(ctx context.Context, a *aluno.Aluno, u *Usuario) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	alunoQuery := `INSERT INTO alunos (nome, email, telefone, curso, matricula)
				   VALUES ($1, $2, $3, $4, $5)
				   RETURNING id, created_at, updated_at`

	err = tx.QueryRowxContext(ctx, alunoQuery, a.Nome, a.Email, a.Telefone, a.Curso, a.Matricula).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return database.MapUniqueViolation(err, "failed to create aluno")
	}

	u.AlunoID = sql.NullInt64{Int64: a.ID, Valid: true}

	usuarioQuery := `INSERT INTO usuarios (email, username, senha_hash, role, aluno_id)
					 VALUES ($1, $2, $3, $4, $5)
					 RETURNING id, created_at, updated_at`

	err = tx.QueryRowxContext(ctx, usuarioQuery, u.Email, u.Username, u.SenhaHash, u.Role, u.AlunoID).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return database.MapUniqueViolation(err, "failed to create usuario")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit registration: %w", err)
	}

	return nil
}

// CreateResetToken stores a password reset token.
func (r *Repository) CreateResetToken(ctx context.Context, t *ResetToken) error {
	query := `INSERT INTO senha_reset_tokens (email, token, expires_at)
			  VALUES ($1, $2, $3)
			  RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query, t.Email, t.Token, t.ExpiresAt).
		Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}

	return nil
}

// RedeemResetToken atomically consumes a reset token and replaces the
// password digest of the credential it was issued for. The conditional
// delete is the single-use guarantee: a concurrent redemption of the same
// token deletes zero rows and fails with ErrResetTokenNotFound, as does an
// expired or unknown token.
func (r *Repository) RedeemResetToken(ctx context.Context, tokenValue, senhaHash string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var email string
	consume := `DELETE FROM senha_reset_tokens
				WHERE token = $1 AND expires_at > now()
				RETURNING email`

	err = tx.QueryRowxContext(ctx, consume, tokenValue).Scan(&email)
	if err == sql.ErrNoRows {
		return ErrResetTokenNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}

	update := `UPDATE usuarios SET senha_hash = $1, updated_at = $2 WHERE email = $3`
	if _, err := tx.ExecContext(ctx, update, senhaHash, time.Now(), email); err != nil {
		return fmt.Errorf("failed to update senha: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reset: %w", err)
	}

	return nil
}
