package user

import (
	"database/sql"
	"time"

	"github.com/edutec/alunos-api/internal/token"
)

// Usuario represents the usuarios table: one credential per email, at most
// one per username. A student credential is linked to exactly one student
// record through AlunoID; the administrator credential has none.
type Usuario struct {
	ID        int64          `db:"id" json:"id"`
	Email     string         `db:"email" json:"email"`
	Username  sql.NullString `db:"username" json:"-"`
	SenhaHash string         `db:"senha_hash" json:"-"`
	Role      string         `db:"role" json:"role"`
	AlunoID   sql.NullInt64  `db:"aluno_id" json:"-"`
	CreatedAt time.Time      `db:"created_at" json:"-"`
	UpdatedAt time.Time      `db:"updated_at" json:"-"`
}

// LinkedAlunoID returns the linked student record id, or zero when the
// credential has none.
func (u *Usuario) LinkedAlunoID() int64 {
	if u.AlunoID.Valid {
		return u.AlunoID.Int64
	}
	return 0
}

// IsAdmin reports whether the credential has the administrator role.
func (u *Usuario) IsAdmin() bool {
	return u.Role == token.RoleAdministrator
}

// ResetToken represents the senha_reset_tokens table. Tokens are opaque,
// random, single-use and expire one hour after issuance.
type ResetToken struct {
	ID        int64     `db:"id" json:"-"`
	Email     string    `db:"email" json:"-"`
	Token     string    `db:"token" json:"-"`
	ExpiresAt time.Time `db:"expires_at" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}
