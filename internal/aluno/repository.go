package aluno

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/edutec/alunos-api/internal/database"
	"github.com/jmoiron/sqlx"
)

// Repository handles student record data operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new student record repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const alunoColumns = `id, nome, email, telefone, curso, matricula, created_at, updated_at`

// List returns all student records ordered by id.
func (r *Repository) List(ctx context.Context) ([]Aluno, error) {
	alunos := []Aluno{}
	query := fmt.Sprintf(`SELECT %s FROM alunos ORDER BY id`, alunoColumns)

	if err := r.db.SelectContext(ctx, &alunos, query); err != nil {
		return nil, fmt.Errorf("failed to list alunos: %w", err)
	}

	return alunos, nil
}

// FindByID finds a student record by id
func (r *Repository) FindByID(ctx context.Context, id int64) (*Aluno, error) {
	var a Aluno
	query := fmt.Sprintf(`SELECT %s FROM alunos WHERE id = $1`, alunoColumns)

	err := r.db.GetContext(ctx, &a, query, id)
	if err == sql.ErrNoRows {
		return nil, nil // Record not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find aluno by ID: %w", err)
	}

	return &a, nil
}

// Create inserts a new student record and fills in the generated id and
// timestamps.
func (r *Repository) Create(ctx context.Context, a *Aluno) error {
	query := `INSERT INTO alunos (nome, email, telefone, curso, matricula)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query, a.Nome, a.Email, a.Telefone, a.Curso, a.Matricula).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return database.MapUniqueViolation(err, "failed to create aluno")
	}

	return nil
}

// Update writes every mutable column of the record.
func (r *Repository) Update(ctx context.Context, a *Aluno) error {
	query := `UPDATE alunos
			  SET nome = $1, email = $2, telefone = $3, curso = $4, matricula = $5, updated_at = $6
			  WHERE id = $7`

	a.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query, a.Nome, a.Email, a.Telefone, a.Curso, a.Matricula, a.UpdatedAt, a.ID)
	if err != nil {
		return database.MapUniqueViolation(err, "failed to update aluno")
	}

	return nil
}

// Delete removes a student record. The linked credential row goes with it
// through the foreign key cascade.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM alunos WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete aluno: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}

	return rows > 0, nil
}

// Search finds records matching a free-text term (nome, email or matricula)
// and/or an exact course. Empty filters match everything.
func (r *Repository) Search(ctx context.Context, termo, curso string) ([]Aluno, error) {
	alunos := []Aluno{}
	query := fmt.Sprintf(`SELECT %s FROM alunos
			  WHERE ($1 = '' OR nome ILIKE '%%' || $1 || '%%' OR email ILIKE '%%' || $1 || '%%' OR matricula ILIKE '%%' || $1 || '%%')
			    AND ($2 = '' OR curso = $2)
			  ORDER BY id`, alunoColumns)

	if err := r.db.SelectContext(ctx, &alunos, query, termo, curso); err != nil {
		return nil, fmt.Errorf("failed to search alunos: %w", err)
	}

	return alunos, nil
}

// GetStats returns the dashboard statistics: total record count and the
// per-course breakdown. Records without a course are grouped under "".
func (r *Repository) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{AlunosPorCurso: []CursoCount{}}

	if err := r.db.GetContext(ctx, &stats.TotalAlunos, `SELECT COUNT(*) FROM alunos`); err != nil {
		return nil, fmt.Errorf("failed to count alunos: %w", err)
	}

	query := `SELECT COALESCE(curso, '') AS curso, COUNT(*) AS total
			  FROM alunos
			  GROUP BY COALESCE(curso, '')
			  ORDER BY total DESC`

	if err := r.db.SelectContext(ctx, &stats.AlunosPorCurso, query); err != nil {
		return nil, fmt.Errorf("failed to group alunos by curso: %w", err)
	}

	return stats, nil
}
