package aluno

import "time"

// Aluno represents the alunos table. Email and matricula are unique across
// all records; telefone, curso and matricula are optional.
type Aluno struct {
	ID        int64     `db:"id" json:"id"`
	Nome      string    `db:"nome" json:"nome"`
	Email     string    `db:"email" json:"email"`
	Telefone  *string   `db:"telefone" json:"telefone"`
	Curso     *string   `db:"curso" json:"curso"`
	Matricula *string   `db:"matricula" json:"matricula"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// UpdateRequest carries a partial update; nil fields are left untouched.
type UpdateRequest struct {
	Nome      *string `json:"nome"`
	Email     *string `json:"email"`
	Telefone  *string `json:"telefone"`
	Curso     *string `json:"curso"`
	Matricula *string `json:"matricula"`
}

// ApplyUpdate copies the request onto the record. Administrators may change
// every field; students are limited to the self-service fields telefone and
// curso, and anything else in the request is ignored.
func ApplyUpdate(a *Aluno, req UpdateRequest, admin bool) {
	if admin {
		if req.Nome != nil {
			a.Nome = *req.Nome
		}
		if req.Email != nil {
			a.Email = *req.Email
		}
		if req.Matricula != nil {
			a.Matricula = req.Matricula
		}
	}
	if req.Telefone != nil {
		a.Telefone = req.Telefone
	}
	if req.Curso != nil {
		a.Curso = req.Curso
	}
}

// CursoCount is one slice of the alunos-per-course statistic.
type CursoCount struct {
	Curso string `db:"curso" json:"curso"`
	Total int64  `db:"total" json:"total"`
}

// Stats is the dashboard statistics payload.
type Stats struct {
	TotalAlunos    int64        `json:"totalAlunos"`
	AlunosPorCurso []CursoCount `json:"alunosPorCurso"`
}
