package aluno

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var csvHeader = []string{"id", "nome", "email", "telefone", "curso", "matricula"}

// WriteCSV renders the records as CSV with a fixed header row. Optional
// fields render as empty cells.
func WriteCSV(w io.Writer, alunos []Aluno) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, a := range alunos {
		row := []string{
			strconv.FormatInt(a.ID, 10),
			a.Nome,
			a.Email,
			deref(a.Telefone),
			deref(a.Curso),
			deref(a.Matricula),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
