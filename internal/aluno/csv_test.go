package aluno

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteCSV(t *testing.T) {
	alunos := []Aluno{
		{
			ID:        1,
			Nome:      "João Silva",
			Email:     "joao@exemplo.com",
			Telefone:  strPtr("11 99999-0000"),
			Curso:     strPtr("Engenharia"),
			Matricula: strPtr("2024001"),
		},
		{
			ID:    2,
			Nome:  "Maria Souza",
			Email: "maria@exemplo.com",
			// Optional fields unset
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, alunos); err != nil {
		t.Fatalf("WriteCSV() failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3 (header + 2 rows):\n%s", len(lines), buf.String())
	}

	if lines[0] != "id,nome,email,telefone,curso,matricula" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "1,João Silva,joao@exemplo.com,11 99999-0000,Engenharia,2024001" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != "2,Maria Souza,maria@exemplo.com,,," {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV() failed: %v", err)
	}

	if strings.TrimSpace(buf.String()) != "id,nome,email,telefone,curso,matricula" {
		t.Errorf("empty export should contain only the header, got %q", buf.String())
	}
}
