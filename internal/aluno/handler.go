package aluno

import (
	"net/http"
	"strconv"

	"github.com/edutec/alunos-api/internal/audit"
	"github.com/edutec/alunos-api/internal/middleware"
	"github.com/edutec/alunos-api/internal/policy"
	apperrors "github.com/edutec/alunos-api/pkg/errors"
	"github.com/edutec/alunos-api/pkg/response"
	"github.com/gin-gonic/gin"
)

// Handler handles student record HTTP requests
type Handler struct {
	repo     *Repository
	recorder *audit.Recorder
}

// NewHandler creates a new student record handler
func NewHandler(repo *Repository, recorder *audit.Recorder) *Handler {
	return &Handler{repo: repo, recorder: recorder}
}

// List returns the records visible to the caller: administrators see all of
// them, a student sees only its own record.
// GET /api/alunos
func (h *Handler) List(c *gin.Context) {
	id := middleware.Identity(c)
	if id == nil {
		response.Error(c, apperrors.ErrMissingToken)
		return
	}

	if id.IsAdmin() {
		alunos, err := h.repo.List(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, alunos)
		return
	}

	alunos := []Aluno{}
	if id.Linked() {
		a, err := h.repo.FindByID(c.Request.Context(), id.AlunoID)
		if err != nil {
			response.Error(c, err)
			return
		}
		if a != nil {
			alunos = append(alunos, *a)
		}
	}

	response.JSON(c, http.StatusOK, alunos)
}

// Get returns one record, subject to the self-or-admin policy.
// GET /api/alunos/:id
func (h *Handler) Get(c *gin.Context) {
	recordID, ok := h.recordID(c)
	if !ok {
		return
	}

	if d := policy.Decide(middleware.Identity(c), recordID, policy.OpRead); !d.Allowed {
		response.Error(c, apperrors.ErrForbidden)
		return
	}

	a, err := h.repo.FindByID(c.Request.Context(), recordID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if a == nil {
		response.Error(c, apperrors.ErrAlunoNotFound)
		return
	}

	response.JSON(c, http.StatusOK, a)
}

// CreateRequest is the admin record-creation payload.
type CreateRequest struct {
	Nome      string  `json:"nome" binding:"required"`
	Email     string  `json:"email" binding:"required,email"`
	Telefone  *string `json:"telefone"`
	Curso     *string `json:"curso"`
	Matricula *string `json:"matricula"`
}

// Create inserts a new record. Route is admin-only.
// POST /api/alunos
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Nome e email são obrigatórios")
		return
	}

	a := &Aluno{
		Nome:      req.Nome,
		Email:     req.Email,
		Telefone:  req.Telefone,
		Curso:     req.Curso,
		Matricula: req.Matricula,
	}

	if err := h.repo.Create(c.Request.Context(), a); err != nil {
		response.Error(c, err)
		return
	}

	h.record(c, "aluno_criado")
	response.JSON(c, http.StatusCreated, a)
}

// Update modifies a record. Administrators may change every field; a student
// may only touch its own record, and only the self-service fields (telefone,
// curso) are applied.
// PUT /api/alunos/:id
func (h *Handler) Update(c *gin.Context) {
	recordID, ok := h.recordID(c)
	if !ok {
		return
	}

	identity := middleware.Identity(c)
	if d := policy.Decide(identity, recordID, policy.OpUpdate); !d.Allowed {
		response.Error(c, apperrors.ErrForbidden)
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Dados de atualização inválidos")
		return
	}

	a, err := h.repo.FindByID(c.Request.Context(), recordID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if a == nil {
		response.Error(c, apperrors.ErrAlunoNotFound)
		return
	}

	ApplyUpdate(a, req, identity.IsAdmin())

	if err := h.repo.Update(c.Request.Context(), a); err != nil {
		response.Error(c, err)
		return
	}

	h.record(c, "aluno_atualizado")
	response.JSON(c, http.StatusOK, a)
}

// Delete removes a record. Route is admin-only.
// DELETE /api/alunos/:id
func (h *Handler) Delete(c *gin.Context) {
	recordID, ok := h.recordID(c)
	if !ok {
		return
	}

	deleted, err := h.repo.Delete(c.Request.Context(), recordID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !deleted {
		response.Error(c, apperrors.ErrAlunoNotFound)
		return
	}

	h.record(c, "aluno_excluido")
	response.Message(c, http.StatusOK, "Aluno excluído com sucesso")
}

// Busca searches records by free text and/or course. Route is admin-only.
// GET /api/alunos/busca?termo=...&curso=...
func (h *Handler) Busca(c *gin.Context) {
	alunos, err := h.repo.Search(c.Request.Context(), c.Query("termo"), c.Query("curso"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, alunos)
}

// Estatisticas returns dashboard statistics. Route is admin-only.
// GET /api/estatisticas
func (h *Handler) Estatisticas(c *gin.Context) {
	stats, err := h.repo.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, stats)
}

// Exportar streams all records as a CSV attachment. Route is admin-only.
// GET /api/alunos/exportar
func (h *Handler) Exportar(c *gin.Context) {
	alunos, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="alunos.csv"`)
	c.Status(http.StatusOK)

	if err := WriteCSV(c.Writer, alunos); err != nil {
		// Headers are already out; nothing to do but log via gin's error list
		_ = c.Error(err)
	}
}

func (h *Handler) recordID(c *gin.Context) (int64, bool) {
	recordID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || recordID <= 0 {
		response.ValidationError(c, "ID inválido")
		return 0, false
	}
	return recordID, true
}

func (h *Handler) record(c *gin.Context, acao string) {
	var usuarioID *int64
	if id := middleware.Identity(c); id != nil {
		usuarioID = &id.UserID
	}
	h.recorder.Record(c.Request.Context(), usuarioID, acao, c.ClientIP())
}
