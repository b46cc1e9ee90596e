package auth

import (
	"net/http"

	"github.com/edutec/alunos-api/pkg/response"
	"github.com/gin-gonic/gin"
)

// resetRequestMessage is returned by the forgot-password endpoint whether or
// not the email exists, so accounts cannot be enumerated.
const resetRequestMessage = "Se o email estiver cadastrado, você receberá as instruções de redefinição de senha"

// Handler handles authentication HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates a new authentication handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Login handles email-or-username/password login
// POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Email e senha são obrigatórios")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Senha, c.ClientIP())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result)
}

// Registro handles student self-registration
// POST /api/auth/registro
func (h *Handler) Registro(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Dados de registro inválidos")
		return
	}

	if err := h.service.Register(c.Request.Context(), &req, c.ClientIP()); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusCreated, "Usuário registrado com sucesso")
}

// EsqueciSenha handles a password reset request
// POST /api/auth/esqueci-senha
func (h *Handler) EsqueciSenha(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Email é obrigatório")
		return
	}

	if err := h.service.RequestPasswordReset(c.Request.Context(), req.Email, c.ClientIP()); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, resetRequestMessage)
}

// RedefinirSenha redeems a reset token
// POST /api/auth/redefinir-senha
func (h *Handler) RedefinirSenha(c *gin.Context) {
	var req struct {
		Token     string `json:"token" binding:"required"`
		NovaSenha string `json:"novaSenha" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Token e nova senha são obrigatórios")
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req.Token, req.NovaSenha, c.ClientIP()); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Senha redefinida com sucesso")
}

// Health returns health status
// GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}
