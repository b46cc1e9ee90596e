package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/edutec/alunos-api/internal/aluno"
	"github.com/edutec/alunos-api/internal/middleware"
	"github.com/edutec/alunos-api/internal/token"
	"github.com/edutec/alunos-api/internal/user"
	apperrors "github.com/edutec/alunos-api/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Bootstrap administrator credential, created on first start.
const (
	adminEmail    = "admin@admin.com"
	adminUsername = "admin"
	adminPassword = "admin"
)

// RateLimiter interface for login rate limiting
type RateLimiter interface {
	CheckLoginAttempt(ctx context.Context, email, ipAddress string) (allowed bool, lockoutRemaining time.Duration, err error)
	RecordFailedAttempt(ctx context.Context, email, ipAddress string) error
	RecordSuccessfulAttempt(ctx context.Context, email, ipAddress string) error
}

// CredentialStore is the persistence surface the authentication flows need.
// *user.Repository implements it.
type CredentialStore interface {
	FindByEmailOrUsername(ctx context.Context, login string) (*user.Usuario, error)
	FindByEmail(ctx context.Context, email string) (*user.Usuario, error)
	Create(ctx context.Context, u *user.Usuario) error
	CreateWithAluno(ctx context.Context, a *aluno.Aluno, u *user.Usuario) error
	CreateResetToken(ctx context.Context, t *user.ResetToken) error
	RedeemResetToken(ctx context.Context, tokenValue, senhaHash string) error
}

// ActivityRecorder persists activity log entries. *audit.Recorder
// implements it.
type ActivityRecorder interface {
	Record(ctx context.Context, usuarioID *int64, acao, ip string)
}

// Service handles authentication business logic
type Service struct {
	userRepo      CredentialStore
	tokens        *token.Service
	rateLimiter   RateLimiter
	recorder      ActivityRecorder
	resetTokenTTL time.Duration
	logger        *zap.Logger
}

// NewService creates a new authentication service
func NewService(
	userRepo CredentialStore,
	tokens *token.Service,
	rateLimiter RateLimiter,
	recorder ActivityRecorder,
	resetTokenTTL time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		userRepo:      userRepo,
		tokens:        tokens,
		rateLimiter:   rateLimiter,
		recorder:      recorder,
		resetTokenTTL: resetTokenTTL,
		logger:        logger,
	}
}

// LoginRequest represents a login request. Email also accepts a username.
type LoginRequest struct {
	Email string `json:"email" binding:"required"`
	Senha string `json:"senha" binding:"required"`
}

// UsuarioInfo is the identity block of the login response.
type UsuarioInfo struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	AlunoID int64  `json:"alunoId,omitempty"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token   string      `json:"token"`
	Usuario UsuarioInfo `json:"usuario"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Nome      string  `json:"nome"`
	Email     string  `json:"email"`
	Username  string  `json:"username"`
	Senha     string  `json:"senha"`
	Telefone  *string `json:"telefone"`
	Curso     *string `json:"curso"`
	Matricula *string `json:"matricula"`
}

// Login authenticates an email-or-username plus password and issues a
// session token. Unknown logins and wrong passwords fail with the same
// uniform credentials error.
func (s *Service) Login(ctx context.Context, login, senha, ipAddress string) (*LoginResponse, error) {
	login = SanitizeEmail(login)

	if s.rateLimiter != nil {
		allowed, lockoutRemaining, err := s.rateLimiter.CheckLoginAttempt(ctx, login, ipAddress)
		if err != nil {
			// The limiter is advisory: an outage must not block logins
			s.logger.Warn("rate limiter unavailable", zap.Error(err))
		} else if !allowed {
			middleware.RecordLoginAttempt("blocked")
			s.logger.Info("login blocked by rate limiter",
				zap.String("login", login),
				zap.Duration("lockout_remaining", lockoutRemaining.Round(time.Second)),
			)
			return nil, apperrors.ErrInvalidCredentials
		}
	}

	usr, err := s.userRepo.FindByEmailOrUsername(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if usr == nil {
		s.recordFailure(ctx, login, ipAddress)
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := VerifyPassword(senha, usr.SenhaHash); err != nil {
		s.recordFailure(ctx, login, ipAddress)
		return nil, apperrors.ErrInvalidCredentials
	}

	if s.rateLimiter != nil {
		_ = s.rateLimiter.RecordSuccessfulAttempt(ctx, login, ipAddress)
	}
	middleware.RecordLoginAttempt("success")

	signed, _, err := s.tokens.Issue(usr.ID, usr.Email, usr.Role, usr.LinkedAlunoID())
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.recorder.Record(ctx, &usr.ID, "login", ipAddress)

	return &LoginResponse{
		Token: signed,
		Usuario: UsuarioInfo{
			ID:      usr.ID,
			Email:   usr.Email,
			Role:    usr.Role,
			AlunoID: usr.LinkedAlunoID(),
		},
	}, nil
}

func (s *Service) recordFailure(ctx context.Context, login, ipAddress string) {
	if s.rateLimiter != nil {
		_ = s.rateLimiter.RecordFailedAttempt(ctx, login, ipAddress)
	}
	middleware.RecordLoginAttempt("failure")
}

// Register creates a student record and its linked credential in one
// transaction. Duplicate email, username or matricula fails the whole
// registration with a field-specific error and leaves nothing behind.
func (s *Service) Register(ctx context.Context, req *RegisterRequest, ipAddress string) error {
	req.Email = SanitizeEmail(req.Email)
	req.Username = SanitizeUsername(req.Username)
	if err := ValidateRegisterRequest(req); err != nil {
		return apperrors.Validation(err.Error())
	}

	senhaHash, err := HashPassword(req.Senha)
	if err != nil {
		return fmt.Errorf("failed to hash senha: %w", err)
	}

	a := &aluno.Aluno{
		Nome:      req.Nome,
		Email:     req.Email,
		Telefone:  req.Telefone,
		Curso:     req.Curso,
		Matricula: req.Matricula,
	}

	u := &user.Usuario{
		Email:     req.Email,
		SenhaHash: senhaHash,
		Role:      token.RoleStudent,
	}
	if req.Username != "" {
		u.Username = sql.NullString{String: req.Username, Valid: true}
	}

	if err := s.userRepo.CreateWithAluno(ctx, a, u); err != nil {
		return err
	}

	s.recorder.Record(ctx, &u.ID, "registro", ipAddress)

	return nil
}

// RequestPasswordReset issues a single-use reset token when the email is
// registered. The caller always receives the same generic message either
// way, so the endpoint cannot be used to enumerate accounts.
func (s *Service) RequestPasswordReset(ctx context.Context, email, ipAddress string) error {
	email = SanitizeEmail(email)

	usr, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	if usr == nil {
		return nil
	}

	resetToken := &user.ResetToken{
		Email:     email,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(s.resetTokenTTL),
	}

	if err := s.userRepo.CreateResetToken(ctx, resetToken); err != nil {
		return err
	}

	middleware.RecordResetTokenIssued()
	s.recorder.Record(ctx, &usr.ID, "senha_reset_solicitada", ipAddress)

	// Delivery is out of band; in development the token is surfaced in the
	// server log, mirroring the original application.
	s.logger.Info("password reset token issued",
		zap.String("email", email),
		zap.String("token", resetToken.Token),
		zap.Time("expires_at", resetToken.ExpiresAt),
	)

	return nil
}

// ResetPassword redeems a reset token and stores the new password digest.
// Redemption is atomic with the token's deletion, so a token can be used
// exactly once.
func (s *Service) ResetPassword(ctx context.Context, tokenValue, novaSenha, ipAddress string) error {
	if tokenValue == "" {
		return apperrors.ErrResetTokenInvalid
	}
	if err := ValidateNovaSenha(novaSenha); err != nil {
		return apperrors.Validation(err.Error())
	}

	senhaHash, err := HashPassword(novaSenha)
	if err != nil {
		return fmt.Errorf("failed to hash senha: %w", err)
	}

	if err := s.userRepo.RedeemResetToken(ctx, tokenValue, senhaHash); err != nil {
		if errors.Is(err, user.ErrResetTokenNotFound) {
			return apperrors.ErrResetTokenInvalid
		}
		return err
	}

	s.recorder.Record(ctx, nil, "senha_redefinida", ipAddress)

	return nil
}

// Bootstrap ensures the default administrator credential exists. It runs
// once at process start and is guarded by an existence check, so restarts
// are idempotent.
func (s *Service) Bootstrap(ctx context.Context) error {
	existing, err := s.userRepo.FindByEmail(ctx, adminEmail)
	if err != nil {
		return fmt.Errorf("failed to check for administrator: %w", err)
	}
	if existing != nil {
		return nil
	}

	senhaHash, err := HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash administrator senha: %w", err)
	}

	admin := &user.Usuario{
		Email:     adminEmail,
		Username:  sql.NullString{String: adminUsername, Valid: true},
		SenhaHash: senhaHash,
		Role:      token.RoleAdministrator,
	}

	if err := s.userRepo.Create(ctx, admin); err != nil {
		// A concurrent replica may have created it first
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.ErrCodeDuplicateField {
			return nil
		}
		return fmt.Errorf("failed to create administrator: %w", err)
	}

	s.logger.Info("administrator credential created", zap.String("email", adminEmail))

	return nil
}
