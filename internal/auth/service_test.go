package auth

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/edutec/alunos-api/internal/aluno"
	"github.com/edutec/alunos-api/internal/token"
	"github.com/edutec/alunos-api/internal/user"
	apperrors "github.com/edutec/alunos-api/pkg/errors"
	"go.uber.org/zap"
)

// fakeStore is an in-memory CredentialStore for service tests.
type fakeStore struct {
	usuarios    []*user.Usuario
	resetTokens map[string]*user.ResetToken
}

func newFakeStore() *fakeStore {
	return &fakeStore{resetTokens: map[string]*user.ResetToken{}}
}

func (f *fakeStore) FindByEmailOrUsername(_ context.Context, login string) (*user.Usuario, error) {
	for _, u := range f.usuarios {
		if u.Email == login || (u.Username.Valid && u.Username.String == login) {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindByEmail(_ context.Context, email string) (*user.Usuario, error) {
	for _, u := range f.usuarios {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) Create(_ context.Context, u *user.Usuario) error {
	u.ID = int64(len(f.usuarios) + 1)
	f.usuarios = append(f.usuarios, u)
	return nil
}

func (f *fakeStore) CreateWithAluno(ctx context.Context, a *aluno.Aluno, u *user.Usuario) error {
	a.ID = int64(len(f.usuarios) + 1)
	u.AlunoID = sql.NullInt64{Int64: a.ID, Valid: true}
	return f.Create(ctx, u)
}

func (f *fakeStore) CreateResetToken(_ context.Context, t *user.ResetToken) error {
	f.resetTokens[t.Token] = t
	return nil
}

func (f *fakeStore) RedeemResetToken(_ context.Context, tokenValue, senhaHash string) error {
	t, ok := f.resetTokens[tokenValue]
	if !ok || time.Now().After(t.ExpiresAt) {
		return user.ErrResetTokenNotFound
	}
	delete(f.resetTokens, tokenValue)
	for _, u := range f.usuarios {
		if u.Email == t.Email {
			u.SenhaHash = senhaHash
		}
	}
	return nil
}

type noopRecorder struct{}

func (noopRecorder) Record(context.Context, *int64, string, string) {}

func newTestAuthService(store *fakeStore) *Service {
	tokens := token.NewService("test-secret-key-minimum-32-chars", 24*time.Hour)
	return NewService(store, tokens, nil, noopRecorder{}, time.Hour, zap.NewNop())
}

func TestLogin_MixedCaseUsername(t *testing.T) {
	store := newFakeStore()
	service := newTestAuthService(store)

	req := &RegisterRequest{
		Nome:     "João Silva",
		Email:    "joao@exemplo.com",
		Username: "JoaoS",
		Senha:    "senha123",
	}
	if err := service.Register(context.Background(), req, "127.0.0.1"); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	// Username is stored normalized, so any casing of it authenticates
	for _, login := range []string{"JoaoS", "joaos", "JOAOS"} {
		result, err := service.Login(context.Background(), login, "senha123", "127.0.0.1")
		if err != nil {
			t.Fatalf("Login(%q) failed: %v", login, err)
		}
		if result.Usuario.Email != "joao@exemplo.com" {
			t.Errorf("Login(%q) usuario email = %q, want %q", login, result.Usuario.Email, "joao@exemplo.com")
		}
		if result.Token == "" {
			t.Errorf("Login(%q) returned an empty token", login)
		}
	}
}

func TestRegister_NormalizesUsername(t *testing.T) {
	store := newFakeStore()
	service := newTestAuthService(store)

	req := &RegisterRequest{
		Nome:     "Maria Souza",
		Email:    "MARIA@Exemplo.com",
		Username: "  MariaS  ",
		Senha:    "senha123",
	}
	if err := service.Register(context.Background(), req, "127.0.0.1"); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	if len(store.usuarios) != 1 {
		t.Fatalf("stored %d usuarios, want 1", len(store.usuarios))
	}
	u := store.usuarios[0]
	if u.Email != "maria@exemplo.com" {
		t.Errorf("stored email = %q, want %q", u.Email, "maria@exemplo.com")
	}
	if !u.Username.Valid || u.Username.String != "marias" {
		t.Errorf("stored username = %+v, want %q", u.Username, "marias")
	}
}

func TestLogin_UniformCredentialsError(t *testing.T) {
	store := newFakeStore()
	service := newTestAuthService(store)

	req := &RegisterRequest{Nome: "Maria Souza", Email: "maria@exemplo.com", Senha: "senha123"}
	if err := service.Register(context.Background(), req, "127.0.0.1"); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	tests := []struct {
		name  string
		login string
		senha string
	}{
		{"unknown login", "nobody@exemplo.com", "senha123"},
		{"wrong password", "maria@exemplo.com", "senhaerrada"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Login(context.Background(), tt.login, tt.senha, "127.0.0.1")
			if !errors.Is(err, apperrors.ErrInvalidCredentials) {
				t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestResetPassword_SingleUse(t *testing.T) {
	store := newFakeStore()
	service := newTestAuthService(store)

	req := &RegisterRequest{Nome: "Maria Souza", Email: "maria@exemplo.com", Senha: "senha123"}
	if err := service.Register(context.Background(), req, "127.0.0.1"); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	if err := service.RequestPasswordReset(context.Background(), "maria@exemplo.com", "127.0.0.1"); err != nil {
		t.Fatalf("RequestPasswordReset() failed: %v", err)
	}
	if len(store.resetTokens) != 1 {
		t.Fatalf("stored %d reset tokens, want 1", len(store.resetTokens))
	}

	var tokenValue string
	for v := range store.resetTokens {
		tokenValue = v
	}

	if err := service.ResetPassword(context.Background(), tokenValue, "novasenha", "127.0.0.1"); err != nil {
		t.Fatalf("ResetPassword() failed: %v", err)
	}

	// The new password authenticates, the old one does not
	if _, err := service.Login(context.Background(), "maria@exemplo.com", "novasenha", "127.0.0.1"); err != nil {
		t.Errorf("Login() with the new senha failed: %v", err)
	}
	if _, err := service.Login(context.Background(), "maria@exemplo.com", "senha123", "127.0.0.1"); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("Login() with the old senha error = %v, want ErrInvalidCredentials", err)
	}

	// A consumed token cannot be redeemed again
	err := service.ResetPassword(context.Background(), tokenValue, "outrasenha", "127.0.0.1")
	if !errors.Is(err, apperrors.ErrResetTokenInvalid) {
		t.Errorf("second ResetPassword() error = %v, want ErrResetTokenInvalid", err)
	}
}

func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	store := newFakeStore()
	service := newTestAuthService(store)

	if err := service.RequestPasswordReset(context.Background(), "nobody@exemplo.com", "127.0.0.1"); err != nil {
		t.Fatalf("RequestPasswordReset() failed: %v", err)
	}
	if len(store.resetTokens) != 0 {
		t.Errorf("stored %d reset tokens for an unknown email, want 0", len(store.resetTokens))
	}
}
