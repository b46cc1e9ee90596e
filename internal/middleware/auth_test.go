package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/edutec/alunos-api/internal/policy"
	"github.com/edutec/alunos-api/internal/token"
	"github.com/gin-gonic/gin"
)

func newAuthRouter(tokens *token.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", Auth(tokens), func(c *gin.Context) {
		id := Identity(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id.UserID, "role": id.Role})
	})
	return router
}

func TestAuth_MissingHeader(t *testing.T) {
	tokens := token.NewService("test-secret-key-minimum-32-chars", 24*time.Hour)
	router := newAuthRouter(tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	tokens := token.NewService("test-secret-key-minimum-32-chars", 24*time.Hour)
	router := newAuthRouter(tokens)

	tests := []struct {
		name   string
		header string
	}{
		{"no bearer prefix", "some-token"},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", tt.header)
			router.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	tokens := token.NewService("test-secret-key-minimum-32-chars", 24*time.Hour)
	router := newAuthRouter(tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["error"] == "" {
		t.Error("expected an error message in the body")
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	issuer := token.NewService("test-secret-key-minimum-32-chars", -time.Minute)
	signed, _, err := issuer.Issue(7, "joao@exemplo.com", token.RoleStudent, 5)
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	verifier := token.NewService("test-secret-key-minimum-32-chars", 24*time.Hour)
	router := newAuthRouter(verifier)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuth_ValidToken(t *testing.T) {
	tokens := token.NewService("test-secret-key-minimum-32-chars", 24*time.Hour)
	router := newAuthRouter(tokens)

	signed, _, err := tokens.Issue(7, "joao@exemplo.com", token.RoleStudent, 5)
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
	}

	var body struct {
		UserID int64  `json:"user_id"`
		Role   string `json:"role"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	if body.UserID != 7 {
		t.Errorf("user_id = %d, want 7", body.UserID)
	}
	if body.Role != token.RoleStudent {
		t.Errorf("role = %q, want %q", body.Role, token.RoleStudent)
	}
}

func TestRequire(t *testing.T) {
	tokens := token.NewService("test-secret-key-minimum-32-chars", 24*time.Hour)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin", Auth(tokens), Require(policy.OpStats), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	adminToken, _, err := tokens.Issue(1, "admin@admin.com", token.RoleAdministrator, 0)
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}
	studentToken, _, err := tokens.Issue(7, "joao@exemplo.com", token.RoleStudent, 5)
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"administrator allowed", adminToken, http.StatusOK},
		{"student forbidden", studentToken, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}
