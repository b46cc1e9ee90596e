package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestVerifyPassword(t *testing.T) {
	hash := mustHashPassword("senha123")

	tests := []struct {
		name        string
		senha       string
		shouldError bool
	}{
		{"correct senha", "senha123", false},
		{"wrong senha", "senhaerrada", true},
		{"empty senha", "", true},
		{"case differs", "Senha123", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyPassword(tt.senha, hash)
			if (err != nil) != tt.shouldError {
				t.Errorf("VerifyPassword() error = %v, shouldError = %v", err, tt.shouldError)
			}
		})
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("senha123")
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("senha123")); err != nil {
		t.Errorf("generated hash does not verify: %v", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("senhaerrada")); err == nil {
		t.Error("wrong senha should fail verification")
	}
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	hash1, err := HashPassword("senha123")
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}
	hash2, err := HashPassword("senha123")
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}

	// bcrypt salts every digest, so equal inputs yield distinct hashes
	if hash1 == hash2 {
		t.Error("two hashes of the same senha should differ")
	}
}

func mustHashPassword(senha string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}
