package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestService(expiry time.Duration) *Service {
	return NewService(&Config{
		JWTSecret:   []byte("0123456789abcdef0123456789abcdef"),
		TokenExpiry: expiry,
	}, nil)
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestService(time.Hour)

	token, err := svc.GenerateToken("deploy-pipeline", "deployer")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken returned error: %v", err)
	}
	if claims.Subject != "deploy-pipeline" {
		t.Errorf("subject = %q, want deploy-pipeline", claims.Subject)
	}
	if claims.Role != "deployer" {
		t.Errorf("role = %q, want deployer", claims.Role)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := newTestService(time.Hour).GenerateToken("runner", "builder")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	other := NewService(&Config{
		JWTSecret:   []byte("ffffffffffffffffffffffffffffffff"),
		TokenExpiry: time.Hour,
	}, nil)

	if _, err := other.ValidateToken(token); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("got error %v, want ErrInvalidSignature", err)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTestService(-time.Minute)

	token, err := svc.GenerateToken("runner", "builder")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("got error %v, want ErrExpiredToken", err)
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := newTestService(time.Hour)

	if _, err := svc.ValidateToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("got error %v, want ErrInvalidToken", err)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"standard", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"case insensitive scheme", "bearer abc", "abc"},
		{"missing scheme", "abc.def.ghi", ""},
		{"empty", "", ""},
		{"scheme only", "Bearer ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractBearerToken(tt.header); got != tt.want {
				t.Errorf("ExtractBearerToken(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}
