package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestService() *HMACService {
	return NewHMACService("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
}

func TestAccessToken_CarriesIdentityClaims(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	tok, err := svc.GenerateAccessToken(userID, "dina@talentbridge.dev", "employer")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := svc.ValidateToken(tok)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("user id = %s, want %s", claims.UserID, userID)
	}
	if claims.Email != "dina@talentbridge.dev" {
		t.Fatalf("email = %q", claims.Email)
	}
	if claims.Role != "employer" {
		t.Fatalf("role = %q, want employer", claims.Role)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Fatalf("token type = %q", claims.TokenType)
	}
	if svc.IsRefreshToken(claims) {
		t.Fatal("access token classified as refresh")
	}
}

func TestRefreshToken_OmitsEmailAndRole(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	tok, err := svc.GenerateRefreshToken(userID)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	claims, err := svc.ValidateToken(tok)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("user id = %s, want %s", claims.UserID, userID)
	}
	if claims.Email != "" || claims.Role != "" {
		t.Fatalf("refresh token leaked email=%q role=%q", claims.Email, claims.Role)
	}
	if !svc.IsRefreshToken(claims) {
		t.Fatal("refresh token not classified as refresh")
	}
}

func TestValidateToken_Expiry(t *testing.T) {
	svc := newTestService()
	issued := time.Now().Add(-time.Hour)
	svc.now = func() time.Time { return issued }

	tok, err := svc.GenerateAccessToken(uuid.New(), "a@b.dev", "student")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	svc.now = time.Now
	if _, err := svc.ValidateToken(tok); err != ErrTokenExpired {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestValidateToken_RejectsGarbage(t *testing.T) {
	svc := newTestService()
	if _, err := svc.ValidateToken("not-a-token"); err != ErrTokenInvalid {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}
