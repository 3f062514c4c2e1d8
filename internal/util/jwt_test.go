package util

import (
	"testing"
	"time"

	"exam_prep_backend/internal/model"
)

const testSecret = "test-secret-0123456789abcdef0123"

func TestGenerateAndParseJWT(t *testing.T) {
	user := &model.User{Email: "user@example.com", IsAdmin: true}
	user.ID = 42

	token, err := GenerateJWT(user, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ParseJWT(token, testSecret)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != 42 || !claims.IsAdmin || claims.Email != "user@example.com" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseJWTWrongSecret(t *testing.T) {
	user := &model.User{Email: "user@example.com"}
	user.ID = 1

	token, err := GenerateJWT(user, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := ParseJWT(token, "another-secret"); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestEmailTokenRoundTrip(t *testing.T) {
	token, err := GenerateEmailToken(7, TokenPurposeActivate, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateEmailToken: %v", err)
	}

	claims, err := ParseEmailToken(token, TokenPurposeActivate, testSecret)
	if err != nil {
		t.Fatalf("ParseEmailToken: %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("UserID = %d, want 7", claims.UserID)
	}
}

func TestEmailTokenPurposeMismatch(t *testing.T) {
	// 激活令牌不能拿去重置密码
	token, err := GenerateEmailToken(7, TokenPurposeActivate, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateEmailToken: %v", err)
	}

	if _, err := ParseEmailToken(token, TokenPurposeReset, testSecret); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestEmailTokenExpired(t *testing.T) {
	token, err := GenerateEmailToken(7, TokenPurposeReset, testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateEmailToken: %v", err)
	}

	if _, err := ParseEmailToken(token, TokenPurposeReset, testSecret); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}
