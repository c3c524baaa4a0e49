package utils

import (
	"testing"
)

func TestHashPassword(t *testing.T) {
	password := "secret"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !CheckPassword(password, hash) {
		t.Errorf("Expected password check to pass")
	}

	if CheckPassword("wrongpassword", hash) {
		t.Errorf("Expected password check to fail")
	}
}

func TestTokenPair(t *testing.T) {
	accessSecret := "supersecret"
	refreshSecret := "evenmoresecret"
	userID := "123"
	email := "buddy@example.com"

	accessToken, refreshToken, err := GenerateTokenPair(userID, email, accessSecret, refreshSecret)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	claims, err := ValidateToken(accessToken, accessSecret)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("Expected UserID %s, got %s", userID, claims.UserID)
	}
	if claims.Email != email {
		t.Errorf("Expected Email %s, got %s", email, claims.Email)
	}

	if _, err := ValidateToken(refreshToken, refreshSecret); err != nil {
		t.Fatalf("Expected refresh token to validate, got %v", err)
	}

	if _, err := ValidateToken(accessToken, refreshSecret); err == nil {
		t.Errorf("Expected error validating access token with refresh secret")
	}
	if _, err := ValidateToken(refreshToken, accessSecret); err == nil {
		t.Errorf("Expected error validating refresh token with access secret")
	}
}
