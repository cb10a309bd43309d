package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func TestVerifyTokenRoundTrip(t *testing.T) {
	token, err := SignToken("secret", "user-1", time.Hour)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	userID, err := VerifyToken("secret", token)
	if err != nil {
		t.Fatalf("Failed to verify token: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("Expected user-1, got %q", userID)
	}

	if _, err := VerifyToken("other-secret", token); err == nil {
		t.Error("Expected verification to fail with the wrong secret")
	}
}

func TestVerifyTokenExpiryLeeway(t *testing.T) {
	// Expired 10 seconds ago: inside the skew tolerance, still accepted.
	recent, err := SignToken("secret", "user-1", -10*time.Second)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	if _, err := VerifyToken("secret", recent); err != nil {
		t.Errorf("Expected token within leeway to verify, got %v", err)
	}

	// Expired two minutes ago: rejected.
	stale, err := SignToken("secret", "user-1", -2*time.Minute)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	_, err = VerifyToken("secret", stale)
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("Expected expired token error, got %v", err)
	}
}
