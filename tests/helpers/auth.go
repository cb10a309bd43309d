package helpers

import (
	"crypto/rand"
	"math/big"
	"testing"
	"time"

	"github.com/earlysteps/casetrack/internal/services"
)

// TestJWTSecret signs and verifies bearer tokens in tests.
const TestJWTSecret = "casetrack-test-secret"

func randInt(max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64())
}

// GeneratePassword generates a 10 character password with a capital and special char
func GeneratePassword() string {
	const (
		lower   = "abcdefghijklmnopqrstuvwxyz"
		upper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
		special = "!@#$%^&*"
		numbers = "0123456789"
		all     = lower + upper + special + numbers
	)

	password := make([]byte, 10)
	password[0] = upper[randInt(len(upper))]
	password[1] = special[randInt(len(special))]
	password[2] = numbers[randInt(len(numbers))]

	for i := 3; i < 10; i++ {
		password[i] = all[randInt(len(all))]
	}

	for i := range password {
		j := randInt(len(password))
		password[i], password[j] = password[j], password[i]
	}

	return string(password)
}

// MintToken signs a bearer token for the user id with the test secret.
func MintToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := services.SignToken(TestJWTSecret, userID, time.Hour)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return token
}
