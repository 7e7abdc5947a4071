package utils

import (
	"strings"
	"testing"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	stored, err := HashPassword(DefaultHashConfig(), "s3cret!")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if !strings.HasPrefix(stored, PBKDF2SHA256+":") {
		t.Errorf("stored hash %q missing algorithm prefix", stored)
	}
	if !CheckPassword(stored, "s3cret!") {
		t.Error("correct password rejected")
	}
	if CheckPassword(stored, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordSaltsEveryCall(t *testing.T) {
	cfg := DefaultHashConfig()
	first, err := HashPassword(cfg, "s3cret!")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	second, err := HashPassword(cfg, "s3cret!")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password are identical; salt missing")
	}
}

func TestHashPasswordRejectsUnknownAlgorithm(t *testing.T) {
	cfg := DefaultHashConfig()
	cfg.Algorithm = "MD5"
	if _, err := HashPassword(cfg, "s3cret!"); err == nil {
		t.Fatal("expected an error for an unsupported algorithm")
	}
}

func TestCheckPasswordRejectsMalformedHash(t *testing.T) {
	for _, stored := range []string{
		"",
		"not-a-hash",
		"PBKDF2WithHmacSHA256:abc:!!:!!",
		"OTHER:2048:c2FsdA:a2V5",
	} {
		if CheckPassword(stored, "s3cret!") {
			t.Errorf("malformed hash %q accepted", stored)
		}
	}
}

func TestDeriveUsername(t *testing.T) {
	if got, want := DeriveUsername("phys", "Jane", "Doe"), "phys_Jane.Doe"; got != want {
		t.Errorf("DeriveUsername = %q, want %q", got, want)
	}
}
