package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// HashConfig holds the key-derivation parameters. It is passed explicitly
// to every hashing call; there is no process-wide hashing state.
type HashConfig struct {
	Algorithm  string
	Iterations int
	SaltBytes  int
	KeyBytes   int
}

// PBKDF2SHA256 is the only supported algorithm identifier.
const PBKDF2SHA256 = "PBKDF2WithHmacSHA256"

// DefaultHashConfig returns the stock PBKDF2 parameters.
func DefaultHashConfig() HashConfig {
	return HashConfig{
		Algorithm:  PBKDF2SHA256,
		Iterations: 2048,
		SaltBytes:  32,
		KeyBytes:   32,
	}
}

// ErrUnsupportedHashAlgorithm is returned when a HashConfig or a stored
// hash names an algorithm other than PBKDF2WithHmacSHA256.
var ErrUnsupportedHashAlgorithm = errors.New("unsupported password hash algorithm")

// HashPassword derives a key from the password and encodes it together
// with the parameters as algorithm:iterations:salt:key (salt and key
// base64 encoded), so stored hashes remain verifiable if the config
// changes later.
func HashPassword(cfg HashConfig, password string) (string, error) {
	if cfg.Algorithm != PBKDF2SHA256 {
		return "", ErrUnsupportedHashAlgorithm
	}

	salt := make([]byte, cfg.SaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, cfg.Iterations, cfg.KeyBytes, sha256.New)
	return fmt.Sprintf("%s:%d:%s:%s",
		cfg.Algorithm,
		cfg.Iterations,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// CheckPassword verifies a password against a stored hash produced by
// HashPassword. The comparison is constant time.
func CheckPassword(stored, password string) bool {
	parts := strings.Split(stored, ":")
	if len(parts) != 4 || parts[0] != PBKDF2SHA256 {
		return false
	}

	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil {
		return false
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return false
	}

	candidate := pbkdf2.Key([]byte(password), salt, iterations, len(key), sha256.New)
	return subtle.ConstantTimeCompare(candidate, key) == 1
}
