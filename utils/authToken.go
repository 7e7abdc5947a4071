package utils

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/o1egl/paseto"
)

const (
	// Set expiration times for access and refresh tokens.
	AccessTokenExpiry  = 24 * time.Hour
	RefreshTokenExpiry = 7 * 24 * time.Hour
)

// TokenClaims represents the data carried in a token. PhysicianID is set
// only for accounts linked to a physician and drives ownership checks.
type TokenClaims struct {
	UserID      int64     `json:"userId"`
	Username    string    `json:"username"`
	Roles       []string  `json:"roles"`
	PhysicianID *uint     `json:"physicianId,omitempty"`
	Expiry      time.Time `json:"expiry"`
}

// HasRole reports whether the claims carry the named role.
func (c *TokenClaims) HasRole(name string) bool {
	for _, role := range c.Roles {
		if role == name {
			return true
		}
	}
	return false
}

// GetSymmetricKey retrieves the symmetric key from the environment variable.
// Ensures it has the correct length (32 bytes).
func GetSymmetricKey() []byte {
	key := os.Getenv("SYMMETRIC_KEY")
	if len(key) != 32 {
		log.Fatalf("SYMMETRIC_KEY must be 32 bytes long. Current length: %d", len(key))
	}
	return []byte(key)
}

// GenerateTokens generates both the access token and refresh token for the given claims.
func GenerateTokens(claims TokenClaims) (accessToken, refreshToken string, err error) {
	accessToken, err = generatePASEToken(claims, AccessTokenExpiry)
	if err != nil {
		log.Printf("Error generating access token: %v", err)
		return "", "", err
	}

	refreshToken, err = generatePASEToken(claims, RefreshTokenExpiry)
	if err != nil {
		log.Printf("Error generating refresh token: %v", err)
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// GenerateAccessToken generates only the access token.
func GenerateAccessToken(claims TokenClaims) (string, error) {
	token, err := generatePASEToken(claims, AccessTokenExpiry)
	if err != nil {
		log.Printf("Error generating access token: %v", err)
		return "", err
	}
	return token, nil
}

// generatePASEToken encrypts the claims into a PASETO token valid for the
// given duration.
func generatePASEToken(claims TokenClaims, expiry time.Duration) (string, error) {
	claims.Expiry = time.Now().Add(expiry)

	symmetricKey := GetSymmetricKey()
	token, err := paseto.NewV2().Encrypt(symmetricKey, claims, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// ValidateToken decrypts the given token and checks its expiry.
func ValidateToken(tokenString string) (*TokenClaims, error) {
	var claims TokenClaims
	symmetricKey := GetSymmetricKey()

	if err := paseto.NewV2().Decrypt(tokenString, symmetricKey, &claims, nil); err != nil {
		return nil, fmt.Errorf("failed to decrypt token: %w", err)
	}

	if time.Now().After(claims.Expiry) {
		return nil, errors.New("token expired")
	}

	return &claims, nil
}
