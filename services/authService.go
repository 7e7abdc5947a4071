package services

import (
	"context"
	"errors"

	"acmemedical/models"
	"acmemedical/repositories"
	"acmemedical/utils"
)

// ErrInvalidCredentials is returned for a bad username or password. The
// two cases are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid username or password")

type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (*models.SecurityUser, error)
	GetUserByUsername(ctx context.Context, username string) (*models.SecurityUser, error)
	GetUserByPhysicianID(ctx context.Context, physicianID uint) (*models.SecurityUser, error)
}

type authService struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

// Authenticate verifies the password against the stored PBKDF2 hash and
// returns the account with roles and linked physician loaded.
func (s *authService) Authenticate(ctx context.Context, username, password string) (*models.SecurityUser, error) {
	user, err := s.userRepo.GetUserWithCredentials(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !utils.CheckPassword(user.PwHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *authService) GetUserByUsername(ctx context.Context, username string) (*models.SecurityUser, error) {
	return s.userRepo.GetUserByUsername(ctx, username)
}

func (s *authService) GetUserByPhysicianID(ctx context.Context, physicianID uint) (*models.SecurityUser, error) {
	return s.userRepo.GetUserByPhysicianID(ctx, physicianID)
}
