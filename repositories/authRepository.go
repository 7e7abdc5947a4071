package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"acmemedical/cache"
	"acmemedical/models"

	"gorm.io/gorm"
)

const (
	UserCacheExpiry = 24 * time.Hour
)

type UserRepository interface {
	GetUserByUsername(ctx context.Context, username string) (*models.SecurityUser, error)
	GetUserWithCredentials(ctx context.Context, username string) (*models.SecurityUser, error)
	GetUserByPhysicianID(ctx context.Context, physicianID uint) (*models.SecurityUser, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	DeleteUserCache(ctx context.Context, username string) error
}

type userRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewUserRepository(db *gorm.DB, cache *cache.Cache) UserRepository {
	return &userRepository{db: db, cache: cache}
}

// GetUserByUsername returns the account with roles and linked physician
// preloaded. The password hash is never cached.
func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*models.SecurityUser, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getUserCacheKey(username)
	cachedUser, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		var user models.SecurityUser
		if err := json.Unmarshal([]byte(cachedUser), &user); err == nil {
			return &user, nil
		}
	} else if err != cache.Nil {
		log.Printf("Failed to get user from cache: %v", err)
	}

	var user models.SecurityUser
	err = r.db.WithContext(ctx).
		Omit("pw_hash").
		Preload("Roles").
		Preload("Physician").
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, cacheKey, userJSON, UserCacheExpiry); err != nil {
		log.Printf("Failed to set user in cache: %v", err)
	}

	return &user, nil
}

// GetUserWithCredentials loads the account fresh from the database,
// including the password hash. Used only for authentication; never cached.
func (r *userRepository) GetUserWithCredentials(ctx context.Context, username string) (*models.SecurityUser, error) {
	var user models.SecurityUser
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Preload("Physician").
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByPhysicianID finds the account provisioned for a physician.
func (r *userRepository) GetUserByPhysicianID(ctx context.Context, physicianID uint) (*models.SecurityUser, error) {
	var user models.SecurityUser
	err := r.db.WithContext(ctx).
		Omit("pw_hash").
		Preload("Roles").
		Where("physician_id = ?", physicianID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SecurityUser{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return count > 0, nil
}

func (r *userRepository) DeleteUserCache(ctx context.Context, username string) error {
	return r.cache.Delete(ctx, r.getUserCacheKey(username))
}

func (r *userRepository) getUserCacheKey(username string) string {
	return fmt.Sprintf("user_cache:%s", username)
}
