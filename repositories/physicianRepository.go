package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"acmemedical/cache"
	"acmemedical/config"
	"acmemedical/database"
	"acmemedical/models"
	"acmemedical/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PhysicianCacheExpiry = 24 * time.Hour
)

type PhysicianRepository struct {
	db    *gorm.DB
	cache *cache.Cache
	cfg   *config.AppConfig
	users UserRepository
}

func NewPhysicianRepository(db *gorm.DB, cache *cache.Cache, cfg *config.AppConfig, users UserRepository) *PhysicianRepository {
	return &PhysicianRepository{db: db, cache: cache, cfg: cfg, users: users}
}

// Create persists the physician and provisions its security account in one
// transaction. The username is derived from the physician's name; a taken
// username fails the whole operation with ErrDuplicateUsername.
func (r *PhysicianRepository) Create(ctx context.Context, physician *models.Physician) error {
	username := utils.DeriveUsername(r.cfg.UserPrefix, physician.FirstName, physician.LastName)

	lockKey := fmt.Sprintf("physician_lock:%s", username)
	lockValue := uuid.New().String()
	locked, err := database.NewLock(ctx, lockKey, lockValue, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return errors.New("failed to acquire lock")
	}
	defer func() {
		if err := database.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release lock: %v", err)
		}
	}()

	// The lock serializes provisioning for the username, so the
	// existence check outside the transaction is race-safe.
	taken, err := r.users.UsernameExists(ctx, username)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateUsername
	}

	pwHash, err := utils.HashPassword(r.cfg.PasswordHash, r.cfg.DefaultUserPassword)
	if err != nil {
		return fmt.Errorf("failed to hash default password: %w", err)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var userRole models.SecurityRole
		if err := tx.Where("name = ?", models.UserRole).First(&userRole).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserRoleMissing
			}
			return fmt.Errorf("failed to look up USER role: %w", err)
		}

		if err := tx.Create(physician).Error; err != nil {
			return fmt.Errorf("failed to create physician: %w", err)
		}

		user := models.SecurityUser{
			Username:    username,
			PwHash:      pwHash,
			PhysicianID: &physician.ID,
			Roles:       []models.SecurityRole{userRole},
		}
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create security user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return r.cache.DeleteAll(ctx, "physicians_cache")
}

func (r *PhysicianRepository) GetByID(ctx context.Context, id uint) (*models.Physician, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := physicianCacheKey(id)
	cachedPhysician, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		var physician models.Physician
		if err := json.Unmarshal([]byte(cachedPhysician), &physician); err == nil {
			return &physician, nil
		}
	} else if err != cache.Nil {
		log.Printf("Failed to get physician from cache: %v", err)
	}

	var physician models.Physician
	err = r.db.WithContext(ctx).
		Preload("MedicalCertificates").
		Preload("Prescriptions").
		First(&physician, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get physician: %w", err)
	}

	physicianJSON, err := json.Marshal(physician)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal physician: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, physicianJSON, PhysicianCacheExpiry); err != nil {
		log.Printf("Failed to set physician in cache: %v", err)
	}

	return &physician, nil
}

func (r *PhysicianRepository) GetAll(ctx context.Context) ([]models.Physician, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := "physicians_cache"
	cachedPhysicians, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		var physicians []models.Physician
		if err := json.Unmarshal([]byte(cachedPhysicians), &physicians); err == nil {
			return physicians, nil
		}
	} else if err != cache.Nil {
		log.Printf("Failed to get physicians from cache: %v", err)
	}

	var physicians []models.Physician
	err = r.db.WithContext(ctx).Order("created DESC").Find(&physicians).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all physicians: %w", err)
	}

	physiciansJSON, err := json.Marshal(physicians)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal physicians: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, physiciansJSON, PhysicianCacheExpiry); err != nil {
		log.Printf("Failed to set physicians in cache: %v", err)
	}

	return physicians, nil
}

// Update applies a partial update; nil fields keep their stored values.
func (r *PhysicianRepository) Update(ctx context.Context, id uint, updates *models.PhysicianUpdate) (*models.Physician, error) {
	var physician models.Physician
	err := r.db.WithContext(ctx).First(&physician, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get physician: %w", err)
	}

	fields := map[string]interface{}{}
	if updates.FirstName != nil {
		fields["first_name"] = *updates.FirstName
	}
	if updates.LastName != nil {
		fields["last_name"] = *updates.LastName
	}
	if len(fields) > 0 {
		if err := r.db.WithContext(ctx).Model(&physician).Updates(fields).Error; err != nil {
			return nil, fmt.Errorf("failed to update physician: %w", err)
		}
	}

	if err := r.invalidate(ctx, id); err != nil {
		return nil, err
	}
	return &physician, nil
}

// Delete removes the physician together with its security account,
// certificates and prescriptions. A physician without a linked account is
// deleted anyway; the missing account is only logged.
func (r *PhysicianRepository) Delete(ctx context.Context, id uint) (*models.Physician, error) {
	var physician models.Physician
	err := r.db.WithContext(ctx).First(&physician, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get physician: %w", err)
	}

	var username string
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.SecurityUser
		err := tx.Where("physician_id = ?", id).First(&user).Error
		switch {
		case err == nil:
			username = user.Username
			if err := tx.Model(&user).Association("Roles").Clear(); err != nil {
				return fmt.Errorf("failed to clear user roles: %w", err)
			}
			if err := tx.Delete(&user).Error; err != nil {
				return fmt.Errorf("failed to delete security user: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			log.Printf("No security user linked to physician %d; deleting physician only", id)
		default:
			return fmt.Errorf("failed to look up security user: %w", err)
		}

		if err := tx.Where("physician_id = ?", id).Delete(&models.MedicalCertificate{}).Error; err != nil {
			return fmt.Errorf("failed to delete certificates: %w", err)
		}
		if err := tx.Where("physician_id = ?", id).Delete(&models.Prescription{}).Error; err != nil {
			return fmt.Errorf("failed to delete prescriptions: %w", err)
		}
		if err := tx.Delete(&models.Physician{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete physician: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The cached account must go with the row, or a still-valid refresh
	// token keeps resurrecting the deleted login until the entry expires.
	if username != "" {
		if err := r.users.DeleteUserCache(ctx, username); err != nil {
			return nil, err
		}
	}

	if err := r.invalidate(ctx, id); err != nil {
		return nil, err
	}
	return &physician, nil
}

// SetMedicineForPatient updates the medicine on the physician's
// prescription for the given patient. An already-attached medicine is
// mutated in place; otherwise the supplied medicine is persisted and
// attached. Returns nil when the physician or the prescription for the
// pair does not exist.
func (r *PhysicianRepository) SetMedicineForPatient(ctx context.Context, physicianID, patientID uint, newMedicine *models.Medicine) (*models.Medicine, error) {
	var result *models.Medicine
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var physician models.Physician
		err := tx.Preload("Prescriptions").First(&physician, "id = ?", physicianID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // physician absent, result stays nil
			}
			return fmt.Errorf("failed to get physician: %w", err)
		}

		for i := range physician.Prescriptions {
			p := &physician.Prescriptions[i]
			if p.PatientID != patientID {
				continue
			}
			if p.MedicineID != nil {
				var medicine models.Medicine
				if err := tx.First(&medicine, "id = ?", *p.MedicineID).Error; err != nil {
					return fmt.Errorf("failed to get attached medicine: %w", err)
				}
				medicine.DrugName = newMedicine.DrugName
				medicine.ManufacturerName = newMedicine.ManufacturerName
				medicine.DosageInformation = newMedicine.DosageInformation
				if err := tx.Save(&medicine).Error; err != nil {
					return fmt.Errorf("failed to update medicine: %w", err)
				}
				result = &medicine
			} else {
				if err := tx.Create(newMedicine).Error; err != nil {
					return fmt.Errorf("failed to create medicine: %w", err)
				}
				p.MedicineID = &newMedicine.ID
				if err := tx.Save(p).Error; err != nil {
					return fmt.Errorf("failed to attach medicine to prescription: %w", err)
				}
				result = newMedicine
			}
			return nil
		}
		// No prescription for the pair; nothing to attach to.
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	if err := r.cache.DeleteAll(ctx, "medicine_cache:*"); err != nil {
		return nil, err
	}
	if err := r.cache.Delete(ctx, "medicines_cache"); err != nil {
		return nil, err
	}
	if err := r.invalidate(ctx, physicianID); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PhysicianRepository) invalidate(ctx context.Context, id uint) error {
	if err := r.cache.Delete(ctx, physicianCacheKey(id)); err != nil {
		return fmt.Errorf("failed to delete physician cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, "physicians_cache")
}

func physicianCacheKey(id uint) string {
	return fmt.Sprintf("physician_cache:%d", id)
}
