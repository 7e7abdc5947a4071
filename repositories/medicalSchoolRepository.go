package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"acmemedical/cache"
	"acmemedical/database"
	"acmemedical/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MedicalSchoolRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewMedicalSchoolRepository(db *gorm.DB, cache *cache.Cache) *MedicalSchoolRepository {
	return &MedicalSchoolRepository{db: db, cache: cache}
}

// IsDuplicated reports whether a school with the given name already exists.
// Callers must check this before persisting so a constraint violation never
// leaks out as a 500.
func (r *MedicalSchoolRepository) IsDuplicated(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.MedicalSchool{}).Where("name = ?", name).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check school name: %w", err)
	}
	return count >= 1, nil
}

// Create persists a school after the duplicate-name check. The name lock
// closes the window between check and insert.
func (r *MedicalSchoolRepository) Create(ctx context.Context, school *models.MedicalSchool) error {
	lockKey := fmt.Sprintf("school_lock:%s", school.Name)
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

	duplicated, err := r.IsDuplicated(ctx, school.Name)
	if err != nil {
		return err
	}
	if duplicated {
		return ErrDuplicateSchoolName
	}

	school.NormalizeType()
	if err := r.db.WithContext(ctx).Create(school).Error; err != nil {
		return fmt.Errorf("failed to create medical school: %w", err)
	}
	return nil
}

func (r *MedicalSchoolRepository) GetByID(ctx context.Context, id uint) (*models.MedicalSchool, error) {
	var school models.MedicalSchool
	err := r.db.WithContext(ctx).
		Preload("MedicalTrainings").
		First(&school, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get medical school: %w", err)
	}
	school.NormalizeType()
	return &school, nil
}

func (r *MedicalSchoolRepository) GetAll(ctx context.Context) ([]models.MedicalSchool, error) {
	var schools []models.MedicalSchool
	err := r.db.WithContext(ctx).Order("name ASC").Find(&schools).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all medical schools: %w", err)
	}
	for i := range schools {
		schools[i].NormalizeType()
	}
	return schools, nil
}

// Update renames the school; a rename onto an existing name conflicts.
func (r *MedicalSchoolRepository) Update(ctx context.Context, id uint, name string) (*models.MedicalSchool, error) {
	var school models.MedicalSchool
	err := r.db.WithContext(ctx).First(&school, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get medical school: %w", err)
	}

	if name != school.Name {
		duplicated, err := r.IsDuplicated(ctx, name)
		if err != nil {
			return nil, err
		}
		if duplicated {
			return nil, ErrDuplicateSchoolName
		}
		if err := r.db.WithContext(ctx).Model(&school).Update("name", name).Error; err != nil {
			return nil, fmt.Errorf("failed to update medical school: %w", err)
		}
	}
	school.NormalizeType()
	return &school, nil
}

// Delete removes the school and its trainings. Every training with an
// attached certificate is unlinked on both sides first, so no certificate
// is left pointing at a removed training.
func (r *MedicalSchoolRepository) Delete(ctx context.Context, id uint) (*models.MedicalSchool, error) {
	var school models.MedicalSchool
	err := r.db.WithContext(ctx).Preload("MedicalTrainings").First(&school, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get medical school: %w", err)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range school.MedicalTrainings {
			training := &school.MedicalTrainings[i]
			if training.CertificateID != nil {
				if err := tx.Model(&models.MedicalCertificate{}).
					Where("id = ?", *training.CertificateID).
					Update("training_id", nil).Error; err != nil {
					return fmt.Errorf("failed to unlink certificate: %w", err)
				}
				training.CertificateID = nil
				if err := tx.Model(training).Update("certificate_id", nil).Error; err != nil {
					return fmt.Errorf("failed to unlink training: %w", err)
				}
			}
			// Certificates linked only from their own side.
			if err := tx.Model(&models.MedicalCertificate{}).
				Where("training_id = ?", training.ID).
				Update("training_id", nil).Error; err != nil {
				return fmt.Errorf("failed to unlink certificate: %w", err)
			}
		}

		if err := tx.Where("school_id = ?", id).Delete(&models.MedicalTraining{}).Error; err != nil {
			return fmt.Errorf("failed to delete trainings: %w", err)
		}
		if err := tx.Delete(&models.MedicalSchool{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete medical school: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	school.NormalizeType()
	return &school, nil
}
