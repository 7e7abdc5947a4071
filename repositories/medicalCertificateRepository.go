package repositories

import (
	"context"
	"errors"
	"fmt"

	"acmemedical/cache"
	"acmemedical/models"

	"gorm.io/gorm"
)

type MedicalCertificateRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewMedicalCertificateRepository(db *gorm.DB, cache *cache.Cache) *MedicalCertificateRepository {
	return &MedicalCertificateRepository{db: db, cache: cache}
}

// Create persists a certificate. The owning physician is mandatory and is
// resolved to a stored row; the training link is optional.
func (r *MedicalCertificateRepository) Create(ctx context.Context, certificate *models.MedicalCertificate) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner models.Physician
		if err := tx.First(&owner, "id = ?", certificate.OwnerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidReference
			}
			return fmt.Errorf("failed to resolve owner: %w", err)
		}

		if certificate.TrainingID != nil {
			var training models.MedicalTraining
			if err := tx.First(&training, "id = ?", *certificate.TrainingID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrInvalidReference
				}
				return fmt.Errorf("failed to resolve training: %w", err)
			}
		}

		if err := tx.Omit("Owner", "Training").Create(certificate).Error; err != nil {
			return fmt.Errorf("failed to create medical certificate: %w", err)
		}

		if certificate.TrainingID != nil {
			if err := tx.Model(&models.MedicalTraining{}).
				Where("id = ?", *certificate.TrainingID).
				Update("certificate_id", certificate.ID).Error; err != nil {
				return fmt.Errorf("failed to link training: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return r.invalidateOwner(ctx, certificate.OwnerID)
}

func (r *MedicalCertificateRepository) GetByID(ctx context.Context, id uint) (*models.MedicalCertificate, error) {
	var certificate models.MedicalCertificate
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Training").
		First(&certificate, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get medical certificate: %w", err)
	}
	return &certificate, nil
}

func (r *MedicalCertificateRepository) GetAll(ctx context.Context) ([]models.MedicalCertificate, error) {
	var certificates []models.MedicalCertificate
	err := r.db.WithContext(ctx).Preload("Owner").Find(&certificates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all medical certificates: %w", err)
	}
	return certificates, nil
}

// Update applies a partial update; owner/training references are resolved
// to stored rows before attaching.
func (r *MedicalCertificateRepository) Update(ctx context.Context, id uint, updates *models.MedicalCertificateUpdate) (*models.MedicalCertificate, error) {
	var certificate models.MedicalCertificate
	err := r.db.WithContext(ctx).First(&certificate, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get medical certificate: %w", err)
	}
	originalOwnerID := certificate.OwnerID

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if updates.OwnerID != nil {
			var owner models.Physician
			if err := tx.First(&owner, "id = ?", *updates.OwnerID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrInvalidReference
				}
				return fmt.Errorf("failed to resolve owner: %w", err)
			}
			certificate.OwnerID = owner.ID
		}

		if updates.TrainingID != nil {
			var training models.MedicalTraining
			if err := tx.First(&training, "id = ?", *updates.TrainingID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrInvalidReference
				}
				return fmt.Errorf("failed to resolve training: %w", err)
			}
			// Relinking must not leave either previous counterpart
			// pointing at a row that moved on.
			if err := tx.Model(&models.MedicalTraining{}).
				Where("certificate_id = ? AND id <> ?", certificate.ID, training.ID).
				Update("certificate_id", nil).Error; err != nil {
				return fmt.Errorf("failed to unlink previous training: %w", err)
			}
			if err := tx.Model(&models.MedicalCertificate{}).
				Where("training_id = ? AND id <> ?", training.ID, certificate.ID).
				Update("training_id", nil).Error; err != nil {
				return fmt.Errorf("failed to unlink previous certificate: %w", err)
			}
			certificate.TrainingID = &training.ID
			if err := tx.Model(&training).Update("certificate_id", certificate.ID).Error; err != nil {
				return fmt.Errorf("failed to link training: %w", err)
			}
		}

		if updates.Signed != nil {
			certificate.Signed = *updates.Signed
		}

		if err := tx.Omit("Owner", "Training").Save(&certificate).Error; err != nil {
			return fmt.Errorf("failed to update medical certificate: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := r.invalidateOwner(ctx, originalOwnerID); err != nil {
		return nil, err
	}
	if certificate.OwnerID != originalOwnerID {
		if err := r.invalidateOwner(ctx, certificate.OwnerID); err != nil {
			return nil, err
		}
	}
	return &certificate, nil
}

// Delete removes the certificate after clearing any training link to it.
func (r *MedicalCertificateRepository) Delete(ctx context.Context, id uint) (*models.MedicalCertificate, error) {
	var certificate models.MedicalCertificate
	err := r.db.WithContext(ctx).First(&certificate, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get medical certificate: %w", err)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.MedicalTraining{}).
			Where("certificate_id = ?", id).
			Update("certificate_id", nil).Error; err != nil {
			return fmt.Errorf("failed to unlink training: %w", err)
		}
		if err := tx.Delete(&models.MedicalCertificate{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete medical certificate: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := r.invalidateOwner(ctx, certificate.OwnerID); err != nil {
		return nil, err
	}
	return &certificate, nil
}

// Certificates ride along on the cached physician aggregate, so every
// write here evicts the owner's entry.
func (r *MedicalCertificateRepository) invalidateOwner(ctx context.Context, ownerID uint) error {
	return r.cache.Delete(ctx, physicianCacheKey(ownerID))
}
