package repositories

import (
	"context"
	"errors"
	"fmt"

	"acmemedical/models"

	"gorm.io/gorm"
)

type MedicalTrainingRepository struct {
	db *gorm.DB
}

func NewMedicalTrainingRepository(db *gorm.DB) *MedicalTrainingRepository {
	return &MedicalTrainingRepository{db: db}
}

// Create persists a training. The school reference (and the optional
// certificate reference) are resolved to stored rows before attaching;
// attaching an unresolved reference is never allowed.
func (r *MedicalTrainingRepository) Create(ctx context.Context, training *models.MedicalTraining) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var school models.MedicalSchool
		if err := tx.First(&school, "id = ?", training.SchoolID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidReference
			}
			return fmt.Errorf("failed to resolve school: %w", err)
		}
		training.School = &school

		if training.CertificateID != nil {
			var certificate models.MedicalCertificate
			if err := tx.First(&certificate, "id = ?", *training.CertificateID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrInvalidReference
				}
				return fmt.Errorf("failed to resolve certificate: %w", err)
			}
		}

		if err := tx.Omit("School", "Certificate").Create(training).Error; err != nil {
			return fmt.Errorf("failed to create medical training: %w", err)
		}

		if training.CertificateID != nil {
			if err := tx.Model(&models.MedicalCertificate{}).
				Where("id = ?", *training.CertificateID).
				Update("training_id", training.ID).Error; err != nil {
				return fmt.Errorf("failed to link certificate: %w", err)
			}
		}
		return nil
	})
}

func (r *MedicalTrainingRepository) GetByID(ctx context.Context, id uint) (*models.MedicalTraining, error) {
	var training models.MedicalTraining
	err := r.db.WithContext(ctx).
		Preload("School").
		Preload("Certificate").
		First(&training, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get medical training: %w", err)
	}
	if training.School != nil {
		training.School.NormalizeType()
	}
	return &training, nil
}

func (r *MedicalTrainingRepository) GetAll(ctx context.Context) ([]models.MedicalTraining, error) {
	var trainings []models.MedicalTraining
	err := r.db.WithContext(ctx).Preload("School").Find(&trainings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all medical trainings: %w", err)
	}
	for i := range trainings {
		if trainings[i].School != nil {
			trainings[i].School.NormalizeType()
		}
	}
	return trainings, nil
}

// Update applies a partial update. Supplied school/certificate references
// are re-fetched by id and attached as stored rows.
func (r *MedicalTrainingRepository) Update(ctx context.Context, id uint, updates *models.MedicalTrainingUpdate) (*models.MedicalTraining, error) {
	var training models.MedicalTraining
	err := r.db.WithContext(ctx).First(&training, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get medical training: %w", err)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if updates.SchoolID != nil {
			var school models.MedicalSchool
			if err := tx.First(&school, "id = ?", *updates.SchoolID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrInvalidReference
				}
				return fmt.Errorf("failed to resolve school: %w", err)
			}
			training.SchoolID = school.ID
		}

		if updates.CertificateID != nil {
			var certificate models.MedicalCertificate
			if err := tx.First(&certificate, "id = ?", *updates.CertificateID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrInvalidReference
				}
				return fmt.Errorf("failed to resolve certificate: %w", err)
			}
			// Relinking must not leave either previous counterpart
			// pointing at a row that moved on.
			if err := tx.Model(&models.MedicalCertificate{}).
				Where("training_id = ? AND id <> ?", training.ID, certificate.ID).
				Update("training_id", nil).Error; err != nil {
				return fmt.Errorf("failed to unlink previous certificate: %w", err)
			}
			if err := tx.Model(&models.MedicalTraining{}).
				Where("certificate_id = ? AND id <> ?", certificate.ID, training.ID).
				Update("certificate_id", nil).Error; err != nil {
				return fmt.Errorf("failed to unlink previous training: %w", err)
			}
			training.CertificateID = &certificate.ID
			if err := tx.Model(&certificate).Update("training_id", training.ID).Error; err != nil {
				return fmt.Errorf("failed to link certificate: %w", err)
			}
		}

		if updates.DurationAndStatus != nil {
			ds := updates.DurationAndStatus
			if ds.StartDate != nil {
				training.DurationAndStatus.StartDate = *ds.StartDate
			}
			if ds.EndDate != nil {
				training.DurationAndStatus.EndDate = *ds.EndDate
			}
			if ds.Active != nil {
				training.DurationAndStatus.Active = *ds.Active
			}
		}

		if err := tx.Omit("School", "Certificate").Save(&training).Error; err != nil {
			return fmt.Errorf("failed to update medical training: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &training, nil
}

// Delete unlinks the certificate on both sides and detaches the training
// from its school before removing it.
func (r *MedicalTrainingRepository) Delete(ctx context.Context, id uint) (*models.MedicalTraining, error) {
	var training models.MedicalTraining
	err := r.db.WithContext(ctx).First(&training, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get medical training: %w", err)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.MedicalCertificate{}).
			Where("training_id = ?", id).
			Update("training_id", nil).Error; err != nil {
			return fmt.Errorf("failed to unlink certificate: %w", err)
		}
		if training.CertificateID != nil {
			if err := tx.Model(&training).Update("certificate_id", nil).Error; err != nil {
				return fmt.Errorf("failed to clear certificate link: %w", err)
			}
		}
		if err := tx.Delete(&models.MedicalTraining{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete medical training: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &training, nil
}
