package repositories

import (
	"context"
	"errors"
	"fmt"

	"acmemedical/cache"
	"acmemedical/models"

	"gorm.io/gorm"
)

type PrescriptionRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewPrescriptionRepository(db *gorm.DB, cache *cache.Cache) *PrescriptionRepository {
	return &PrescriptionRepository{db: db, cache: cache}
}

// Create persists a prescription after resolving the physician, patient
// and (optional) medicine references to stored rows. A second prescription
// for the same (physician, patient) pair conflicts.
func (r *PrescriptionRepository) Create(ctx context.Context, prescription *models.Prescription) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var physician models.Physician
		if err := tx.First(&physician, "id = ?", prescription.PhysicianID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidReference
			}
			return fmt.Errorf("failed to resolve physician: %w", err)
		}
		var patient models.Patient
		if err := tx.First(&patient, "id = ?", prescription.PatientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidReference
			}
			return fmt.Errorf("failed to resolve patient: %w", err)
		}
		if prescription.MedicineID != nil {
			var medicine models.Medicine
			if err := tx.First(&medicine, "id = ?", *prescription.MedicineID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrInvalidReference
				}
				return fmt.Errorf("failed to resolve medicine: %w", err)
			}
		}

		var count int64
		if err := tx.Model(&models.Prescription{}).
			Where("physician_id = ? AND patient_id = ?", prescription.PhysicianID, prescription.PatientID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check for existing prescription: %w", err)
		}
		if count > 0 {
			return ErrDuplicatePrescription
		}

		if err := tx.Omit("Physician", "Patient", "Medicine").Create(prescription).Error; err != nil {
			return fmt.Errorf("failed to create prescription: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return r.invalidatePhysician(ctx, prescription.PhysicianID)
}

func (r *PrescriptionRepository) GetByKey(ctx context.Context, key models.PrescriptionKey) (*models.Prescription, error) {
	var prescription models.Prescription
	err := r.db.WithContext(ctx).
		Preload("Physician").
		Preload("Patient").
		Preload("Medicine").
		Where("physician_id = ? AND patient_id = ?", key.PhysicianID, key.PatientID).
		First(&prescription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}
	return &prescription, nil
}

func (r *PrescriptionRepository) GetAll(ctx context.Context) ([]models.Prescription, error) {
	var prescriptions []models.Prescription
	err := r.db.WithContext(ctx).
		Preload("Physician").
		Preload("Patient").
		Preload("Medicine").
		Find(&prescriptions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all prescriptions: %w", err)
	}
	return prescriptions, nil
}

// Update applies a partial update to the prescription for the composite key.
func (r *PrescriptionRepository) Update(ctx context.Context, key models.PrescriptionKey, updates *models.PrescriptionUpdate) (*models.Prescription, error) {
	var prescription models.Prescription
	err := r.db.WithContext(ctx).
		Where("physician_id = ? AND patient_id = ?", key.PhysicianID, key.PatientID).
		First(&prescription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if updates.MedicineID != nil {
			var medicine models.Medicine
			if err := tx.First(&medicine, "id = ?", *updates.MedicineID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrInvalidReference
				}
				return fmt.Errorf("failed to resolve medicine: %w", err)
			}
			prescription.MedicineID = &medicine.ID
		}
		if updates.NumberOfRefills != nil {
			prescription.NumberOfRefills = *updates.NumberOfRefills
		}
		if updates.PrescriptionInformation != nil {
			prescription.PrescriptionInformation = *updates.PrescriptionInformation
		}

		if err := tx.Omit("Physician", "Patient", "Medicine").Save(&prescription).Error; err != nil {
			return fmt.Errorf("failed to update prescription: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := r.invalidatePhysician(ctx, key.PhysicianID); err != nil {
		return nil, err
	}
	return &prescription, nil
}

func (r *PrescriptionRepository) Delete(ctx context.Context, key models.PrescriptionKey) (*models.Prescription, error) {
	var prescription models.Prescription
	err := r.db.WithContext(ctx).
		Where("physician_id = ? AND patient_id = ?", key.PhysicianID, key.PatientID).
		First(&prescription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}

	err = r.db.WithContext(ctx).
		Where("physician_id = ? AND patient_id = ?", key.PhysicianID, key.PatientID).
		Delete(&models.Prescription{}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to delete prescription: %w", err)
	}

	if err := r.invalidatePhysician(ctx, key.PhysicianID); err != nil {
		return nil, err
	}
	return &prescription, nil
}

// Prescriptions ride along on the cached physician aggregate, so every
// write here evicts the physician's entry.
func (r *PrescriptionRepository) invalidatePhysician(ctx context.Context, physicianID uint) error {
	return r.cache.Delete(ctx, physicianCacheKey(physicianID))
}
