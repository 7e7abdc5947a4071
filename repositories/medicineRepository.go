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
	MedicineCacheExpiry = 24 * time.Hour
)

type MedicineRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewMedicineRepository(db *gorm.DB, cache *cache.Cache) *MedicineRepository {
	return &MedicineRepository{db: db, cache: cache}
}

func (r *MedicineRepository) Create(ctx context.Context, medicine *models.Medicine) error {
	if err := r.db.WithContext(ctx).Create(medicine).Error; err != nil {
		return fmt.Errorf("failed to create medicine: %w", err)
	}
	return r.cache.DeleteAll(ctx, "medicines_cache")
}

func (r *MedicineRepository) GetByID(ctx context.Context, id uint) (*models.Medicine, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getMedicineCacheKey(id)
	cachedMedicine, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		var medicine models.Medicine
		if err := json.Unmarshal([]byte(cachedMedicine), &medicine); err == nil {
			return &medicine, nil
		}
	} else if err != cache.Nil {
		log.Printf("Failed to get medicine from cache: %v", err)
	}

	var medicine models.Medicine
	err = r.db.WithContext(ctx).First(&medicine, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get medicine: %w", err)
	}

	medicineJSON, err := json.Marshal(medicine)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal medicine: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, medicineJSON, MedicineCacheExpiry); err != nil {
		log.Printf("Failed to set medicine in cache: %v", err)
	}

	return &medicine, nil
}

func (r *MedicineRepository) GetAll(ctx context.Context) ([]models.Medicine, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := "medicines_cache"
	cachedMedicines, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		var medicines []models.Medicine
		if err := json.Unmarshal([]byte(cachedMedicines), &medicines); err == nil {
			return medicines, nil
		}
	} else if err != cache.Nil {
		log.Printf("Failed to get medicines from cache: %v", err)
	}

	var medicines []models.Medicine
	err = r.db.WithContext(ctx).Order("created DESC").Find(&medicines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all medicines: %w", err)
	}

	medicinesJSON, err := json.Marshal(medicines)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal medicines: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, medicinesJSON, MedicineCacheExpiry); err != nil {
		log.Printf("Failed to set medicines in cache: %v", err)
	}

	return medicines, nil
}

// Update applies a partial update; nil fields keep their stored values.
func (r *MedicineRepository) Update(ctx context.Context, id uint, updates *models.MedicineUpdate) (*models.Medicine, error) {
	var medicine models.Medicine
	err := r.db.WithContext(ctx).First(&medicine, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get medicine: %w", err)
	}

	fields := map[string]interface{}{}
	if updates.DrugName != nil {
		fields["drug_name"] = *updates.DrugName
	}
	if updates.ManufacturerName != nil {
		fields["manufacturer_name"] = *updates.ManufacturerName
	}
	if updates.DosageInformation != nil {
		fields["dosage_information"] = *updates.DosageInformation
	}
	if updates.ChemicalName != nil {
		fields["chemical_name"] = *updates.ChemicalName
	}
	if updates.GenericName != nil {
		fields["generic_name"] = *updates.GenericName
	}
	if len(fields) > 0 {
		if err := r.db.WithContext(ctx).Model(&medicine).Updates(fields).Error; err != nil {
			return nil, fmt.Errorf("failed to update medicine: %w", err)
		}
	}

	if err := r.invalidate(ctx, id); err != nil {
		return nil, err
	}
	return &medicine, nil
}

// Delete clears the medicine reference on every prescription that held it
// before removing the medicine itself; prescriptions survive the delete.
func (r *MedicineRepository) Delete(ctx context.Context, id uint) (*models.Medicine, error) {
	var medicine models.Medicine
	err := r.db.WithContext(ctx).First(&medicine, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get medicine: %w", err)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Prescription{}).
			Where("medicine_id = ?", id).
			Update("medicine_id", nil).Error; err != nil {
			return fmt.Errorf("failed to unlink prescriptions: %w", err)
		}
		if err := tx.Delete(&models.Medicine{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete medicine: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Unlinking touched prescription rows inside cached physician
	// aggregates.
	if err := r.cache.DeleteAll(ctx, "physician_cache:*"); err != nil {
		return nil, err
	}
	if err := r.invalidate(ctx, id); err != nil {
		return nil, err
	}
	return &medicine, nil
}

func (r *MedicineRepository) invalidate(ctx context.Context, id uint) error {
	if err := r.cache.Delete(ctx, r.getMedicineCacheKey(id)); err != nil {
		return fmt.Errorf("failed to delete medicine cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, "medicines_cache")
}

func (r *MedicineRepository) getMedicineCacheKey(id uint) string {
	return fmt.Sprintf("medicine_cache:%d", id)
}
