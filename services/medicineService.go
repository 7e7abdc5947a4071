package services

import (
	"context"

	"acmemedical/models"
	"acmemedical/repositories"
)

type MedicineService struct {
	repository *repositories.MedicineRepository
}

func NewMedicineService(repository *repositories.MedicineRepository) *MedicineService {
	return &MedicineService{repository: repository}
}

func (s *MedicineService) Create(ctx context.Context, medicine *models.Medicine) error {
	return s.repository.Create(ctx, medicine)
}

func (s *MedicineService) GetByID(ctx context.Context, id uint) (*models.Medicine, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *MedicineService) GetAll(ctx context.Context) ([]models.Medicine, error) {
	return s.repository.GetAll(ctx)
}

func (s *MedicineService) Update(ctx context.Context, id uint, updates *models.MedicineUpdate) (*models.Medicine, error) {
	return s.repository.Update(ctx, id, updates)
}

func (s *MedicineService) Delete(ctx context.Context, id uint) (*models.Medicine, error) {
	return s.repository.Delete(ctx, id)
}
