package services

import (
	"context"

	"acmemedical/models"
	"acmemedical/repositories"
)

type PhysicianService struct {
	repository *repositories.PhysicianRepository
}

func NewPhysicianService(repository *repositories.PhysicianRepository) *PhysicianService {
	return &PhysicianService{repository: repository}
}

func (s *PhysicianService) Create(ctx context.Context, physician *models.Physician) error {
	return s.repository.Create(ctx, physician)
}

func (s *PhysicianService) GetByID(ctx context.Context, id uint) (*models.Physician, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *PhysicianService) GetAll(ctx context.Context) ([]models.Physician, error) {
	return s.repository.GetAll(ctx)
}

func (s *PhysicianService) Update(ctx context.Context, id uint, updates *models.PhysicianUpdate) (*models.Physician, error) {
	return s.repository.Update(ctx, id, updates)
}

func (s *PhysicianService) Delete(ctx context.Context, id uint) (*models.Physician, error) {
	return s.repository.Delete(ctx, id)
}

func (s *PhysicianService) SetMedicineForPatient(ctx context.Context, physicianID, patientID uint, medicine *models.Medicine) (*models.Medicine, error) {
	return s.repository.SetMedicineForPatient(ctx, physicianID, patientID, medicine)
}
