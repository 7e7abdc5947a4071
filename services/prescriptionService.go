package services

import (
	"context"

	"acmemedical/models"
	"acmemedical/repositories"
)

type PrescriptionService struct {
	repository *repositories.PrescriptionRepository
}

func NewPrescriptionService(repository *repositories.PrescriptionRepository) *PrescriptionService {
	return &PrescriptionService{repository: repository}
}

func (s *PrescriptionService) Create(ctx context.Context, prescription *models.Prescription) error {
	return s.repository.Create(ctx, prescription)
}

func (s *PrescriptionService) GetByKey(ctx context.Context, key models.PrescriptionKey) (*models.Prescription, error) {
	return s.repository.GetByKey(ctx, key)
}

func (s *PrescriptionService) GetAll(ctx context.Context) ([]models.Prescription, error) {
	return s.repository.GetAll(ctx)
}

func (s *PrescriptionService) Update(ctx context.Context, key models.PrescriptionKey, updates *models.PrescriptionUpdate) (*models.Prescription, error) {
	return s.repository.Update(ctx, key, updates)
}

func (s *PrescriptionService) Delete(ctx context.Context, key models.PrescriptionKey) (*models.Prescription, error) {
	return s.repository.Delete(ctx, key)
}
