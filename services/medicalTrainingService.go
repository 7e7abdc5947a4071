package services

import (
	"context"

	"acmemedical/models"
	"acmemedical/repositories"
)

type MedicalTrainingService struct {
	repository *repositories.MedicalTrainingRepository
}

func NewMedicalTrainingService(repository *repositories.MedicalTrainingRepository) *MedicalTrainingService {
	return &MedicalTrainingService{repository: repository}
}

func (s *MedicalTrainingService) Create(ctx context.Context, training *models.MedicalTraining) error {
	return s.repository.Create(ctx, training)
}

func (s *MedicalTrainingService) GetByID(ctx context.Context, id uint) (*models.MedicalTraining, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *MedicalTrainingService) GetAll(ctx context.Context) ([]models.MedicalTraining, error) {
	return s.repository.GetAll(ctx)
}

func (s *MedicalTrainingService) Update(ctx context.Context, id uint, updates *models.MedicalTrainingUpdate) (*models.MedicalTraining, error) {
	return s.repository.Update(ctx, id, updates)
}

func (s *MedicalTrainingService) Delete(ctx context.Context, id uint) (*models.MedicalTraining, error) {
	return s.repository.Delete(ctx, id)
}
