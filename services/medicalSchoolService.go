package services

import (
	"context"

	"acmemedical/models"
	"acmemedical/repositories"
)

type MedicalSchoolService struct {
	repository *repositories.MedicalSchoolRepository
}

func NewMedicalSchoolService(repository *repositories.MedicalSchoolRepository) *MedicalSchoolService {
	return &MedicalSchoolService{repository: repository}
}

func (s *MedicalSchoolService) IsDuplicated(ctx context.Context, name string) (bool, error) {
	return s.repository.IsDuplicated(ctx, name)
}

func (s *MedicalSchoolService) Create(ctx context.Context, school *models.MedicalSchool) error {
	return s.repository.Create(ctx, school)
}

func (s *MedicalSchoolService) GetByID(ctx context.Context, id uint) (*models.MedicalSchool, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *MedicalSchoolService) GetAll(ctx context.Context) ([]models.MedicalSchool, error) {
	return s.repository.GetAll(ctx)
}

func (s *MedicalSchoolService) Update(ctx context.Context, id uint, name string) (*models.MedicalSchool, error) {
	return s.repository.Update(ctx, id, name)
}

func (s *MedicalSchoolService) Delete(ctx context.Context, id uint) (*models.MedicalSchool, error) {
	return s.repository.Delete(ctx, id)
}
