package services

import (
	"context"

	"acmemedical/models"
	"acmemedical/repositories"
)

type MedicalCertificateService struct {
	repository *repositories.MedicalCertificateRepository
}

func NewMedicalCertificateService(repository *repositories.MedicalCertificateRepository) *MedicalCertificateService {
	return &MedicalCertificateService{repository: repository}
}

func (s *MedicalCertificateService) Create(ctx context.Context, certificate *models.MedicalCertificate) error {
	return s.repository.Create(ctx, certificate)
}

func (s *MedicalCertificateService) GetByID(ctx context.Context, id uint) (*models.MedicalCertificate, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *MedicalCertificateService) GetAll(ctx context.Context) ([]models.MedicalCertificate, error) {
	return s.repository.GetAll(ctx)
}

func (s *MedicalCertificateService) Update(ctx context.Context, id uint, updates *models.MedicalCertificateUpdate) (*models.MedicalCertificate, error) {
	return s.repository.Update(ctx, id, updates)
}

func (s *MedicalCertificateService) Delete(ctx context.Context, id uint) (*models.MedicalCertificate, error) {
	return s.repository.Delete(ctx, id)
}
