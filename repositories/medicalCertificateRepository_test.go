package repositories

import (
	"context"
	"errors"
	"testing"

	"acmemedical/models"
)

func TestMedicalCertificateCreateRequiresOwner(t *testing.T) {
	db, c := setupTestDB(t)
	repo := NewMedicalCertificateRepository(db, c)

	err := repo.Create(context.Background(), &models.MedicalCertificate{OwnerID: 999})
	if !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("err = %v, want ErrInvalidReference", err)
	}
}

func TestMedicalCertificateCreateLinksTraining(t *testing.T) {
	db, c := setupTestDB(t)
	cfg := testConfig()
	repo := NewMedicalCertificateRepository(db, c)
	physician := mustCreatePhysician(t, db, c, cfg, "Jane", "Doe")

	school := &models.MedicalSchool{Name: "School A", SchoolType: models.SchoolTypePublic}
	if err := db.Create(school).Error; err != nil {
		t.Fatalf("create school: %v", err)
	}
	training := &models.MedicalTraining{SchoolID: school.ID}
	if err := db.Create(training).Error; err != nil {
		t.Fatalf("create training: %v", err)
	}

	certificate := &models.MedicalCertificate{OwnerID: physician.ID, TrainingID: &training.ID, Signed: 1}
	if err := repo.Create(context.Background(), certificate); err != nil {
		t.Fatalf("create certificate: %v", err)
	}

	var storedTraining models.MedicalTraining
	if err := db.First(&storedTraining, training.ID).Error; err != nil {
		t.Fatalf("reload training: %v", err)
	}
	if storedTraining.CertificateID == nil || *storedTraining.CertificateID != certificate.ID {
		t.Error("training not linked back to the certificate")
	}
}

func TestMedicalCertificateRelinkClearsPreviousTraining(t *testing.T) {
	db, c := setupTestDB(t)
	cfg := testConfig()
	repo := NewMedicalCertificateRepository(db, c)
	physician := mustCreatePhysician(t, db, c, cfg, "Jane", "Doe")

	school := &models.MedicalSchool{Name: "School A", SchoolType: models.SchoolTypePublic}
	if err := db.Create(school).Error; err != nil {
		t.Fatalf("create school: %v", err)
	}
	first := &models.MedicalTraining{SchoolID: school.ID}
	if err := db.Create(first).Error; err != nil {
		t.Fatalf("create first training: %v", err)
	}
	second := &models.MedicalTraining{SchoolID: school.ID}
	if err := db.Create(second).Error; err != nil {
		t.Fatalf("create second training: %v", err)
	}
	certificate := &models.MedicalCertificate{OwnerID: physician.ID, TrainingID: &first.ID}
	if err := repo.Create(context.Background(), certificate); err != nil {
		t.Fatalf("create certificate: %v", err)
	}

	if _, err := repo.Update(context.Background(), certificate.ID, &models.MedicalCertificateUpdate{TrainingID: &second.ID}); err != nil {
		t.Fatalf("relink certificate: %v", err)
	}

	var stale models.MedicalTraining
	if err := db.First(&stale, first.ID).Error; err != nil {
		t.Fatalf("reload first training: %v", err)
	}
	if stale.CertificateID != nil {
		t.Errorf("first training still references certificate %d after relink", *stale.CertificateID)
	}

	var current models.MedicalTraining
	if err := db.First(&current, second.ID).Error; err != nil {
		t.Fatalf("reload second training: %v", err)
	}
	if current.CertificateID == nil || *current.CertificateID != certificate.ID {
		t.Error("second training not linked back to the certificate")
	}
}

func TestMedicalCertificateDeleteClearsTrainingLink(t *testing.T) {
	db, c := setupTestDB(t)
	cfg := testConfig()
	repo := NewMedicalCertificateRepository(db, c)
	physician := mustCreatePhysician(t, db, c, cfg, "Jane", "Doe")

	school := &models.MedicalSchool{Name: "School A", SchoolType: models.SchoolTypePublic}
	if err := db.Create(school).Error; err != nil {
		t.Fatalf("create school: %v", err)
	}
	training := &models.MedicalTraining{SchoolID: school.ID}
	if err := db.Create(training).Error; err != nil {
		t.Fatalf("create training: %v", err)
	}
	certificate := &models.MedicalCertificate{OwnerID: physician.ID, TrainingID: &training.ID}
	if err := repo.Create(context.Background(), certificate); err != nil {
		t.Fatalf("create certificate: %v", err)
	}

	deleted, err := repo.Delete(context.Background(), certificate.ID)
	if err != nil {
		t.Fatalf("delete certificate: %v", err)
	}
	if deleted == nil {
		t.Fatal("delete returned nil for an existing certificate")
	}

	var storedTraining models.MedicalTraining
	if err := db.First(&storedTraining, training.ID).Error; err != nil {
		t.Fatalf("training must survive the certificate delete: %v", err)
	}
	if storedTraining.CertificateID != nil {
		t.Errorf("training still references removed certificate %d", *storedTraining.CertificateID)
	}
}
