package repositories

import (
	"context"
	"errors"
	"testing"

	"acmemedical/models"
	"acmemedical/utils"
)

func TestPhysicianCreateProvisionsSecurityUser(t *testing.T) {
	db, c := setupTestDB(t)
	cfg := testConfig()
	repo := NewPhysicianRepository(db, c, cfg, NewUserRepository(db, c))

	physician := &models.Physician{FirstName: "Jane", LastName: "Doe"}
	if err := repo.Create(context.Background(), physician); err != nil {
		t.Fatalf("create physician: %v", err)
	}
	if physician.ID == 0 {
		t.Fatal("expected physician id to be assigned")
	}

	var user models.SecurityUser
	if err := db.Preload("Roles").Where("physician_id = ?", physician.ID).First(&user).Error; err != nil {
		t.Fatalf("load provisioned user: %v", err)
	}
	if want := "phys_Jane.Doe"; user.Username != want {
		t.Errorf("username = %q, want %q", user.Username, want)
	}
	if !user.HasRole(models.UserRole) {
		t.Errorf("provisioned user missing %s role, got %v", models.UserRole, user.RoleNames())
	}
	if !utils.CheckPassword(user.PwHash, cfg.DefaultUserPassword) {
		t.Error("provisioned user password does not verify against the default")
	}
}

func TestPhysicianCreateRejectsDuplicateUsername(t *testing.T) {
	db, c := setupTestDB(t)
	cfg := testConfig()
	repo := NewPhysicianRepository(db, c, cfg, NewUserRepository(db, c))

	if err := repo.Create(context.Background(), &models.Physician{FirstName: "Jane", LastName: "Doe"}); err != nil {
		t.Fatalf("create first physician: %v", err)
	}
	err := repo.Create(context.Background(), &models.Physician{FirstName: "Jane", LastName: "Doe"})
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("err = %v, want ErrDuplicateUsername", err)
	}

	var count int64
	if err := db.Model(&models.Physician{}).Count(&count).Error; err != nil {
		t.Fatalf("count physicians: %v", err)
	}
	if count != 1 {
		t.Errorf("physician count = %d, want 1; duplicate create must roll back", count)
	}
}

func TestPhysicianCreateFailsWithoutUserRole(t *testing.T) {
	db, c := setupTestDB(t)
	if err := db.Where("name = ?", models.UserRole).Delete(&models.SecurityRole{}).Error; err != nil {
		t.Fatalf("remove role: %v", err)
	}
	repo := NewPhysicianRepository(db, c, testConfig(), NewUserRepository(db, c))

	err := repo.Create(context.Background(), &models.Physician{FirstName: "Jane", LastName: "Doe"})
	if !errors.Is(err, ErrUserRoleMissing) {
		t.Fatalf("err = %v, want ErrUserRoleMissing", err)
	}
}

func TestPhysicianGetByIDNotFound(t *testing.T) {
	db, c := setupTestDB(t)
	repo := NewPhysicianRepository(db, c, testConfig(), NewUserRepository(db, c))

	physician, err := repo.GetByID(context.Background(), 999)
	if err != nil {
		t.Fatalf("get physician: %v", err)
	}
	if physician != nil {
		t.Errorf("expected nil for an absent physician, got %+v", physician)
	}
}

func TestPhysicianPartialUpdate(t *testing.T) {
	db, c := setupTestDB(t)
	cfg := testConfig()
	repo := NewPhysicianRepository(db, c, cfg, NewUserRepository(db, c))
	physician := mustCreatePhysician(t, db, c, cfg, "Jane", "Doe")

	last := "Smith"
	updated, err := repo.Update(context.Background(), physician.ID, &models.PhysicianUpdate{LastName: &last})
	if err != nil {
		t.Fatalf("update physician: %v", err)
	}
	if updated == nil {
		t.Fatal("update returned nil for an existing physician")
	}

	var stored models.Physician
	if err := db.First(&stored, physician.ID).Error; err != nil {
		t.Fatalf("reload physician: %v", err)
	}
	if stored.FirstName != "Jane" || stored.LastName != "Smith" {
		t.Errorf("stored = %s %s, want Jane Smith", stored.FirstName, stored.LastName)
	}
}

func TestPhysicianDeleteRemovesAccountAndDependents(t *testing.T) {
	db, c := setupTestDB(t)
	cfg := testConfig()
	repo := NewPhysicianRepository(db, c, cfg, NewUserRepository(db, c))
	physician := mustCreatePhysician(t, db, c, cfg, "Jane", "Doe")
	patient := mustCreatePatient(t, db, &models.Patient{FirstName: "Pat", LastName: "Ient", YearOfBirth: 1980})

	if err := db.Create(&models.MedicalCertificate{OwnerID: physician.ID, Signed: 1}).Error; err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	if err := db.Create(&models.Prescription{PhysicianID: physician.ID, PatientID: patient.ID}).Error; err != nil {
		t.Fatalf("create prescription: %v", err)
	}

	deleted, err := repo.Delete(context.Background(), physician.ID)
	if err != nil {
		t.Fatalf("delete physician: %v", err)
	}
	if deleted == nil {
		t.Fatal("delete returned nil for an existing physician")
	}

	var users, certs, prescriptions int64
	db.Model(&models.SecurityUser{}).Where("physician_id = ?", physician.ID).Count(&users)
	db.Model(&models.MedicalCertificate{}).Where("physician_id = ?", physician.ID).Count(&certs)
	db.Model(&models.Prescription{}).Where("physician_id = ?", physician.ID).Count(&prescriptions)
	if users != 0 || certs != 0 || prescriptions != 0 {
		t.Errorf("leftovers after delete: users=%d certs=%d prescriptions=%d", users, certs, prescriptions)
	}
}

func TestPhysicianDeleteEvictsCachedAccount(t *testing.T) {
	db, c := setupTestDB(t)
	cfg := testConfig()
	users := NewUserRepository(db, c)
	repo := NewPhysicianRepository(db, c, cfg, users)
	physician := mustCreatePhysician(t, db, c, cfg, "Jane", "Doe")

	// Warm the account cache the way a token refresh does.
	user, err := users.GetUserByUsername(context.Background(), "phys_Jane.Doe")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user == nil {
		t.Fatal("provisioned user not found")
	}

	if _, err := repo.Delete(context.Background(), physician.ID); err != nil {
		t.Fatalf("delete physician: %v", err)
	}

	user, err = users.GetUserByUsername(context.Background(), "phys_Jane.Doe")
	if err != nil {
		t.Fatalf("get user after delete: %v", err)
	}
	if user != nil {
		t.Errorf("deleted account still resolvable from cache: %+v", user)
	}
}

func TestPhysicianAggregateRefreshesAfterDependentWrites(t *testing.T) {
	db, c := setupTestDB(t)
	cfg := testConfig()
	repo := NewPhysicianRepository(db, c, cfg, NewUserRepository(db, c))
	physician := mustCreatePhysician(t, db, c, cfg, "Jane", "Doe")
	patient := mustCreatePatient(t, db, &models.Patient{FirstName: "Pat", LastName: "Ient", YearOfBirth: 1980})

	// Warm the aggregate cache while the physician has no dependents.
	warmed, err := repo.GetByID(context.Background(), physician.ID)
	if err != nil {
		t.Fatalf("get physician: %v", err)
	}
	if len(warmed.MedicalCertificates) != 0 || len(warmed.Prescriptions) != 0 {
		t.Fatalf("expected empty aggregate, got %+v", warmed)
	}

	certs := NewMedicalCertificateRepository(db, c)
	if err := certs.Create(context.Background(), &models.MedicalCertificate{OwnerID: physician.ID, Signed: 1}); err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	prescriptions := NewPrescriptionRepository(db, c)
	if err := prescriptions.Create(context.Background(), &models.Prescription{PhysicianID: physician.ID, PatientID: patient.ID}); err != nil {
		t.Fatalf("create prescription: %v", err)
	}

	fresh, err := repo.GetByID(context.Background(), physician.ID)
	if err != nil {
		t.Fatalf("get physician after writes: %v", err)
	}
	if len(fresh.MedicalCertificates) != 1 {
		t.Errorf("certificates in aggregate = %d, want 1", len(fresh.MedicalCertificates))
	}
	if len(fresh.Prescriptions) != 1 {
		t.Errorf("prescriptions in aggregate = %d, want 1", len(fresh.Prescriptions))
	}
}

func TestSetMedicineForPatient(t *testing.T) {
	db, c := setupTestDB(t)
	cfg := testConfig()
	repo := NewPhysicianRepository(db, c, cfg, NewUserRepository(db, c))
	physician := mustCreatePhysician(t, db, c, cfg, "Jane", "Doe")
	patient := mustCreatePatient(t, db, &models.Patient{FirstName: "Pat", LastName: "Ient", YearOfBirth: 1980})

	if err := db.Create(&models.Prescription{PhysicianID: physician.ID, PatientID: patient.ID}).Error; err != nil {
		t.Fatalf("create prescription: %v", err)
	}

	// No medicine attached yet: the supplied one is persisted and linked.
	created, err := repo.SetMedicineForPatient(context.Background(), physician.ID, patient.ID, &models.Medicine{
		DrugName:         "Aspirin",
		ManufacturerName: "Bayer",
	})
	if err != nil {
		t.Fatalf("set medicine: %v", err)
	}
	if created == nil || created.ID == 0 {
		t.Fatal("expected a persisted medicine")
	}

	var prescription models.Prescription
	if err := db.Where("physician_id = ? AND patient_id = ?", physician.ID, patient.ID).First(&prescription).Error; err != nil {
		t.Fatalf("reload prescription: %v", err)
	}
	if prescription.MedicineID == nil || *prescription.MedicineID != created.ID {
		t.Fatalf("prescription not linked to medicine %d", created.ID)
	}

	// Second call mutates the attached medicine in place.
	updated, err := repo.SetMedicineForPatient(context.Background(), physician.ID, patient.ID, &models.Medicine{
		DrugName:          "Ibuprofen",
		ManufacturerName:  "Generic Co",
		DosageInformation: "200mg twice daily",
	})
	if err != nil {
		t.Fatalf("set medicine again: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("expected in-place update of medicine %d, got new id %d", created.ID, updated.ID)
	}
	if updated.DrugName != "Ibuprofen" || updated.DosageInformation != "200mg twice daily" {
		t.Errorf("medicine not updated: %+v", updated)
	}
}

func TestSetMedicineForPatientWithoutPrescription(t *testing.T) {
	db, c := setupTestDB(t)
	cfg := testConfig()
	repo := NewPhysicianRepository(db, c, cfg, NewUserRepository(db, c))
	physician := mustCreatePhysician(t, db, c, cfg, "Jane", "Doe")

	medicine, err := repo.SetMedicineForPatient(context.Background(), physician.ID, 999, &models.Medicine{DrugName: "Aspirin"})
	if err != nil {
		t.Fatalf("set medicine: %v", err)
	}
	if medicine != nil {
		t.Errorf("expected nil without a prescription, got %+v", medicine)
	}
}
