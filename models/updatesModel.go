package models

import "time"

// Partial-update payloads. Nil fields are left untouched on the stored
// entity; only supplied fields overwrite.

// PhysicianUpdate carries a partial physician update.
type PhysicianUpdate struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// PatientUpdate carries a partial patient update.
type PatientUpdate struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	YearOfBirth *int    `json:"yearOfBirth"`
	Address     *string `json:"address"`
	Height      *int    `json:"height"`
	Weight      *int    `json:"weight"`
	Smoker      *byte   `json:"smoker"`
}

// MedicineUpdate carries a partial medicine update.
type MedicineUpdate struct {
	DrugName          *string `json:"drugName"`
	ManufacturerName  *string `json:"manufacturerName"`
	DosageInformation *string `json:"dosageInformation"`
	ChemicalName      *string `json:"chemicalName"`
	GenericName       *string `json:"genericName"`
}

// DurationAndStatusUpdate carries a partial embedded duration update.
type DurationAndStatusUpdate struct {
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	Active    *byte      `json:"active"`
}

// MedicalTrainingUpdate carries a partial training update. School and
// certificate references are resolved to managed rows before attaching.
type MedicalTrainingUpdate struct {
	SchoolID          *uint                    `json:"schoolId"`
	CertificateID     *uint                    `json:"certificateId"`
	DurationAndStatus *DurationAndStatusUpdate `json:"durationAndStatus"`
}

// MedicalCertificateUpdate carries a partial certificate update.
type MedicalCertificateUpdate struct {
	OwnerID    *uint `json:"ownerId"`
	TrainingID *uint `json:"trainingId"`
	Signed     *byte `json:"signed"`
}

// PrescriptionUpdate carries a partial prescription update.
type PrescriptionUpdate struct {
	MedicineID              *uint   `json:"medicineId"`
	NumberOfRefills         *int    `json:"numberOfRefills"`
	PrescriptionInformation *string `json:"prescriptionInformation"`
}
