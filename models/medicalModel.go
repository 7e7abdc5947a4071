package models

import (
	"time"
)

// Base carries the surrogate key and audit timestamps shared by every
// entity in the medical graph. GORM stamps created on insert and updated
// on every write.
type Base struct {
	ID      uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Created time.Time `gorm:"column:created;autoCreateTime" json:"created"`
	Updated time.Time `gorm:"column:updated;autoUpdateTime" json:"updated"`
}

// Physician model
type Physician struct {
	Base
	FirstName           string               `gorm:"column:first_name;not null;size:50" json:"firstName"`
	LastName            string               `gorm:"column:last_name;not null;size:50;index" json:"lastName"`
	MedicalCertificates []MedicalCertificate `gorm:"foreignKey:OwnerID;references:ID" json:"medicalCertificates,omitempty"`
	Prescriptions       []Prescription       `gorm:"foreignKey:PhysicianID;references:ID" json:"prescriptions,omitempty"`
}

func (Physician) TableName() string {
	return "physician"
}

// Patient model
type Patient struct {
	Base
	FirstName     string         `gorm:"column:first_name;not null;size:50" json:"firstName"`
	LastName      string         `gorm:"column:last_name;not null;size:50;index" json:"lastName"`
	YearOfBirth   int            `gorm:"column:year_of_birth;not null" json:"yearOfBirth"`
	Address       string         `gorm:"column:home_address;size:100" json:"address"`
	Height        int            `gorm:"column:height_cm" json:"height"`
	Weight        int            `gorm:"column:weight_kg" json:"weight"`
	Smoker        byte           `gorm:"column:smoker" json:"smoker"`
	Prescriptions []Prescription `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (Patient) TableName() string {
	return "patient"
}

// Medicine model
type Medicine struct {
	Base
	DrugName          string         `gorm:"column:drug_name;not null;size:50" json:"drugName"`
	ManufacturerName  string         `gorm:"column:manufacturer_name;size:50" json:"manufacturerName"`
	DosageInformation string         `gorm:"column:dosage_information;size:100" json:"dosageInformation"`
	ChemicalName      string         `gorm:"column:chemical_name;size:50" json:"chemicalName"`
	GenericName       string         `gorm:"column:generic_name;size:50" json:"genericName"`
	Prescriptions     []Prescription `gorm:"foreignKey:MedicineID;references:ID" json:"-"`
}

func (Medicine) TableName() string {
	return "medicine"
}

// School type discriminator values persisted in the school_type column.
const (
	SchoolTypePublic  = "public"
	SchoolTypePrivate = "private"
)

// MedicalSchool model. Public and private schools share one table; the
// school_type column discriminates which variant a row represents.
type MedicalSchool struct {
	Base
	Name             string            `gorm:"column:name;not null;unique" json:"name"`
	SchoolType       string            `gorm:"column:school_type;not null;check:school_type IN ('public', 'private')" json:"schoolType"`
	Public           bool              `gorm:"column:is_public;not null" json:"public"`
	MedicalTrainings []MedicalTraining `gorm:"foreignKey:SchoolID;references:ID" json:"medicalTrainings,omitempty"`
}

func (MedicalSchool) TableName() string {
	return "medical_school"
}

// NormalizeType reconciles the discriminator with the public flag so that a
// row read back always reconstructs the variant it was stored as.
func (ms *MedicalSchool) NormalizeType() {
	switch ms.SchoolType {
	case SchoolTypePublic:
		ms.Public = true
	case SchoolTypePrivate:
		ms.Public = false
	default:
		if ms.Public {
			ms.SchoolType = SchoolTypePublic
		} else {
			ms.SchoolType = SchoolTypePrivate
		}
	}
}

// DurationAndStatus is embedded in MedicalTraining.
type DurationAndStatus struct {
	StartDate time.Time `gorm:"column:start_date" json:"startDate"`
	EndDate   time.Time `gorm:"column:end_date" json:"endDate"`
	Active    byte      `gorm:"column:active" json:"active"`
}

// MedicalTraining model
type MedicalTraining struct {
	Base
	SchoolID          uint                `gorm:"column:school_id;not null;index" json:"schoolId"`
	School            *MedicalSchool      `gorm:"foreignKey:SchoolID;references:ID" json:"school,omitempty"`
	CertificateID     *uint               `gorm:"column:certificate_id" json:"certificateId,omitempty"`
	Certificate       *MedicalCertificate `gorm:"foreignKey:CertificateID;references:ID" json:"certificate,omitempty"`
	DurationAndStatus DurationAndStatus   `gorm:"embedded" json:"durationAndStatus"`
}

func (MedicalTraining) TableName() string {
	return "medical_training"
}

// MedicalCertificate model. The owning physician is mandatory, the
// training link is nullable on both sides.
type MedicalCertificate struct {
	Base
	OwnerID    uint             `gorm:"column:physician_id;not null;index" json:"ownerId"`
	Owner      *Physician       `gorm:"foreignKey:OwnerID;references:ID" json:"owner,omitempty"`
	TrainingID *uint            `gorm:"column:training_id" json:"trainingId,omitempty"`
	Training   *MedicalTraining `gorm:"foreignKey:TrainingID;references:ID" json:"medicalTraining,omitempty"`
	Signed     byte             `gorm:"column:signed;not null" json:"signed"`
}

func (MedicalCertificate) TableName() string {
	return "medical_certificate"
}

// PrescriptionKey identifies a prescription by its composite primary key.
// It is comparable, so it can be used directly as a map key.
type PrescriptionKey struct {
	PhysicianID uint `json:"physicianId"`
	PatientID   uint `json:"patientId"`
}

// Prescription model. The (physician_id, patient_id) pair is the primary
// key, so at most one prescription exists per pair.
type Prescription struct {
	PhysicianID             uint       `gorm:"primaryKey;column:physician_id" json:"physicianId"`
	PatientID               uint       `gorm:"primaryKey;column:patient_id" json:"patientId"`
	Physician               *Physician `gorm:"foreignKey:PhysicianID;references:ID" json:"physician,omitempty"`
	Patient                 *Patient   `gorm:"foreignKey:PatientID;references:ID" json:"patient,omitempty"`
	MedicineID              *uint      `gorm:"column:medicine_id" json:"medicineId,omitempty"`
	Medicine                *Medicine  `gorm:"foreignKey:MedicineID;references:ID" json:"medicine,omitempty"`
	NumberOfRefills         int        `gorm:"column:number_of_refills" json:"numberOfRefills"`
	PrescriptionInformation string     `gorm:"column:prescription_information;size:100" json:"prescriptionInformation"`
	Created                 time.Time  `gorm:"column:created;autoCreateTime" json:"created"`
	Updated                 time.Time  `gorm:"column:updated;autoUpdateTime" json:"updated"`
}

func (Prescription) TableName() string {
	return "prescription"
}

// Key returns the composite key of the prescription.
func (p *Prescription) Key() PrescriptionKey {
	return PrescriptionKey{PhysicianID: p.PhysicianID, PatientID: p.PatientID}
}
