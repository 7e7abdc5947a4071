package utils

import (
	"acmemedical/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidatePhysician validates an inbound physician payload.
func ValidatePhysician(physician models.Physician) error {
	return validation.ValidateStruct(&physician,
		validation.Field(&physician.FirstName, validation.Required, validation.Length(1, 50)),
		validation.Field(&physician.LastName, validation.Required, validation.Length(1, 50)),
	)
}

// ValidatePatient validates an inbound patient payload.
func ValidatePatient(patient models.Patient) error {
	return validation.ValidateStruct(&patient,
		validation.Field(&patient.FirstName, validation.Required, validation.Length(1, 50)),
		validation.Field(&patient.LastName, validation.Required, validation.Length(1, 50)),
		validation.Field(&patient.YearOfBirth, validation.Required, validation.Min(1900), validation.Max(2100)),
		validation.Field(&patient.Height, validation.Min(0)),
		validation.Field(&patient.Weight, validation.Min(0)),
		validation.Field(&patient.Smoker, validation.In(byte(0), byte(1))),
	)
}

// ValidateMedicine validates an inbound medicine payload.
func ValidateMedicine(medicine models.Medicine) error {
	return validation.ValidateStruct(&medicine,
		validation.Field(&medicine.DrugName, validation.Required, validation.Length(1, 50)),
		validation.Field(&medicine.ManufacturerName, validation.Length(0, 50)),
		validation.Field(&medicine.DosageInformation, validation.Length(0, 100)),
	)
}

// ValidateMedicalSchool validates an inbound school payload. The school
// type must name one of the two persisted variants.
func ValidateMedicalSchool(school models.MedicalSchool) error {
	return validation.ValidateStruct(&school,
		validation.Field(&school.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&school.SchoolType,
			validation.Required,
			validation.In(models.SchoolTypePublic, models.SchoolTypePrivate)),
	)
}

// ValidateMedicalTraining validates an inbound training payload. The
// school reference is mandatory; the certificate reference is optional.
func ValidateMedicalTraining(training models.MedicalTraining) error {
	return validation.ValidateStruct(&training,
		validation.Field(&training.SchoolID, validation.Required),
		validation.Field(&training.DurationAndStatus, validation.By(func(interface{}) error {
			ds := training.DurationAndStatus
			if !ds.StartDate.IsZero() && !ds.EndDate.IsZero() && ds.EndDate.Before(ds.StartDate) {
				return validation.NewError("validation_dates", "endDate must not precede startDate")
			}
			return nil
		})),
	)
}

// ValidateMedicalCertificate validates an inbound certificate payload.
func ValidateMedicalCertificate(certificate models.MedicalCertificate) error {
	return validation.ValidateStruct(&certificate,
		validation.Field(&certificate.OwnerID, validation.Required),
		validation.Field(&certificate.Signed, validation.In(byte(0), byte(1))),
	)
}

// ValidatePrescription validates an inbound prescription payload.
func ValidatePrescription(prescription models.Prescription) error {
	return validation.ValidateStruct(&prescription,
		validation.Field(&prescription.PhysicianID, validation.Required),
		validation.Field(&prescription.PatientID, validation.Required),
		validation.Field(&prescription.NumberOfRefills, validation.Min(0)),
		validation.Field(&prescription.PrescriptionInformation, validation.Length(0, 100)),
	)
}
