package repositories

import "errors"

// Expected failure conditions surfaced to the HTTP boundary. Anything not
// listed here is an unexpected storage error and maps to a 500.
var (
	// ErrDuplicateUsername is returned when provisioning a physician
	// account whose derived username is already taken.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrDuplicateSchoolName is returned when a medical school with the
	// same name already exists.
	ErrDuplicateSchoolName = errors.New("medical school name already exists")

	// ErrDuplicatePrescription is returned when a prescription for the
	// same (physician, patient) pair already exists.
	ErrDuplicatePrescription = errors.New("prescription already exists for this physician and patient")

	// ErrUserRoleMissing is returned when the seed USER role row is absent.
	ErrUserRoleMissing = errors.New("seed USER role not found")

	// ErrInvalidReference is returned when a payload references a related
	// entity by id that does not exist.
	ErrInvalidReference = errors.New("referenced entity does not exist")
)
