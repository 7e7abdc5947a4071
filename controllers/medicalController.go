package controllers

import (
	"acmemedical/handlers"
	"acmemedical/middlewares"
	"acmemedical/models"
	"acmemedical/services"

	"github.com/gin-gonic/gin"
)

// MedicalHandlers bundles the per-entity handlers so route registration
// stays one call in routes.SetupRoutes.
type MedicalHandlers struct {
	Physician    *handlers.PhysicianHandler
	Patient      *handlers.PatientHandler
	Medicine     *handlers.MedicineHandler
	School       *handlers.MedicalSchoolHandler
	Training     *handlers.MedicalTrainingHandler
	Certificate  *handlers.MedicalCertificateHandler
	Prescription *handlers.PrescriptionHandler
}

// SetupMedicalRoutes registers the medical records resources. School and
// training reads are public; everything else requires authentication,
// with writes reserved for the ADMIN role and a handful of reads open to
// the USER role, some gated on the caller owning the target physician.
func SetupMedicalRoutes(router *gin.Engine, authService services.AuthService, h MedicalHandlers) {
	authenticated := middlewares.Authenticate(authService)
	adminOnly := middlewares.RequireRole(models.AdminRole)
	anyRole := middlewares.RequireRole(models.AdminRole, models.UserRole)
	selfOrAdmin := middlewares.RequireSelfPhysicianOrRole(models.AdminRole, "id")

	router.GET("/physicians", authenticated, adminOnly, h.Physician.GetAllPhysicians)
	router.GET("/physicians/:id", authenticated, anyRole, selfOrAdmin, h.Physician.GetPhysicianByID)
	router.POST("/physicians", authenticated, adminOnly, h.Physician.CreatePhysician)
	router.PUT("/physicians/:id", authenticated, adminOnly, h.Physician.UpdatePhysician)
	router.DELETE("/physicians/:id", authenticated, adminOnly, h.Physician.DeletePhysician)
	router.PUT("/physicians/:id/patient/:patientId/medicine", authenticated, adminOnly, h.Physician.SetMedicineForPatient)

	router.GET("/patients", authenticated, adminOnly, h.Patient.GetAllPatients)
	router.GET("/patients/:id", authenticated, anyRole, h.Patient.GetPatientByID)
	router.POST("/patients", authenticated, adminOnly, h.Patient.CreatePatient)
	router.PUT("/patients/:id", authenticated, adminOnly, h.Patient.UpdatePatient)
	router.DELETE("/patients/:id", authenticated, adminOnly, h.Patient.DeletePatient)

	router.GET("/medicines", authenticated, adminOnly, h.Medicine.GetAllMedicines)
	router.GET("/medicines/:id", authenticated, anyRole, h.Medicine.GetMedicineByID)
	router.POST("/medicines", authenticated, adminOnly, h.Medicine.CreateMedicine)
	router.PUT("/medicines/:id", authenticated, adminOnly, h.Medicine.UpdateMedicine)
	router.DELETE("/medicines/:id", authenticated, adminOnly, h.Medicine.DeleteMedicine)

	// School and training reads are reference data, open to anyone.
	router.GET("/medicalschools", h.School.GetAllMedicalSchools)
	router.GET("/medicalschools/:id", h.School.GetMedicalSchoolByID)
	router.POST("/medicalschools", authenticated, adminOnly, h.School.CreateMedicalSchool)
	router.PUT("/medicalschools/:id", authenticated, adminOnly, h.School.UpdateMedicalSchool)
	router.DELETE("/medicalschools/:id", authenticated, adminOnly, h.School.DeleteMedicalSchool)

	router.GET("/medicaltrainings", h.Training.GetAllMedicalTrainings)
	router.GET("/medicaltrainings/:id", h.Training.GetMedicalTrainingByID)
	router.POST("/medicaltrainings", authenticated, adminOnly, h.Training.CreateMedicalTraining)
	router.PUT("/medicaltrainings/:id", authenticated, adminOnly, h.Training.UpdateMedicalTraining)
	router.DELETE("/medicaltrainings/:id", authenticated, adminOnly, h.Training.DeleteMedicalTraining)

	router.GET("/medicalcertificates", authenticated, adminOnly, h.Certificate.GetAllMedicalCertificates)
	router.GET("/medicalcertificates/:id", authenticated, anyRole, h.Certificate.GetMedicalCertificateByID)
	router.POST("/medicalcertificates", authenticated, adminOnly, h.Certificate.CreateMedicalCertificate)
	router.PUT("/medicalcertificates/:id", authenticated, adminOnly, h.Certificate.UpdateMedicalCertificate)
	router.DELETE("/medicalcertificates/:id", authenticated, adminOnly, h.Certificate.DeleteMedicalCertificate)

	router.GET("/prescriptions", authenticated, adminOnly, h.Prescription.GetAllPrescriptions)
	router.GET("/prescriptions/:physicianId/:patientId", authenticated, anyRole, h.Prescription.GetPrescriptionByKey)
	router.POST("/prescriptions", authenticated, adminOnly, h.Prescription.CreatePrescription)
	router.PUT("/prescriptions/:physicianId/:patientId", authenticated, adminOnly, h.Prescription.UpdatePrescription)
	router.DELETE("/prescriptions/:physicianId/:patientId", authenticated, adminOnly, h.Prescription.DeletePrescription)
}
