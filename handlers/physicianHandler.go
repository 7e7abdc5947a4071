package handlers

import (
	"net/http"

	"acmemedical/middlewares"
	"acmemedical/models"
	"acmemedical/services"
	"acmemedical/utils"

	"github.com/gin-gonic/gin"
)

type PhysicianHandler struct {
	service *services.PhysicianService
}

func NewPhysicianHandler(service *services.PhysicianService) *PhysicianHandler {
	return &PhysicianHandler{service: service}
}

// CreatePhysician persists a new physician. A login account is
// provisioned for the physician as part of the same operation.
func (h *PhysicianHandler) CreatePhysician(c *gin.Context) {
	var physician models.Physician
	if err := c.ShouldBindJSON(&physician); err != nil {
		middlewares.HttpError(c, "Invalid request body", http.StatusBadRequest, err)
		return
	}
	if err := utils.ValidatePhysician(physician); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, nil)
		return
	}
	if err := h.service.Create(c.Request.Context(), &physician); err != nil {
		writeRepositoryError(c, err)
		return
	}
	middlewares.RespondJSON(c, physician, http.StatusCreated)
}

func (h *PhysicianHandler) GetPhysicianByID(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	physician, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeRepositoryError(c, err)
		return
	}
	if physician == nil {
		middlewares.HttpError(c, "Physician not found", http.StatusNotFound, nil)
		return
	}
	middlewares.RespondJSON(c, physician, http.StatusOK)
}

func (h *PhysicianHandler) GetAllPhysicians(c *gin.Context) {
	physicians, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		writeRepositoryError(c, err)
		return
	}
	middlewares.RespondJSON(c, physicians, http.StatusOK)
}

func (h *PhysicianHandler) UpdatePhysician(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var updates models.PhysicianUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		middlewares.HttpError(c, "Invalid request body", http.StatusBadRequest, err)
		return
	}
	physician, err := h.service.Update(c.Request.Context(), id, &updates)
	if err != nil {
		writeRepositoryError(c, err)
		return
	}
	if physician == nil {
		middlewares.HttpError(c, "Physician not found", http.StatusNotFound, nil)
		return
	}
	middlewares.RespondJSON(c, physician, http.StatusOK)
}

// DeletePhysician removes the physician along with the login account,
// certificates and prescriptions that hang off it.
func (h *PhysicianHandler) DeletePhysician(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	physician, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		writeRepositoryError(c, err)
		return
	}
	if physician == nil {
		middlewares.HttpError(c, "Physician not found", http.StatusNotFound, nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetMedicineForPatient updates the medicine on the prescription the
// physician holds for the given patient, creating the medicine record
// when the prescription has none yet.
func (h *PhysicianHandler) SetMedicineForPatient(c *gin.Context) {
	physicianID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	patientID, ok := parseUintParam(c, "patientId")
	if !ok {
		return
	}
	var medicine models.Medicine
	if err := c.ShouldBindJSON(&medicine); err != nil {
		middlewares.HttpError(c, "Invalid request body", http.StatusBadRequest, err)
		return
	}
	if err := utils.ValidateMedicine(medicine); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, nil)
		return
	}
	updated, err := h.service.SetMedicineForPatient(c.Request.Context(), physicianID, patientID, &medicine)
	if err != nil {
		writeRepositoryError(c, err)
		return
	}
	if updated == nil {
		middlewares.HttpError(c, "Prescription not found", http.StatusNotFound, nil)
		return
	}
	middlewares.RespondJSON(c, updated, http.StatusOK)
}
