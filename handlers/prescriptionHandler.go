package handlers

import (
	"net/http"

	"acmemedical/middlewares"
	"acmemedical/models"
	"acmemedical/services"
	"acmemedical/utils"

	"github.com/gin-gonic/gin"
)

type PrescriptionHandler struct {
	service *services.PrescriptionService
}

func NewPrescriptionHandler(service *services.PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{service: service}
}

func prescriptionKeyFromPath(c *gin.Context) (models.PrescriptionKey, bool) {
	physicianID, ok := parseUintParam(c, "physicianId")
	if !ok {
		return models.PrescriptionKey{}, false
	}
	patientID, ok := parseUintParam(c, "patientId")
	if !ok {
		return models.PrescriptionKey{}, false
	}
	return models.PrescriptionKey{PhysicianID: physicianID, PatientID: patientID}, true
}

// CreatePrescription persists a new prescription. The physician and
// patient references must resolve, and a physician may hold at most one
// prescription per patient.
func (h *PrescriptionHandler) CreatePrescription(c *gin.Context) {
	var prescription models.Prescription
	if err := c.ShouldBindJSON(&prescription); err != nil {
		middlewares.HttpError(c, "Invalid request body", http.StatusBadRequest, err)
		return
	}
	if err := utils.ValidatePrescription(prescription); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, nil)
		return
	}
	if err := h.service.Create(c.Request.Context(), &prescription); err != nil {
		writeRepositoryError(c, err)
		return
	}
	middlewares.RespondJSON(c, prescription, http.StatusCreated)
}

func (h *PrescriptionHandler) GetPrescriptionByKey(c *gin.Context) {
	key, ok := prescriptionKeyFromPath(c)
	if !ok {
		return
	}
	prescription, err := h.service.GetByKey(c.Request.Context(), key)
	if err != nil {
		writeRepositoryError(c, err)
		return
	}
	if prescription == nil {
		middlewares.HttpError(c, "Prescription not found", http.StatusNotFound, nil)
		return
	}
	middlewares.RespondJSON(c, prescription, http.StatusOK)
}

func (h *PrescriptionHandler) GetAllPrescriptions(c *gin.Context) {
	prescriptions, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		writeRepositoryError(c, err)
		return
	}
	middlewares.RespondJSON(c, prescriptions, http.StatusOK)
}

func (h *PrescriptionHandler) UpdatePrescription(c *gin.Context) {
	key, ok := prescriptionKeyFromPath(c)
	if !ok {
		return
	}
	var updates models.PrescriptionUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		middlewares.HttpError(c, "Invalid request body", http.StatusBadRequest, err)
		return
	}
	prescription, err := h.service.Update(c.Request.Context(), key, &updates)
	if err != nil {
		writeRepositoryError(c, err)
		return
	}
	if prescription == nil {
		middlewares.HttpError(c, "Prescription not found", http.StatusNotFound, nil)
		return
	}
	middlewares.RespondJSON(c, prescription, http.StatusOK)
}

func (h *PrescriptionHandler) DeletePrescription(c *gin.Context) {
	key, ok := prescriptionKeyFromPath(c)
	if !ok {
		return
	}
	prescription, err := h.service.Delete(c.Request.Context(), key)
	if err != nil {
		writeRepositoryError(c, err)
		return
	}
	if prescription == nil {
		middlewares.HttpError(c, "Prescription not found", http.StatusNotFound, nil)
		return
	}
	c.Status(http.StatusNoContent)
}
