package handlers

import (
	"net/http"

	"acmemedical/middlewares"
	"acmemedical/models"
	"acmemedical/services"
	"acmemedical/utils"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	service *services.PatientService
}

func NewPatientHandler(service *services.PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var patient models.Patient
	if err := c.ShouldBindJSON(&patient); err != nil {
		middlewares.HttpError(c, "Invalid request body", http.StatusBadRequest, err)
		return
	}
	if err := utils.ValidatePatient(patient); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, nil)
		return
	}
	if err := h.service.Create(c.Request.Context(), &patient); err != nil {
		writeRepositoryError(c, err)
		return
	}
	middlewares.RespondJSON(c, patient, http.StatusCreated)
}

func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	patient, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeRepositoryError(c, err)
		return
	}
	if patient == nil {
		middlewares.HttpError(c, "Patient not found", http.StatusNotFound, nil)
		return
	}
	middlewares.RespondJSON(c, patient, http.StatusOK)
}

func (h *PatientHandler) GetAllPatients(c *gin.Context) {
	patients, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		writeRepositoryError(c, err)
		return
	}
	middlewares.RespondJSON(c, patients, http.StatusOK)
}

func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var updates models.PatientUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		middlewares.HttpError(c, "Invalid request body", http.StatusBadRequest, err)
		return
	}
	patient, err := h.service.Update(c.Request.Context(), id, &updates)
	if err != nil {
		writeRepositoryError(c, err)
		return
	}
	if patient == nil {
		middlewares.HttpError(c, "Patient not found", http.StatusNotFound, nil)
		return
	}
	middlewares.RespondJSON(c, patient, http.StatusOK)
}

// DeletePatient removes the patient and every prescription issued to them.
func (h *PatientHandler) DeletePatient(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	patient, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		writeRepositoryError(c, err)
		return
	}
	if patient == nil {
		middlewares.HttpError(c, "Patient not found", http.StatusNotFound, nil)
		return
	}
	c.Status(http.StatusNoContent)
}
