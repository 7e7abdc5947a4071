package handlers

import (
	"net/http"

	"acmemedical/middlewares"
	"acmemedical/models"
	"acmemedical/services"
	"acmemedical/utils"

	"github.com/gin-gonic/gin"
)

type MedicalCertificateHandler struct {
	service *services.MedicalCertificateService
}

func NewMedicalCertificateHandler(service *services.MedicalCertificateService) *MedicalCertificateHandler {
	return &MedicalCertificateHandler{service: service}
}

// CreateMedicalCertificate persists a new certificate. The owning
// physician must resolve; the training reference is optional.
func (h *MedicalCertificateHandler) CreateMedicalCertificate(c *gin.Context) {
	var certificate models.MedicalCertificate
	if err := c.ShouldBindJSON(&certificate); err != nil {
		middlewares.HttpError(c, "Invalid request body", http.StatusBadRequest, err)
		return
	}
	if err := utils.ValidateMedicalCertificate(certificate); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, nil)
		return
	}
	if err := h.service.Create(c.Request.Context(), &certificate); err != nil {
		writeRepositoryError(c, err)
		return
	}
	middlewares.RespondJSON(c, certificate, http.StatusCreated)
}

// GetMedicalCertificateByID returns the certificate. Callers without
// the ADMIN role may only read certificates owned by the physician
// linked to their own account.
func (h *MedicalCertificateHandler) GetMedicalCertificateByID(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	certificate, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeRepositoryError(c, err)
		return
	}
	if certificate == nil {
		middlewares.HttpError(c, "Medical certificate not found", http.StatusNotFound, nil)
		return
	}
	if !middlewares.IsAdmin(c.Request.Context()) {
		physicianID, linked := middlewares.ExtractPhysicianIDFromContext(c.Request.Context())
		if !linked || physicianID != certificate.OwnerID {
			middlewares.HttpError(c, "Forbidden: not the certificate owner", http.StatusForbidden, nil)
			return
		}
	}
	middlewares.RespondJSON(c, certificate, http.StatusOK)
}

func (h *MedicalCertificateHandler) GetAllMedicalCertificates(c *gin.Context) {
	certificates, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		writeRepositoryError(c, err)
		return
	}
	middlewares.RespondJSON(c, certificates, http.StatusOK)
}

func (h *MedicalCertificateHandler) UpdateMedicalCertificate(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var updates models.MedicalCertificateUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		middlewares.HttpError(c, "Invalid request body", http.StatusBadRequest, err)
		return
	}
	certificate, err := h.service.Update(c.Request.Context(), id, &updates)
	if err != nil {
		writeRepositoryError(c, err)
		return
	}
	if certificate == nil {
		middlewares.HttpError(c, "Medical certificate not found", http.StatusNotFound, nil)
		return
	}
	middlewares.RespondJSON(c, certificate, http.StatusOK)
}

// DeleteMedicalCertificate removes the certificate and clears the link
// on the training that pointed at it, if any.
func (h *MedicalCertificateHandler) DeleteMedicalCertificate(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	certificate, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		writeRepositoryError(c, err)
		return
	}
	if certificate == nil {
		middlewares.HttpError(c, "Medical certificate not found", http.StatusNotFound, nil)
		return
	}
	c.Status(http.StatusNoContent)
}
