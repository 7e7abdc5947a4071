package handlers

import (
	"net/http"

	"acmemedical/middlewares"
	"acmemedical/models"
	"acmemedical/services"
	"acmemedical/utils"

	"github.com/gin-gonic/gin"
)

type MedicalTrainingHandler struct {
	service *services.MedicalTrainingService
}

func NewMedicalTrainingHandler(service *services.MedicalTrainingService) *MedicalTrainingHandler {
	return &MedicalTrainingHandler{service: service}
}

// CreateMedicalTraining persists a new training. The school reference
// is required and must resolve; the certificate reference is optional.
func (h *MedicalTrainingHandler) CreateMedicalTraining(c *gin.Context) {
	var training models.MedicalTraining
	if err := c.ShouldBindJSON(&training); err != nil {
		middlewares.HttpError(c, "Invalid request body", http.StatusBadRequest, err)
		return
	}
	if err := utils.ValidateMedicalTraining(training); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, nil)
		return
	}
	if err := h.service.Create(c.Request.Context(), &training); err != nil {
		writeRepositoryError(c, err)
		return
	}
	middlewares.RespondJSON(c, training, http.StatusCreated)
}

func (h *MedicalTrainingHandler) GetMedicalTrainingByID(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	training, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeRepositoryError(c, err)
		return
	}
	if training == nil {
		middlewares.HttpError(c, "Medical training not found", http.StatusNotFound, nil)
		return
	}
	middlewares.RespondJSON(c, training, http.StatusOK)
}

func (h *MedicalTrainingHandler) GetAllMedicalTrainings(c *gin.Context) {
	trainings, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		writeRepositoryError(c, err)
		return
	}
	middlewares.RespondJSON(c, trainings, http.StatusOK)
}

func (h *MedicalTrainingHandler) UpdateMedicalTraining(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var updates models.MedicalTrainingUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		middlewares.HttpError(c, "Invalid request body", http.StatusBadRequest, err)
		return
	}
	training, err := h.service.Update(c.Request.Context(), id, &updates)
	if err != nil {
		writeRepositoryError(c, err)
		return
	}
	if training == nil {
		middlewares.HttpError(c, "Medical training not found", http.StatusNotFound, nil)
		return
	}
	middlewares.RespondJSON(c, training, http.StatusOK)
}

// DeleteMedicalTraining removes the training and clears the link on the
// certificate that pointed at it, if any.
func (h *MedicalTrainingHandler) DeleteMedicalTraining(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	training, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		writeRepositoryError(c, err)
		return
	}
	if training == nil {
		middlewares.HttpError(c, "Medical training not found", http.StatusNotFound, nil)
		return
	}
	c.Status(http.StatusNoContent)
}
