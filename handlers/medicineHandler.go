package handlers

import (
	"net/http"

	"acmemedical/middlewares"
	"acmemedical/models"
	"acmemedical/services"
	"acmemedical/utils"

	"github.com/gin-gonic/gin"
)

type MedicineHandler struct {
	service *services.MedicineService
}

func NewMedicineHandler(service *services.MedicineService) *MedicineHandler {
	return &MedicineHandler{service: service}
}

func (h *MedicineHandler) CreateMedicine(c *gin.Context) {
	var medicine models.Medicine
	if err := c.ShouldBindJSON(&medicine); err != nil {
		middlewares.HttpError(c, "Invalid request body", http.StatusBadRequest, err)
		return
	}
	if err := utils.ValidateMedicine(medicine); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, nil)
		return
	}
	if err := h.service.Create(c.Request.Context(), &medicine); err != nil {
		writeRepositoryError(c, err)
		return
	}
	middlewares.RespondJSON(c, medicine, http.StatusCreated)
}

func (h *MedicineHandler) GetMedicineByID(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	medicine, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeRepositoryError(c, err)
		return
	}
	if medicine == nil {
		middlewares.HttpError(c, "Medicine not found", http.StatusNotFound, nil)
		return
	}
	middlewares.RespondJSON(c, medicine, http.StatusOK)
}

func (h *MedicineHandler) GetAllMedicines(c *gin.Context) {
	medicines, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		writeRepositoryError(c, err)
		return
	}
	middlewares.RespondJSON(c, medicines, http.StatusOK)
}

func (h *MedicineHandler) UpdateMedicine(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var updates models.MedicineUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		middlewares.HttpError(c, "Invalid request body", http.StatusBadRequest, err)
		return
	}
	medicine, err := h.service.Update(c.Request.Context(), id, &updates)
	if err != nil {
		writeRepositoryError(c, err)
		return
	}
	if medicine == nil {
		middlewares.HttpError(c, "Medicine not found", http.StatusNotFound, nil)
		return
	}
	middlewares.RespondJSON(c, medicine, http.StatusOK)
}

// DeleteMedicine removes the medicine. Prescriptions that referenced it
// are kept with the medicine reference cleared.
func (h *MedicineHandler) DeleteMedicine(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	medicine, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		writeRepositoryError(c, err)
		return
	}
	if medicine == nil {
		middlewares.HttpError(c, "Medicine not found", http.StatusNotFound, nil)
		return
	}
	c.Status(http.StatusNoContent)
}
