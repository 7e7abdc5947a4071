package handlers

import (
	"net/http"

	"acmemedical/middlewares"
	"acmemedical/models"
	"acmemedical/services"
	"acmemedical/utils"

	"github.com/gin-gonic/gin"
)

type MedicalSchoolHandler struct {
	service *services.MedicalSchoolService
}

func NewMedicalSchoolHandler(service *services.MedicalSchoolService) *MedicalSchoolHandler {
	return &MedicalSchoolHandler{service: service}
}

// CreateMedicalSchool persists a new school. School names are unique;
// a duplicate name is rejected as a conflict.
func (h *MedicalSchoolHandler) CreateMedicalSchool(c *gin.Context) {
	var school models.MedicalSchool
	if err := c.ShouldBindJSON(&school); err != nil {
		middlewares.HttpError(c, "Invalid request body", http.StatusBadRequest, err)
		return
	}
	if school.SchoolType == "" {
		// Derive the discriminator from the public flag when omitted.
		school.NormalizeType()
	}
	if err := utils.ValidateMedicalSchool(school); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, nil)
		return
	}
	if err := h.service.Create(c.Request.Context(), &school); err != nil {
		writeRepositoryError(c, err)
		return
	}
	middlewares.RespondJSON(c, school, http.StatusCreated)
}

func (h *MedicalSchoolHandler) GetMedicalSchoolByID(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	school, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeRepositoryError(c, err)
		return
	}
	if school == nil {
		middlewares.HttpError(c, "Medical school not found", http.StatusNotFound, nil)
		return
	}
	middlewares.RespondJSON(c, school, http.StatusOK)
}

func (h *MedicalSchoolHandler) GetAllMedicalSchools(c *gin.Context) {
	schools, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		writeRepositoryError(c, err)
		return
	}
	middlewares.RespondJSON(c, schools, http.StatusOK)
}

// UpdateMedicalSchool renames the school. The school type is fixed at
// creation time and cannot be changed here.
func (h *MedicalSchoolHandler) UpdateMedicalSchool(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		middlewares.HttpError(c, "Invalid request body", http.StatusBadRequest, err)
		return
	}
	if body.Name == "" {
		middlewares.HttpError(c, "name: cannot be blank", http.StatusBadRequest, nil)
		return
	}
	school, err := h.service.Update(c.Request.Context(), id, body.Name)
	if err != nil {
		writeRepositoryError(c, err)
		return
	}
	if school == nil {
		middlewares.HttpError(c, "Medical school not found", http.StatusNotFound, nil)
		return
	}
	middlewares.RespondJSON(c, school, http.StatusOK)
}

// DeleteMedicalSchool removes the school and its trainings. Certificates
// tied to those trainings survive with the training link cleared.
func (h *MedicalSchoolHandler) DeleteMedicalSchool(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	school, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		writeRepositoryError(c, err)
		return
	}
	if school == nil {
		middlewares.HttpError(c, "Medical school not found", http.StatusNotFound, nil)
		return
	}
	c.Status(http.StatusNoContent)
}
