package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"siteinspect_backend/internal/middleware"
	"siteinspect_backend/internal/services"
	"siteinspect_backend/internal/services/dto"
	"siteinspect_backend/pkg/apperrors"
)

type InspectionHandler struct {
	*BaseHandler
	inspectionService services.InspectionService
}

func NewInspectionHandler(base *BaseHandler, inspectionService services.InspectionService) *InspectionHandler {
	return &InspectionHandler{
		BaseHandler:       base,
		inspectionService: inspectionService,
	}
}

func (h *InspectionHandler) RegisterRoutes(r *gin.RouterGroup) {
	inspections := r.Group("/inspections")
	{
		inspections.POST("/", h.CreateInspection)
		inspections.GET("/", h.ListInspections)
		inspections.GET("/:inspectionId", h.GetInspection)
		inspections.PUT("/:inspectionId", h.UpdateInspection)
		inspections.DELETE("/:inspectionId", h.DeleteInspection)
		inspections.POST("/:inspectionId/upload-pdf", h.UploadPDF)
		inspections.POST("/:inspectionId/generate-pdf", h.GeneratePDF)
	}
}

// CreateInspection создает запись о проверке в рамках проекта.
func (h *InspectionHandler) CreateInspection(c *gin.Context) {
	var req dto.CreateInspectionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	inspection, err := h.inspectionService.Create(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, inspection)
}

// ListInspections возвращает список проверок,
// опционально отфильтрованный по project_id.
func (h *InspectionHandler) ListInspections(c *gin.Context) {
	skip, limit := ParseSkipLimit(c)

	var projectID *uint
	if c.Query("project_id") != "" {
		id := uint(ParseQueryInt(c, "project_id", 0))
		if id == 0 {
			h.HandleServiceError(c, apperrors.NewBadRequestError("Invalid query parameter: project_id is not an integer"))
			return
		}
		projectID = &id
	}

	inspections, err := h.inspectionService.List(h.GetDB(c), projectID, skip, limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, inspections)
}

// GetInspection возвращает проверку вместе с ее фотографиями.
func (h *InspectionHandler) GetInspection(c *gin.Context) {
	id, err := ParseParamID(c, "inspectionId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	inspection, err := h.inspectionService.Get(h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, inspection)
}

// UpdateInspection частично обновляет результат, замечание или путь к PDF.
func (h *InspectionHandler) UpdateInspection(c *gin.Context) {
	id, err := ParseParamID(c, "inspectionId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.UpdateInspectionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	inspection, err := h.inspectionService.Update(c.Request.Context(), h.GetDB(c), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, inspection)
}

// DeleteInspection каскадно удаляет проверку, ее фото и файлы.
// Возвращает удаленную запись.
func (h *InspectionHandler) DeleteInspection(c *gin.Context) {
	id, err := ParseParamID(c, "inspectionId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	inspection, err := h.inspectionService.Delete(c.Request.Context(), h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, inspection)
}

// UploadPDF принимает PDF-файл отчета и привязывает его к проверке.
// Прежний файл отчета, если он был, удаляется.
func (h *InspectionHandler) UploadPDF(c *gin.Context) {
	id, err := ParseParamID(c, "inspectionId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("File is required"))
		return
	}

	inspection, err := h.inspectionService.AttachPDF(c.Request.Context(), h.GetDB(c), id, file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	middleware.ObserveUpload("pdf", file.Size)
	c.JSON(http.StatusOK, inspection)
}

// GeneratePDF формирует PDF-отчет по данным проверки и ее фотографиям.
func (h *InspectionHandler) GeneratePDF(c *gin.Context) {
	id, err := ParseParamID(c, "inspectionId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	inspection, err := h.inspectionService.GeneratePDF(c.Request.Context(), h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, inspection)
}
