package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"siteinspect_backend/internal/middleware"
	"siteinspect_backend/internal/services"
	"siteinspect_backend/internal/services/dto"
	"siteinspect_backend/pkg/apperrors"
)

type PhotoHandler struct {
	*BaseHandler
	photoService services.PhotoService
}

func NewPhotoHandler(base *BaseHandler, photoService services.PhotoService) *PhotoHandler {
	return &PhotoHandler{
		BaseHandler:  base,
		photoService: photoService,
	}
}

func (h *PhotoHandler) RegisterRoutes(r *gin.RouterGroup) {
	photos := r.Group("/photos")
	{
		photos.POST("/", h.CreatePhoto)
		photos.GET("/", h.ListPhotos)
		photos.GET("/:photoId", h.GetPhoto)
		photos.PUT("/:photoId", h.UpdatePhoto)
		photos.PATCH("/:photoId", h.UpdatePhoto)
		photos.DELETE("/:photoId", h.DeletePhoto)
	}
}

// CreatePhoto принимает multipart-форму с файлом и метаданными снимка.
func (h *PhotoHandler) CreatePhoto(c *gin.Context) {
	var req dto.CreatePhotoRequest
	if !h.BindAndValidateForm(c, &req) {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("File is required"))
		return
	}

	photo, err := h.photoService.Create(c.Request.Context(), h.GetDB(c), &req, file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	middleware.ObserveUpload("photo", file.Size)
	c.JSON(http.StatusCreated, photo)
}

// ListPhotos возвращает список фотографий,
// опционально отфильтрованный по inspection_id.
func (h *PhotoHandler) ListPhotos(c *gin.Context) {
	skip, limit := ParseSkipLimit(c)

	var inspectionID *uint
	if c.Query("inspection_id") != "" {
		id := uint(ParseQueryInt(c, "inspection_id", 0))
		if id == 0 {
			h.HandleServiceError(c, apperrors.NewBadRequestError("Invalid query parameter: inspection_id is not an integer"))
			return
		}
		inspectionID = &id
	}

	photos, err := h.photoService.List(h.GetDB(c), inspectionID, skip, limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, photos)
}

// GetPhoto возвращает одну фотографию.
func (h *PhotoHandler) GetPhoto(c *gin.Context) {
	id, err := ParseParamID(c, "photoId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	photo, err := h.photoService.Get(h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, photo)
}

// UpdatePhoto частично обновляет метаданные снимка.
// Новый photo_path вытесняет прежний файл.
func (h *PhotoHandler) UpdatePhoto(c *gin.Context) {
	id, err := ParseParamID(c, "photoId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.UpdatePhotoRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	photo, err := h.photoService.Update(c.Request.Context(), h.GetDB(c), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, photo)
}

// DeletePhoto удаляет запись вместе с файлом и его миниатюрой.
// Возвращает удаленную запись.
func (h *PhotoHandler) DeletePhoto(c *gin.Context) {
	id, err := ParseParamID(c, "photoId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	photo, err := h.photoService.Delete(c.Request.Context(), h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, photo)
}
