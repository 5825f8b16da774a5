package dto

import "siteinspect_backend/internal/models"

// CreatePhotoRequest is the multipart metadata accompanying a photo upload.
// The capture date arrives as a form string and is parsed by the service.
type CreatePhotoRequest struct {
	InspectionID uint    `form:"inspection_id" validate:"required"`
	CaptureDate  string  `form:"capture_date" validate:"required"`
	Caption      *string `form:"caption"`
}

// UpdatePhotoRequest is a partial update: nil fields are left untouched.
type UpdatePhotoRequest struct {
	PhotoPath   *string      `json:"photo_path"`
	CaptureDate *models.Date `json:"capture_date"`
	Caption     *string      `json:"caption"`
}
