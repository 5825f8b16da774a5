package dto

import "siteinspect_backend/internal/models"

// CreateInspectionRequest carries the create-time fields of an inspection.
// Everything except result and remark is immutable after creation.
type CreateInspectionRequest struct {
	ProjectID          uint        `json:"project_id" validate:"required"`
	SubprojectName     string      `json:"subproject_name" validate:"required,max=200"`
	InspectionFormName string      `json:"inspection_form_name" validate:"required,max=200"`
	InspectionDate     models.Date `json:"inspection_date" validate:"required"`
	Location           string      `json:"location" validate:"required,max=200"`
	Timing             string      `json:"timing" validate:"required,max=20"`
	Result             *string     `json:"result"`
	Remark             *string     `json:"remark"`
}

// UpdateInspectionRequest is a partial update: nil fields are left untouched.
// Only result, remark and pdf_path are reachable through the public contract.
type UpdateInspectionRequest struct {
	Result  *string `json:"result"`
	Remark  *string `json:"remark"`
	PdfPath *string `json:"pdf_path"`
}
