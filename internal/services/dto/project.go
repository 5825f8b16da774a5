package dto

import "siteinspect_backend/internal/models"

// CreateProjectRequest is the payload for creating a project. The same shape
// is used for the full-replace update.
type CreateProjectRequest struct {
	Name       string      `json:"name" validate:"required,max=200"`
	Location   string      `json:"location" validate:"required,max=200"`
	Contractor string      `json:"contractor" validate:"required,max=100"`
	StartDate  models.Date `json:"start_date" validate:"required"`
	EndDate    models.Date `json:"end_date" validate:"required"`
	Owner      string      `json:"owner" validate:"required,max=100"`
}

// StorageDetails lists the artifact paths that were counted.
type StorageDetails struct {
	PdfFiles   []string `json:"pdf_files"`
	PhotoFiles []string `json:"photo_files"`
}

// StorageUsageResponse is the storage accounting report for one project.
// When the project does not exist, Exists is false and Error carries the
// reason; missing files on disk are silently excluded, never an error.
type StorageUsageResponse struct {
	Error              string          `json:"error,omitempty"`
	ProjectID          uint            `json:"project_id"`
	ProjectName        string          `json:"project_name,omitempty"`
	TotalSizeBytes     int64           `json:"total_size_bytes"`
	TotalSizeFormatted string          `json:"total_size_formatted"`
	FileCount          int             `json:"file_count"`
	PdfCount           int             `json:"pdf_count"`
	PhotoCount         int             `json:"photo_count"`
	Exists             bool            `json:"exists"`
	Details            *StorageDetails `json:"details,omitempty"`
}
