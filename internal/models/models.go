package models

import "time"

// Project is a construction engagement. The owner is an opaque identifier
// asserted by the caller, not a verified principal.
type Project struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"size:200;not null" json:"name"`
	Location   string `gorm:"size:200;not null" json:"location"`
	Contractor string `gorm:"size:100;not null" json:"contractor"`
	StartDate  Date   `gorm:"not null" json:"start_date"`
	EndDate    Date   `gorm:"not null" json:"end_date"`
	Owner      string `gorm:"size:100;not null;index" json:"owner"`

	// Relations
	Inspections []Inspection `gorm:"foreignKey:ProjectID" json:"inspections,omitempty"`
}

func (Project) TableName() string { return "projects" }

// Inspection is a single inspection or spot-check event tied to a project.
// Only result, remark and pdf_path are mutable through the public contract;
// the remaining fields are fixed at creation.
type Inspection struct {
	ID                 uint    `gorm:"primaryKey" json:"id"`
	ProjectID          uint    `gorm:"not null;index" json:"project_id"`
	SubprojectName     string  `gorm:"size:200;not null" json:"subproject_name"`
	InspectionFormName string  `gorm:"size:200;not null" json:"inspection_form_name"`
	InspectionDate     Date    `gorm:"not null" json:"inspection_date"`
	Location           string  `gorm:"size:200;not null" json:"location"`
	Timing             string  `gorm:"size:20;not null" json:"timing"`
	Result             *string `gorm:"size:20" json:"result"`
	Remark             *string `gorm:"type:text" json:"remark"`
	PdfPath            *string `gorm:"size:255" json:"pdf_path"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Photos []Photo `gorm:"foreignKey:InspectionID;constraint:OnDelete:CASCADE" json:"photos,omitempty"`
}

func (Inspection) TableName() string { return "construction_inspections" }

// Photo is an image artifact attached to an inspection.
type Photo struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	InspectionID uint    `gorm:"not null;index" json:"inspection_id"`
	PhotoPath    string  `gorm:"size:255;not null" json:"photo_path"`
	CaptureDate  Date    `gorm:"not null" json:"capture_date"`
	Caption      *string `gorm:"size:255" json:"caption"`
}

func (Photo) TableName() string { return "inspection_photos" }
