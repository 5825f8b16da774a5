package repositories

import (
	"errors"
	"time"

	"siteinspect_backend/internal/models"

	"gorm.io/gorm"
)

type InspectionRepository interface {
	Create(db *gorm.DB, inspection *models.Inspection) error
	FindByID(db *gorm.DB, id uint) (*models.Inspection, error)
	FindByIDWithPhotos(db *gorm.DB, id uint) (*models.Inspection, error)
	FindAll(db *gorm.DB, projectID *uint, skip, limit int) ([]models.Inspection, error)
	FindByProject(db *gorm.DB, projectID uint) ([]models.Inspection, error)
	// UpdateFields применяет только переданные колонки (PATCH-семантика)
	UpdateFields(db *gorm.DB, id uint, fields map[string]interface{}) error
	Delete(db *gorm.DB, id uint) error
}

type InspectionRepositoryImpl struct{}

func NewInspectionRepository() InspectionRepository {
	return &InspectionRepositoryImpl{}
}

func (r *InspectionRepositoryImpl) Create(db *gorm.DB, inspection *models.Inspection) error {
	return db.Create(inspection).Error
}

func (r *InspectionRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Inspection, error) {
	var inspection models.Inspection
	err := db.First(&inspection, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInspectionNotFound
		}
		return nil, err
	}
	return &inspection, nil
}

func (r *InspectionRepositoryImpl) FindByIDWithPhotos(db *gorm.DB, id uint) (*models.Inspection, error) {
	var inspection models.Inspection
	err := db.Preload("Photos").First(&inspection, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInspectionNotFound
		}
		return nil, err
	}
	return &inspection, nil
}

func (r *InspectionRepositoryImpl) FindAll(db *gorm.DB, projectID *uint, skip, limit int) ([]models.Inspection, error) {
	var inspections []models.Inspection
	query := db.Model(&models.Inspection{})
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}
	err := query.Offset(skip).Limit(limit).Find(&inspections).Error
	return inspections, err
}

func (r *InspectionRepositoryImpl) FindByProject(db *gorm.DB, projectID uint) ([]models.Inspection, error) {
	var inspections []models.Inspection
	err := db.Where("project_id = ?", projectID).Find(&inspections).Error
	return inspections, err
}

func (r *InspectionRepositoryImpl) UpdateFields(db *gorm.DB, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()

	result := db.Model(&models.Inspection{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInspectionNotFound
	}
	return nil
}

func (r *InspectionRepositoryImpl) Delete(db *gorm.DB, id uint) error {
	result := db.Where("id = ?", id).Delete(&models.Inspection{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInspectionNotFound
	}
	return nil
}
