package repositories

import (
	"errors"

	"siteinspect_backend/internal/models"

	"gorm.io/gorm"
)

type PhotoRepository interface {
	Create(db *gorm.DB, photo *models.Photo) error
	FindByID(db *gorm.DB, id uint) (*models.Photo, error)
	FindAll(db *gorm.DB, inspectionID *uint, skip, limit int) ([]models.Photo, error)
	FindByInspection(db *gorm.DB, inspectionID uint) ([]models.Photo, error)
	// UpdateFields применяет только переданные колонки (PATCH-семантика)
	UpdateFields(db *gorm.DB, id uint, fields map[string]interface{}) error
	Delete(db *gorm.DB, id uint) error
}

type PhotoRepositoryImpl struct{}

func NewPhotoRepository() PhotoRepository {
	return &PhotoRepositoryImpl{}
}

func (r *PhotoRepositoryImpl) Create(db *gorm.DB, photo *models.Photo) error {
	return db.Create(photo).Error
}

func (r *PhotoRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Photo, error) {
	var photo models.Photo
	err := db.First(&photo, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, err
	}
	return &photo, nil
}

func (r *PhotoRepositoryImpl) FindAll(db *gorm.DB, inspectionID *uint, skip, limit int) ([]models.Photo, error) {
	var photos []models.Photo
	query := db.Model(&models.Photo{})
	if inspectionID != nil {
		query = query.Where("inspection_id = ?", *inspectionID)
	}
	err := query.Offset(skip).Limit(limit).Find(&photos).Error
	return photos, err
}

func (r *PhotoRepositoryImpl) FindByInspection(db *gorm.DB, inspectionID uint) ([]models.Photo, error) {
	var photos []models.Photo
	err := db.Where("inspection_id = ?", inspectionID).Find(&photos).Error
	return photos, err
}

func (r *PhotoRepositoryImpl) UpdateFields(db *gorm.DB, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	result := db.Model(&models.Photo{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPhotoNotFound
	}
	return nil
}

func (r *PhotoRepositoryImpl) Delete(db *gorm.DB, id uint) error {
	result := db.Where("id = ?", id).Delete(&models.Photo{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPhotoNotFound
	}
	return nil
}
