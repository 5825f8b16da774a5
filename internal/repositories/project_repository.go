package repositories

import (
	"errors"

	"siteinspect_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrInspectionNotFound = errors.New("inspection not found")
	ErrPhotoNotFound      = errors.New("photo not found")
)

type ProjectRepository interface {
	Create(db *gorm.DB, project *models.Project) error
	FindByID(db *gorm.DB, id uint) (*models.Project, error)
	FindByIDWithInspections(db *gorm.DB, id uint) (*models.Project, error)
	FindAll(db *gorm.DB, skip, limit int) ([]models.Project, error)
	FindByOwner(db *gorm.DB, owner string, skip, limit int) ([]models.Project, error)
	Update(db *gorm.DB, project *models.Project) error
	Delete(db *gorm.DB, id uint) error
}

type ProjectRepositoryImpl struct{}

func NewProjectRepository() ProjectRepository {
	return &ProjectRepositoryImpl{}
}

func (r *ProjectRepositoryImpl) Create(db *gorm.DB, project *models.Project) error {
	return db.Create(project).Error
}

func (r *ProjectRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Project, error) {
	var project models.Project
	err := db.First(&project, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepositoryImpl) FindByIDWithInspections(db *gorm.DB, id uint) (*models.Project, error) {
	var project models.Project
	err := db.Preload("Inspections").First(&project, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepositoryImpl) FindAll(db *gorm.DB, skip, limit int) ([]models.Project, error) {
	var projects []models.Project
	err := db.Offset(skip).Limit(limit).Find(&projects).Error
	return projects, err
}

func (r *ProjectRepositoryImpl) FindByOwner(db *gorm.DB, owner string, skip, limit int) ([]models.Project, error) {
	var projects []models.Project
	err := db.Where("owner = ?", owner).Offset(skip).Limit(limit).Find(&projects).Error
	return projects, err
}

func (r *ProjectRepositoryImpl) Update(db *gorm.DB, project *models.Project) error {
	result := db.Model(&models.Project{}).Where("id = ?", project.ID).Updates(map[string]interface{}{
		"name":       project.Name,
		"location":   project.Location,
		"contractor": project.Contractor,
		"start_date": project.StartDate,
		"end_date":   project.EndDate,
		"owner":      project.Owner,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepositoryImpl) Delete(db *gorm.DB, id uint) error {
	result := db.Where("id = ?", id).Delete(&models.Project{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}
