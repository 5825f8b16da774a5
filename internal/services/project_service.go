package services

import (
	"context"

	"siteinspect_backend/internal/models"
	"siteinspect_backend/internal/repositories"
	"siteinspect_backend/internal/services/dto"
	"siteinspect_backend/internal/storage"
	"siteinspect_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// ProjectService владеет жизненным циклом проектов. Каскадное удаление
// делегирует каждую проверку InspectionService.Delete, поэтому файлы
// удаляются в том же порядке, что и при одиночном удалении: листья первыми,
// корневая запись последней.
type ProjectService interface {
	Create(db *gorm.DB, req *dto.CreateProjectRequest) (*models.Project, error)
	Get(db *gorm.DB, id uint) (*models.Project, error)
	List(db *gorm.DB, owner string, skip, limit int) ([]models.Project, error)
	Update(db *gorm.DB, id uint, req *dto.CreateProjectRequest) (*models.Project, error)
	Delete(ctx context.Context, db *gorm.DB, id uint) (*models.Project, error)
	StorageUsage(ctx context.Context, db *gorm.DB, id uint) (*dto.StorageUsageResponse, error)
}

type projectService struct {
	projectRepo       repositories.ProjectRepository
	inspectionRepo    repositories.InspectionRepository
	photoRepo         repositories.PhotoRepository
	inspectionService InspectionService
	store             storage.Storage
}

func NewProjectService(
	projectRepo repositories.ProjectRepository,
	inspectionRepo repositories.InspectionRepository,
	photoRepo repositories.PhotoRepository,
	inspectionService InspectionService,
	store storage.Storage,
) ProjectService {
	return &projectService{
		projectRepo:       projectRepo,
		inspectionRepo:    inspectionRepo,
		photoRepo:         photoRepo,
		inspectionService: inspectionService,
		store:             store,
	}
}

func (s *projectService) Create(db *gorm.DB, req *dto.CreateProjectRequest) (*models.Project, error) {
	project := &models.Project{
		Name:       req.Name,
		Location:   req.Location,
		Contractor: req.Contractor,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Owner:      req.Owner,
	}

	if err := s.projectRepo.Create(db, project); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return project, nil
}

func (s *projectService) Get(db *gorm.DB, id uint) (*models.Project, error) {
	project, err := s.projectRepo.FindByIDWithInspections(db, id)
	if err != nil {
		return nil, handleRepoError(err)
	}
	return project, nil
}

func (s *projectService) List(db *gorm.DB, owner string, skip, limit int) ([]models.Project, error) {
	var (
		projects []models.Project
		err      error
	)
	if owner != "" {
		projects, err = s.projectRepo.FindByOwner(db, owner, skip, limit)
	} else {
		projects, err = s.projectRepo.FindAll(db, skip, limit)
	}
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return projects, nil
}

// Update - полная замена полей проекта (PUT-семантика, как у оригинального API)
func (s *projectService) Update(db *gorm.DB, id uint, req *dto.CreateProjectRequest) (*models.Project, error) {
	if _, err := s.projectRepo.FindByID(db, id); err != nil {
		return nil, handleRepoError(err)
	}

	project := &models.Project{
		ID:         id,
		Name:       req.Name,
		Location:   req.Location,
		Contractor: req.Contractor,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Owner:      req.Owner,
	}

	if err := s.projectRepo.Update(db, project); err != nil {
		return nil, handleRepoError(err)
	}

	updated, err := s.projectRepo.FindByID(db, id)
	if err != nil {
		return nil, handleRepoError(err)
	}
	return updated, nil
}

// Delete удаляет проект каскадно: каждая проверка удаляется через
// InspectionService.Delete (файлы + фото), затем запись проекта.
func (s *projectService) Delete(ctx context.Context, db *gorm.DB, id uint) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(db, id)
	if err != nil {
		return nil, handleRepoError(err)
	}

	inspections, err := s.inspectionRepo.FindByProject(db, id)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	for _, inspection := range inspections {
		if _, err := s.inspectionService.Delete(ctx, db, inspection.ID); err != nil {
			return nil, err
		}
	}

	if err := s.projectRepo.Delete(db, id); err != nil {
		return nil, handleRepoError(err)
	}

	return project, nil
}

// StorageUsage считает размер артефактов проекта. Учитываются только пути,
// которые непусты и существуют в хранилище; исчезнувшие файлы молча
// пропускаются. Отсутствующий проект - это данные (exists=false), не ошибка.
func (s *projectService) StorageUsage(ctx context.Context, db *gorm.DB, id uint) (*dto.StorageUsageResponse, error) {
	project, err := s.projectRepo.FindByID(db, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProjectNotFound) {
			return &dto.StorageUsageResponse{
				Error:              "Project not found",
				ProjectID:          id,
				TotalSizeBytes:     0,
				TotalSizeFormatted: "0 B",
				FileCount:          0,
				Exists:             false,
			}, nil
		}
		return nil, apperrors.InternalError(err)
	}

	inspections, err := s.inspectionRepo.FindByProject(db, id)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	var totalSize int64
	pdfFiles := []string{}
	photoFiles := []string{}

	for _, inspection := range inspections {
		if inspection.PdfPath != nil && *inspection.PdfPath != "" {
			if size, ok := s.fileSize(ctx, *inspection.PdfPath); ok {
				pdfFiles = append(pdfFiles, *inspection.PdfPath)
				totalSize += size
			}
		}
	}

	for _, inspection := range inspections {
		photos, err := s.photoRepo.FindByInspection(db, inspection.ID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		for _, photo := range photos {
			if photo.PhotoPath == "" {
				continue
			}
			if size, ok := s.fileSize(ctx, photo.PhotoPath); ok {
				photoFiles = append(photoFiles, photo.PhotoPath)
				totalSize += size
			}
		}
	}

	return &dto.StorageUsageResponse{
		ProjectID:          id,
		ProjectName:        project.Name,
		TotalSizeBytes:     totalSize,
		TotalSizeFormatted: FormatFileSize(totalSize),
		FileCount:          len(pdfFiles) + len(photoFiles),
		PdfCount:           len(pdfFiles),
		PhotoCount:         len(photoFiles),
		Exists:             true,
		Details: &dto.StorageDetails{
			PdfFiles:   pdfFiles,
			PhotoFiles: photoFiles,
		},
	}, nil
}

func (s *projectService) fileSize(ctx context.Context, path string) (int64, bool) {
	exists, err := s.store.Exists(ctx, path)
	if err != nil || !exists {
		return 0, false
	}
	size, err := s.store.Size(ctx, path)
	if err != nil {
		return 0, false
	}
	return size, true
}
