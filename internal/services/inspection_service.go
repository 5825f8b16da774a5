package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"siteinspect_backend/internal/imageprocessor"
	"siteinspect_backend/internal/models"
	"siteinspect_backend/internal/pdf"
	"siteinspect_backend/internal/repositories"
	"siteinspect_backend/internal/services/dto"
	"siteinspect_backend/internal/storage"
	"siteinspect_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// InspectionService владеет жизненным циклом записей о проверках и их
// PDF-артефактов: каскадное удаление фото и правило замены файла живут здесь.
type InspectionService interface {
	Create(ctx context.Context, db *gorm.DB, req *dto.CreateInspectionRequest) (*models.Inspection, error)
	Get(db *gorm.DB, id uint) (*models.Inspection, error)
	List(db *gorm.DB, projectID *uint, skip, limit int) ([]models.Inspection, error)
	Update(ctx context.Context, db *gorm.DB, id uint, req *dto.UpdateInspectionRequest) (*models.Inspection, error)
	Delete(ctx context.Context, db *gorm.DB, id uint) (*models.Inspection, error)
	AttachPDF(ctx context.Context, db *gorm.DB, id uint, file *multipart.FileHeader) (*models.Inspection, error)
	GeneratePDF(ctx context.Context, db *gorm.DB, id uint) (*models.Inspection, error)
}

type inspectionService struct {
	inspectionRepo repositories.InspectionRepository
	projectRepo    repositories.ProjectRepository
	photoRepo      repositories.PhotoRepository
	store          storage.Storage
	generator      *pdf.Generator
	config         *FileConfig
}

func NewInspectionService(
	inspectionRepo repositories.InspectionRepository,
	projectRepo repositories.ProjectRepository,
	photoRepo repositories.PhotoRepository,
	store storage.Storage,
	generator *pdf.Generator,
	config *FileConfig,
) InspectionService {
	if config == nil {
		config = DefaultFileConfig()
	}
	return &inspectionService{
		inspectionRepo: inspectionRepo,
		projectRepo:    projectRepo,
		photoRepo:      photoRepo,
		store:          store,
		generator:      generator,
		config:         config,
	}
}

func (s *inspectionService) Create(ctx context.Context, db *gorm.DB, req *dto.CreateInspectionRequest) (*models.Inspection, error) {
	if !models.IsValidTiming(req.Timing) {
		return nil, apperrors.ErrInvalidStatus("inspection",
			fmt.Sprintf("unknown timing %q", req.Timing))
	}
	if req.Result != nil && !models.IsValidResult(*req.Result) {
		return nil, apperrors.ErrInvalidStatus("inspection",
			fmt.Sprintf("unknown result %q", *req.Result))
	}

	// Родительский проект обязан существовать
	if _, err := s.projectRepo.FindByID(db, req.ProjectID); err != nil {
		return nil, handleRepoError(err)
	}

	inspection := &models.Inspection{
		ProjectID:          req.ProjectID,
		SubprojectName:     req.SubprojectName,
		InspectionFormName: req.InspectionFormName,
		InspectionDate:     req.InspectionDate,
		Location:           req.Location,
		Timing:             req.Timing,
		Result:             req.Result,
		Remark:             req.Remark,
	}

	if err := s.inspectionRepo.Create(db, inspection); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return inspection, nil
}

func (s *inspectionService) Get(db *gorm.DB, id uint) (*models.Inspection, error) {
	inspection, err := s.inspectionRepo.FindByIDWithPhotos(db, id)
	if err != nil {
		return nil, handleRepoError(err)
	}
	return inspection, nil
}

func (s *inspectionService) List(db *gorm.DB, projectID *uint, skip, limit int) ([]models.Inspection, error) {
	inspections, err := s.inspectionRepo.FindAll(db, projectID, skip, limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return inspections, nil
}

// Update применяет частичный патч (result/remark/pdf_path). Если патч задает
// новый pdf_path, а текущий указывает на существующий файл - старый файл
// удаляется до записи нового значения.
func (s *inspectionService) Update(ctx context.Context, db *gorm.DB, id uint, req *dto.UpdateInspectionRequest) (*models.Inspection, error) {
	current, err := s.inspectionRepo.FindByID(db, id)
	if err != nil {
		return nil, handleRepoError(err)
	}

	fields := map[string]interface{}{}

	if req.Result != nil {
		if !models.IsValidResult(*req.Result) {
			return nil, apperrors.ErrInvalidStatus("inspection",
				fmt.Sprintf("unknown result %q", *req.Result))
		}
		fields["result"] = *req.Result
	}

	if req.Remark != nil {
		fields["remark"] = *req.Remark
	}

	if req.PdfPath != nil {
		if current.PdfPath != nil && *current.PdfPath != "" {
			removeFileIfExists(ctx, s.store, *current.PdfPath)
		}
		fields["pdf_path"] = *req.PdfPath
	}

	if err := s.inspectionRepo.UpdateFields(db, id, fields); err != nil {
		return nil, handleRepoError(err)
	}

	updated, err := s.inspectionRepo.FindByID(db, id)
	if err != nil {
		return nil, handleRepoError(err)
	}
	return updated, nil
}

// Delete удаляет проверку каскадно: PDF-файл, файлы и записи фото, затем
// саму запись. Сбои файловых операций логируются и каскад не прерывают.
func (s *inspectionService) Delete(ctx context.Context, db *gorm.DB, id uint) (*models.Inspection, error) {
	inspection, err := s.inspectionRepo.FindByID(db, id)
	if err != nil {
		return nil, handleRepoError(err)
	}

	if inspection.PdfPath != nil {
		removeFileIfExists(ctx, s.store, *inspection.PdfPath)
	}

	photos, err := s.photoRepo.FindByInspection(db, id)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	for _, photo := range photos {
		removeFileIfExists(ctx, s.store, photo.PhotoPath)
		removeFileIfExists(ctx, s.store, imageprocessor.ThumbnailPath(photo.PhotoPath))
		if err := s.photoRepo.Delete(db, photo.ID); err != nil {
			return nil, handleRepoError(err)
		}
	}

	if err := s.inspectionRepo.Delete(db, id); err != nil {
		return nil, handleRepoError(err)
	}

	return inspection, nil
}

// AttachPDF сохраняет загруженный PDF и прикрепляет его через Update,
// чтобы сработало правило замены старого файла.
func (s *inspectionService) AttachPDF(ctx context.Context, db *gorm.DB, id uint, file *multipart.FileHeader) (*models.Inspection, error) {
	if _, err := s.inspectionRepo.FindByID(db, id); err != nil {
		return nil, handleRepoError(err)
	}

	if file.Size > s.config.MaxFileSize {
		return nil, apperrors.NewBadRequestError("file too large")
	}

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to open uploaded file: %w", err))
	}
	defer src.Close()

	pdfPath := uploadPath(s.config.PDFDir, file.Filename)
	if err := s.store.Save(ctx, pdfPath, src, "application/pdf"); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.Update(ctx, db, id, &dto.UpdateInspectionRequest{PdfPath: &pdfPath})
}

// GeneratePDF рендерит отчет из данных проверки и ее фото и прикрепляет его.
func (s *inspectionService) GeneratePDF(ctx context.Context, db *gorm.DB, id uint) (*models.Inspection, error) {
	inspection, err := s.inspectionRepo.FindByID(db, id)
	if err != nil {
		return nil, handleRepoError(err)
	}

	photos, err := s.photoRepo.FindByInspection(db, id)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	pdfPath, err := s.generator.Generate(ctx, inspection, photos)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.Update(ctx, db, id, &dto.UpdateInspectionRequest{PdfPath: &pdfPath})
}

// handleRepoError преобразует sentinel-ошибки репозиториев в AppError
func handleRepoError(err error) error {
	switch {
	case apperrors.Is(err, repositories.ErrProjectNotFound):
		return apperrors.NewProjectNotFound().WithError(err)
	case apperrors.Is(err, repositories.ErrInspectionNotFound):
		return apperrors.NewInspectionNotFound().WithError(err)
	case apperrors.Is(err, repositories.ErrPhotoNotFound):
		return apperrors.NewPhotoNotFound().WithError(err)
	default:
		return apperrors.InternalError(err)
	}
}
