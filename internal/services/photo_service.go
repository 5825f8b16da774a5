package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"siteinspect_backend/internal/imageprocessor"
	"siteinspect_backend/internal/logger"
	"siteinspect_backend/internal/models"
	"siteinspect_backend/internal/repositories"
	"siteinspect_backend/internal/services/dto"
	"siteinspect_backend/internal/storage"
	"siteinspect_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// PhotoService владеет жизненным циклом фото и их файлов.
type PhotoService interface {
	Create(ctx context.Context, db *gorm.DB, req *dto.CreatePhotoRequest, file *multipart.FileHeader) (*models.Photo, error)
	Get(db *gorm.DB, id uint) (*models.Photo, error)
	List(db *gorm.DB, inspectionID *uint, skip, limit int) ([]models.Photo, error)
	Update(ctx context.Context, db *gorm.DB, id uint, req *dto.UpdatePhotoRequest) (*models.Photo, error)
	Delete(ctx context.Context, db *gorm.DB, id uint) (*models.Photo, error)
}

type photoService struct {
	photoRepo      repositories.PhotoRepository
	inspectionRepo repositories.InspectionRepository
	store          storage.Storage
	processor      *imageprocessor.Processor
	config         *FileConfig
}

func NewPhotoService(
	photoRepo repositories.PhotoRepository,
	inspectionRepo repositories.InspectionRepository,
	store storage.Storage,
	processor *imageprocessor.Processor,
	config *FileConfig,
) PhotoService {
	if config == nil {
		config = DefaultFileConfig()
	}
	return &photoService{
		photoRepo:      photoRepo,
		inspectionRepo: inspectionRepo,
		store:          store,
		processor:      processor,
		config:         config,
	}
}

// Create сохраняет файл и создает запись. Родительская проверка обязана
// существовать; файл пишется до записи в БД, как в исходной системе.
func (s *photoService) Create(ctx context.Context, db *gorm.DB, req *dto.CreatePhotoRequest, file *multipart.FileHeader) (*models.Photo, error) {
	if _, err := s.inspectionRepo.FindByID(db, req.InspectionID); err != nil {
		return nil, handleRepoError(err)
	}

	captureDate, err := models.ParseDate(req.CaptureDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError(
			fmt.Sprintf("invalid capture_date %q: expected YYYY-MM-DD", req.CaptureDate))
	}

	if file.Size > s.config.MaxFileSize {
		return nil, apperrors.NewBadRequestError("file too large")
	}

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to open uploaded file: %w", err))
	}
	defer src.Close()

	photoPath := uploadPath(s.config.PhotoDir, file.Filename)
	if err := s.store.Save(ctx, photoPath, src, contentTypeForPhoto(file.Filename)); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Миниатюра - best effort; отсутствие миниатюры не должно ронять загрузку
	s.makeThumbnail(ctx, photoPath)

	photo := &models.Photo{
		InspectionID: req.InspectionID,
		PhotoPath:    photoPath,
		CaptureDate:  captureDate,
		Caption:      req.Caption,
	}

	if err := s.photoRepo.Create(db, photo); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return photo, nil
}

func (s *photoService) Get(db *gorm.DB, id uint) (*models.Photo, error) {
	photo, err := s.photoRepo.FindByID(db, id)
	if err != nil {
		return nil, handleRepoError(err)
	}
	return photo, nil
}

func (s *photoService) List(db *gorm.DB, inspectionID *uint, skip, limit int) ([]models.Photo, error) {
	photos, err := s.photoRepo.FindAll(db, inspectionID, skip, limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return photos, nil
}

// Update применяет частичный патч. Если патч задает новый photo_path, а
// текущий указывает на существующий файл - старый файл (и его миниатюра)
// удаляются до записи нового значения.
func (s *photoService) Update(ctx context.Context, db *gorm.DB, id uint, req *dto.UpdatePhotoRequest) (*models.Photo, error) {
	current, err := s.photoRepo.FindByID(db, id)
	if err != nil {
		return nil, handleRepoError(err)
	}

	fields := map[string]interface{}{}

	if req.PhotoPath != nil {
		if current.PhotoPath != "" {
			removeFileIfExists(ctx, s.store, current.PhotoPath)
			removeFileIfExists(ctx, s.store, imageprocessor.ThumbnailPath(current.PhotoPath))
		}
		fields["photo_path"] = *req.PhotoPath
	}

	if req.CaptureDate != nil {
		fields["capture_date"] = *req.CaptureDate
	}

	if req.Caption != nil {
		fields["caption"] = *req.Caption
	}

	if err := s.photoRepo.UpdateFields(db, id, fields); err != nil {
		return nil, handleRepoError(err)
	}

	updated, err := s.photoRepo.FindByID(db, id)
	if err != nil {
		return nil, handleRepoError(err)
	}
	return updated, nil
}

// Delete удаляет файл (и миниатюру), затем запись. Сбой удаления файла
// логируется и запись удаляется в любом случае.
func (s *photoService) Delete(ctx context.Context, db *gorm.DB, id uint) (*models.Photo, error) {
	photo, err := s.photoRepo.FindByID(db, id)
	if err != nil {
		return nil, handleRepoError(err)
	}

	removeFileIfExists(ctx, s.store, photo.PhotoPath)
	removeFileIfExists(ctx, s.store, imageprocessor.ThumbnailPath(photo.PhotoPath))

	if err := s.photoRepo.Delete(db, id); err != nil {
		return nil, handleRepoError(err)
	}

	return photo, nil
}

func (s *photoService) makeThumbnail(ctx context.Context, photoPath string) {
	if s.processor == nil {
		return
	}

	src, err := s.store.Get(ctx, photoPath)
	if err != nil {
		logger.FileWarn("thumbnail read", photoPath, err)
		return
	}
	defer src.Close()

	thumb, err := s.processor.Thumbnail(src)
	if err != nil {
		logger.FileWarn("thumbnail encode", photoPath, err)
		return
	}

	thumbPath := imageprocessor.ThumbnailPath(photoPath)
	if err := s.store.Save(ctx, thumbPath, thumb, contentTypeForPhoto(thumbPath)); err != nil {
		logger.FileWarn("thumbnail save", thumbPath, err)
	}
}

func contentTypeForPhoto(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}
