package services

import (
	"bytes"
	"context"
	"fmt"

	"photoflow_backend/internal/caption"
	"photoflow_backend/internal/config"
	"photoflow_backend/internal/gallery"
	"photoflow_backend/internal/imageprocessor"
	"photoflow_backend/internal/logger"
	"photoflow_backend/internal/models"
	"photoflow_backend/internal/repositories"
	"photoflow_backend/internal/services/dto"
	"photoflow_backend/internal/storage"
	"photoflow_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GalleryNotifier получает уведомление после успешной публикации фото.
// Реализуется ws-хабом; интерфейс разрывает цикл импорта services <-> ws.
type GalleryNotifier interface {
	PhotoCreated(userID string)
}

type PhotoService interface {
	SuggestCaption(ctx context.Context, photoDataURI string) (string, error)
	Create(ctx context.Context, db *gorm.DB, req *dto.CreatePhotoRequest) (*dto.PhotoResponse, error)
	List(db *gorm.DB, userID, search string) ([]dto.PhotoResponse, error)
	GetByID(db *gorm.DB, photoID, userID string) (*dto.PhotoResponse, error)
	SetNotifier(n GalleryNotifier)
}

type PhotoServiceImpl struct {
	photoRepo     repositories.PhotoRepository
	store         storage.Storage
	captionClient caption.Client
	processor     *imageprocessor.Processor
	notifier      GalleryNotifier
}

func NewPhotoService(
	photoRepo repositories.PhotoRepository,
	store storage.Storage,
	captionClient caption.Client,
	processor *imageprocessor.Processor,
) PhotoService {
	return &PhotoServiceImpl{
		photoRepo:     photoRepo,
		store:         store,
		captionClient: captionClient,
		processor:     processor,
	}
}

// SetNotifier подключает подписчика галереи. Вызывается один раз при старте.
func (s *PhotoServiceImpl) SetNotifier(n GalleryNotifier) {
	s.notifier = n
}

// SuggestCaption - генерация подписи по закодированному фото.
// Данные проверяются до обращения к модели: при невалидном или слишком
// большом фото сетевой вызов не выполняется вовсе.
func (s *PhotoServiceImpl) SuggestCaption(ctx context.Context, photoDataURI string) (string, error) {
	decoded, err := caption.ParseDataURI(photoDataURI)
	if err != nil {
		return "", apperrors.NewBadRequestError(err.Error())
	}

	cfg := config.GetConfig()
	if int64(len(decoded.Data)) > cfg.Upload.MaxSize {
		return "", apperrors.ErrFileTooLarge
	}
	if !isAllowedType(decoded.MimeType, cfg.Upload.AllowedTypes) {
		return "", apperrors.ErrInvalidFileType
	}

	text, err := s.captionClient.GenerateCaption(ctx, photoDataURI)
	if err != nil {
		logger.WithError(err).Error("Caption generation failed")
		return "", apperrors.ErrCaptionFailed(err)
	}

	return text, nil
}

// Create - публикация фотографии: объект сохраняется первым, затем
// записываются метаданные. Компенсации нет: если метаданные записать
// не удалось, объект остается в хранилище и фиксируется в логе.
func (s *PhotoServiceImpl) Create(ctx context.Context, db *gorm.DB, req *dto.CreatePhotoRequest) (*dto.PhotoResponse, error) {
	if req.UserID == "" || len(req.Data) == 0 {
		return nil, apperrors.ErrMissingPhotoData
	}

	cfg := config.GetConfig()
	if int64(len(req.Data)) > cfg.Upload.MaxSize {
		return nil, apperrors.ErrFileTooLarge
	}
	if !isAllowedType(req.ContentType, cfg.Upload.AllowedTypes) {
		return nil, apperrors.ErrInvalidFileType
	}

	// Шаг 1: объект в хранилище
	objectKey := fmt.Sprintf("photos/%s/%s%s", req.UserID, uuid.NewString(), extensionFor(req.ContentType))
	if err := s.store.Save(ctx, objectKey, bytes.NewReader(req.Data), req.ContentType); err != nil {
		logger.WithError(err).Error("Photo object upload failed", "user_id", req.UserID)
		return nil, apperrors.InternalError(err)
	}

	imageURL, err := s.store.GetURL(ctx, objectKey)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	photo := &models.Photo{
		UserID:      req.UserID,
		ImageURL:    imageURL,
		Caption:     req.Caption,
		Tags:        datatypes.JSONSlice[string](gallery.ParseTags(req.RawTags)),
		StoragePath: objectKey,
		MimeType:    req.ContentType,
		Size:        int64(len(req.Data)),
	}

	// Шаг 2: метаданные
	if err := s.photoRepo.Create(db, photo); err != nil {
		logger.WithError(err).Error("Photo metadata write failed, object orphaned",
			"user_id", req.UserID,
			"storage_path", objectKey,
		)
		return nil, apperrors.InternalError(err)
	}

	// Миниатюра строится в фоне и не задерживает ответ
	go s.generateThumbnail(db, photo.ID, req.Data, req.ContentType)

	// Шаг 3: подписчики галереи
	if s.notifier != nil {
		s.notifier.PhotoCreated(req.UserID)
	}

	resp := toPhotoResponse(photo)
	return &resp, nil
}

// List - галерея пользователя с необязательным поисковым фильтром
func (s *PhotoServiceImpl) List(db *gorm.DB, userID, search string) ([]dto.PhotoResponse, error) {
	photos, err := s.photoRepo.ListByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	photos = gallery.Filter(photos, search)

	responses := make([]dto.PhotoResponse, 0, len(photos))
	for i := range photos {
		responses = append(responses, toPhotoResponse(&photos[i]))
	}
	return responses, nil
}

// GetByID - одно фото с проверкой владельца
func (s *PhotoServiceImpl) GetByID(db *gorm.DB, photoID, userID string) (*dto.PhotoResponse, error) {
	photo, err := s.photoRepo.FindByIDForUser(db, photoID, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPhotoNotFound) {
			return nil, apperrors.ErrPhotoNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	resp := toPhotoResponse(photo)
	return &resp, nil
}

// generateThumbnail строит и сохраняет миниатюру. Ошибка не влияет на
// уже опубликованное фото.
func (s *PhotoServiceImpl) generateThumbnail(db *gorm.DB, photoID string, data []byte, contentType string) {
	ctx := context.Background()

	resized, err := s.processor.ProcessImage(bytes.NewReader(data), imageprocessor.SizeThumbnail)
	if err != nil {
		logger.WithError(err).Warn("Thumbnail generation skipped", "photo_id", photoID)
		return
	}

	thumbKey := fmt.Sprintf("thumbnails/%s%s", photoID, extensionFor(contentType))
	if err := s.store.Save(ctx, thumbKey, resized, contentType); err != nil {
		logger.WithError(err).Warn("Thumbnail upload failed", "photo_id", photoID)
		return
	}

	thumbURL, err := s.store.GetURL(ctx, thumbKey)
	if err != nil {
		return
	}

	if err := s.photoRepo.UpdateThumbnail(db, photoID, thumbURL); err != nil {
		logger.WithError(err).Warn("Thumbnail URL update failed", "photo_id", photoID)
	}
}

func toPhotoResponse(photo *models.Photo) dto.PhotoResponse {
	return dto.PhotoResponse{
		ID:           photo.ID,
		UserID:       photo.UserID,
		ImageURL:     photo.ImageURL,
		ThumbnailURL: photo.ThumbnailURL,
		Caption:      photo.Caption,
		Tags:         []string(photo.Tags),
		UploadDate:   photo.UploadDate,
	}
}

func isAllowedType(contentType string, allowed []string) bool {
	for _, t := range allowed {
		if t == contentType {
			return true
		}
	}
	return false
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
