package services

import (
	"context"
	"fmt"
	"time"

	"photoflow_backend/internal/config"
	"photoflow_backend/internal/repositories"
	"photoflow_backend/internal/services/dto"
	"photoflow_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// TransformStyles - поддерживаемые художественные стили.
var TransformStyles = []string{"watercolor", "cartoon", "pixel-art", "sci-fi", "fantasy"}

type TransformService interface {
	Transform(ctx context.Context, db *gorm.DB, photoID, userID, style string) (*dto.TransformResponse, error)
}

type TransformServiceImpl struct {
	photoRepo repositories.PhotoRepository
}

func NewTransformService(photoRepo repositories.PhotoRepository) TransformService {
	return &TransformServiceImpl{photoRepo: photoRepo}
}

// Transform - стилизация фото. Генеративного бэкенда пока нет: после
// фиксированной паузы возвращается детерминированный URL заглушки,
// стабильный для пары (фото, стиль). Исходная запись не изменяется.
func (s *TransformServiceImpl) Transform(ctx context.Context, db *gorm.DB, photoID, userID, style string) (*dto.TransformResponse, error) {
	if !isValidStyle(style) {
		return nil, apperrors.ErrInvalidTransformStyle
	}

	// Фото должно существовать и принадлежать вызывающему
	photo, err := s.photoRepo.FindByIDForUser(db, photoID, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPhotoNotFound) {
			return nil, apperrors.ErrPhotoNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	cfg := config.GetConfig()
	delay := time.Duration(cfg.Transform.DelayMs) * time.Millisecond

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return nil, apperrors.InternalError(ctx.Err())
	}

	return &dto.TransformResponse{
		PhotoID:        photo.ID,
		Style:          style,
		TransformedURL: fmt.Sprintf("%s/%s-%s/600/600", cfg.Transform.PlaceholderURL, photo.ID, style),
	}, nil
}

func isValidStyle(style string) bool {
	for _, s := range TransformStyles {
		if s == style {
			return true
		}
	}
	return false
}
