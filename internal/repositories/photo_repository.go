package repositories

import (
	"errors"
	"time"

	"photoflow_backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrPhotoNotFound = errors.New("photo not found")

type PhotoRepository interface {
	Create(db *gorm.DB, photo *models.Photo) error
	FindByID(db *gorm.DB, id string) (*models.Photo, error)
	FindByIDForUser(db *gorm.DB, id, userID string) (*models.Photo, error)
	ListByUser(db *gorm.DB, userID string) ([]models.Photo, error)
	UpdateThumbnail(db *gorm.DB, id, thumbnailURL string) error
}

type PhotoRepositoryImpl struct{}

func NewPhotoRepository() PhotoRepository {
	return &PhotoRepositoryImpl{}
}

// Create присваивает идентификатор и серверную метку времени загрузки
// на стороне хранилища, а не вызывающего кода.
func (r *PhotoRepositoryImpl) Create(db *gorm.DB, photo *models.Photo) error {
	if photo.ID == "" {
		photo.ID = uuid.NewString()
	}
	if photo.UploadDate.IsZero() {
		photo.UploadDate = time.Now().UTC()
	}
	return db.Create(photo).Error
}

func (r *PhotoRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Photo, error) {
	var photo models.Photo
	if err := db.First(&photo, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, err
	}
	return &photo, nil
}

func (r *PhotoRepositoryImpl) FindByIDForUser(db *gorm.DB, id, userID string) (*models.Photo, error) {
	var photo models.Photo
	if err := db.First(&photo, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, err
	}
	return &photo, nil
}

// ListByUser возвращает фотографии пользователя, новые первыми.
func (r *PhotoRepositoryImpl) ListByUser(db *gorm.DB, userID string) ([]models.Photo, error) {
	var photos []models.Photo
	if err := db.Where("user_id = ?", userID).Order("upload_date DESC").Find(&photos).Error; err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *PhotoRepositoryImpl) UpdateThumbnail(db *gorm.DB, id, thumbnailURL string) error {
	return db.Model(&models.Photo{}).Where("id = ?", id).Update("thumbnail_url", thumbnailURL).Error
}
