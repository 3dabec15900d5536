package models

import (
	"time"

	"gorm.io/datatypes"
)

// Photo - метаданные одной загруженной фотографии.
// ImageURL и UserID обязательны: запись никогда не создается до того,
// как файл успешно сохранен в storage.
type Photo struct {
	BaseModel
	UserID       string                      `gorm:"not null;index" json:"user_id"`
	ImageURL     string                      `gorm:"not null" json:"image_url"`
	ThumbnailURL string                      `json:"thumbnail_url,omitempty"`
	Caption      string                      `gorm:"type:text" json:"caption"`
	Tags         datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"tags"`
	StoragePath  string                      `gorm:"not null" json:"-"`
	MimeType     string                      `json:"mime_type"`
	Size         int64                       `json:"size"`
	UploadDate   time.Time                   `gorm:"not null;index;default:now()" json:"upload_date"`
}
