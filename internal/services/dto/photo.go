package dto

import "time"

// CreatePhotoRequest — входные данные публикации фотографии.
// Data и ContentType берутся из multipart-файла, остальное из полей формы.
type CreatePhotoRequest struct {
	UserID      string
	Data        []byte
	ContentType string
	Caption     string
	RawTags     string
}

type PhotoResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	ImageURL     string    `json:"image_url"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Caption      string    `json:"caption"`
	Tags         []string  `json:"tags"`
	UploadDate   time.Time `json:"upload_date"`
}

type CaptionRequest struct {
	PhotoDataURI string `json:"photo_data_uri" binding:"required" validate:"required"`
}

type CaptionResponse struct {
	Caption string `json:"caption"`
}
