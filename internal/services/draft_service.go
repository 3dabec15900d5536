package services

import (
	"sync"
	"time"

	"photoflow_backend/internal/gallery"
	"photoflow_backend/internal/services/dto"
	"photoflow_backend/pkg/apperrors"
)

// DraftService хранит черновики фотографий в памяти процесса.
// Черновики не переживают рестарт и не видны другим инстансам;
// это сознательно облегченный вариант до публикации.
type DraftService interface {
	Create(userID string, req *dto.CreateDraftRequest) (*dto.DraftResponse, error)
	List(userID string) []dto.DraftResponse
}

type DraftServiceImpl struct {
	mu     sync.Mutex
	drafts map[string][]dto.DraftResponse // userID -> черновики
}

func NewDraftService() DraftService {
	return &DraftServiceImpl{
		drafts: make(map[string][]dto.DraftResponse),
	}
}

// Create - новый черновик с меткой времени в качестве идентификатора
func (s *DraftServiceImpl) Create(userID string, req *dto.CreateDraftRequest) (*dto.DraftResponse, error) {
	if userID == "" || req.PhotoDataURI == "" {
		return nil, apperrors.ErrMissingPhotoData
	}

	draft := dto.DraftResponse{
		ID:           time.Now().UTC().Format(time.RFC3339Nano),
		PhotoDataURI: req.PhotoDataURI,
		Caption:      req.Caption,
		Tags:         gallery.ParseTags(req.Tags),
	}

	s.mu.Lock()
	s.drafts[userID] = append(s.drafts[userID], draft)
	s.mu.Unlock()

	return &draft, nil
}

// List - черновики пользователя в порядке создания
func (s *DraftServiceImpl) List(userID string) []dto.DraftResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	drafts := make([]dto.DraftResponse, len(s.drafts[userID]))
	copy(drafts, s.drafts[userID])
	return drafts
}
