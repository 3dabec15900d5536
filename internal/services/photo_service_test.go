package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"photoflow_backend/internal/config"
	"photoflow_backend/internal/imageprocessor"
	"photoflow_backend/internal/models"
	"photoflow_backend/internal/repositories"
	"photoflow_backend/internal/services/dto"
	"photoflow_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// --- Fakes ---

type fakePhotoRepo struct {
	mu         sync.Mutex
	photos     []*models.Photo
	failCreate bool
}

func (r *fakePhotoRepo) Create(db *gorm.DB, photo *models.Photo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return errors.New("metadata store unavailable")
	}
	if photo.ID == "" {
		photo.ID = fmt.Sprintf("photo-%d", len(r.photos)+1)
	}
	r.photos = append(r.photos, photo)
	return nil
}

func (r *fakePhotoRepo) FindByID(db *gorm.DB, id string) (*models.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.photos {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repositories.ErrPhotoNotFound
}

func (r *fakePhotoRepo) FindByIDForUser(db *gorm.DB, id, userID string) (*models.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.photos {
		if p.ID == id && p.UserID == userID {
			return p, nil
		}
	}
	return nil, repositories.ErrPhotoNotFound
}

func (r *fakePhotoRepo) ListByUser(db *gorm.DB, userID string) ([]models.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Photo
	for _, p := range r.photos {
		if p.UserID == userID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *fakePhotoRepo) UpdateThumbnail(db *gorm.DB, id, thumbnailURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.photos {
		if p.ID == id {
			p.ThumbnailURL = thumbnailURL
		}
	}
	return nil
}

func (r *fakePhotoRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.photos)
}

type fakeStorage struct {
	mu       sync.Mutex
	objects  map[string][]byte
	failSave bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) Save(ctx context.Context, path string, reader io.Reader, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave {
		return errors.New("object store unavailable")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.objects[path] = data
	return nil
}

func (s *fakeStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[path]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStorage) Delete(ctx context.Context, path string) error { return nil }

func (s *fakeStorage) Exists(ctx context.Context, path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[path]
	return ok, nil
}

func (s *fakeStorage) GetURL(ctx context.Context, path string) (string, error) {
	return "/files/" + path, nil
}

func (s *fakeStorage) GetSize(ctx context.Context, path string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.objects[path])), nil
}

func (s *fakeStorage) photoKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for k := range s.objects {
		if strings.HasPrefix(k, "photos/") {
			keys = append(keys, k)
		}
	}
	return keys
}

type fakeCaptionClient struct {
	mu      sync.Mutex
	caption string
	err     error
	calls   int
}

func (c *fakeCaptionClient) GenerateCaption(ctx context.Context, photoDataURI string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.caption, c.err
}

type fakeNotifier struct {
	mu    sync.Mutex
	users []string
}

func (n *fakeNotifier) PhotoCreated(userID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.users = append(n.users, userID)
}

func (n *fakeNotifier) notified() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.users...)
}

// --- Helpers ---

func setTestConfig() {
	cfg := &config.Config{}
	cfg.Upload.MaxSize = 4 * 1024 * 1024
	cfg.Upload.AllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	cfg.Upload.ImageQuality = 85
	cfg.Transform.DelayMs = 1
	cfg.Transform.PlaceholderURL = "https://picsum.photos/seed"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	config.AppConfig = cfg
}

func newTestPhotoService(repo *fakePhotoRepo, store *fakeStorage, client *fakeCaptionClient) PhotoService {
	setTestConfig()
	return NewPhotoService(repo, store, client, imageprocessor.NewProcessor(85))
}

// JPEG-заголовок с мусорным хвостом: валидный MIME, но не декодируется,
// поэтому фоновая миниатюра не создается и тест детерминирован.
func testJPEG(size int) []byte {
	data := bytes.Repeat([]byte{0xAB}, size)
	copy(data, []byte{0xFF, 0xD8, 0xFF, 0xE0})
	return data
}

// --- Tests ---

// TestPhotoService_Create - "золотой путь" публикации фотографии
func TestPhotoService_Create(t *testing.T) {
	repo := &fakePhotoRepo{}
	store := newFakeStorage()
	service := newTestPhotoService(repo, store, &fakeCaptionClient{})

	notifier := &fakeNotifier{}
	service.SetNotifier(notifier)

	resp, err := service.Create(context.Background(), nil, &dto.CreatePhotoRequest{
		UserID:      "user-1",
		Data:        testJPEG(1024 * 1024),
		ContentType: "image/jpeg",
		Caption:     "sunset over hills",
		RawTags:     "nature, sunset",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "user-1", resp.UserID)
	assert.Equal(t, "sunset over hills", resp.Caption)
	assert.Equal(t, []string{"nature", "sunset"}, resp.Tags)
	assert.NotEmpty(t, resp.ImageURL)

	// Объект сохранен в пространстве пользователя
	keys := store.photoKeys()
	assert.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], "photos/user-1/"))

	// Метаданные записаны, подписчики уведомлены
	assert.Equal(t, 1, repo.count())
	assert.Equal(t, []string{"user-1"}, notifier.notified())
}

// TestPhotoService_Create_Oversized - файл больше лимита отклоняется без
// обращения к хранилищу
func TestPhotoService_Create_Oversized(t *testing.T) {
	repo := &fakePhotoRepo{}
	store := newFakeStorage()
	service := newTestPhotoService(repo, store, &fakeCaptionClient{})

	_, err := service.Create(context.Background(), nil, &dto.CreatePhotoRequest{
		UserID:      "user-1",
		Data:        testJPEG(5 * 1024 * 1024),
		ContentType: "image/jpeg",
	})

	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)
	assert.Empty(t, store.photoKeys())
	assert.Zero(t, repo.count())
}

// TestPhotoService_Create_MissingData - без файла или пользователя
func TestPhotoService_Create_MissingData(t *testing.T) {
	service := newTestPhotoService(&fakePhotoRepo{}, newFakeStorage(), &fakeCaptionClient{})

	_, err := service.Create(context.Background(), nil, &dto.CreatePhotoRequest{
		UserID: "user-1",
	})
	assert.ErrorIs(t, err, apperrors.ErrMissingPhotoData)

	_, err = service.Create(context.Background(), nil, &dto.CreatePhotoRequest{
		Data:        testJPEG(1024),
		ContentType: "image/jpeg",
	})
	assert.ErrorIs(t, err, apperrors.ErrMissingPhotoData)
}

// TestPhotoService_Create_BadType - неразрешенный MIME-тип
func TestPhotoService_Create_BadType(t *testing.T) {
	service := newTestPhotoService(&fakePhotoRepo{}, newFakeStorage(), &fakeCaptionClient{})

	_, err := service.Create(context.Background(), nil, &dto.CreatePhotoRequest{
		UserID:      "user-1",
		Data:        []byte("plain text"),
		ContentType: "text/plain",
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidFileType)
}

// TestPhotoService_Create_MetadataFailure - при отказе записи метаданных
// объект остается в хранилище, подписчики не уведомляются
func TestPhotoService_Create_MetadataFailure(t *testing.T) {
	repo := &fakePhotoRepo{failCreate: true}
	store := newFakeStorage()
	service := newTestPhotoService(repo, store, &fakeCaptionClient{})

	notifier := &fakeNotifier{}
	service.SetNotifier(notifier)

	_, err := service.Create(context.Background(), nil, &dto.CreatePhotoRequest{
		UserID:      "user-1",
		Data:        testJPEG(1024),
		ContentType: "image/jpeg",
	})

	assert.Error(t, err)
	var appErr *apperrors.AppError
	assert.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeInternalError, appErr.Code)

	// Объект-сирота не удаляется
	assert.Len(t, store.photoKeys(), 1)
	assert.Empty(t, notifier.notified())
}

// TestPhotoService_SuggestCaption - генерация подписи по валидному фото
func TestPhotoService_SuggestCaption(t *testing.T) {
	client := &fakeCaptionClient{caption: "A dog on the beach."}
	service := newTestPhotoService(&fakePhotoRepo{}, newFakeStorage(), client)

	uri := "data:image/jpeg;base64,/9j/4AAQ"
	text, err := service.SuggestCaption(context.Background(), uri)

	assert.NoError(t, err)
	assert.Equal(t, "A dog on the beach.", text)
	assert.Equal(t, 1, client.calls)
}

// TestPhotoService_SuggestCaption_Failure - сбой модели превращается в 502
func TestPhotoService_SuggestCaption_Failure(t *testing.T) {
	client := &fakeCaptionClient{err: errors.New("upstream timeout")}
	service := newTestPhotoService(&fakePhotoRepo{}, newFakeStorage(), client)

	_, err := service.SuggestCaption(context.Background(), "data:image/jpeg;base64,/9j/4AAQ")

	var appErr *apperrors.AppError
	assert.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeExternalServiceError, appErr.Code)
	assert.Equal(t, "Failed to generate caption. Please try again.", appErr.Message)
}

// TestPhotoService_SuggestCaption_Oversized - большое фото не уходит в сеть
func TestPhotoService_SuggestCaption_Oversized(t *testing.T) {
	client := &fakeCaptionClient{caption: "never used"}
	service := newTestPhotoService(&fakePhotoRepo{}, newFakeStorage(), client)

	big := testJPEG(5 * 1024 * 1024)
	uri := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(big)

	_, err := service.SuggestCaption(context.Background(), uri)

	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)
	assert.Zero(t, client.calls)
}

// TestPhotoService_List - поиск фильтрует по подписи и тегам
func TestPhotoService_List(t *testing.T) {
	repo := &fakePhotoRepo{}
	service := newTestPhotoService(repo, newFakeStorage(), &fakeCaptionClient{})

	for _, req := range []*dto.CreatePhotoRequest{
		{UserID: "user-1", Data: testJPEG(512), ContentType: "image/jpeg", Caption: "Sunset over hills", RawTags: "nature"},
		{UserID: "user-1", Data: testJPEG(512), ContentType: "image/jpeg", Caption: "City at night", RawTags: "urban"},
		{UserID: "user-2", Data: testJPEG(512), ContentType: "image/jpeg", Caption: "Sunset at sea", RawTags: ""},
	} {
		_, err := service.Create(context.Background(), nil, req)
		assert.NoError(t, err)
	}

	// Без фильтра: только свои фото
	all, err := service.List(nil, "user-1", "")
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	// Поиск по подписи
	found, err := service.List(nil, "user-1", "sunset")
	assert.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Equal(t, "Sunset over hills", found[0].Caption)

	// Поиск по тегу
	found, err = service.List(nil, "user-1", "urb")
	assert.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Equal(t, "City at night", found[0].Caption)
}

// TestPhotoService_GetByID - чужое фото недоступно
func TestPhotoService_GetByID_Ownership(t *testing.T) {
	repo := &fakePhotoRepo{}
	service := newTestPhotoService(repo, newFakeStorage(), &fakeCaptionClient{})

	resp, err := service.Create(context.Background(), nil, &dto.CreatePhotoRequest{
		UserID:      "user-1",
		Data:        testJPEG(512),
		ContentType: "image/jpeg",
	})
	assert.NoError(t, err)

	photo, err := service.GetByID(nil, resp.ID, "user-1")
	assert.NoError(t, err)
	assert.Equal(t, resp.ID, photo.ID)

	_, err = service.GetByID(nil, resp.ID, "user-2")
	assert.ErrorIs(t, err, apperrors.ErrPhotoNotFound)
}
