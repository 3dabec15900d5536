package services

import (
	"sync"
	"testing"
	"time"

	"photoflow_backend/internal/models"
	"photoflow_backend/internal/repositories"
	"photoflow_backend/internal/services/dto"
	"photoflow_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// --- Fakes ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User // email -> user
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (r *fakeUserRepo) Create(db *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Email]; exists {
		return repositories.ErrUserAlreadyExists
	}
	if user.ID == "" {
		user.ID = "user-" + user.Email
	}
	r.users[user.Email] = user
	return nil
}

func (r *fakeUserRepo) FindByID(db *gorm.DB, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByVerificationToken(db *gorm.DB, token string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.VerificationToken == token && token != "" {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) VerifyUser(db *gorm.DB, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == userID {
			u.IsVerified = true
			u.VerificationToken = ""
		}
	}
	return nil
}

type fakeRefreshTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*models.RefreshToken
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: map[string]*models.RefreshToken{}}
}

func (r *fakeRefreshTokenRepo) Create(db *gorm.DB, token *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token.Token] = token
	return nil
}

func (r *fakeRefreshTokenRepo) FindByToken(db *gorm.DB, token string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[token]; ok {
		return t, nil
	}
	return nil, repositories.ErrRefreshTokenNotFound
}

func (r *fakeRefreshTokenRepo) DeleteByToken(db *gorm.DB, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteByUserID(db *gorm.DB, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, k)
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpired(db *gorm.DB) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for k, t := range r.tokens {
		if time.Now().After(t.ExpiresAt) {
			delete(r.tokens, k)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeRefreshTokenRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}

func newTestAuthService(userRepo *fakeUserRepo, tokenRepo *fakeRefreshTokenRepo) AuthService {
	setTestConfig()
	return NewAuthService(userRepo, tokenRepo, nil)
}

// --- Tests ---

// TestAuthService_RegisterAndLogin - "золотой путь" регистрации и входа
func TestAuthService_RegisterAndLogin(t *testing.T) {
	userRepo := newFakeUserRepo()
	tokenRepo := newFakeRefreshTokenRepo()
	service := newTestAuthService(userRepo, tokenRepo)

	err := service.Register(nil, &dto.RegisterRequest{
		Email:    "user@example.com",
		Password: "secret123",
	})
	assert.NoError(t, err)

	resp, err := service.Login(nil, &dto.LoginRequest{
		Email:    "user@example.com",
		Password: "secret123",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "user@example.com", resp.User.Email)
	assert.Equal(t, 1, tokenRepo.count())

	// Пароль не хранится открытым текстом
	stored, err := userRepo.FindByEmail(nil, "user@example.com")
	assert.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
}

// TestAuthService_Register_Duplicate - повторная регистрация email
func TestAuthService_Register_Duplicate(t *testing.T) {
	service := newTestAuthService(newFakeUserRepo(), newFakeRefreshTokenRepo())

	req := &dto.RegisterRequest{Email: "dup@example.com", Password: "secret123"}
	assert.NoError(t, service.Register(nil, req))
	assert.ErrorIs(t, service.Register(nil, req), apperrors.ErrEmailAlreadyExists)
}

// TestAuthService_Register_WeakPassword - короткий пароль отклоняется
func TestAuthService_Register_WeakPassword(t *testing.T) {
	service := newTestAuthService(newFakeUserRepo(), newFakeRefreshTokenRepo())

	err := service.Register(nil, &dto.RegisterRequest{Email: "a@b.c", Password: "12345"})
	assert.ErrorIs(t, err, apperrors.ErrWeakPassword)
}

// TestAuthService_Login_WrongPassword - неверные учетные данные
func TestAuthService_Login_WrongPassword(t *testing.T) {
	service := newTestAuthService(newFakeUserRepo(), newFakeRefreshTokenRepo())

	assert.NoError(t, service.Register(nil, &dto.RegisterRequest{
		Email:    "user@example.com",
		Password: "secret123",
	}))

	_, err := service.Login(nil, &dto.LoginRequest{Email: "user@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = service.Login(nil, &dto.LoginRequest{Email: "missing@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

// TestAuthService_RefreshToken_Rotation - refresh токен одноразовый
func TestAuthService_RefreshToken_Rotation(t *testing.T) {
	tokenRepo := newFakeRefreshTokenRepo()
	service := newTestAuthService(newFakeUserRepo(), tokenRepo)

	assert.NoError(t, service.Register(nil, &dto.RegisterRequest{
		Email:    "user@example.com",
		Password: "secret123",
	}))
	login, err := service.Login(nil, &dto.LoginRequest{Email: "user@example.com", Password: "secret123"})
	assert.NoError(t, err)

	refreshed, err := service.RefreshToken(nil, login.RefreshToken)
	assert.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// Старый токен больше не работает
	_, err = service.RefreshToken(nil, login.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

// TestAuthService_Logout - после выхода refresh токен недействителен
func TestAuthService_Logout(t *testing.T) {
	tokenRepo := newFakeRefreshTokenRepo()
	service := newTestAuthService(newFakeUserRepo(), tokenRepo)

	assert.NoError(t, service.Register(nil, &dto.RegisterRequest{
		Email:    "user@example.com",
		Password: "secret123",
	}))
	login, err := service.Login(nil, &dto.LoginRequest{Email: "user@example.com", Password: "secret123"})
	assert.NoError(t, err)

	assert.NoError(t, service.Logout(nil, login.RefreshToken))
	assert.Zero(t, tokenRepo.count())

	_, err = service.RefreshToken(nil, login.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

// TestAuthService_VerifyEmail - подтверждение по токену из письма
func TestAuthService_VerifyEmail(t *testing.T) {
	userRepo := newFakeUserRepo()
	service := newTestAuthService(userRepo, newFakeRefreshTokenRepo())

	assert.NoError(t, service.Register(nil, &dto.RegisterRequest{
		Email:    "user@example.com",
		Password: "secret123",
	}))

	user, err := userRepo.FindByEmail(nil, "user@example.com")
	assert.NoError(t, err)
	assert.False(t, user.IsVerified)
	assert.NotEmpty(t, user.VerificationToken)

	assert.NoError(t, service.VerifyEmail(nil, user.VerificationToken))

	user, err = userRepo.FindByEmail(nil, "user@example.com")
	assert.NoError(t, err)
	assert.True(t, user.IsVerified)

	// Случайный токен отклоняется
	assert.ErrorIs(t, service.VerifyEmail(nil, "bogus"), apperrors.ErrInvalidToken)
}
