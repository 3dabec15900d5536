package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные переменные для доменных ошибок галереи.
*/

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// --- Auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"auth",
	"Password must be at least 6 characters long",
	http.StatusBadRequest,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already exists",
	http.StatusConflict,
)

// --- Photos & Files ---

// ErrFileTooLarge - файл превышает максимальный размер для одного запроса.
var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

// ErrInvalidFileType - MIME-тип файла не разрешен.
var ErrInvalidFileType = New(
	CodeValidationFailed,
	"validation",
	"File type is not allowed",
	http.StatusBadRequest,
)

// ErrMissingPhotoData - попытка отправки формы без выбранного файла.
var ErrMissingPhotoData = New(
	CodeInvalidState,
	"photos",
	"No photo selected or user not logged in",
	http.StatusBadRequest,
)

// ErrPhotoNotFound - фото не существует или принадлежит другому пользователю.
var ErrPhotoNotFound = New(
	CodeNotFound,
	"photos",
	"Photo not found",
	http.StatusNotFound,
)

// ErrCaptionFailed - фабрика: генерация caption не удалась.
// Причина сохраняется как message, для клиента ошибка не фатальна.
func ErrCaptionFailed(err error) *AppError {
	return Wrap(err, CodeExternalServiceError, "caption",
		"Failed to generate caption. Please try again.", http.StatusBadGateway)
}

// --- Transform ---

var ErrInvalidTransformStyle = New(
	CodeValidationFailed,
	"transform",
	"Unknown transformation style",
	http.StatusBadRequest,
)
