package services

import (
	"photoflow_backend/internal/email"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService      AuthService
	PhotoService     PhotoService
	TransformService TransformService
	DraftService     DraftService
	EmailService     email.Provider
}
