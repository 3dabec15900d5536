package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler      *AuthHandler
	PhotoHandler     *PhotoHandler
	TransformHandler *TransformHandler
	DraftHandler     *DraftHandler
	FileHandler      *FileHandler
}
