package handlers

import (
	"io"
	"net/http"

	"photoflow_backend/internal/config"
	"photoflow_backend/internal/middleware"
	"photoflow_backend/internal/services"
	"photoflow_backend/internal/services/dto"
	"photoflow_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type PhotoHandler struct {
	*BaseHandler
	photoService services.PhotoService
}

func NewPhotoHandler(base *BaseHandler, photoService services.PhotoService) *PhotoHandler {
	return &PhotoHandler{
		BaseHandler:  base,
		photoService: photoService,
	}
}

// RegisterRoutes регистрирует маршруты галереи
func (h *PhotoHandler) RegisterRoutes(rg *gin.RouterGroup) {
	photos := rg.Group("/photos")
	photos.Use(middleware.AuthMiddleware())
	{
		photos.POST("", h.Create)
		photos.GET("", h.List)
		photos.GET("/:photoId", h.GetByID)
		photos.POST("/caption", h.SuggestCaption)
	}
}

// SuggestCaption - генерация подписи по закодированному фото
func (h *PhotoHandler) SuggestCaption(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	var req dto.CaptionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	captionText, err := h.photoService.SuggestCaption(c.Request.Context(), req.PhotoDataURI)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CaptionResponse{Caption: captionText})
}

// Create - публикация фотографии из multipart формы
func (h *PhotoHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	// Парсим multipart form в пределах лимита загрузки
	maxSize := config.GetConfig().Upload.MaxSize
	if err := c.Request.ParseMultipartForm(maxSize); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("failed to parse form: "+err.Error()))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.ErrMissingPhotoData)
		return
	}
	if fileHeader.Size > maxSize {
		apperrors.HandleError(c, apperrors.ErrFileTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}

	req := &dto.CreatePhotoRequest{
		UserID:      userID,
		Data:        data,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Caption:     c.PostForm("caption"),
		RawTags:     c.PostForm("tags"),
	}

	response, err := h.photoService.Create(c.Request.Context(), h.GetDB(c), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// List - галерея текущего пользователя, поиск через ?search=
func (h *PhotoHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	photos, err := h.photoService.List(h.GetDB(c), userID, c.Query("search"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"photos": photos,
		"total":  len(photos),
	})
}

// GetByID - одно фото текущего пользователя
func (h *PhotoHandler) GetByID(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	photo, err := h.photoService.GetByID(h.GetDB(c), c.Param("photoId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, photo)
}
