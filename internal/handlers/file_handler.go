package handlers

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"photoflow_backend/internal/storage"
	"photoflow_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type FileHandler struct {
	*BaseHandler
	storage storage.Storage
}

func NewFileHandler(base *BaseHandler, store storage.Storage) *FileHandler {
	return &FileHandler{
		BaseHandler: base,
		storage:     store,
	}
}

func (h *FileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	files := rg.Group("/files")
	{
		// Public file serving
		files.GET("/*filepath", h.ServeFile)
	}
}

// ServeFile отдает объект из хранилища по его пути
func (h *FileHandler) ServeFile(c *gin.Context) {
	objectPath := strings.TrimPrefix(c.Param("filepath"), "/")
	if objectPath == "" || strings.Contains(objectPath, "..") {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid file path"))
		return
	}

	reader, err := h.storage.Get(c.Request.Context(), objectPath)
	if err != nil {
		apperrors.HandleError(c, apperrors.NewNotFoundError("File not found"))
		return
	}
	defer reader.Close()

	contentType := mime.TypeByExtension(filepath.Ext(objectPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=31536000") // Cache for 1 year

	c.Status(http.StatusOK)
	io.Copy(c.Writer, reader)
}
