package handlers

import (
	"net/http"

	"photoflow_backend/internal/middleware"
	"photoflow_backend/internal/services"
	"photoflow_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type TransformHandler struct {
	*BaseHandler
	transformService services.TransformService
}

func NewTransformHandler(base *BaseHandler, transformService services.TransformService) *TransformHandler {
	return &TransformHandler{
		BaseHandler:      base,
		transformService: transformService,
	}
}

func (h *TransformHandler) RegisterRoutes(rg *gin.RouterGroup) {
	photos := rg.Group("/photos")
	photos.Use(middleware.AuthMiddleware())
	{
		photos.POST("/:photoId/transform", h.Transform)
	}
}

// Transform - стилизация фото в один из поддерживаемых стилей
func (h *TransformHandler) Transform(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.TransformRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.transformService.Transform(
		c.Request.Context(),
		h.GetDB(c),
		c.Param("photoId"),
		userID,
		req.Style,
	)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
