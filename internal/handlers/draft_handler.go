package handlers

import (
	"net/http"

	"photoflow_backend/internal/middleware"
	"photoflow_backend/internal/services"
	"photoflow_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type DraftHandler struct {
	*BaseHandler
	draftService services.DraftService
}

func NewDraftHandler(base *BaseHandler, draftService services.DraftService) *DraftHandler {
	return &DraftHandler{
		BaseHandler:  base,
		draftService: draftService,
	}
}

func (h *DraftHandler) RegisterRoutes(rg *gin.RouterGroup) {
	drafts := rg.Group("/drafts")
	drafts.Use(middleware.AuthMiddleware())
	{
		drafts.POST("", h.Create)
		drafts.GET("", h.List)
	}
}

// Create - новый черновик фотографии
func (h *DraftHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateDraftRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	draft, err := h.draftService.Create(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, draft)
}

// List - черновики текущего пользователя
func (h *DraftHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"drafts": h.draftService.List(userID)})
}
