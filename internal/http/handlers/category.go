package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/http/response"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
	"github.com/yungbote/storefront-backend/internal/services"
)

type CategoryHandler struct {
	log             *logger.Logger
	categoryService services.CategoryService
}

func NewCategoryHandler(log *logger.Logger, categoryService services.CategoryService) *CategoryHandler {
	return &CategoryHandler{log: log.With("handler", "CategoryHandler"), categoryService: categoryService}
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	created, err := h.categoryService.Create(c.Request.Context(), &domain.Category{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.RespondError(c, http.StatusUnprocessableEntity, "create_failed", err)
		return
	}
	response.RespondCreated(c, created)
}

func (h *CategoryHandler) GetByID(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	cat, err := h.categoryService.GetByID(c.Request.Context(), categoryID)
	if err != nil {
		response.RespondError(c, http.StatusNotFound, "category_not_found", err)
		return
	}
	response.RespondOK(c, cat)
}

func (h *CategoryHandler) List(c *gin.Context) {
	cats, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	response.RespondOK(c, cats)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.categoryService.Update(c.Request.Context(), categoryID, fields); err != nil {
		response.RespondError(c, http.StatusUnprocessableEntity, "update_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"status": "updated"})
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.categoryService.Delete(c.Request.Context(), categoryID); err != nil {
		response.RespondError(c, http.StatusConflict, "delete_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"status": "deleted"})
}
