package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/http/response"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
	"github.com/yungbote/storefront-backend/internal/services"
)

type ProductHandler struct {
	log            *logger.Logger
	productService services.ProductService
}

func NewProductHandler(log *logger.Logger, productService services.ProductService) *ProductHandler {
	return &ProductHandler{log: log.With("handler", "ProductHandler"), productService: productService}
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req struct {
		CategoryID  uuid.UUID `json:"category_id"`
		Name        string    `json:"name"`
		Description string    `json:"description"`
		ImageURL    string    `json:"image_url"`
		GrossPrice  float64   `json:"gross_price"`
		Stock       int       `json:"stock"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	product := &domain.Product{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		GrossPrice:  req.GrossPrice,
		Stock:       req.Stock,
	}
	created, err := h.productService.Create(c.Request.Context(), product)
	if err != nil {
		response.RespondError(c, http.StatusUnprocessableEntity, "create_failed", err)
		return
	}
	response.RespondCreated(c, created)
}

func (h *ProductHandler) GetByID(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	product, err := h.productService.GetByID(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.RespondError(c, http.StatusNotFound, "product_not_found", err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "get_failed", err)
		return
	}
	response.RespondOK(c, product)
}

func (h *ProductHandler) List(c *gin.Context) {
	categoryID := uuid.Nil
	if raw := c.Query("category_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "bad_request", err)
			return
		}
		categoryID = parsed
	}
	products, err := h.productService.List(c.Request.Context(), categoryID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	response.RespondOK(c, products)
}

func (h *ProductHandler) Update(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.productService.Update(c.Request.Context(), productID, fields); err != nil {
		response.RespondError(c, http.StatusUnprocessableEntity, "update_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"status": "updated"})
}

func (h *ProductHandler) Delete(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.productService.Delete(c.Request.Context(), productID); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.RespondError(c, http.StatusNotFound, "product_not_found", err)
			return
		}
		response.RespondError(c, http.StatusConflict, "delete_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"status": "deleted"})
}
