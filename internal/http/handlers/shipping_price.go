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

type ShippingPriceHandler struct {
	log          *logger.Logger
	priceService services.ShippingPriceService
}

func NewShippingPriceHandler(log *logger.Logger, priceService services.ShippingPriceService) *ShippingPriceHandler {
	return &ShippingPriceHandler{log: log.With("handler", "ShippingPriceHandler"), priceService: priceService}
}

func (h *ShippingPriceHandler) Create(c *gin.Context) {
	var req struct {
		Country      string  `json:"country"`
		State        string  `json:"state"`
		City         string  `json:"city"`
		Neighborhood string  `json:"neighborhood"`
		Price        float64 `json:"price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	created, err := h.priceService.Create(c.Request.Context(), &domain.ShippingPrice{
		Country:      req.Country,
		State:        req.State,
		City:         req.City,
		Neighborhood: req.Neighborhood,
		Price:        req.Price,
	})
	if err != nil {
		response.RespondError(c, http.StatusUnprocessableEntity, "create_failed", err)
		return
	}
	response.RespondCreated(c, created)
}

func (h *ShippingPriceHandler) List(c *gin.Context) {
	prices, err := h.priceService.List(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	response.RespondOK(c, prices)
}

// Quote resolves the shipping price for an address without creating anything.
func (h *ShippingPriceHandler) Quote(c *gin.Context) {
	var req domain.Address
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	price, err := h.priceService.GetPriceByAddress(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrNoPricingForAddress) {
			response.RespondError(c, http.StatusUnprocessableEntity, "no_pricing_for_address", err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "quote_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"price": price})
}

func (h *ShippingPriceHandler) Update(c *gin.Context) {
	priceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.priceService.Update(c.Request.Context(), priceID, fields); err != nil {
		response.RespondError(c, http.StatusUnprocessableEntity, "update_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"status": "updated"})
}

func (h *ShippingPriceHandler) Delete(c *gin.Context) {
	priceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.priceService.Delete(c.Request.Context(), priceID); err != nil {
		response.RespondError(c, http.StatusInternalServerError, "delete_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"status": "deleted"})
}
