package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/http/response"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
	"github.com/yungbote/storefront-backend/internal/services"
)

type PaymentMethodHandler struct {
	log           *logger.Logger
	methodService services.PaymentMethodService
}

func NewPaymentMethodHandler(log *logger.Logger, methodService services.PaymentMethodService) *PaymentMethodHandler {
	return &PaymentMethodHandler{log: log.With("handler", "PaymentMethodHandler"), methodService: methodService}
}

func (h *PaymentMethodHandler) Create(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Active      *bool  `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	method := &domain.PaymentMethod{
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
	}
	if req.Active != nil {
		method.Active = *req.Active
	}
	created, err := h.methodService.Create(c.Request.Context(), method)
	if err != nil {
		response.RespondError(c, http.StatusUnprocessableEntity, "create_failed", err)
		return
	}
	response.RespondCreated(c, created)
}

func (h *PaymentMethodHandler) List(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.DefaultQuery("active", "false"))
	methods, err := h.methodService.List(c.Request.Context(), activeOnly)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	response.RespondOK(c, methods)
}

func (h *PaymentMethodHandler) Update(c *gin.Context) {
	methodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.methodService.Update(c.Request.Context(), methodID, fields); err != nil {
		response.RespondError(c, http.StatusUnprocessableEntity, "update_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"status": "updated"})
}

func (h *PaymentMethodHandler) Delete(c *gin.Context) {
	methodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.methodService.Delete(c.Request.Context(), methodID); err != nil {
		response.RespondError(c, http.StatusInternalServerError, "delete_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"status": "deleted"})
}
