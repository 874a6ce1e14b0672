package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/http/response"
	"github.com/yungbote/storefront-backend/internal/platform/apierr"
	"github.com/yungbote/storefront-backend/internal/platform/ctxutil"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
	"github.com/yungbote/storefront-backend/internal/repos"
	"github.com/yungbote/storefront-backend/internal/services"
)

// OrderHandler exposes the order lifecycle over HTTP. Reads go straight to
// the repository; every write goes through the workflow service.
type OrderHandler struct {
	log      *logger.Logger
	workflow services.OrderWorkflowService
	orders   repos.OrderRepo
}

func NewOrderHandler(log *logger.Logger, workflow services.OrderWorkflowService, orders repos.OrderRepo) *OrderHandler {
	return &OrderHandler{
		log:      log.With("handler", "OrderHandler"),
		workflow: workflow,
		orders:   orders,
	}
}

func (h *OrderHandler) Initialize(c *gin.Context) {
	var draft domain.OrderDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd != nil && rd.Role != domain.RoleAdmin {
		draft.Client.UserID = rd.UserID
	}
	order, err := h.workflow.Initialize(c.Request.Context(), draft)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	response.RespondCreated(c, order)
}

func (h *OrderHandler) Confirm(c *gin.Context) {
	h.transition(c, h.workflow.Confirm)
}

func (h *OrderHandler) Abort(c *gin.Context) {
	h.transition(c, h.workflow.Abort)
}

func (h *OrderHandler) CompletePayment(c *gin.Context) {
	h.transition(c, h.workflow.CompletePayment)
}

func (h *OrderHandler) transition(c *gin.Context, op func(ctx context.Context, orderID uuid.UUID) error) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	order, err := h.orders.GetByID(c.Request.Context(), nil, orderID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	if !canAccessOrder(c, order) {
		response.RespondError(c, http.StatusForbidden, "forbidden", errors.New("not your order"))
		return
	}
	if err := op(c.Request.Context(), orderID); err != nil {
		respondWorkflowError(c, err)
		return
	}
	updated, err := h.orders.GetByID(c.Request.Context(), nil, orderID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	response.RespondOK(c, updated)
}

func (h *OrderHandler) GetByID(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	order, err := h.orders.GetByID(c.Request.Context(), nil, orderID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	if !canAccessOrder(c, order) {
		response.RespondError(c, http.StatusForbidden, "forbidden", errors.New("not your order"))
		return
	}
	response.RespondOK(c, order)
}

func (h *OrderHandler) ListMine(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	orders, err := h.orders.ListByClientUserID(c.Request.Context(), nil, rd.UserID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	response.RespondOK(c, orders)
}

func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context(), nil)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	response.RespondOK(c, orders)
}

func canAccessOrder(c *gin.Context, order *domain.Order) bool {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil {
		return false
	}
	return rd.Role == domain.RoleAdmin || rd.UserID == order.Client.UserID
}

// classifyWorkflowError maps the domain sentinels onto HTTP statuses and
// stable machine codes. Unknown errors are treated as internal.
func classifyWorkflowError(err error) *apierr.Error {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		return apierr.New(http.StatusNotFound, "order_not_found", err)
	case errors.Is(err, domain.ErrProductNotFound):
		return apierr.New(http.StatusNotFound, "product_not_found", err)
	case errors.Is(err, domain.ErrInvalidTransition):
		return apierr.New(http.StatusConflict, "invalid_transition", err)
	case errors.Is(err, domain.ErrNoReservationToCommit):
		return apierr.New(http.StatusConflict, "no_reservation_to_commit", err)
	case errors.Is(err, domain.ErrOutOfStock):
		return apierr.New(http.StatusConflict, "out_of_stock", err)
	case errors.Is(err, domain.ErrInsufficientStock):
		return apierr.New(http.StatusConflict, "insufficient_stock", err)
	case errors.Is(err, domain.ErrMalformedOrder):
		return apierr.New(http.StatusUnprocessableEntity, "malformed_order", err)
	case errors.Is(err, domain.ErrNoPricingForAddress):
		return apierr.New(http.StatusUnprocessableEntity, "no_pricing_for_address", err)
	default:
		return apierr.New(http.StatusInternalServerError, "internal_error", err)
	}
}

func respondWorkflowError(c *gin.Context, err error) {
	response.RespondAPIError(c, classifyWorkflowError(err))
}
