package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/http/response"
	"github.com/yungbote/storefront-backend/internal/platform/ctxutil"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
	"github.com/yungbote/storefront-backend/internal/services"
)

type ProfileHandler struct {
	log            *logger.Logger
	profileService services.ProfileService
}

func NewProfileHandler(log *logger.Logger, profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{log: log.With("handler", "ProfileHandler"), profileService: profileService}
}

func (h *ProfileHandler) GetMine(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	profile, err := h.profileService.GetByUserID(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondError(c, http.StatusNotFound, "profile_not_found", err)
		return
	}
	response.RespondOK(c, profile)
}

func (h *ProfileHandler) Upsert(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req struct {
		DocType   string         `json:"doc_type"`
		Document  string         `json:"document"`
		Telephone string         `json:"telephone"`
		Addresses datatypes.JSON `json:"addresses"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	profile := &domain.Profile{
		UserID:    rd.UserID,
		DocType:   req.DocType,
		Document:  req.Document,
		Telephone: req.Telephone,
		Addresses: req.Addresses,
	}
	saved, err := h.profileService.CreateOrUpdate(c.Request.Context(), profile)
	if err != nil {
		response.RespondError(c, http.StatusUnprocessableEntity, "upsert_failed", err)
		return
	}
	response.RespondOK(c, saved)
}
