package avatar

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"motion_arena/internal/delivery/auth"
	avatarDomain "motion_arena/internal/domain/avatar"
	errs "motion_arena/internal/errors"
	"motion_arena/internal/httpresponse"
	avatarUC "motion_arena/internal/usecase/avatar"
	"motion_arena/internal/utils"
)

type AvatarHandler struct {
	log         *zap.SugaredLogger
	avatarUC    *avatarUC.AvatarUseCase
	authHandler *auth.AuthHandler
}

func NewAvatarHandler(log *zap.SugaredLogger, uc *avatarUC.AvatarUseCase, authHandler *auth.AuthHandler) *AvatarHandler {
	return &AvatarHandler{
		log:         log,
		avatarUC:    uc,
		authHandler: authHandler,
	}
}

type UpdateAvatarRequest struct {
	AvatarID string `json:"avatar_id"`
}

type SaveCustomizationRequest struct {
	AvatarID    string   `json:"avatarId"`
	Color       string   `json:"color"`
	Accessories []string `json:"accessories"`
	Animation   string   `json:"animation"`
}

type saveCustomizationResponse struct {
	Success  bool   `json:"success"`
	AvatarID string `json:"avatarId"`
}

type customizationResponse struct {
	Success    bool                `json:"success"`
	AvatarData avatarDomain.Avatar `json:"avatarData"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (h *AvatarHandler) HandleListAvatars(w http.ResponseWriter, r *http.Request) {
	if h.authHandler.GetUserID(w, r) == "" {
		return
	}

	avatars, err := h.avatarUC.ListAvatars(r.Context())
	if err != nil {
		h.log.Error(err)
		h.writeError(w, err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, avatars)
}

func (h *AvatarHandler) HandleUpdateAvatar(w http.ResponseWriter, r *http.Request) {
	userID := h.authHandler.GetUserID(w, r)
	if userID == "" {
		return
	}

	var req UpdateAvatarRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		h.log.Error("HandleUpdateAvatar: JSON decode error: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			errorResponse{Error: err.Error()})
		return
	}

	if err := h.avatarUC.SelectAvatar(r.Context(), userID, req.AvatarID); err != nil {
		h.log.Errorf("HandleUpdateAvatar: %v", err)
		h.writeError(w, err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, successResponse{Success: true})
}

func (h *AvatarHandler) HandleSaveCustomization(w http.ResponseWriter, r *http.Request) {
	userID := h.authHandler.GetUserID(w, r)
	if userID == "" {
		return
	}

	var req SaveCustomizationRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		h.log.Error("HandleSaveCustomization: JSON decode error: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			errorResponse{Error: err.Error()})
		return
	}

	avatarID, err := h.avatarUC.SaveCustomization(r.Context(), userID, avatarDomain.Customization{
		Color:       req.Color,
		Accessories: req.Accessories,
		Animation:   req.Animation,
	})
	if err != nil {
		h.log.Errorf("HandleSaveCustomization: %v", err)
		h.writeError(w, err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, saveCustomizationResponse{
		Success:  true,
		AvatarID: avatarID,
	})
}

func (h *AvatarHandler) HandleGetCustomization(w http.ResponseWriter, r *http.Request) {
	userID := h.authHandler.GetUserID(w, r)
	if userID == "" {
		return
	}

	avatarData, err := h.avatarUC.GetCustomization(r.Context(), userID)
	if err != nil {
		h.log.Errorf("HandleGetCustomization: %v", err)
		h.writeError(w, err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, customizationResponse{
		Success:    true,
		AvatarData: avatarData,
	})
}

func (h *AvatarHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrAvatarNotFound), errors.Is(err, errs.ErrNoAvatarSelected):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrUserNotFound):
		status = http.StatusNotFound
	}
	httpresponse.WriteResponseWithStatus(w, status, errorResponse{Error: err.Error()})
}
