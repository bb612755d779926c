package game

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"motion_arena/internal/bootstrap"
	"motion_arena/internal/delivery/auth"
	sessionDomain "motion_arena/internal/domain/session"
	errs "motion_arena/internal/errors"
	"motion_arena/internal/gateway"
	"motion_arena/internal/httpresponse"
	gameuc "motion_arena/internal/usecase/game"
	"motion_arena/internal/utils"
)

type GameHandler struct {
	cfg         bootstrap.Config
	log         *zap.SugaredLogger
	gameUC      *gameuc.GameUseCase
	authHandler *auth.AuthHandler
	gw          *gateway.Gateway
}

func NewGameHandler(cfg bootstrap.Config, log *zap.SugaredLogger, gameUC *gameuc.GameUseCase, authHandler *auth.AuthHandler, gw *gateway.Gateway) *GameHandler {
	return &GameHandler{
		cfg:         cfg,
		log:         log,
		gameUC:      gameUC,
		authHandler: authHandler,
		gw:          gw,
	}
}

type successResponse struct {
	Success bool `json:"success"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type sessionResponse struct {
	Success  bool                      `json:"success"`
	Session  sessionDomain.GameSession `json:"session"`
	Duration float64                   `json:"duration"`
	Rounds   []sessionDomain.GameRound `json:"rounds,omitempty"`
}

type roundResponse struct {
	Success bool                    `json:"success"`
	Round   sessionDomain.GameRound `json:"round"`
}

func (g *GameHandler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	userID := g.authHandler.GetUserID(w, r)
	if userID == "" {
		return
	}

	ctx := r.Context()

	alreadyInGame, err := g.gameUC.HasUserActiveSession(ctx, userID)
	if err != nil {
		g.log.Error(err)
		g.writeError(w, err)
		return
	}
	if alreadyInGame {
		g.log.Errorf("user %s already has an active session", userID)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			errorResponse{Error: "user already has an active session"})
		return
	}

	s, err := g.gameUC.CreateSession(ctx, userID)
	if err != nil {
		g.log.Error(err)
		g.writeError(w, err)
		return
	}

	g.log.Infof("session %s created by %s", s.ID, userID)
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, sessionDomain.CreateSessionResponse{
		Success:   true,
		SessionID: s.ID,
	})
}

func (g *GameHandler) HandleJoinSession(w http.ResponseWriter, r *http.Request) {
	userID := g.authHandler.GetUserID(w, r)
	if userID == "" {
		return
	}

	var req sessionDomain.JoinSessionRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		g.log.Error("HandleJoinSession: JSON decode error: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			errorResponse{Error: err.Error()})
		return
	}

	s, err := g.gameUC.JoinSession(r.Context(), req.SessionID, userID)
	if err != nil {
		g.log.Errorf("HandleJoinSession: %v", err)
		g.writeError(w, err)
		return
	}

	g.log.Infof("user %s joined session %s", userID, s.ID)
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, successResponse{Success: true})
}

func (g *GameHandler) HandleUpdateScore(w http.ResponseWriter, r *http.Request) {
	userID := g.authHandler.GetUserID(w, r)
	if userID == "" {
		return
	}

	var req sessionDomain.UpdateScoreRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		g.log.Error("HandleUpdateScore: JSON decode error: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			errorResponse{Error: err.Error()})
		return
	}

	if _, err := g.gameUC.UpdateScore(r.Context(), req.SessionID, req.Player, req.Score); err != nil {
		g.log.Errorf("HandleUpdateScore: %v", err)
		g.writeError(w, err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, successResponse{Success: true})
}

func (g *GameHandler) HandleEndSession(w http.ResponseWriter, r *http.Request) {
	userID := g.authHandler.GetUserID(w, r)
	if userID == "" {
		return
	}

	var req sessionDomain.EndSessionRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		g.log.Error("HandleEndSession: JSON decode error: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			errorResponse{Error: err.Error()})
		return
	}

	ctx := r.Context()
	s, err := g.gameUC.EndSession(ctx, req.SessionID, req.WinnerID)
	if err != nil {
		g.log.Errorf("HandleEndSession: %v", err)
		g.writeError(w, err)
		return
	}

	duration, err := g.gameUC.SessionDuration(ctx, s.ID)
	if err != nil {
		g.log.Errorf("HandleEndSession: %v", err)
		g.writeError(w, err)
		return
	}

	g.log.Infof("session %s completed, winner: %q", s.ID, s.WinnerID)
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, sessionResponse{
		Success:  true,
		Session:  s,
		Duration: duration,
	})
}

func (g *GameHandler) HandleCancelSession(w http.ResponseWriter, r *http.Request) {
	userID := g.authHandler.GetUserID(w, r)
	if userID == "" {
		return
	}

	var req sessionDomain.CancelSessionRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		g.log.Error("HandleCancelSession: JSON decode error: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			errorResponse{Error: err.Error()})
		return
	}

	if _, err := g.gameUC.CancelSession(r.Context(), req.SessionID); err != nil {
		g.log.Errorf("HandleCancelSession: %v", err)
		g.writeError(w, err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, successResponse{Success: true})
}

func (g *GameHandler) HandleStartRound(w http.ResponseWriter, r *http.Request) {
	userID := g.authHandler.GetUserID(w, r)
	if userID == "" {
		return
	}

	var req sessionDomain.StartRoundRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		g.log.Error("HandleStartRound: JSON decode error: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			errorResponse{Error: err.Error()})
		return
	}

	round, err := g.gameUC.StartRound(r.Context(), req.SessionID)
	if err != nil {
		g.log.Errorf("HandleStartRound: %v", err)
		g.writeError(w, err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, roundResponse{Success: true, Round: round})
}

func (g *GameHandler) HandleEndRound(w http.ResponseWriter, r *http.Request) {
	userID := g.authHandler.GetUserID(w, r)
	if userID == "" {
		return
	}

	var req sessionDomain.EndRoundRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		g.log.Error("HandleEndRound: JSON decode error: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			errorResponse{Error: err.Error()})
		return
	}

	round, err := g.gameUC.EndRound(r.Context(), req.SessionID, req.RoundNumber, req.WinnerID)
	if err != nil {
		g.log.Errorf("HandleEndRound: %v", err)
		g.writeError(w, err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, roundResponse{Success: true, Round: round})
}

func (g *GameHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	userID := g.authHandler.GetUserID(w, r)
	if userID == "" {
		return
	}

	var req sessionDomain.GetSessionRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		g.log.Error("HandleGetSession: JSON decode error: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			errorResponse{Error: err.Error()})
		return
	}

	ctx := r.Context()
	s, err := g.gameUC.GetSession(ctx, req.SessionID)
	if err != nil {
		g.log.Errorf("HandleGetSession: %v", err)
		g.writeError(w, err)
		return
	}

	rounds, err := g.gameUC.GetRounds(ctx, req.SessionID)
	if err != nil {
		g.log.Errorf("HandleGetSession: %v", err)
		g.writeError(w, err)
		return
	}

	duration, err := g.gameUC.SessionDuration(ctx, req.SessionID)
	if err != nil {
		g.log.Errorf("HandleGetSession: %v", err)
		g.writeError(w, err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, sessionResponse{
		Success:  true,
		Session:  s,
		Duration: duration,
		Rounds:   rounds,
	})
}

// HandleWS hands the connection over to the realtime gateway. The
// gateway does its own identity resolution, an anonymous connection is
// allowed to exist.
func (g *GameHandler) HandleWS(w http.ResponseWriter, r *http.Request) {
	g.gw.ServeWS(w, r)
}

func (g *GameHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrGameNotFound), errors.Is(err, errs.ErrRoundNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrSessionNotJoinable),
		errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrInvalidPlayer):
		status = http.StatusBadRequest
	}
	httpresponse.WriteResponseWithStatus(w, status, errorResponse{Error: err.Error()})
}
