package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	errs "motion_arena/internal/errors"
	"motion_arena/internal/httpresponse"
	authUC "motion_arena/internal/usecase/auth"
	"motion_arena/internal/utils"
)

type AuthHandler struct {
	usecaseHandler *authUC.AuthUsecaseHandler
	log            *zap.SugaredLogger
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserFindRequest struct {
	UserID string `json:"user_id"`
}

type ResetPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordConfirmRequest struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func NewAuthHandler(usecaseHandler *authUC.AuthUsecaseHandler, log *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{
		usecaseHandler: usecaseHandler,
		log:            log,
	}
}

func (a *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	requestBody, err := utils.ReadRequestBody(r)
	if err != nil {
		a.log.Error("Register: failed to read request body: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: "Failed to read request body"})
		return
	}

	var registerData RegisterRequest
	if err := json.Unmarshal(requestBody, &registerData); err != nil {
		a.log.Error("Register: malformed JSON: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: httpresponse.MALFORMEDJSON_errorDesc})
		return
	}

	sessionID, err := a.usecaseHandler.RegisterUser(registerData.Username, registerData.Email, registerData.Password)
	if err != nil {
		if errors.Is(err, errs.ErrUserExists) {
			a.log.Errorf("Register: user already exists: %s", registerData.Username)
			httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
				httpresponse.ErrorResponse{ErrorDescription: "User with this username already exists"})
			return
		}
		a.log.Error("Register: internal error: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusInternalServerError,
			httpresponse.ErrorResponse{ErrorDescription: err.Error()})
		return
	}

	setSessionCookie(w, sessionID)
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, nil)
}

func (a *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	requestBody, err := utils.ReadRequestBody(r)
	if err != nil {
		a.log.Error("Login: failed to read request body: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: "Failed to read request body"})
		return
	}

	var loginData LoginRequest
	if err := json.Unmarshal(requestBody, &loginData); err != nil {
		a.log.Error("Login: malformed JSON: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: httpresponse.MALFORMEDJSON_errorDesc})
		return
	}

	sessionID, err := a.usecaseHandler.LoginUser(loginData.Username, loginData.Password)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrUserNotFound):
			a.log.Errorf("Login: user not found: %s", loginData.Username)
			httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
				httpresponse.ErrorResponse{ErrorDescription: "User not found"})
			return
		case errors.Is(err, errs.ErrWrongPassword):
			a.log.Errorf("Login: wrong password for user: %s", loginData.Username)
			httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
				httpresponse.ErrorResponse{ErrorDescription: "Wrong password"})
			return
		default:
			a.log.Error("Login: internal error: ", err)
			httpresponse.WriteResponseWithStatus(w, http.StatusInternalServerError,
				httpresponse.ErrorResponse{ErrorDescription: err.Error()})
			return
		}
	}

	setSessionCookie(w, sessionID)
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, nil)
}

func (a *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie("sessionID")
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			a.log.Warn("Logout: no cookie provided")
			httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
				httpresponse.ErrorResponse{ErrorDescription: http.ErrNoCookie.Error()})
			return
		}
		a.log.Error("Logout: error retrieving cookie: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: err.Error()})
		return
	}

	if err := a.usecaseHandler.LogoutUser(sessionCookie.Value); err != nil {
		a.log.Errorf("Logout: failed to logout sessionID=%s: %v", sessionCookie.Value, err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: err.Error()})
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, nil)
}

// GetUserID returns the user id of the request's session. On a missing
// or expired session it writes the error response and returns "".
func (a *AuthHandler) GetUserID(w http.ResponseWriter, r *http.Request) string {
	sessionCookie, err := r.Cookie("sessionID")
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			a.log.Warn("GetUserID: no sessionID cookie")
			httpresponse.WriteResponseWithStatus(w, http.StatusUnauthorized,
				httpresponse.ErrorResponse{ErrorDescription: "sessionID cookie not found"})
			return ""
		}
		a.log.Error("GetUserID: error retrieving cookie: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: err.Error()})
		return ""
	}

	userID, err := a.usecaseHandler.GetUserIdFromSession(sessionCookie.Value)
	if err != nil {
		if errors.Is(err, errs.ErrSessionNotFound) {
			a.log.Warn("GetUserID: session not found or expired")
			httpresponse.WriteResponseWithStatus(w, http.StatusUnauthorized,
				httpresponse.ErrorResponse{ErrorDescription: "Session not found or expired"})
			return ""
		}
		a.log.Error("GetUserID: internal error: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusInternalServerError,
			httpresponse.ErrorResponse{ErrorDescription: err.Error()})
		return ""
	}

	// the session may outlive its user record
	if !a.usecaseHandler.CheckAuthorized(r.Context(), sessionCookie.Value) {
		a.log.Warnf("GetUserID: session maps to missing user %s", userID)
		httpresponse.WriteResponseWithStatus(w, http.StatusUnauthorized,
			httpresponse.ErrorResponse{ErrorDescription: "Session not found or expired"})
		return ""
	}

	return userID
}

func (a *AuthHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	if a.GetUserID(w, r) == "" {
		return
	}

	var req UserFindRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		a.log.Error("GetUserByID: JSON decode error: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := a.usecaseHandler.GetUserByUserId(r.Context(), req.UserID)
	if err != nil {
		a.log.Errorf("GetUserByID: error retrieving user by ID %s: %v", req.UserID, err)
		httpresponse.WriteResponseWithStatus(w, http.StatusNotFound, err.Error())
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, u)
}

// ResetPassword issues a reset token. The response never reveals
// whether the email is registered.
func (a *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		a.log.Error("ResetPassword: JSON decode error: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := a.usecaseHandler.GenerateResetToken(req.Email)
	if err != nil {
		if !errors.Is(err, errs.ErrUserNotFound) {
			a.log.Error("ResetPassword: ", err)
			httpresponse.WriteResponseWithStatus(w, http.StatusInternalServerError,
				httpresponse.ErrorResponse{ErrorDescription: err.Error()})
			return
		}
	} else {
		// TODO: hand the token to the mail service once it exists
		a.log.Infof("reset token issued for %s: %s", req.Email, token)
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, nil)
}

func (a *AuthHandler) ResetPasswordConfirm(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordConfirmRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		a.log.Error("ResetPasswordConfirm: JSON decode error: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.usecaseHandler.ResetPassword(req.Email, req.Token, req.NewPassword); err != nil {
		a.log.Errorf("ResetPasswordConfirm: %v", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: "Reset token is invalid or expired"})
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, nil)
}

func setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "sessionID",
		Value:    sessionID,
		Expires:  time.Now().Add(10 * time.Hour),
		Secure:   true,
		HttpOnly: true,
	})
}
