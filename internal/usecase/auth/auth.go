package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	userDomain "motion_arena/internal/domain/user"
	errs "motion_arena/internal/errors"
	"motion_arena/internal/random"
)

const resetTokenTTL = time.Hour

type AuthUsecaseHandler struct {
	userStorage    UserStorage
	sessionStorage SessionStorage
}

func NewUserUsecaseHandler(u UserStorage, s SessionStorage) *AuthUsecaseHandler {
	return &AuthUsecaseHandler{
		userStorage:    u,
		sessionStorage: s,
	}
}

type UserStorage interface {
	CheckExists(username string) bool
	GetUser(username string) (userDomain.User, bool)
	GetUserByID(id string) (userDomain.User, bool)
	GetUserByEmail(email string) (userDomain.User, bool)
	CreateUser(username, email, passwordHash string) (userDomain.User, error)
	UpdateLastSeen(id string) error
	SetResetToken(id string, token string, expiresAt time.Time) error
	ResetPassword(id string, passwordHash string) error
}

type SessionStorage interface {
	GetUserIdBySession(sessionID string) (userID string, ok bool)
	StoreSession(sessionID string, userID string)
	DeleteSession(sessionID string) (ok bool)
}

func (a *AuthUsecaseHandler) RegisterUser(username, email, password string) (sessionID string, err error) {
	if a.userStorage.CheckExists(username) {
		return "", errs.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	newUser, err := a.userStorage.CreateUser(username, email, string(hash))
	if err != nil {
		return "", err
	}

	sessionID = random.RandString(64)
	a.sessionStorage.StoreSession(sessionID, newUser.ID)
	return sessionID, nil
}

func (a *AuthUsecaseHandler) LoginUser(providedUsername string, providedPassword string) (sessionID string, err error) {
	userFromDb, found := a.userStorage.GetUser(providedUsername)
	if !found {
		return "", errs.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userFromDb.PasswordHash), []byte(providedPassword)); err != nil {
		return "", errs.ErrWrongPassword
	}

	_ = a.userStorage.UpdateLastSeen(userFromDb.ID)

	sessionID = random.RandString(64)
	a.sessionStorage.StoreSession(sessionID, userFromDb.ID)
	return sessionID, nil
}

// LogoutUser returns nil or ErrSessionNotFound.
func (a *AuthUsecaseHandler) LogoutUser(sessionID string) (err error) {
	_, ok := a.sessionStorage.GetUserIdBySession(sessionID)
	if !ok {
		return errs.ErrSessionNotFound
	}
	ok = a.sessionStorage.DeleteSession(sessionID)
	if !ok {
		return errs.ErrSessionNotFound
	}
	return nil
}

func (a *AuthUsecaseHandler) GetUserIdFromSession(sessionID string) (string, error) {
	userID, ok := a.sessionStorage.GetUserIdBySession(sessionID)
	if !ok {
		return "", errs.ErrSessionNotFound
	}
	return userID, nil
}

func (a *AuthUsecaseHandler) CheckAuthorized(ctx context.Context, sessionID string) bool {
	userID, found := a.sessionStorage.GetUserIdBySession(sessionID)
	if !found {
		return false
	}
	_, ok := a.userStorage.GetUserByID(userID)
	return ok
}

func (a *AuthUsecaseHandler) GetUserByUserId(ctx context.Context, userID string) (userDomain.User, error) {
	u, ok := a.userStorage.GetUserByID(userID)
	if !ok {
		return userDomain.User{}, errs.ErrUserNotFound
	}
	return u, nil
}

// ResolveSession maps a cookie session to its user, used by the
// realtime gateway on connect.
func (a *AuthUsecaseHandler) ResolveSession(ctx context.Context, sessionID string) (userDomain.User, error) {
	userID, ok := a.sessionStorage.GetUserIdBySession(sessionID)
	if !ok {
		return userDomain.User{}, errs.ErrSessionNotFound
	}
	u, found := a.userStorage.GetUserByID(userID)
	if !found {
		return userDomain.User{}, errs.ErrUserNotFound
	}
	return u, nil
}

// GenerateResetToken issues a password reset token valid for one hour.
// The token is returned so the mail collaborator can deliver it.
func (a *AuthUsecaseHandler) GenerateResetToken(email string) (string, error) {
	u, found := a.userStorage.GetUserByEmail(email)
	if !found {
		return "", errs.ErrUserNotFound
	}

	token := random.RandString(48)
	if err := a.userStorage.SetResetToken(u.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		return "", err
	}
	return token, nil
}

func (a *AuthUsecaseHandler) ResetPassword(email, token, newPassword string) error {
	u, found := a.userStorage.GetUserByEmail(email)
	if !found {
		return errs.ErrUserNotFound
	}
	if !u.VerifyResetToken(token, time.Now()) {
		return errs.ErrResetTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return a.userStorage.ResetPassword(u.ID, string(hash))
}
