package errors

import "errors"

var (
	ErrUserNotFound       = errors.New("user with provided username was not found")
	ErrWrongPassword      = errors.New("wrong password")
	ErrSessionNotFound    = errors.New("session was not found")
	ErrUserExists         = errors.New("user already exists")
	ErrGameNotFound       = errors.New("game session not found")
	ErrSessionNotJoinable = errors.New("game session is not joinable")
	ErrInvalidTransition  = errors.New("invalid game session transition")
	ErrInvalidPlayer      = errors.New("player is neither player 1 nor player 2")
	ErrRoundNotFound      = errors.New("game round not found")
	ErrAvatarNotFound     = errors.New("avatar not found")
	ErrNoAvatarSelected   = errors.New("user has no avatar selected")
	ErrResetTokenInvalid  = errors.New("reset token is invalid or expired")
	ErrInternal           = errors.New("internal error")
)
