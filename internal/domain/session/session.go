package session

import (
	"time"

	"motion_arena/internal/statuses"
)

// GameSession is one match between up to two players. Player1 is the
// creator, Player2 stays empty until somebody joins.
type GameSession struct {
	ID        string     `json:"id" bson:"_id,omitempty"`
	Player1ID string     `json:"player1_id" bson:"player1_id"`
	Player2ID string     `json:"player2_id,omitempty" bson:"player2_id,omitempty"`
	Status    string     `json:"status" bson:"status"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	StartedAt *time.Time `json:"started_at,omitempty" bson:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty" bson:"ended_at,omitempty"`

	WinnerID     string `json:"winner_id,omitempty" bson:"winner_id,omitempty"`
	Player1Score int    `json:"player1_score" bson:"player1_score"`
	Player2Score int    `json:"player2_score" bson:"player2_score"`
}

func (s *GameSession) IsFull() bool {
	return s.Player2ID != ""
}

func (s *GameSession) IsTerminal() bool {
	return s.Status == statuses.StatusCompleted || s.Status == statuses.StatusCancelled
}

// Duration returns the session length in seconds, counting up to now
// while the session is still running. Zero if it never started.
func (s *GameSession) Duration(now time.Time) float64 {
	if s.StartedAt == nil {
		return 0
	}
	end := now
	if s.EndedAt != nil {
		end = *s.EndedAt
	}
	return end.Sub(*s.StartedAt).Seconds()
}

// GameRound is a sub-unit of a session, numbered monotonically within
// its parent.
type GameRound struct {
	ID          string     `json:"id" bson:"_id,omitempty"`
	SessionID   string     `json:"session_id" bson:"session_id"`
	RoundNumber int        `json:"round_number" bson:"round_number"`
	Status      string     `json:"status" bson:"status"`
	StartedAt   *time.Time `json:"started_at,omitempty" bson:"started_at,omitempty"`
	EndedAt     *time.Time `json:"ended_at,omitempty" bson:"ended_at,omitempty"`

	WinnerID      string `json:"winner_id,omitempty" bson:"winner_id,omitempty"`
	Player1Health int    `json:"player1_health" bson:"player1_health"`
	Player2Health int    `json:"player2_health" bson:"player2_health"`
}

func (r *GameRound) Duration(now time.Time) float64 {
	if r.StartedAt == nil {
		return 0
	}
	end := now
	if r.EndedAt != nil {
		end = *r.EndedAt
	}
	return end.Sub(*r.StartedAt).Seconds()
}

// MatchResult describes the stat side effects of a completed session.
// Either Draw is set or WinnerID/LoserID are, never both.
type MatchResult struct {
	WinnerID string
	LoserID  string
	Draw     bool
}

type CreateSessionResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
}

type JoinSessionRequest struct {
	SessionID string `json:"session_id"`
}

type UpdateScoreRequest struct {
	SessionID string `json:"session_id"`
	Player    int    `json:"player"`
	Score     int    `json:"score"`
}

type EndSessionRequest struct {
	SessionID string `json:"session_id"`
	WinnerID  string `json:"winner_id,omitempty"`
}

type CancelSessionRequest struct {
	SessionID string `json:"session_id"`
}

type StartRoundRequest struct {
	SessionID string `json:"session_id"`
}

type EndRoundRequest struct {
	SessionID   string `json:"session_id"`
	RoundNumber int    `json:"round_number"`
	WinnerID    string `json:"winner_id,omitempty"`
}

type GetSessionRequest struct {
	SessionID string `json:"session_id"`
}
