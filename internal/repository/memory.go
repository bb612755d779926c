package repo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"motion_arena/internal/domain/session"
	"motion_arena/internal/domain/user"
	errs "motion_arena/internal/errors"
	"motion_arena/internal/statuses"
)

// Map-backed storages, used by tests and local runs without the
// databases.

type MapUserStorage struct {
	mu    sync.Mutex
	users map[string]user.User
}

func NewMapUserStorage() *MapUserStorage {
	return &MapUserStorage{users: make(map[string]user.User)}
}

func (u *MapUserStorage) CheckExists(username string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, v := range u.users {
		if v.Username == username {
			return true
		}
	}
	return false
}

func (u *MapUserStorage) GetUser(username string) (user.User, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, v := range u.users {
		if v.Username == username {
			return v, true
		}
	}
	return user.User{}, false
}

func (u *MapUserStorage) GetUserByID(id string) (user.User, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	v, ok := u.users[id]
	return v, ok
}

func (u *MapUserStorage) GetUserByEmail(email string) (user.User, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, v := range u.users {
		if v.Email == email {
			return v, true
		}
	}
	return user.User{}, false
}

func (u *MapUserStorage) CreateUser(username, email, passwordHash string) (user.User, error) {
	if u.CheckExists(username) {
		return user.User{}, errs.ErrUserExists
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	newUser := user.User{
		ID:           fmt.Sprintf("user-%d", len(u.users)+1),
		Username:     username,
		Email:        email,
		CreatedAt:    time.Now(),
		LastSeen:     time.Now(),
		PasswordHash: passwordHash,
	}
	u.users[newUser.ID] = newUser
	return newUser, nil
}

func (u *MapUserStorage) UpdateLastSeen(id string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	v, ok := u.users[id]
	if !ok {
		return errs.ErrUserNotFound
	}
	v.LastSeen = time.Now()
	u.users[id] = v
	return nil
}

func (u *MapUserStorage) SetAvatar(id string, avatarID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	v, ok := u.users[id]
	if !ok {
		return errs.ErrUserNotFound
	}
	v.AvatarID = avatarID
	u.users[id] = v
	return nil
}

func (u *MapUserStorage) SetResetToken(id string, token string, expiresAt time.Time) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	v, ok := u.users[id]
	if !ok {
		return errs.ErrUserNotFound
	}
	v.ResetToken = token
	v.ResetTokenExpiresAt = &expiresAt
	u.users[id] = v
	return nil
}

func (u *MapUserStorage) ResetPassword(id string, passwordHash string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	v, ok := u.users[id]
	if !ok {
		return errs.ErrUserNotFound
	}
	v.PasswordHash = passwordHash
	v.ResetToken = ""
	v.ResetTokenExpiresAt = nil
	u.users[id] = v
	return nil
}

// Put is a test helper to pre-seed users with a known id.
func (u *MapUserStorage) Put(v user.User) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.users[v.ID] = v
}

type MapSessionStorage struct {
	mu       sync.Mutex
	sessions map[string]string
}

func NewSessionMapStorage() *MapSessionStorage {
	return &MapSessionStorage{
		sessions: make(map[string]string),
	}
}

func (s *MapSessionStorage) GetUserIdBySession(sessionID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.sessions[sessionID]
	return v, ok
}

func (s *MapSessionStorage) StoreSession(sessionID string, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = userID
}

func (s *MapSessionStorage) DeleteSession(sessionID string) (ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, found := s.sessions[sessionID]
	if !found {
		return false
	}
	delete(s.sessions, sessionID)
	return true
}

// MapGameStorage mirrors the mongo game repository. CompleteSession
// applies the terminal session write and the stat increments under one
// lock, matching the transactional behaviour of the real store.
type MapGameStorage struct {
	mu       sync.Mutex
	nextID   int
	sessions map[string]session.GameSession
	rounds   map[string][]session.GameRound
	users    *MapUserStorage
}

func NewMapGameStorage(users *MapUserStorage) *MapGameStorage {
	return &MapGameStorage{
		sessions: make(map[string]session.GameSession),
		rounds:   make(map[string][]session.GameRound),
		users:    users,
	}
}

func (g *MapGameStorage) CreateSession(ctx context.Context, s session.GameSession) (session.GameSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	s.ID = fmt.Sprintf("session-%d", g.nextID)
	g.sessions[s.ID] = s
	return s, nil
}

func (g *MapGameStorage) GetSessionByID(ctx context.Context, id string) (session.GameSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.sessions[id]
	if !ok {
		return session.GameSession{}, errs.ErrGameNotFound
	}
	return s, nil
}

func (g *MapGameStorage) UpdateSession(ctx context.Context, s session.GameSession) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.sessions[s.ID]; !ok {
		return errs.ErrGameNotFound
	}
	g.sessions[s.ID] = s
	return nil
}

func (g *MapGameStorage) CompleteSession(ctx context.Context, s session.GameSession, result session.MatchResult) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.sessions[s.ID]; !ok {
		return errs.ErrGameNotFound
	}
	g.sessions[s.ID] = s

	if g.users == nil {
		return nil
	}
	if result.Draw {
		for _, id := range []string{s.Player1ID, s.Player2ID} {
			if v, ok := g.users.GetUserByID(id); ok {
				v.Statistic.Draws++
				g.users.Put(v)
			}
		}
	} else if result.WinnerID != "" {
		if v, ok := g.users.GetUserByID(result.WinnerID); ok {
			v.Statistic.Wins++
			g.users.Put(v)
		}
		if v, ok := g.users.GetUserByID(result.LoserID); ok {
			v.Statistic.Losses++
			g.users.Put(v)
		}
	}
	return nil
}

func (g *MapGameStorage) HasUserActiveSession(ctx context.Context, userID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, s := range g.sessions {
		if s.Player1ID != userID && s.Player2ID != userID {
			continue
		}
		if s.Status == statuses.StatusWaiting || s.Status == statuses.StatusActive {
			return true, nil
		}
	}
	return false, nil
}

func (g *MapGameStorage) CreateRound(ctx context.Context, r session.GameRound) (session.GameRound, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r.ID = fmt.Sprintf("%s-round-%d", r.SessionID, r.RoundNumber)
	g.rounds[r.SessionID] = append(g.rounds[r.SessionID], r)
	return r, nil
}

func (g *MapGameStorage) GetRound(ctx context.Context, sessionID string, roundNumber int) (session.GameRound, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, r := range g.rounds[sessionID] {
		if r.RoundNumber == roundNumber {
			return r, nil
		}
	}
	return session.GameRound{}, errs.ErrRoundNotFound
}

func (g *MapGameStorage) UpdateRound(ctx context.Context, r session.GameRound) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	rounds := g.rounds[r.SessionID]
	for i := range rounds {
		if rounds[i].RoundNumber == r.RoundNumber {
			rounds[i] = r
			return nil
		}
	}
	return errs.ErrRoundNotFound
}

func (g *MapGameStorage) NextRoundNumber(ctx context.Context, sessionID string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	max := 0
	for _, r := range g.rounds[sessionID] {
		if r.RoundNumber > max {
			max = r.RoundNumber
		}
	}
	return max + 1, nil
}

func (g *MapGameStorage) ListRounds(ctx context.Context, sessionID string) ([]session.GameRound, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]session.GameRound, len(g.rounds[sessionID]))
	copy(out, g.rounds[sessionID])
	return out, nil
}
