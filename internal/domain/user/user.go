package user

import "time"

type User struct {
	ID           string        `json:"id" bson:"_id,omitempty"`
	Username     string        `json:"username" bson:"username"`
	Email        string        `json:"email" bson:"email"`
	CreatedAt    time.Time     `json:"created_at" bson:"created_at"`
	LastSeen     time.Time     `json:"last_seen" bson:"last_seen"`
	AvatarID     string        `json:"avatar_id,omitempty" bson:"avatar_id,omitempty"`
	Statistic    UserStatistic `json:"statistic" bson:"statistic"`
	PasswordHash string        `json:"-" bson:"password_hash"`

	ResetToken          string     `json:"-" bson:"reset_token,omitempty"`
	ResetTokenExpiresAt *time.Time `json:"-" bson:"reset_token_expires_at,omitempty"`
}

type UserStatistic struct {
	Wins   int `json:"wins" bson:"wins"`
	Losses int `json:"losses" bson:"losses"`
	Draws  int `json:"draws" bson:"draws"`
}

func (u *User) TotalMatches() int {
	return u.Statistic.Wins + u.Statistic.Losses + u.Statistic.Draws
}

// WinRate returns the win percentage rounded to two decimal places.
func (u *User) WinRate() float64 {
	total := u.TotalMatches()
	if total == 0 {
		return 0
	}
	rate := float64(u.Statistic.Wins) / float64(total) * 100
	return float64(int(rate*100+0.5)) / 100
}

// VerifyResetToken reports whether token matches the stored one and has
// not expired.
func (u *User) VerifyResetToken(token string, now time.Time) bool {
	if u.ResetToken == "" || token != u.ResetToken {
		return false
	}
	if u.ResetTokenExpiresAt == nil || u.ResetTokenExpiresAt.Before(now) {
		return false
	}
	return true
}
