package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWinRate(t *testing.T) {
	fresh := User{}
	assert.Zero(t, fresh.WinRate())
	assert.Zero(t, fresh.TotalMatches())

	u := User{Statistic: UserStatistic{Wins: 2, Losses: 1}}
	assert.Equal(t, 3, u.TotalMatches())
	assert.InDelta(t, 66.67, u.WinRate(), 0.001)
}

func TestVerifyResetToken(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Minute)

	u := User{ResetToken: "tok", ResetTokenExpiresAt: &future}
	assert.True(t, u.VerifyResetToken("tok", now))
	assert.False(t, u.VerifyResetToken("other", now))

	expired := User{ResetToken: "tok", ResetTokenExpiresAt: &past}
	assert.False(t, expired.VerifyResetToken("tok", now))

	none := User{}
	assert.False(t, none.VerifyResetToken("", now))
}
