package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefreshTokenUsable(t *testing.T) {
	now := time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)

	token := &RefreshToken{ExpiresAt: now.Add(time.Hour)}
	assert.True(t, token.Usable(now))

	token.Revoked = true
	assert.False(t, token.Usable(now))

	expired := &RefreshToken{ExpiresAt: now.Add(-time.Minute)}
	assert.False(t, expired.Usable(now))
}
