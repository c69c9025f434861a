package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPasswordResetTokenUsable(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	usedAt := now.Add(-time.Hour)

	tests := []struct {
		name  string
		token PasswordResetToken
		want  bool
	}{
		{
			name:  "unused and not expired",
			token: PasswordResetToken{ExpiresAt: now.Add(time.Minute)},
			want:  true,
		},
		{
			name:  "expired",
			token: PasswordResetToken{ExpiresAt: now.Add(-time.Minute)},
			want:  false,
		},
		{
			name:  "expires exactly now",
			token: PasswordResetToken{ExpiresAt: now},
			want:  false,
		},
		{
			name:  "already used",
			token: PasswordResetToken{ExpiresAt: now.Add(time.Minute), UsedAt: &usedAt},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.token.Usable(now))
		})
	}
}
