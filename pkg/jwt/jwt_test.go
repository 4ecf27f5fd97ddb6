package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("secret", "library-catalog", "clients", time.Hour)

	token, err := m.GenerateAccessToken("user-1", "admin@email.com", "admin")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin@email.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestValidate_Rejects(t *testing.T) {
	m := NewManager("secret", "library-catalog", "clients", time.Hour)
	token, err := m.GenerateAccessToken("user-1", "user@email.com", "user")
	require.NoError(t, err)

	tests := []struct {
		name    string
		manager *Manager
		token   string
	}{
		{"wrong secret", NewManager("other", "library-catalog", "clients", time.Hour), token},
		{"wrong issuer", NewManager("secret", "someone-else", "clients", time.Hour), token},
		{"wrong audience", NewManager("secret", "library-catalog", "browsers", time.Hour), token},
		{"garbage", m, "not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.manager.ValidateAccessToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestValidate_Expired(t *testing.T) {
	m := NewManager("secret", "library-catalog", "clients", -time.Minute)

	token, err := m.GenerateAccessToken("user-1", "user@email.com", "user")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
