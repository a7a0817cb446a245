package auth

import (
	"SkillTrack/internal/app_errors"
	"SkillTrack/internal/models"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, secret, issuer string) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(secret, issuer)
	require.NoError(t, err)
	return m
}

func TestNewJWTManagerRejectsEmptySecret(t *testing.T) {
	m, err := NewJWTManager("", "skilltrack")
	assert.ErrorIs(t, err, ErrEmptySecret)
	assert.Nil(t, m)
}

func TestZeroManagerRefusesTokens(t *testing.T) {
	var m JWTManager
	_, err := m.IssueAccessToken(uuid.New(), []string{models.AdminRole}, time.Minute)
	assert.ErrorIs(t, err, ErrEmptySecret)

	token, err := newManager(t, "secret", "").IssueAccessToken(uuid.New(), []string{models.AdminRole}, time.Minute)
	require.NoError(t, err)
	_, err = m.Identity(token)
	assert.ErrorIs(t, err, app_errors.ErrInvalidToken)
}

func TestIdentityRoundTrip(t *testing.T) {
	m := newManager(t, "secret", "skilltrack")
	userID := uuid.New()

	token, err := m.IssueAccessToken(userID, []string{models.StudentRole}, time.Minute)
	require.NoError(t, err)

	id, err := m.Identity(token)
	require.NoError(t, err)
	assert.Equal(t, userID, id.UserID)
	assert.True(t, id.HasRole(models.StudentRole))
	assert.False(t, id.IsAdmin())
}

func TestIdentityRejects(t *testing.T) {
	m := newManager(t, "secret", "skilltrack")
	userID := uuid.New()

	expired, err := m.IssueAccessToken(userID, nil, -time.Minute)
	require.NoError(t, err)
	foreign, err := newManager(t, "other", "skilltrack").IssueAccessToken(userID, nil, time.Minute)
	require.NoError(t, err)
	wrongIssuer, err := newManager(t, "secret", "someone-else").IssueAccessToken(userID, nil, time.Minute)
	require.NoError(t, err)
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessTokenClaims{
		TokenType:        "refresh",
		UserID:           userID,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "skilltrack"},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "expired", token: expired, wantErr: app_errors.ErrTokenExpired},
		{name: "bad signature", token: foreign, wantErr: app_errors.ErrInvalidToken},
		{name: "wrong issuer", token: wrongIssuer, wantErr: app_errors.ErrInvalidToken},
		{name: "refresh token", token: refresh, wantErr: app_errors.ErrInvalidToken},
		{name: "garbage", token: "not-a-jwt", wantErr: app_errors.ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Identity(tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, app_errors.KindUnauthorized, app_errors.KindOf(err))
		})
	}
}
