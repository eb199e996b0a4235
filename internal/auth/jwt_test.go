package auth

import (
	"testing"
	"time"

	"jobmarket-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	user := &models.User{ID: 7, Role: models.RoleBoss}

	token, err := GenerateToken("secret", time.Hour, user)
	require.NoError(t, err)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, models.RoleBoss, claims.Role)
	assert.NotEmpty(t, claims.ID)

	other, err := GenerateToken("secret", time.Hour, user)
	require.NoError(t, err)
	assert.NotEqual(t, token, other, "every session gets its own id")
}

func TestParseTokenRejects(t *testing.T) {
	valid, err := GenerateToken("secret", time.Hour, &models.User{ID: 1, Role: models.RoleWorker})
	require.NoError(t, err)

	expired, err := GenerateToken("secret", -time.Minute, &models.User{ID: 1, Role: models.RoleWorker})
	require.NoError(t, err)

	unknownRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &SessionClaims{
		UserID: 1,
		Role:   "admin",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &SessionClaims{
		Role: models.RoleWorker,
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &SessionClaims{
		UserID: 1,
		Role:   models.RoleBoss,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := map[string]struct {
		secret string
		token  string
	}{
		"wrong secret": {"other", valid},
		"expired":      {"secret", expired},
		"unknown role": {"secret", unknownRole},
		"no user":      {"secret", noUser},
		"alg none":     {"secret", unsigned},
		"garbage":      {"secret", "a.b.c"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(tc.secret, tc.token)
			assert.Error(t, err)
		})
	}
}
