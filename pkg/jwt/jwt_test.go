package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewService("secret", "scorekeeper", time.Hour)

	token, err := svc.GenerateToken("user-1", RoleOperator, 0)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", string(claims.UserID))
	assert.Equal(t, RoleOperator, claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestValidateToken_Errors(t *testing.T) {
	svc := NewService("secret", "scorekeeper", time.Hour)

	expiredClaims := &callerClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "scorekeeper",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expiredClaims).SignedString([]byte("secret"))
	require.NoError(t, err)

	otherKey, err := NewService("other", "scorekeeper", time.Hour).GenerateToken("user-1", RolePlayer, time.Hour)
	require.NoError(t, err)

	otherIssuer, err := NewService("secret", "someone-else", time.Hour).GenerateToken("user-1", RolePlayer, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "garbage", token: "not-a-token", wantErr: ErrInvalidToken},
		{name: "expired", token: expired, wantErr: ErrExpiredToken},
		{name: "wrong key", token: otherKey, wantErr: ErrInvalidSignature},
		{name: "wrong issuer", token: otherIssuer, wantErr: ErrWrongIssuer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestGenerateToken_RequiresSubject(t *testing.T) {
	_, err := NewService("secret", "", time.Hour).GenerateToken("", RolePlayer, time.Hour)
	assert.ErrorIs(t, err, ErrMissingSubject)
}
