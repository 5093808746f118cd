package jwt

import (
	"time"

	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/golang-jwt/jwt/v5"
)

// callerClaims is the signed token body.
type callerClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// Claims identifies the caller behind a validated token.
type Claims struct {
	UserID    sharedtypes.UserID
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type Role string

const (
	RolePlayer   Role = "player"
	RoleOperator Role = "operator"
)
