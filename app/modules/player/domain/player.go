package playerdomain

import (
	"fmt"
	"time"

	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
)

// MaxUsernameLength is the username limit in characters.
const MaxUsernameLength = 100

// ErrInvalidAmount is returned for non-positive deposits.
var ErrInvalidAmount = fmt.Errorf("%w: deposit amount must be positive", scoreerrors.ErrInvalidArgument)

// Player is a user's identity on the score system. One user may own several.
type Player struct {
	ID        uuid.UUID          `json:"id"`
	Owner     sharedtypes.UserID `json:"owner"`
	Username  string             `json:"username"`
	CreatedAt time.Time          `json:"created_at"`
}

// ValidateUsername checks the username limit.
func ValidateUsername(username string) error {
	return scoreerrors.CheckLength("username", username, MaxUsernameLength)
}

// FundingAccount is the storage account that pays for a user's ledgers.
func FundingAccount(owner sharedtypes.UserID) string {
	return string(owner)
}

// OwnedBy reports whether user owns the player.
func (p *Player) OwnedBy(user sharedtypes.UserID) bool {
	return p != nil && user != "" && p.Owner == user
}
