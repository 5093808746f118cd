package playerevents

import (
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
)

const (
	PlayerRegisterRequestedV1 = "player.register.requested.v1"
	PlayerRegisteredV1        = "player.registered.v1"
	PlayerRegisterFailedV1    = "player.register.failed.v1"
)

type PlayerRegisterRequestedPayloadV1 struct {
	User     sharedtypes.UserID `json:"user"`
	Username string             `json:"username"`
}

type PlayerRegisteredPayloadV1 struct {
	PlayerID uuid.UUID          `json:"player_id"`
	User     sharedtypes.UserID `json:"user"`
	Username string             `json:"username"`
}

type PlayerRegisterFailedPayloadV1 struct {
	User     sharedtypes.UserID `json:"user"`
	Username string             `json:"username"`
	Reason   string             `json:"reason"`
}
