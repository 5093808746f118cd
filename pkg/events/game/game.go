package gameevents

import (
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
)

const (
	GameCreateRequestedV1 = "game.create.requested.v1"
	GameCreatedV1         = "game.created.v1"
	GameCreateFailedV1    = "game.create.failed.v1"
)

type GameCreateRequestedPayloadV1 struct {
	Caller      sharedtypes.UserID   `json:"caller"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Genre       string               `json:"genre"`
	GameType    string               `json:"game_type"`
	Authorities []sharedtypes.UserID `json:"authorities,omitempty"`
}

type GameCreatedPayloadV1 struct {
	GameID      uuid.UUID            `json:"game_id"`
	Title       string               `json:"title"`
	Authorities []sharedtypes.UserID `json:"authorities"`
}

type GameCreateFailedPayloadV1 struct {
	Caller sharedtypes.UserID `json:"caller"`
	Title  string             `json:"title"`
	Reason string             `json:"reason"`
}
