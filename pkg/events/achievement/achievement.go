package achievementevents

import (
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
)

const (
	AchievementUnlockRequestedV1 = "achievement.unlock.requested.v1"
	AchievementUnlockedV1        = "achievement.unlocked.v1"
	AchievementUnlockFailedV1    = "achievement.unlock.failed.v1"

	RewardClaimRequestedV1 = "achievement.reward.claim.requested.v1"
	RewardClaimedV1        = "achievement.reward.claimed.v1"
	RewardClaimFailedV1    = "achievement.reward.claim.failed.v1"

	// RewardIssuedV1 is published per game: "achievement.reward.issued.v1.{gameID}".
	RewardIssuedV1 = "achievement.reward.issued.v1"
)

type AchievementUnlockRequestedPayloadV1 struct {
	Caller        sharedtypes.UserID `json:"caller"`
	PlayerID      uuid.UUID          `json:"player_id"`
	AchievementID uuid.UUID          `json:"achievement_id"`
}

type AchievementUnlockedPayloadV1 struct {
	AchievementID uuid.UUID `json:"achievement_id"`
	PlayerID      uuid.UUID `json:"player_id"`
	GameID        uuid.UUID `json:"game_id"`
	// Automatic is set when the unlock followed a ranking change.
	Automatic bool `json:"automatic"`
}

type AchievementUnlockFailedPayloadV1 struct {
	Caller        sharedtypes.UserID `json:"caller"`
	PlayerID      uuid.UUID          `json:"player_id"`
	AchievementID uuid.UUID          `json:"achievement_id"`
	Reason        string             `json:"reason"`
}

type RewardClaimRequestedPayloadV1 struct {
	Caller        sharedtypes.UserID `json:"caller"`
	PlayerID      uuid.UUID          `json:"player_id"`
	AchievementID uuid.UUID          `json:"achievement_id"`
}

type RewardClaimedPayloadV1 struct {
	ClaimID        uuid.UUID `json:"claim_id"`
	AchievementID  uuid.UUID `json:"achievement_id"`
	PlayerID       uuid.UUID `json:"player_id"`
	AvailableSpots uint64    `json:"available_spots"`
}

type RewardClaimFailedPayloadV1 struct {
	Caller        sharedtypes.UserID `json:"caller"`
	PlayerID      uuid.UUID          `json:"player_id"`
	AchievementID uuid.UUID          `json:"achievement_id"`
	Reason        string             `json:"reason"`
}

type RewardIssuedPayloadV1 struct {
	ClaimID       uuid.UUID `json:"claim_id"`
	AchievementID uuid.UUID `json:"achievement_id"`
	RewardID      uuid.UUID `json:"reward_id"`
	PlayerID      uuid.UUID `json:"player_id"`
	GameID        uuid.UUID `json:"game_id"`
	Kind          string    `json:"kind"`
	Amount        uint64    `json:"amount"`
}
