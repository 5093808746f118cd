package achievementdomain

import (
	"fmt"
	"strings"
	"time"

	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	"github.com/google/uuid"
)

const (
	MaxTitleLength        = 30
	MaxDescriptionLength  = 200
	MaxRewardNameLength   = 32
	MaxRewardSymbolLength = 10
	MaxRewardURILength    = 200
)

var (
	ErrNotRanked         = fmt.Errorf("%w: player is not ranked on the gating leaderboard", scoreerrors.ErrInvalidArgument)
	ErrNotUnlocked       = fmt.Errorf("%w: achievement is not unlocked", scoreerrors.ErrInvalidArgument)
	ErrRewardExists      = fmt.Errorf("%w: achievement already has a reward", scoreerrors.ErrInvalidArgument)
	ErrInvalidReward     = fmt.Errorf("%w: invalid reward", scoreerrors.ErrInvalidArgument)
	ErrGateOutsideGame   = fmt.Errorf("%w: gating leaderboard belongs to another game", scoreerrors.ErrInvalidArgument)
	ErrUnknownRewardKind = fmt.Errorf("%w: unknown reward kind", scoreerrors.ErrInvalidArgument)
)

// Achievement is a goal a game defines for its players. A gated achievement
// can only be unlocked by players currently ranked on its leaderboard.
type Achievement struct {
	ID            uuid.UUID  `json:"id"`
	GameID        uuid.UUID  `json:"game_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	LeaderboardID *uuid.UUID `json:"leaderboard_id,omitempty"`
}

// Gated reports whether unlocking requires a top-K position.
func (a *Achievement) Gated() bool {
	return a.LeaderboardID != nil
}

// Input carries the editable fields of an achievement.
type Input struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	LeaderboardID *uuid.UUID `json:"leaderboard_id,omitempty"`
}

func (in Input) Validate() error {
	if err := scoreerrors.CheckLength("title", in.Title, MaxTitleLength); err != nil {
		return err
	}
	return scoreerrors.CheckLength("description", in.Description, MaxDescriptionLength)
}

// Apply copies the input onto a.
func (a *Achievement) Apply(in Input) {
	a.Title = in.Title
	a.Description = in.Description
	a.LeaderboardID = in.LeaderboardID
}

// RewardKind is what a claimed reward pays out.
type RewardKind string

const (
	FungibleToken    RewardKind = "ft"
	NonFungibleToken RewardKind = "nft"
)

func ParseRewardKind(s string) (RewardKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ft", "fungible", "fungible_token":
		return FungibleToken, nil
	case "nft", "non_fungible", "non_fungible_token":
		return NonFungibleToken, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRewardKind, s)
	}
}

// Reward is the payout attached to an achievement. AvailableSpots counts the
// claims still possible; Issued counts the claims made.
type Reward struct {
	ID             uuid.UUID  `json:"id"`
	AchievementID  uuid.UUID  `json:"achievement_id"`
	Kind           RewardKind `json:"kind"`
	Amount         uint64     `json:"amount"`
	AvailableSpots uint64     `json:"available_spots"`
	Issued         uint64     `json:"issued"`
	Name           string     `json:"name,omitempty"`
	Symbol         string     `json:"symbol,omitempty"`
	URI            string     `json:"uri,omitempty"`
}

// RewardInput describes a new reward.
type RewardInput struct {
	Kind           string `json:"kind"`
	Amount         uint64 `json:"amount"`
	AvailableSpots uint64 `json:"available_spots"`
	Name           string `json:"name,omitempty"`
	Symbol         string `json:"symbol,omitempty"`
	URI            string `json:"uri,omitempty"`
}

// NewReward validates in and builds the reward. Fungible rewards need a
// positive amount per claim; non-fungible rewards always pay one token.
func NewReward(id, achievementID uuid.UUID, in RewardInput) (*Reward, error) {
	kind, err := ParseRewardKind(in.Kind)
	if err != nil {
		return nil, err
	}

	r := &Reward{
		ID:             id,
		AchievementID:  achievementID,
		Kind:           kind,
		Amount:         in.Amount,
		AvailableSpots: in.AvailableSpots,
	}

	switch kind {
	case FungibleToken:
		if in.Amount == 0 {
			return nil, fmt.Errorf("%w: fungible reward needs an amount", ErrInvalidReward)
		}
	case NonFungibleToken:
		for _, f := range []struct {
			name  string
			value string
			max   int
		}{
			{"name", in.Name, MaxRewardNameLength},
			{"symbol", in.Symbol, MaxRewardSymbolLength},
			{"uri", in.URI, MaxRewardURILength},
		} {
			if err := scoreerrors.CheckLength(f.name, f.value, f.max); err != nil {
				return nil, err
			}
		}
		r.Amount = 1
		r.Name, r.Symbol, r.URI = in.Name, in.Symbol, in.URI
	}
	return r, nil
}

// PlayerAchievement is a player's unlock of an achievement and its claim state.
type PlayerAchievement struct {
	PlayerID      uuid.UUID  `json:"player_id"`
	AchievementID uuid.UUID  `json:"achievement_id"`
	UnlockedAt    time.Time  `json:"unlocked_at"`
	Claimed       bool       `json:"claimed"`
	ClaimID       *uuid.UUID `json:"claim_id,omitempty"`
	ClaimedAt     *time.Time `json:"claimed_at,omitempty"`
}

// Unlock records that playerID unlocked achievementID at the given time.
func Unlock(playerID, achievementID uuid.UUID, at time.Time) *PlayerAchievement {
	return &PlayerAchievement{
		PlayerID:      playerID,
		AchievementID: achievementID,
		UnlockedAt:    at.UTC(),
	}
}

// Claim takes one spot of r for the player. Nothing changes on error.
func (p *PlayerAchievement) Claim(r *Reward, claimID uuid.UUID, at time.Time) error {
	if p.Claimed {
		return scoreerrors.ErrDuplicateClaim
	}
	if r == nil || r.AvailableSpots == 0 {
		return scoreerrors.ErrNoRewardAvailable
	}

	r.AvailableSpots--
	r.Issued++

	claimedAt := at.UTC()
	p.Claimed = true
	p.ClaimID = &claimID
	p.ClaimedAt = &claimedAt
	return nil
}
