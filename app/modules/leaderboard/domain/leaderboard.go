package leaderboarddomain

import (
	"fmt"
	"time"

	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
)

// MaxDescriptionLength is the description limit in characters.
const MaxDescriptionLength = 200

var (
	ErrInvalidBounds      = fmt.Errorf("%w: min score must not exceed max score", scoreerrors.ErrInvalidArgument)
	ErrInvalidRetainCount = fmt.Errorf("%w: retain count out of range", scoreerrors.ErrInvalidArgument)
)

// Leaderboard describes how scores of one game are bounded and ranked.
type Leaderboard struct {
	ID            uuid.UUID            `json:"id"`
	GameID        uuid.UUID            `json:"game_id"`
	Description   string               `json:"description"`
	Bounds        sharedtypes.Bounds   `json:"bounds"`
	Ordering      sharedtypes.Ordering `json:"ordering"`
	AllowMultiple bool                 `json:"allow_multiple"`
	RetainCount   int                  `json:"retain_count"`
	Decimals      uint8                `json:"decimals"`
	RankingHandle uuid.UUID            `json:"-"`
	CreatedAt     time.Time            `json:"created_at"`
}

// Ranked reports whether the leaderboard maintains a ranking.
func (l *Leaderboard) Ranked() bool {
	return l.RetainCount > 0
}

// Input holds the fields set at creation.
type Input struct {
	Description   string
	Bounds        *sharedtypes.Bounds
	Ordering      sharedtypes.Ordering
	AllowMultiple bool
	RetainCount   int
	Decimals      uint8
}

// Validate checks the input and fills default bounds.
func (in *Input) Validate() error {
	if err := scoreerrors.CheckLength("description", in.Description, MaxDescriptionLength); err != nil {
		return err
	}
	if in.Bounds == nil {
		b := sharedtypes.DefaultBounds()
		in.Bounds = &b
	}
	if !in.Bounds.Valid() {
		return ErrInvalidBounds
	}
	if in.RetainCount < 0 || in.RetainCount > MaxRetainCount {
		return ErrInvalidRetainCount
	}
	ordering, err := sharedtypes.ParseOrdering(string(in.Ordering))
	if err != nil {
		return err
	}
	in.Ordering = ordering
	return nil
}

// Update holds the mutable fields; nil fields are left unchanged.
type Update struct {
	Description   *string
	Bounds        *sharedtypes.Bounds
	Ordering      *sharedtypes.Ordering
	AllowMultiple *bool
}

// Changes reports which updates require the stored ranking to be rewritten.
type Changes struct {
	// Ordering is set when the ordering switched; the ranking must be re-sorted.
	Ordering bool
	// SingleSlot is set when allow_multiple went from true to false; players
	// holding several slots must be collapsed to their best one.
	SingleSlot bool
}

// RewriteRanking reports whether the stored ranking must be rewritten.
func (c Changes) RewriteRanking() bool {
	return c.Ordering || c.SingleSlot
}

// Apply validates u and applies it to l.
func (u Update) Apply(l *Leaderboard) (Changes, error) {
	var changes Changes
	if u.Description != nil {
		if err := scoreerrors.CheckLength("description", *u.Description, MaxDescriptionLength); err != nil {
			return changes, err
		}
	}
	if u.Bounds != nil && !u.Bounds.Valid() {
		return changes, ErrInvalidBounds
	}
	var ordering sharedtypes.Ordering
	if u.Ordering != nil {
		parsed, err := sharedtypes.ParseOrdering(string(*u.Ordering))
		if err != nil {
			return changes, err
		}
		ordering = parsed
	}

	if u.Description != nil {
		l.Description = *u.Description
	}
	if u.Bounds != nil {
		l.Bounds = *u.Bounds
	}
	if u.AllowMultiple != nil {
		changes.SingleSlot = l.AllowMultiple && !*u.AllowMultiple
		l.AllowMultiple = *u.AllowMultiple
	}
	if u.Ordering != nil && ordering != l.Ordering {
		l.Ordering = ordering
		changes.Ordering = true
	}
	return changes, nil
}

// RankingUpdate is the result of offering a score to a leaderboard's ranking.
type RankingUpdate struct {
	LeaderboardID uuid.UUID
	GameID        uuid.UUID
	PlayerID      uuid.UUID
	Outcome       Outcome
	Entries       []Entry
}

// Changed reports whether the ranking was modified.
func (u *RankingUpdate) Changed() bool {
	return u != nil && u.Outcome.Updated
}
