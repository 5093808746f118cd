package gamedomain

import (
	"fmt"
	"slices"
	"time"

	"github.com/Black-And-White-Club/scorekeeper/pkg/capacity"
	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
)

// Field limits, in characters.
const (
	MaxTitleLength       = 30
	MaxDescriptionLength = 200
	MaxGenreLength       = 40
	MaxGameTypeLength    = 20
)

// AuthorityWindow is the growth step of the authority list.
const AuthorityWindow = 10

// ErrNoAuthorities is returned when an update would leave a game without
// any authority.
var ErrNoAuthorities = fmt.Errorf("%w: game must keep at least one authority", scoreerrors.ErrInvalidArgument)

// Meta is the descriptive part of a game.
type Meta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Genre       string `json:"genre"`
	GameType    string `json:"game_type"`
}

// Validate checks every field against its limit.
func (m Meta) Validate() error {
	for _, f := range []struct {
		name  string
		value string
		max   int
	}{
		{"title", m.Title, MaxTitleLength},
		{"description", m.Description, MaxDescriptionLength},
		{"genre", m.Genre, MaxGenreLength},
		{"game_type", m.GameType, MaxGameTypeLength},
	} {
		if err := scoreerrors.CheckLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}
	return nil
}

// Game is a registered game and the users allowed to administer it.
type Game struct {
	ID          uuid.UUID   `json:"id"`
	Meta        Meta        `json:"meta"`
	Authorities Authorities `json:"authorities"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Authorities is a deduplicated, windowed list of authority users.
type Authorities struct {
	Users    []sharedtypes.UserID `json:"users"`
	Capacity int                  `json:"capacity"`
}

// NewAuthorities places creator first, followed by the distinct extra users.
func NewAuthorities(creator sharedtypes.UserID, extra []sharedtypes.UserID) Authorities {
	a := Authorities{}
	a.Add(creator)
	for _, u := range extra {
		a.Add(u)
	}
	return a
}

// ReplaceAuthorities builds a list from users alone.
func ReplaceAuthorities(users []sharedtypes.UserID) (Authorities, error) {
	a := Authorities{}
	for _, u := range users {
		a.Add(u)
	}
	if len(a.Users) == 0 {
		return Authorities{}, ErrNoAuthorities
	}
	return a, nil
}

// Add appends user unless already present. It reports whether the list
// changed and whether the capacity grew to fit it.
func (a *Authorities) Add(user sharedtypes.UserID) (added, grew bool) {
	if user == "" || a.Contains(user) {
		return false, false
	}
	policy := capacity.Policy{Window: AuthorityWindow}
	if policy.NeedsGrowth(a.Capacity, len(a.Users)) {
		a.Capacity = policy.Next(a.Capacity, len(a.Users))
		grew = true
	}
	a.Users = append(a.Users, user)
	return true, grew
}

// Contains reports whether user is an authority.
func (a Authorities) Contains(user sharedtypes.UserID) bool {
	return slices.Contains(a.Users, user)
}
