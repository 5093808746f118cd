package achievementdomain

import (
	"strings"
	"testing"
	"time"

	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   Input
		wantErr error
	}{
		{"valid", Input{Title: "First blood", Description: "Submit a score"}, nil},
		{"title at limit", Input{Title: strings.Repeat("t", MaxTitleLength)}, nil},
		{"title too long", Input{Title: strings.Repeat("t", MaxTitleLength+1)}, scoreerrors.ErrFieldTooLong},
		{"description too long", Input{Title: "x", Description: strings.Repeat("d", MaxDescriptionLength+1)}, scoreerrors.ErrFieldTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewReward(t *testing.T) {
	tests := []struct {
		name       string
		input      RewardInput
		wantKind   RewardKind
		wantAmount uint64
		wantErr    error
	}{
		{"fungible", RewardInput{Kind: "FT", Amount: 50, AvailableSpots: 3}, FungibleToken, 50, nil},
		{"fungible without amount", RewardInput{Kind: "ft", AvailableSpots: 3}, "", 0, ErrInvalidReward},
		{"nft pays one", RewardInput{Kind: "nft", Amount: 9, Name: "Crown", Symbol: "CRWN", URI: "https://x/1.json"}, NonFungibleToken, 1, nil},
		{"nft symbol too long", RewardInput{Kind: "nft", Symbol: strings.Repeat("s", MaxRewardSymbolLength+1)}, "", 0, scoreerrors.ErrFieldTooLong},
		{"unknown kind", RewardInput{Kind: "gold"}, "", 0, ErrUnknownRewardKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReward(uuid.New(), uuid.New(), tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, scoreerrors.IsDomain(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, r.Kind)
			assert.Equal(t, tt.wantAmount, r.Amount)
			assert.Equal(t, tt.input.AvailableSpots, r.AvailableSpots)
		})
	}
}

func TestClaim(t *testing.T) {
	at := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	t.Run("takes a spot", func(t *testing.T) {
		p := Unlock(uuid.New(), uuid.New(), at)
		r := &Reward{AvailableSpots: 2}
		claimID := uuid.New()

		require.NoError(t, p.Claim(r, claimID, at))
		assert.True(t, p.Claimed)
		assert.Equal(t, claimID, *p.ClaimID)
		assert.Equal(t, uint64(1), r.AvailableSpots)
		assert.Equal(t, uint64(1), r.Issued)
	})

	t.Run("second claim is a duplicate", func(t *testing.T) {
		p := Unlock(uuid.New(), uuid.New(), at)
		r := &Reward{AvailableSpots: 2}
		require.NoError(t, p.Claim(r, uuid.New(), at))

		assert.ErrorIs(t, p.Claim(r, uuid.New(), at), scoreerrors.ErrDuplicateClaim)
		assert.Equal(t, uint64(1), r.AvailableSpots)
	})

	t.Run("no spots left", func(t *testing.T) {
		p := Unlock(uuid.New(), uuid.New(), at)
		r := &Reward{AvailableSpots: 0}

		assert.ErrorIs(t, p.Claim(r, uuid.New(), at), scoreerrors.ErrNoRewardAvailable)
		assert.False(t, p.Claimed)
		assert.Nil(t, p.ClaimID)
	})

	t.Run("no reward", func(t *testing.T) {
		p := Unlock(uuid.New(), uuid.New(), at)
		assert.ErrorIs(t, p.Claim(nil, uuid.New(), at), scoreerrors.ErrNoRewardAvailable)
	})
}
