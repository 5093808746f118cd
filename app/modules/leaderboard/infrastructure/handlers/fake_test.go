package leaderboardhandlers

import (
	"context"

	leaderboardservice "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/domain"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FakeLeaderboardService implements leaderboardservice.Service for handler tests.
type FakeLeaderboardService struct {
	trace []string

	CreateLeaderboardFunc  func(ctx context.Context, caller sharedtypes.UserID, gameID uuid.UUID, input leaderboarddomain.Input) (*leaderboarddomain.Leaderboard, error)
	UpdateLeaderboardFunc  func(ctx context.Context, caller sharedtypes.UserID, leaderboardID uuid.UUID, update leaderboarddomain.Update) (*leaderboarddomain.Leaderboard, error)
	GetLeaderboardFunc     func(ctx context.Context, leaderboardID uuid.UUID) (*leaderboarddomain.Leaderboard, error)
	GetRankingFunc         func(ctx context.Context, leaderboardID uuid.UUID) ([]leaderboarddomain.Entry, error)
	IsPlayerRankedFunc     func(ctx context.Context, leaderboardID, playerID uuid.UUID) (bool, error)
	RenderRankingChartFunc func(ctx context.Context, leaderboardID uuid.UUID) ([]byte, error)
}

func NewFakeLeaderboardService() *FakeLeaderboardService {
	return &FakeLeaderboardService{trace: []string{}}
}

func (f *FakeLeaderboardService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeLeaderboardService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeLeaderboardService) CreateLeaderboard(ctx context.Context, caller sharedtypes.UserID, gameID uuid.UUID, input leaderboarddomain.Input) (*leaderboarddomain.Leaderboard, error) {
	f.record("CreateLeaderboard")
	if f.CreateLeaderboardFunc != nil {
		return f.CreateLeaderboardFunc(ctx, caller, gameID, input)
	}
	return &leaderboarddomain.Leaderboard{ID: uuid.New(), GameID: gameID}, nil
}

func (f *FakeLeaderboardService) UpdateLeaderboard(ctx context.Context, caller sharedtypes.UserID, leaderboardID uuid.UUID, update leaderboarddomain.Update) (*leaderboarddomain.Leaderboard, error) {
	f.record("UpdateLeaderboard")
	if f.UpdateLeaderboardFunc != nil {
		return f.UpdateLeaderboardFunc(ctx, caller, leaderboardID, update)
	}
	return &leaderboarddomain.Leaderboard{ID: leaderboardID}, nil
}

func (f *FakeLeaderboardService) GetLeaderboard(ctx context.Context, leaderboardID uuid.UUID) (*leaderboarddomain.Leaderboard, error) {
	f.record("GetLeaderboard")
	if f.GetLeaderboardFunc != nil {
		return f.GetLeaderboardFunc(ctx, leaderboardID)
	}
	return nil, nil
}

func (f *FakeLeaderboardService) ListLeaderboards(context.Context, uuid.UUID) ([]*leaderboarddomain.Leaderboard, error) {
	f.record("ListLeaderboards")
	return nil, nil
}

func (f *FakeLeaderboardService) ConsiderScore(context.Context, uuid.UUID, uuid.UUID, sharedtypes.ScoreRecord) (*leaderboarddomain.RankingUpdate, error) {
	f.record("ConsiderScore")
	return nil, nil
}

func (f *FakeLeaderboardService) GetRanking(ctx context.Context, leaderboardID uuid.UUID) ([]leaderboarddomain.Entry, error) {
	f.record("GetRanking")
	if f.GetRankingFunc != nil {
		return f.GetRankingFunc(ctx, leaderboardID)
	}
	return nil, nil
}

func (f *FakeLeaderboardService) IsPlayerRanked(ctx context.Context, leaderboardID, playerID uuid.UUID) (bool, error) {
	f.record("IsPlayerRanked")
	if f.IsPlayerRankedFunc != nil {
		return f.IsPlayerRankedFunc(ctx, leaderboardID, playerID)
	}
	return false, nil
}

func (f *FakeLeaderboardService) RenderRankingChart(ctx context.Context, leaderboardID uuid.UUID) ([]byte, error) {
	f.record("RenderRankingChart")
	if f.RenderRankingChartFunc != nil {
		return f.RenderRankingChartFunc(ctx, leaderboardID)
	}
	return nil, nil
}

func (f *FakeLeaderboardService) Lookup(context.Context, bun.IDB, uuid.UUID) (*leaderboarddomain.Leaderboard, error) {
	f.record("Lookup")
	return nil, nil
}

func (f *FakeLeaderboardService) Consider(context.Context, bun.IDB, uuid.UUID, uuid.UUID, sharedtypes.ScoreRecord) (*leaderboarddomain.RankingUpdate, error) {
	f.record("Consider")
	return nil, nil
}

func (f *FakeLeaderboardService) IsRanked(context.Context, bun.IDB, uuid.UUID, uuid.UUID) (bool, error) {
	f.record("IsRanked")
	return false, nil
}

var _ leaderboardservice.Service = (*FakeLeaderboardService)(nil)
