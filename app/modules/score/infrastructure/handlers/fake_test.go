package scorehandlers

import (
	"context"

	scoreservice "github.com/Black-And-White-Club/scorekeeper/app/modules/score/application"
	scoredomain "github.com/Black-And-White-Club/scorekeeper/app/modules/score/domain"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
)

// FakeScoreService implements scoreservice.Service for handler tests.
type FakeScoreService struct {
	trace []string

	RegisterPlayerForLeaderboardFunc func(ctx context.Context, caller sharedtypes.UserID, playerID, leaderboardID uuid.UUID) (*scoredomain.Summary, error)
	SubmitScoreFunc                  func(ctx context.Context, caller sharedtypes.UserID, playerID, leaderboardID uuid.UUID, record sharedtypes.ScoreRecord) (*scoreservice.SubmitOutcome, error)
	ImportScoresFunc                 func(ctx context.Context, caller sharedtypes.UserID, leaderboardID uuid.UUID, filename string, data []byte) ([]scoreservice.ImportResult, error)
	GetLedgerFunc                    func(ctx context.Context, playerID, leaderboardID uuid.UUID) (*scoredomain.Ledger, error)
	ListLedgersFunc                  func(ctx context.Context, playerID uuid.UUID) ([]scoredomain.Summary, error)
	RenderHistoryChartFunc           func(ctx context.Context, playerID, leaderboardID uuid.UUID) ([]byte, error)
}

func NewFakeScoreService() *FakeScoreService {
	return &FakeScoreService{trace: []string{}}
}

func (f *FakeScoreService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeScoreService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeScoreService) RegisterPlayerForLeaderboard(ctx context.Context, caller sharedtypes.UserID, playerID, leaderboardID uuid.UUID) (*scoredomain.Summary, error) {
	f.record("RegisterPlayerForLeaderboard")
	if f.RegisterPlayerForLeaderboardFunc != nil {
		return f.RegisterPlayerForLeaderboardFunc(ctx, caller, playerID, leaderboardID)
	}
	return &scoredomain.Summary{PlayerID: playerID, LeaderboardID: leaderboardID, Capacity: 10}, nil
}

func (f *FakeScoreService) SubmitScore(ctx context.Context, caller sharedtypes.UserID, playerID, leaderboardID uuid.UUID, record sharedtypes.ScoreRecord) (*scoreservice.SubmitOutcome, error) {
	f.record("SubmitScore")
	if f.SubmitScoreFunc != nil {
		return f.SubmitScoreFunc(ctx, caller, playerID, leaderboardID, record)
	}
	return &scoreservice.SubmitOutcome{PlayerID: playerID, LeaderboardID: leaderboardID, Record: record}, nil
}

func (f *FakeScoreService) ImportScores(ctx context.Context, caller sharedtypes.UserID, leaderboardID uuid.UUID, filename string, data []byte) ([]scoreservice.ImportResult, error) {
	f.record("ImportScores")
	if f.ImportScoresFunc != nil {
		return f.ImportScoresFunc(ctx, caller, leaderboardID, filename, data)
	}
	return nil, nil
}

func (f *FakeScoreService) GetLedgerSummary(_ context.Context, playerID, leaderboardID uuid.UUID) (*scoredomain.Summary, error) {
	f.record("GetLedgerSummary")
	return &scoredomain.Summary{PlayerID: playerID, LeaderboardID: leaderboardID}, nil
}

func (f *FakeScoreService) GetLedger(ctx context.Context, playerID, leaderboardID uuid.UUID) (*scoredomain.Ledger, error) {
	f.record("GetLedger")
	if f.GetLedgerFunc != nil {
		return f.GetLedgerFunc(ctx, playerID, leaderboardID)
	}
	return &scoredomain.Ledger{PlayerID: playerID, LeaderboardID: leaderboardID, Capacity: 10}, nil
}

func (f *FakeScoreService) ListLedgers(ctx context.Context, playerID uuid.UUID) ([]scoredomain.Summary, error) {
	f.record("ListLedgers")
	if f.ListLedgersFunc != nil {
		return f.ListLedgersFunc(ctx, playerID)
	}
	return []scoredomain.Summary{}, nil
}

func (f *FakeScoreService) RenderHistoryChart(ctx context.Context, playerID, leaderboardID uuid.UUID) ([]byte, error) {
	f.record("RenderHistoryChart")
	if f.RenderHistoryChartFunc != nil {
		return f.RenderHistoryChartFunc(ctx, playerID, leaderboardID)
	}
	return nil, nil
}

var _ scoreservice.Service = (*FakeScoreService)(nil)
