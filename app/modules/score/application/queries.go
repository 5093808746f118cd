package scoreservice

import (
	"context"

	scoredomain "github.com/Black-And-White-Club/scorekeeper/app/modules/score/domain"
	"github.com/Black-And-White-Club/scorekeeper/pkg/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// GetLedgerSummary returns the counts and latest record of a ledger.
func (s *ScoreService) GetLedgerSummary(ctx context.Context, playerID, leaderboardID uuid.UUID) (*scoredomain.Summary, error) {
	summaryTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*scoredomain.Summary, error], error) {
		row, err := s.repo.Get(ctx, db, playerID, leaderboardID)
		if err != nil {
			return failureOr[*scoredomain.Summary](err)
		}
		return results.SuccessResult[*scoredomain.Summary, error](summaryOf(row)), nil
	}

	result, err := withTelemetry(s, ctx, "GetLedgerSummary", playerID.String(), func(ctx context.Context) (results.OperationResult[*scoredomain.Summary, error], error) {
		return runInTx(s, ctx, summaryTx)
	})
	return unwrap(result, err)
}

// GetLedger decodes the full score history from the substrate.
func (s *ScoreService) GetLedger(ctx context.Context, playerID, leaderboardID uuid.UUID) (*scoredomain.Ledger, error) {
	ledgerTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*scoredomain.Ledger, error], error) {
		row, err := s.repo.Get(ctx, db, playerID, leaderboardID)
		if err != nil {
			return failureOr[*scoredomain.Ledger](err)
		}
		ledger, err := s.loadLedger(ctx, db, row)
		if err != nil {
			return results.OperationResult[*scoredomain.Ledger, error]{}, err
		}
		return results.SuccessResult[*scoredomain.Ledger, error](ledger), nil
	}

	result, err := withTelemetry(s, ctx, "GetLedger", playerID.String(), func(ctx context.Context) (results.OperationResult[*scoredomain.Ledger, error], error) {
		return runInTx(s, ctx, ledgerTx)
	})
	return unwrap(result, err)
}

// ListLedgers summarizes every ledger of a player.
func (s *ScoreService) ListLedgers(ctx context.Context, playerID uuid.UUID) ([]scoredomain.Summary, error) {
	listTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[[]scoredomain.Summary, error], error) {
		rows, err := s.repo.ListByPlayer(ctx, db, playerID)
		if err != nil {
			return failureOr[[]scoredomain.Summary](err)
		}
		out := make([]scoredomain.Summary, 0, len(rows))
		for _, row := range rows {
			out = append(out, *summaryOf(row))
		}
		return results.SuccessResult[[]scoredomain.Summary, error](out), nil
	}

	result, err := withTelemetry(s, ctx, "ListLedgers", playerID.String(), func(ctx context.Context) (results.OperationResult[[]scoredomain.Summary, error], error) {
		return runInTx(s, ctx, listTx)
	})
	return unwrap(result, err)
}
