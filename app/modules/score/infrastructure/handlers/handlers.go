package scorehandlers

import (
	"context"
	"log/slog"

	leaderboardservice "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/application"
	scoreservice "github.com/Black-And-White-Club/scorekeeper/app/modules/score/application"
	leaderboardevents "github.com/Black-And-White-Club/scorekeeper/pkg/events/leaderboard"
	scoreevents "github.com/Black-And-White-Club/scorekeeper/pkg/events/score"
	"github.com/Black-And-White-Club/scorekeeper/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability/attr"
	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"go.opentelemetry.io/otel/trace"
)

// ScoreHandlers implements the Handlers interface.
type ScoreHandlers struct {
	service scoreservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewScoreHandlers creates a new ScoreHandlers instance.
func NewScoreHandlers(
	service scoreservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &ScoreHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// HandleLedgerRegisterRequested opens a ledger for a player on a leaderboard.
func (h *ScoreHandlers) HandleLedgerRegisterRequested(ctx context.Context, payload *scoreevents.LedgerRegisterRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "ScoreHandlers.HandleLedgerRegisterRequested")
	defer span.End()

	caller := handlerwrapper.Caller(ctx, payload.Caller)

	summary, err := h.service.RegisterPlayerForLeaderboard(ctx, caller, payload.PlayerID, payload.LeaderboardID)
	if err != nil {
		if scoreerrors.IsDomain(err) {
			h.logger.WarnContext(ctx, "Ledger registration rejected",
				attr.String("caller", string(caller)),
				attr.UUID("player_id", payload.PlayerID),
				attr.Error(err),
			)
			return []handlerwrapper.Result{{
				Topic: scoreevents.LedgerRegisterFailedV1,
				Payload: &scoreevents.LedgerRegisterFailedPayloadV1{
					Caller:        caller,
					PlayerID:      payload.PlayerID,
					LeaderboardID: payload.LeaderboardID,
					Reason:        err.Error(),
				},
			}}, nil
		}
		return nil, err
	}

	return []handlerwrapper.Result{{
		Topic: scoreevents.LedgerRegisteredV1,
		Payload: &scoreevents.LedgerRegisteredPayloadV1{
			PlayerID:      summary.PlayerID,
			LeaderboardID: summary.LeaderboardID,
			Capacity:      summary.Capacity,
		},
	}}, nil
}

// HandleScoreSubmitRequested appends a score and announces the ranking change,
// if there was one.
func (h *ScoreHandlers) HandleScoreSubmitRequested(ctx context.Context, payload *scoreevents.ScoreSubmitRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "ScoreHandlers.HandleScoreSubmitRequested")
	defer span.End()

	caller := handlerwrapper.Caller(ctx, payload.Caller)

	record := sharedtypes.ScoreRecord{Score: payload.Score, Timestamp: payload.Timestamp}
	outcome, err := h.service.SubmitScore(ctx, caller, payload.PlayerID, payload.LeaderboardID, record)
	if err != nil {
		if scoreerrors.IsDomain(err) {
			h.logger.WarnContext(ctx, "Score rejected",
				attr.UUID("player_id", payload.PlayerID),
				attr.UUID("leaderboard_id", payload.LeaderboardID),
				attr.Error(err),
			)
			return []handlerwrapper.Result{{
				Topic: scoreevents.ScoreRejectedV1,
				Payload: &scoreevents.ScoreRejectedPayloadV1{
					PlayerID:      payload.PlayerID,
					LeaderboardID: payload.LeaderboardID,
					Score:         payload.Score,
					Reason:        err.Error(),
				},
			}}, nil
		}
		return nil, err
	}

	return outcomeResults(outcome), nil
}

// outcomeResults builds the events announcing an accepted score.
func outcomeResults(outcome *scoreservice.SubmitOutcome) []handlerwrapper.Result {
	out := []handlerwrapper.Result{{
		Topic: scoreevents.ScoreAcceptedV1,
		Payload: &scoreevents.ScoreAcceptedPayloadV1{
			PlayerID:      outcome.PlayerID,
			LeaderboardID: outcome.LeaderboardID,
			Score:         outcome.Record.Score,
			Timestamp:     outcome.Record.Timestamp,
			Position:      outcome.Position,
			Length:        outcome.Length,
			Capacity:      outcome.Capacity,
			Grew:          outcome.Grew,
		},
	}}
	if outcome.Ranking.Changed() {
		out = append(out, handlerwrapper.Result{
			Topic:   leaderboardevents.LeaderboardRankingUpdatedV1,
			Payload: leaderboardservice.RankingUpdatedPayload(outcome.Ranking),
		})
	}
	return out
}
