package scoreservice

import (
	"context"
	"fmt"

	"github.com/Black-And-White-Club/scorekeeper/pkg/observability/attr"
	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
)

// ImportScores submits every row of an uploaded sheet. Rows are independent:
// a rejected row does not undo earlier ones. Infrastructure errors stop the
// import and return the rows processed so far.
func (s *ScoreService) ImportScores(ctx context.Context, caller sharedtypes.UserID, leaderboardID uuid.UUID, filename string, data []byte) ([]ImportResult, error) {
	parser, err := s.parsers.GetParser(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", scoreerrors.ErrInvalidArgument, err)
	}
	rows, err := parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", scoreerrors.ErrInvalidArgument, err)
	}

	out := make([]ImportResult, 0, len(rows))
	accepted := 0
	for _, row := range rows {
		res := ImportResult{Line: row.Line, PlayerID: row.PlayerID, Score: row.Score}
		if row.Err != nil {
			res.Reason = row.Err.Error()
			out = append(out, res)
			continue
		}

		ts := row.Timestamp
		if !row.HasTime {
			ts = s.now().Unix()
		}

		outcome, err := s.SubmitScore(ctx, caller, row.PlayerID, leaderboardID, sharedtypes.ScoreRecord{Score: row.Score, Timestamp: ts})
		if err != nil {
			if !scoreerrors.IsDomain(err) {
				return out, err
			}
			res.Reason = err.Error()
		} else {
			res.Accepted = true
			res.Outcome = outcome
			accepted++
		}
		out = append(out, res)
	}

	s.logger.InfoContext(ctx, "Scores imported",
		attr.ExtractCorrelationID(ctx),
		attr.UUID("leaderboard_id", leaderboardID),
		attr.Int("rows", len(out)),
		attr.Int("accepted", accepted),
	)
	return out, nil
}
