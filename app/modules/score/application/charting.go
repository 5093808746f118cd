package scoreservice

import (
	"context"
	"fmt"
	"math"

	scoredomain "github.com/Black-And-White-Club/scorekeeper/app/modules/score/domain"
	"github.com/Black-And-White-Club/scorekeeper/pkg/charts"
	"github.com/Black-And-White-Club/scorekeeper/pkg/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/wcharczuk/go-chart/v2"
)

// RenderHistoryChart draws a ledger's scores in submission order.
func (s *ScoreService) RenderHistoryChart(ctx context.Context, playerID, leaderboardID uuid.UUID) ([]byte, error) {
	chartTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[[]byte, error], error) {
		lb, err := s.leaderboards.Lookup(ctx, db, leaderboardID)
		if err != nil {
			return failureOr[[]byte](err)
		}
		row, err := s.repo.Get(ctx, db, playerID, leaderboardID)
		if err != nil {
			return failureOr[[]byte](err)
		}
		ledger, err := s.loadLedger(ctx, db, row)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, err
		}
		png, err := GenerateHistoryChart(ledger, lb.Decimals, s.palette)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, fmt.Errorf("failed to render chart: %w", err)
		}
		return results.SuccessResult[[]byte, error](png), nil
	}

	result, err := withTelemetry(s, ctx, "RenderHistoryChart", playerID.String(), func(ctx context.Context) (results.OperationResult[[]byte, error], error) {
		return runInTx(s, ctx, chartTx)
	})
	return unwrap(result, err)
}

// GenerateHistoryChart plots each record against its ledger position.
func GenerateHistoryChart(ledger *scoredomain.Ledger, decimals uint8, palette charts.Palette) ([]byte, error) {
	// A line needs two points.
	if ledger.Len() < 2 {
		return charts.Placeholder(palette, "Not enough scores yet")
	}

	scale := math.Pow10(int(decimals))
	xs := make([]float64, ledger.Len())
	ys := make([]float64, ledger.Len())
	low, high := math.Inf(1), math.Inf(-1)
	for i, r := range ledger.Records {
		xs[i] = float64(i + 1)
		ys[i] = float64(r.Score) / scale
		low = math.Min(low, ys[i])
		high = math.Max(high, ys[i])
	}
	if low == high {
		low, high = low-1, high+1
	}

	background, canvas := palette.Frame()
	graph := chart.Chart{
		Width:      640,
		Height:     320,
		Background: background,
		Canvas:     canvas,
		XAxis: chart.XAxis{
			Style: chart.Style{FontColor: palette.Text},
		},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: palette.Text},
			Range: &chart.ContinuousRange{Min: low, Max: high},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Style: chart.Style{
					StrokeColor: palette.Primary,
					StrokeWidth: 2,
					DotColor:    palette.Accent,
					DotWidth:    3,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return charts.Render(graph)
}
