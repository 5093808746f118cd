package leaderboardservice

import (
	"context"
	"fmt"
	"math"

	leaderboarddomain "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/scorekeeper/pkg/charts"
	"github.com/Black-And-White-Club/scorekeeper/pkg/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/wcharczuk/go-chart/v2"
)

// RenderRankingChart draws the current ranking as a PNG bar chart.
func (s *LeaderboardService) RenderRankingChart(ctx context.Context, leaderboardID uuid.UUID) ([]byte, error) {
	chartTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[[]byte, error], error) {
		lb, err := s.Lookup(ctx, db, leaderboardID)
		if err != nil {
			return failureOr[[]byte](err)
		}
		ranking, err := s.rankingOf(ctx, db, leaderboardID)
		if err != nil {
			return failureOr[[]byte](err)
		}
		png, err := GenerateRankingChart(ranking.Entries(), lb.Decimals, s.palette)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, fmt.Errorf("failed to render chart: %w", err)
		}
		return results.SuccessResult[[]byte, error](png), nil
	}

	result, err := withTelemetry(s, ctx, "RenderRankingChart", leaderboardID.String(), func(ctx context.Context) (results.OperationResult[[]byte, error], error) {
		return runInTx(s, ctx, chartTx)
	})
	return unwrap(result, err)
}

// GenerateRankingChart renders entries as bars, best rank first. Scores are
// scaled down by 10^decimals for display.
func GenerateRankingChart(entries []leaderboarddomain.Entry, decimals uint8, palette charts.Palette) ([]byte, error) {
	if len(entries) == 0 {
		return charts.Placeholder(palette, "No ranked scores yet")
	}

	scale := math.Pow10(int(decimals))
	top := 0.0
	bars := make([]chart.Value, len(entries))
	for i, e := range entries {
		style := chart.Style{
			FillColor:   palette.Primary,
			StrokeColor: palette.Primary,
		}
		if i == 0 {
			style.FillColor = palette.Accent
			style.StrokeColor = palette.Accent
		}
		bars[i] = chart.Value{
			Label: fmt.Sprintf("#%d %s", e.Rank+1, e.PlayerID.String()[:8]),
			Value: float64(e.Record.Score) / scale,
			Style: style,
		}
		top = math.Max(top, bars[i].Value)
	}
	// go-chart rejects an empty y range, which equal scores would produce.
	if top == 0 {
		top = 1
	}

	background, canvas := palette.Frame()
	graph := chart.BarChart{
		Width:      120*len(entries) + 120,
		Height:     400,
		BarWidth:   60,
		Background: background,
		Canvas:     canvas,
		XAxis: chart.Style{
			FontColor: palette.Text,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{
				FontColor: palette.Text,
			},
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Bars: bars,
	}

	return charts.Render(graph)
}
