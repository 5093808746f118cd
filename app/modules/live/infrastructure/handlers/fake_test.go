package livehandlers

import (
	"context"

	leaderboarddomain "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/domain"
	livedomain "github.com/Black-And-White-Club/scorekeeper/app/modules/live/domain"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type FakeHub struct {
	trace  []string
	frames []livedomain.Frame

	BroadcastFunc func(ctx context.Context, frame livedomain.Frame) (int, error)
}

func (f *FakeHub) Broadcast(ctx context.Context, frame livedomain.Frame) (int, error) {
	f.trace = append(f.trace, "Broadcast")
	f.frames = append(f.frames, frame)
	if f.BroadcastFunc != nil {
		return f.BroadcastFunc(ctx, frame)
	}
	return 1, nil
}

func (f *FakeHub) Serve(context.Context, uuid.UUID, *websocket.Conn, *livedomain.Frame) {
	f.trace = append(f.trace, "Serve")
}

type FakeRankings struct {
	trace []string

	GetRankingFunc func(ctx context.Context, leaderboardID uuid.UUID) ([]leaderboarddomain.Entry, error)
}

func (f *FakeRankings) GetRanking(ctx context.Context, leaderboardID uuid.UUID) ([]leaderboarddomain.Entry, error) {
	f.trace = append(f.trace, "GetRanking")
	if f.GetRankingFunc != nil {
		return f.GetRankingFunc(ctx, leaderboardID)
	}
	return nil, nil
}

var (
	_ Broadcaster = (*FakeHub)(nil)
	_ Rankings    = (*FakeRankings)(nil)
)
