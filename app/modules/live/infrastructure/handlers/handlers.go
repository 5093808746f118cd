package livehandlers

import (
	"context"
	"log/slog"
	"net/http"

	leaderboardservice "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/domain"
	livedomain "github.com/Black-And-White-Club/scorekeeper/app/modules/live/domain"
	leaderboardevents "github.com/Black-And-White-Club/scorekeeper/pkg/events/leaderboard"
	"github.com/Black-And-White-Club/scorekeeper/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/scorekeeper/pkg/httpapi"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability/attr"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/trace"
)

// Rankings reads the current ranking of a leaderboard.
type Rankings interface {
	GetRanking(ctx context.Context, leaderboardID uuid.UUID) ([]leaderboarddomain.Entry, error)
}

// Broadcaster delivers frames to the subscribers of a leaderboard.
type Broadcaster interface {
	Broadcast(ctx context.Context, frame livedomain.Frame) (int, error)
	Serve(ctx context.Context, leaderboardID uuid.UUID, conn *websocket.Conn, snapshot *livedomain.Frame)
}

// LiveHandlers implements the Handlers interface.
type LiveHandlers struct {
	hub      Broadcaster
	rankings Rankings
	upgrader websocket.Upgrader
	logger   *slog.Logger
	tracer   trace.Tracer
}

// NewLiveHandlers creates a new LiveHandlers instance. An empty
// allowedOrigins accepts every origin.
func NewLiveHandlers(hub Broadcaster, rankings Rankings, allowedOrigins []string, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &LiveHandlers{
		hub:      hub,
		rankings: rankings,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
		logger: logger,
		tracer: tracer,
	}
}

func checkOrigin(allowed []string) func(*http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		if len(set) == 0 {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// HandleRankingUpdated forwards a ranking change to live subscribers. It
// publishes nothing.
func (h *LiveHandlers) HandleRankingUpdated(ctx context.Context, payload *leaderboardevents.LeaderboardRankingUpdatedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "LiveHandlers.HandleRankingUpdated")
	defer span.End()

	delivered, err := h.hub.Broadcast(ctx, livedomain.Update(payload))
	if err != nil {
		return nil, err
	}
	h.logger.DebugContext(ctx, "Ranking update broadcast",
		attr.UUID("leaderboard_id", payload.LeaderboardID),
		attr.Int("subscribers", delivered),
	)
	return nil, nil
}

// HandleWebSocket upgrades the request and streams the ranking of the
// leaderboard in the path, starting with a snapshot.
func (h *LiveHandlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	leaderboardID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	entries, err := h.rankings.GetRanking(r.Context(), leaderboardID)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	snapshot := livedomain.Snapshot(leaderboardID, leaderboardservice.RankedEntries(entries))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "WebSocket upgrade failed", attr.Error(err))
		return
	}

	h.logger.InfoContext(r.Context(), "Live subscriber connected", attr.UUID("leaderboard_id", leaderboardID))
	h.hub.Serve(r.Context(), leaderboardID, conn, &snapshot)
	h.logger.InfoContext(r.Context(), "Live subscriber disconnected", attr.UUID("leaderboard_id", leaderboardID))
}
