package scorehandlers

import (
	"fmt"
	"io"
	"net/http"

	scoredomain "github.com/Black-And-White-Club/scorekeeper/app/modules/score/domain"
	"github.com/Black-And-White-Club/scorekeeper/pkg/httpapi"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability/attr"
	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// MaxImportSize caps uploaded score sheets.
const MaxImportSize = 5 << 20

type ledgerResponse struct {
	scoredomain.Summary
	Records []sharedtypes.ScoreRecord `json:"records"`
}

type importResponse struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
	Rows     any `json:"rows"`
}

func (h *ScoreHandlers) HandleHTTPGetLedger(w http.ResponseWriter, r *http.Request) {
	playerID, ok := parseID(w, r, "playerID")
	if !ok {
		return
	}
	leaderboardID, ok := parseID(w, r, "leaderboardID")
	if !ok {
		return
	}

	ledger, err := h.service.GetLedger(r.Context(), playerID, leaderboardID)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Get ledger failed", attr.Error(err))
		httpapi.WriteError(w, err)
		return
	}

	summary := ledger.Summarize()
	records := ledger.Records
	if records == nil {
		records = []sharedtypes.ScoreRecord{}
	}
	httpapi.WriteJSON(w, http.StatusOK, ledgerResponse{Summary: summary, Records: records})
}

func (h *ScoreHandlers) HandleHTTPListLedgers(w http.ResponseWriter, r *http.Request) {
	playerID, ok := parseID(w, r, "playerID")
	if !ok {
		return
	}

	summaries, err := h.service.ListLedgers(r.Context(), playerID)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, summaries)
}

func (h *ScoreHandlers) HandleHTTPHistoryChart(w http.ResponseWriter, r *http.Request) {
	playerID, ok := parseID(w, r, "playerID")
	if !ok {
		return
	}
	leaderboardID, ok := parseID(w, r, "leaderboardID")
	if !ok {
		return
	}

	png, err := h.service.RenderHistoryChart(r.Context(), playerID, leaderboardID)
	if err != nil {
		h.logger.WarnContext(r.Context(), "History chart failed", attr.Error(err))
		httpapi.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// HandleHTTPImportScores accepts a multipart "file" field holding a CSV or
// XLSX sheet. The caller comes from the bearer token.
func (h *ScoreHandlers) HandleHTTPImportScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ScoreHandlers.HandleHTTPImportScores")
	defer span.End()

	leaderboardID, ok := parseID(w, r, "leaderboardID")
	if !ok {
		return
	}
	caller, ok := httpapi.CallerFromContext(ctx)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxImportSize)
	if err := r.ParseMultipartForm(MaxImportSize); err != nil {
		httpapi.WriteError(w, fmt.Errorf("%w: %v", scoreerrors.ErrInvalidArgument, err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpapi.WriteError(w, fmt.Errorf("%w: missing file", scoreerrors.ErrInvalidArgument))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httpapi.WriteError(w, fmt.Errorf("%w: %v", scoreerrors.ErrInvalidArgument, err))
		return
	}

	rows, err := h.service.ImportScores(ctx, caller, leaderboardID, header.Filename, data)
	if err != nil {
		h.logger.WarnContext(ctx, "Score import failed",
			attr.UUID("leaderboard_id", leaderboardID),
			attr.Error(err),
		)
		httpapi.WriteError(w, err)
		return
	}

	resp := importResponse{Rows: rows}
	for _, row := range rows {
		if row.Accepted {
			resp.Accepted++
		} else {
			resp.Rejected++
		}
	}
	httpapi.WriteJSON(w, http.StatusOK, resp)
}

func parseID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		http.Error(w, "invalid "+param, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
