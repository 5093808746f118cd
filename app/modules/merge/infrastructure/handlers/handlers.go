package mergehandlers

import (
	"context"
	"log/slog"

	mergeservice "github.com/Black-And-White-Club/scorekeeper/app/modules/merge/application"
	mergeevents "github.com/Black-And-White-Club/scorekeeper/pkg/events/merge"
	"github.com/Black-And-White-Club/scorekeeper/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability/attr"
	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// MergeHandlers implements the Handlers interface.
type MergeHandlers struct {
	service mergeservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewMergeHandlers creates a new MergeHandlers instance.
func NewMergeHandlers(service mergeservice.Service, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &MergeHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// HandleMergeInitiateRequested opens a merge.
func (h *MergeHandlers) HandleMergeInitiateRequested(ctx context.Context, payload *mergeevents.MergeInitiateRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "MergeHandlers.HandleMergeInitiateRequested")
	defer span.End()

	caller := handlerwrapper.Caller(ctx, payload.Caller)

	view, err := h.service.InitiateMerge(ctx, caller, payload.Initiator, payload.Candidates)
	if err != nil {
		return h.failed(ctx, caller, uuid.Nil, err)
	}
	return initiatedResults(view), nil
}

// HandleMergeApproveRequested records one participant's approval.
func (h *MergeHandlers) HandleMergeApproveRequested(ctx context.Context, payload *mergeevents.MergeApproveRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "MergeHandlers.HandleMergeApproveRequested")
	defer span.End()

	caller := handlerwrapper.Caller(ctx, payload.Caller)

	outcome, err := h.service.ApproveMerge(ctx, caller, payload.MergeID, payload.Participant)
	if err != nil {
		return h.failed(ctx, caller, payload.MergeID, err)
	}
	return approvedResults(outcome), nil
}

func (h *MergeHandlers) failed(ctx context.Context, caller sharedtypes.UserID, mergeID uuid.UUID, err error) ([]handlerwrapper.Result, error) {
	if !scoreerrors.IsDomain(err) {
		return nil, err
	}
	h.logger.WarnContext(ctx, "Merge request rejected",
		attr.String("caller", string(caller)),
		attr.UUID("merge_id", mergeID),
		attr.Error(err),
	)
	return []handlerwrapper.Result{{
		Topic: mergeevents.MergeFailedV1,
		Payload: &mergeevents.MergeFailedPayloadV1{
			Caller:  caller,
			MergeID: mergeID,
			Reason:  err.Error(),
		},
	}}, nil
}

func initiatedResults(view *mergeservice.MergeView) []handlerwrapper.Result {
	participants := make([]uuid.UUID, 0, len(view.Participants))
	for _, p := range view.Participants {
		participants = append(participants, p.PlayerID)
	}
	out := []handlerwrapper.Result{{
		Topic: mergeevents.MergeInitiatedV1,
		Payload: &mergeevents.MergeInitiatedPayloadV1{
			MergeID:      view.ID,
			Initiator:    view.Initiator,
			Participants: participants,
			Complete:     view.Complete,
		},
	}}
	if view.Complete {
		out = append(out, completedResult(view))
	}
	return out
}

func approvedResults(outcome *mergeservice.ApprovalOutcome) []handlerwrapper.Result {
	out := []handlerwrapper.Result{{
		Topic: mergeevents.MergeApprovedV1,
		Payload: &mergeevents.MergeApprovedPayloadV1{
			MergeID:     outcome.Merge.ID,
			Participant: outcome.Participant,
			Changed:     outcome.Changed,
			Pending:     outcome.Pending,
		},
	}}
	if outcome.Completed {
		out = append(out, completedResult(outcome.Merge))
	}
	return out
}

func completedResult(view *mergeservice.MergeView) handlerwrapper.Result {
	return handlerwrapper.Result{
		Topic: mergeevents.MergeCompletedV1,
		Payload: &mergeevents.MergeCompletedPayloadV1{
			MergeID:   view.ID,
			Initiator: view.Initiator,
		},
	}
}
