package mergeservice

import (
	"context"

	mergedomain "github.com/Black-And-White-Club/scorekeeper/app/modules/merge/domain"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Service defines the interface for merge operations.
type Service interface {
	// InitiateMerge opens a merge of candidates into initiator. The caller
	// must own the initiator player.
	InitiateMerge(ctx context.Context, caller sharedtypes.UserID, initiator uuid.UUID, candidates []uuid.UUID) (*MergeView, error)

	// ApproveMerge records the approval of one participant. The caller must
	// own the participant player. Approving twice changes nothing.
	ApproveMerge(ctx context.Context, caller sharedtypes.UserID, mergeID, participant uuid.UUID) (*ApprovalOutcome, error)

	GetMerge(ctx context.Context, mergeID uuid.UUID) (*MergeView, error)
	ListMerges(ctx context.Context, playerID uuid.UUID) ([]*MergeView, error)
}

// Players is the part of the player module a merge needs, run on the
// merge's transaction.
type Players interface {
	Owner(ctx context.Context, db bun.IDB, playerID uuid.UUID) (sharedtypes.UserID, error)
	Reassign(ctx context.Context, db bun.IDB, playerID uuid.UUID, owner sharedtypes.UserID) error
}

// MergeView is the read model of a merge.
type MergeView struct {
	ID           uuid.UUID                 `json:"id"`
	RequestedBy  sharedtypes.UserID        `json:"requested_by"`
	Initiator    uuid.UUID                 `json:"initiator"`
	Participants []mergedomain.Participant `json:"participants"`
	Pending      int                       `json:"pending"`
	Complete     bool                      `json:"complete"`
}

// ApprovalOutcome reports an approval and the resulting merge state.
type ApprovalOutcome struct {
	Merge       *MergeView
	Participant uuid.UUID
	mergedomain.Outcome
}
