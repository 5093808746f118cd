package mergeevents

import (
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
)

const (
	MergeInitiateRequestedV1 = "merge.initiate.requested.v1"
	MergeInitiatedV1         = "merge.initiated.v1"
	MergeApproveRequestedV1  = "merge.approve.requested.v1"
	MergeApprovedV1          = "merge.approved.v1"
	MergeCompletedV1         = "merge.completed.v1"
	MergeFailedV1            = "merge.failed.v1"
)

type MergeInitiateRequestedPayloadV1 struct {
	Caller     sharedtypes.UserID `json:"caller"`
	Initiator  uuid.UUID          `json:"initiator"`
	Candidates []uuid.UUID        `json:"candidates"`
}

type MergeInitiatedPayloadV1 struct {
	MergeID      uuid.UUID   `json:"merge_id"`
	Initiator    uuid.UUID   `json:"initiator"`
	Participants []uuid.UUID `json:"participants"`
	Complete     bool        `json:"complete"`
}

type MergeApproveRequestedPayloadV1 struct {
	Caller      sharedtypes.UserID `json:"caller"`
	MergeID     uuid.UUID          `json:"merge_id"`
	Participant uuid.UUID          `json:"participant"`
}

type MergeApprovedPayloadV1 struct {
	MergeID     uuid.UUID `json:"merge_id"`
	Participant uuid.UUID `json:"participant"`
	Changed     bool      `json:"changed"`
	Pending     int       `json:"pending"`
}

type MergeCompletedPayloadV1 struct {
	MergeID   uuid.UUID `json:"merge_id"`
	Initiator uuid.UUID `json:"initiator"`
}

type MergeFailedPayloadV1 struct {
	Caller  sharedtypes.UserID `json:"caller"`
	MergeID uuid.UUID          `json:"merge_id,omitempty"`
	Reason  string             `json:"reason"`
}
