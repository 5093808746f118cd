package mergehandlers

import (
	"context"

	mergeservice "github.com/Black-And-White-Club/scorekeeper/app/modules/merge/application"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
)

// FakeMergeService implements mergeservice.Service for handler tests.
type FakeMergeService struct {
	trace []string

	InitiateMergeFunc func(ctx context.Context, caller sharedtypes.UserID, initiator uuid.UUID, candidates []uuid.UUID) (*mergeservice.MergeView, error)
	ApproveMergeFunc  func(ctx context.Context, caller sharedtypes.UserID, mergeID, participant uuid.UUID) (*mergeservice.ApprovalOutcome, error)
	GetMergeFunc      func(ctx context.Context, mergeID uuid.UUID) (*mergeservice.MergeView, error)
}

func NewFakeMergeService() *FakeMergeService {
	return &FakeMergeService{trace: []string{}}
}

func (f *FakeMergeService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeMergeService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeMergeService) InitiateMerge(ctx context.Context, caller sharedtypes.UserID, initiator uuid.UUID, candidates []uuid.UUID) (*mergeservice.MergeView, error) {
	f.record("InitiateMerge")
	if f.InitiateMergeFunc != nil {
		return f.InitiateMergeFunc(ctx, caller, initiator, candidates)
	}
	return &mergeservice.MergeView{ID: uuid.New(), Initiator: initiator}, nil
}

func (f *FakeMergeService) ApproveMerge(ctx context.Context, caller sharedtypes.UserID, mergeID, participant uuid.UUID) (*mergeservice.ApprovalOutcome, error) {
	f.record("ApproveMerge")
	if f.ApproveMergeFunc != nil {
		return f.ApproveMergeFunc(ctx, caller, mergeID, participant)
	}
	return &mergeservice.ApprovalOutcome{Merge: &mergeservice.MergeView{ID: mergeID}, Participant: participant}, nil
}

func (f *FakeMergeService) GetMerge(ctx context.Context, mergeID uuid.UUID) (*mergeservice.MergeView, error) {
	f.record("GetMerge")
	if f.GetMergeFunc != nil {
		return f.GetMergeFunc(ctx, mergeID)
	}
	return &mergeservice.MergeView{ID: mergeID}, nil
}

func (f *FakeMergeService) ListMerges(context.Context, uuid.UUID) ([]*mergeservice.MergeView, error) {
	f.record("ListMerges")
	return []*mergeservice.MergeView{}, nil
}

var _ mergeservice.Service = (*FakeMergeService)(nil)
