package achievementqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	achievementdb "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/infrastructure/repositories"
	achievementevents "github.com/Black-And-White-Club/scorekeeper/pkg/events/achievement"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability/attr"
	"github.com/Black-And-White-Club/scorekeeper/pkg/utils"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/uptrace/bun"
)

// ErrClaimNotVisible is returned while the claim that enqueued a job has not
// been committed yet. River retries the job.
var ErrClaimNotVisible = errors.New("claim not visible yet")

// ClaimLookup finds committed claims.
type ClaimLookup interface {
	GetClaim(ctx context.Context, db bun.IDB, claimID uuid.UUID) (*achievementdb.PlayerAchievement, error)
}

// Issuer publishes reward issuance events.
type Issuer struct {
	logger    *slog.Logger
	publisher message.Publisher
	helpers   utils.Helpers
	claims    ClaimLookup
}

func NewIssuer(logger *slog.Logger, publisher message.Publisher, helpers utils.Helpers, claims ClaimLookup) *Issuer {
	return &Issuer{logger: logger, publisher: publisher, helpers: helpers, claims: claims}
}

// Topic is the per-game subject the reward service listens on.
func Topic(gameID uuid.UUID) string {
	return achievementevents.RewardIssuedV1 + "." + gameID.String()
}

// Issue checks that the claim was committed and publishes the reward.
func (i *Issuer) Issue(ctx context.Context, job IssueRewardJob) error {
	if i.claims != nil {
		claim, err := i.claims.GetClaim(ctx, nil, job.ClaimID)
		if err != nil {
			if errors.Is(err, achievementdb.ErrUnlockNotFound) {
				return fmt.Errorf("%w: %s", ErrClaimNotVisible, job.ClaimID)
			}
			return err
		}
		if !claim.Claimed {
			return fmt.Errorf("%w: %s", ErrClaimNotVisible, job.ClaimID)
		}
	}
	return i.publish(ctx, job)
}

func (i *Issuer) publish(ctx context.Context, job IssueRewardJob) error {
	payload := achievementevents.RewardIssuedPayloadV1{
		ClaimID:       job.ClaimID,
		AchievementID: job.AchievementID,
		RewardID:      job.RewardID,
		PlayerID:      job.PlayerID,
		GameID:        job.GameID,
		Kind:          job.Kind,
		Amount:        job.Amount,
	}

	topic := Topic(job.GameID)
	msg, err := i.helpers.CreateNewMessage(payload, topic)
	if err != nil {
		return fmt.Errorf("failed to create reward message: %w", err)
	}
	if err := i.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish reward: %w", err)
	}

	i.logger.InfoContext(ctx, "Reward issued",
		attr.UUID("claim_id", job.ClaimID),
		attr.UUID("player_id", job.PlayerID),
		attr.String("kind", job.Kind),
		attr.Uint64("amount", job.Amount),
	)
	return nil
}

// IssueRewardWorker runs IssueRewardJob on River.
type IssueRewardWorker struct {
	river.WorkerDefaults[IssueRewardJob]
	issuer *Issuer
}

func NewIssueRewardWorker(issuer *Issuer) *IssueRewardWorker {
	return &IssueRewardWorker{issuer: issuer}
}

func (w *IssueRewardWorker) Work(ctx context.Context, job *river.Job[IssueRewardJob]) error {
	return w.issuer.Issue(ctx, job.Args)
}
