package achievementqueue

import (
	"github.com/google/uuid"
)

// IssueRewardJob announces a claimed reward to the reward service.
type IssueRewardJob struct {
	ClaimID       uuid.UUID `json:"claim_id"`
	AchievementID uuid.UUID `json:"achievement_id"`
	RewardID      uuid.UUID `json:"reward_id"`
	PlayerID      uuid.UUID `json:"player_id"`
	GameID        uuid.UUID `json:"game_id"`
	Kind          string    `json:"kind"`
	Amount        uint64    `json:"amount"`
}

// Kind returns the job type identifier for River
func (IssueRewardJob) Kind() string { return "issue_reward" }

// JobInfo represents a queued reward job (for debugging/monitoring)
type JobInfo struct {
	ID          int64  `json:"id"`
	ClaimID     string `json:"claim_id"`
	State       string `json:"state"`
	CreatedAt   string `json:"created_at"`
	Attempt     int    `json:"attempt"`
	MaxAttempts int    `json:"max_attempts"`
}
