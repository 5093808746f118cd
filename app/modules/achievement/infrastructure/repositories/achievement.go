package achievementdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Black-And-White-Club/scorekeeper/db/bundb"
	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	ErrNotFound       = fmt.Errorf("achievement %w", scoreerrors.ErrNotFound)
	ErrRewardNotFound = fmt.Errorf("reward %w", scoreerrors.ErrNotFound)
	ErrUnlockNotFound = fmt.Errorf("player achievement %w", scoreerrors.ErrNotFound)
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new achievement repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// --- achievements ---

func (r *Impl) CreateAchievement(ctx context.Context, db bun.IDB, a *Achievement) error {
	db = r.resolveDB(db)
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	if _, err := db.NewInsert().Model(a).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create achievement: %w", err)
	}
	return nil
}

func (r *Impl) GetAchievement(ctx context.Context, db bun.IDB, id uuid.UUID) (*Achievement, error) {
	return r.getAchievement(ctx, r.resolveDB(db), id, false)
}

func (r *Impl) GetAchievementForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (*Achievement, error) {
	return r.getAchievement(ctx, r.resolveDB(db), id, true)
}

func (r *Impl) getAchievement(ctx context.Context, db bun.IDB, id uuid.UUID, lock bool) (*Achievement, error) {
	a := new(Achievement)
	q := db.NewSelect().Model(a).Where("a.id = ?", id)
	if lock {
		q = bundb.ForUpdate(db, q)
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get achievement: %w", err)
	}
	return a, nil
}

func (r *Impl) UpdateAchievement(ctx context.Context, db bun.IDB, a *Achievement) error {
	db = r.resolveDB(db)
	a.UpdatedAt = time.Now().UTC()
	res, err := db.NewUpdate().
		Model(a).
		Column("title", "description", "leaderboard_id", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update achievement: %w", err)
	}
	return expectRow(res, ErrNotFound)
}

func (r *Impl) ListAchievements(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]*Achievement, error) {
	db = r.resolveDB(db)
	var out []*Achievement
	if err := db.NewSelect().Model(&out).Where("a.game_id = ?", gameID).Order("a.created_at ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	return out, nil
}

func (r *Impl) ListGatedBy(ctx context.Context, db bun.IDB, leaderboardID uuid.UUID) ([]*Achievement, error) {
	db = r.resolveDB(db)
	var out []*Achievement
	if err := db.NewSelect().Model(&out).Where("a.leaderboard_id = ?", leaderboardID).Order("a.created_at ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list gated achievements: %w", err)
	}
	return out, nil
}

// --- rewards ---

func (r *Impl) CreateReward(ctx context.Context, db bun.IDB, reward *Reward) error {
	db = r.resolveDB(db)
	now := time.Now().UTC()
	reward.CreatedAt, reward.UpdatedAt = now, now
	if _, err := db.NewInsert().Model(reward).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create reward: %w", err)
	}
	return nil
}

func (r *Impl) GetReward(ctx context.Context, db bun.IDB, achievementID uuid.UUID) (*Reward, error) {
	return r.getReward(ctx, r.resolveDB(db), achievementID, false)
}

func (r *Impl) GetRewardForUpdate(ctx context.Context, db bun.IDB, achievementID uuid.UUID) (*Reward, error) {
	return r.getReward(ctx, r.resolveDB(db), achievementID, true)
}

func (r *Impl) getReward(ctx context.Context, db bun.IDB, achievementID uuid.UUID, lock bool) (*Reward, error) {
	reward := new(Reward)
	q := db.NewSelect().Model(reward).Where("r.achievement_id = ?", achievementID)
	if lock {
		q = bundb.ForUpdate(db, q)
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRewardNotFound
		}
		return nil, fmt.Errorf("failed to get reward: %w", err)
	}
	return reward, nil
}

func (r *Impl) UpdateRewardSpots(ctx context.Context, db bun.IDB, reward *Reward) error {
	db = r.resolveDB(db)
	reward.UpdatedAt = time.Now().UTC()
	res, err := db.NewUpdate().
		Model(reward).
		Column("available_spots", "issued", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update reward: %w", err)
	}
	return expectRow(res, ErrRewardNotFound)
}

// --- unlocks ---

func (r *Impl) CreateUnlock(ctx context.Context, db bun.IDB, p *PlayerAchievement) (bool, error) {
	db = r.resolveDB(db)
	res, err := db.NewInsert().
		Model(p).
		On("CONFLICT (player_id, achievement_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to unlock achievement: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *Impl) GetUnlock(ctx context.Context, db bun.IDB, playerID, achievementID uuid.UUID) (*PlayerAchievement, error) {
	return r.getUnlock(ctx, r.resolveDB(db), playerID, achievementID, false)
}

func (r *Impl) GetUnlockForUpdate(ctx context.Context, db bun.IDB, playerID, achievementID uuid.UUID) (*PlayerAchievement, error) {
	return r.getUnlock(ctx, r.resolveDB(db), playerID, achievementID, true)
}

func (r *Impl) getUnlock(ctx context.Context, db bun.IDB, playerID, achievementID uuid.UUID, lock bool) (*PlayerAchievement, error) {
	p := new(PlayerAchievement)
	q := db.NewSelect().Model(p).
		Where("pa.player_id = ?", playerID).
		Where("pa.achievement_id = ?", achievementID)
	if lock {
		q = bundb.ForUpdate(db, q)
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnlockNotFound
		}
		return nil, fmt.Errorf("failed to get player achievement: %w", err)
	}
	return p, nil
}

func (r *Impl) UpdateClaim(ctx context.Context, db bun.IDB, p *PlayerAchievement) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model(p).
		Column("claimed", "claim_id", "claimed_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to record claim: %w", err)
	}
	return expectRow(res, ErrUnlockNotFound)
}

func (r *Impl) ListUnlocks(ctx context.Context, db bun.IDB, playerID uuid.UUID) ([]*PlayerAchievement, error) {
	db = r.resolveDB(db)
	var out []*PlayerAchievement
	if err := db.NewSelect().Model(&out).Where("pa.player_id = ?", playerID).Order("pa.unlocked_at ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list player achievements: %w", err)
	}
	return out, nil
}

func (r *Impl) GetClaim(ctx context.Context, db bun.IDB, claimID uuid.UUID) (*PlayerAchievement, error) {
	db = r.resolveDB(db)
	p := new(PlayerAchievement)
	if err := db.NewSelect().Model(p).Where("pa.claim_id = ?", claimID).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnlockNotFound
		}
		return nil, fmt.Errorf("failed to get claim: %w", err)
	}
	return p, nil
}

func expectRow(res sql.Result, notFound error) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
