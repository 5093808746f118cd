package mergedb

import (
	"time"

	mergedomain "github.com/Black-And-White-Club/scorekeeper/app/modules/merge/domain"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Merge is the persisted form of a merge request.
type Merge struct {
	bun.BaseModel `bun:"table:merges,alias:m"`

	ID           uuid.UUID                 `bun:"id,pk,type:uuid"`
	RequestedBy  sharedtypes.UserID        `bun:"requested_by,notnull"`
	Initiator    uuid.UUID                 `bun:"initiator,notnull,type:uuid"`
	Participants []mergedomain.Participant `bun:"participants,type:jsonb"`
	Complete     bool                      `bun:"complete,notnull"`
	CompletedAt  *time.Time                `bun:"completed_at"`
	CreatedAt    time.Time                 `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time                 `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// ToDomain converts the row to the domain record.
func (m *Merge) ToDomain() *mergedomain.Record {
	participants := m.Participants
	if participants == nil {
		participants = []mergedomain.Participant{}
	}
	return &mergedomain.Record{
		ID:           m.ID,
		Initiator:    m.Initiator,
		Participants: participants,
		Complete:     m.Complete,
	}
}

// Apply copies the mutable state of r onto the row.
func (m *Merge) Apply(r *mergedomain.Record) {
	m.Participants = r.Participants
	if r.Complete && !m.Complete {
		now := time.Now().UTC()
		m.CompletedAt = &now
	}
	m.Complete = r.Complete
}
