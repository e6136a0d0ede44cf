package pg

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Timestamps adds created/updated timestamps maintained on insert and update.
type Timestamps struct {
	CreatedAt time.Time `bun:",nullzero" json:"created_at"`
	UpdatedAt time.Time `bun:",nullzero" json:"updated_at"`
}

var _ bun.BeforeAppendModelHook = (*Timestamps)(nil)

func (m *Timestamps) BeforeAppendModel(_ context.Context, query bun.Query) error {
	now := time.Now()
	switch query.(type) {
	case *bun.InsertQuery:
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		m.UpdatedAt = now
	case *bun.UpdateQuery:
		m.UpdatedAt = now
	}
	return nil
}
