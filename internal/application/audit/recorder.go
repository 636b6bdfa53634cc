// Package audit writes security-relevant actions to the audit log.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/yatraone/transit-api/internal/domain"
	"github.com/yatraone/transit-api/internal/pkg/id"
)

type store interface {
	Put(ctx context.Context, e *domain.AuditEntry) error
}

type Recorder struct {
	store store
	now   func() time.Time
}

func NewRecorder(s store) *Recorder {
	return &Recorder{store: s, now: time.Now}
}

// Entry builds an entry without storing it, for callers that commit it
// alongside other writes.
func (r *Recorder) Entry(userID, action string, details map[string]string) *domain.AuditEntry {
	return &domain.AuditEntry{
		AuditID:   id.New(),
		UserID:    userID,
		Action:    action,
		Details:   details,
		CreatedAt: r.now().UTC(),
	}
}

// Record stores an entry. Audit writes never fail the calling operation;
// errors are logged.
func (r *Recorder) Record(ctx context.Context, userID, action string, details map[string]string) {
	if err := r.store.Put(ctx, r.Entry(userID, action, details)); err != nil {
		slog.Error("audit write failed", "user_id", userID, "action", action, "err", err)
	}
}
