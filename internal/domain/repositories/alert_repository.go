package repositories

import (
	"context"
	"time"

	"github.com/foliowatch/foliowatch/internal/domain/entities"
)

// AlertRepository defines CRUD for alert rules, scoped by their parent
// feed subject.
type AlertRepository interface {
	// GetEnabled retrieves all enabled rules
	GetEnabled(ctx context.Context) ([]entities.AlertRule, error)

	// GetBySubject retrieves all rules attached to a subject
	GetBySubject(ctx context.Context, subject string) ([]entities.AlertRule, error)

	// Create inserts a rule and sets its ID
	Create(ctx context.Context, rule *entities.AlertRule) error

	// Update persists mutable rule fields
	Update(ctx context.Context, rule *entities.AlertRule) error

	// SetLastTriggered flips the last-triggered timestamp
	SetLastTriggered(ctx context.Context, id int64, at time.Time) error

	// Delete removes a single rule (fire-once consumption)
	Delete(ctx context.Context, id int64) error

	// DeleteBySubject cascades deletion when a feed subject is removed
	DeleteBySubject(ctx context.Context, subject string) error
}
