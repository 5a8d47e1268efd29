package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/foliowatch/foliowatch/internal/domain/entities"
	"github.com/foliowatch/foliowatch/internal/domain/repositories"
)

// Ensure AlertRepo implements AlertRepository
var _ repositories.AlertRepository = (*AlertRepo)(nil)

// AlertRepo implements AlertRepository using PostgreSQL
type AlertRepo struct {
	db *sqlx.DB
}

// NewAlertRepo creates a new alert repository
func NewAlertRepo(db *sqlx.DB) *AlertRepo {
	return &AlertRepo{db: db}
}

// GetEnabled retrieves all enabled rules
func (r *AlertRepo) GetEnabled(ctx context.Context) ([]entities.AlertRule, error) {
	var rules []entities.AlertRule
	query := `SELECT * FROM alert_rules WHERE enabled ORDER BY id`

	if err := r.db.SelectContext(ctx, &rules, query); err != nil {
		return nil, fmt.Errorf("failed to get enabled alert rules: %w", err)
	}

	return rules, nil
}

// GetBySubject retrieves all rules attached to a subject
func (r *AlertRepo) GetBySubject(ctx context.Context, subject string) ([]entities.AlertRule, error) {
	var rules []entities.AlertRule
	query := `SELECT * FROM alert_rules WHERE subject = $1 ORDER BY id`

	if err := r.db.SelectContext(ctx, &rules, query, subject); err != nil {
		return nil, fmt.Errorf("failed to get alert rules for subject: %w", err)
	}

	return rules, nil
}

// Create inserts a rule and sets its ID
func (r *AlertRepo) Create(ctx context.Context, rule *entities.AlertRule) error {
	query := `
		INSERT INTO alert_rules (kind, subject, threshold, on_volume, crossing_over,
			enabled, fire_once, push_enabled, device_enabled, mail_enabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		rule.Kind,
		rule.Subject,
		rule.Threshold,
		rule.OnVolume,
		rule.CrossingOver,
		rule.Enabled,
		rule.FireOnce,
		rule.PushEnabled,
		rule.DeviceEnabled,
		rule.MailEnabled,
	)
	if err := row.Scan(&rule.ID, &rule.CreatedAt); err != nil {
		return fmt.Errorf("failed to create alert rule: %w", err)
	}

	return nil
}

// Update persists mutable rule fields
func (r *AlertRepo) Update(ctx context.Context, rule *entities.AlertRule) error {
	query := `
		UPDATE alert_rules SET
			threshold = $2,
			on_volume = $3,
			crossing_over = $4,
			enabled = $5,
			fire_once = $6,
			push_enabled = $7,
			device_enabled = $8,
			mail_enabled = $9
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		rule.ID,
		rule.Threshold,
		rule.OnVolume,
		rule.CrossingOver,
		rule.Enabled,
		rule.FireOnce,
		rule.PushEnabled,
		rule.DeviceEnabled,
		rule.MailEnabled,
	)
	if err != nil {
		return fmt.Errorf("failed to update alert rule: %w", err)
	}

	return nil
}

// SetLastTriggered flips the last-triggered timestamp
func (r *AlertRepo) SetLastTriggered(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE alert_rules SET last_triggered_at = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, at); err != nil {
		return fmt.Errorf("failed to set last triggered: %w", err)
	}

	return nil
}

// Delete removes a single rule
func (r *AlertRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM alert_rules WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete alert rule: %w", err)
	}
	return nil
}

// DeleteBySubject cascades deletion when a feed subject is removed
func (r *AlertRepo) DeleteBySubject(ctx context.Context, subject string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM alert_rules WHERE subject = $1`, subject); err != nil {
		return fmt.Errorf("failed to delete alert rules for subject: %w", err)
	}
	return nil
}
