package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/foliowatch/foliowatch/internal/domain/entities"
	"github.com/foliowatch/foliowatch/internal/domain/repositories"
)

// ErrInvalidRule reports a rule that cannot be stored.
var ErrInvalidRule = errors.New("invalid alert rule")

// AlertService provides business logic for managing alert rules.
type AlertService struct {
	alertRepo repositories.AlertRepository
	logger    *zap.Logger
}

// NewAlertService creates a new alert service.
func NewAlertService(alertRepo repositories.AlertRepository, logger *zap.Logger) *AlertService {
	return &AlertService{alertRepo: alertRepo, logger: logger}
}

// AlertListResponse wraps alert rules for API response.
type AlertListResponse struct {
	Data []entities.AlertRule `json:"data"`
}

// ListEnabled returns all enabled rules.
func (s *AlertService) ListEnabled(ctx context.Context) (*AlertListResponse, error) {
	rules, err := s.alertRepo.GetEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list alert rules: %w", err)
	}
	return &AlertListResponse{Data: rules}, nil
}

// ListBySubject returns all rules attached to a subject.
func (s *AlertService) ListBySubject(ctx context.Context, subject string) (*AlertListResponse, error) {
	rules, err := s.alertRepo.GetBySubject(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to list alert rules for subject: %w", err)
	}
	return &AlertListResponse{Data: rules}, nil
}

// Create validates and inserts a rule.
func (s *AlertService) Create(ctx context.Context, rule *entities.AlertRule) error {
	if err := validateRule(rule); err != nil {
		return err
	}
	if err := s.alertRepo.Create(ctx, rule); err != nil {
		return fmt.Errorf("failed to create alert rule: %w", err)
	}
	s.logger.Info("Alert rule created",
		zap.Int64("id", rule.ID),
		zap.String("subject", rule.Subject),
		zap.Float64("threshold", rule.Threshold),
	)
	return nil
}

// Update validates and persists a rule.
func (s *AlertService) Update(ctx context.Context, rule *entities.AlertRule) error {
	if err := validateRule(rule); err != nil {
		return err
	}
	if err := s.alertRepo.Update(ctx, rule); err != nil {
		return fmt.Errorf("failed to update alert rule: %w", err)
	}
	return nil
}

// Delete removes a rule.
func (s *AlertService) Delete(ctx context.Context, id int64) error {
	if err := s.alertRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete alert rule: %w", err)
	}
	return nil
}

func validateRule(rule *entities.AlertRule) error {
	if rule.Subject == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidRule)
	}
	if rule.Kind != entities.AlertKindToken && rule.Kind != entities.AlertKindCollection {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRule, rule.Kind)
	}
	if rule.Threshold <= 0 {
		return fmt.Errorf("%w: threshold must be positive", ErrInvalidRule)
	}
	return nil
}
