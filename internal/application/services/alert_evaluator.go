package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/foliowatch/foliowatch/internal/domain/entities"
	"github.com/foliowatch/foliowatch/internal/domain/repositories"
	"github.com/foliowatch/foliowatch/internal/notify"
)

// AlertDispatcher fans an alert notification out to its channels.
type AlertDispatcher interface {
	Dispatch(ctx context.Context, msg notify.Message, channels notify.Channels)
}

// AlertEvaluator periodically checks every enabled alert rule against
// the two most recent stat snapshots for its subject.
type AlertEvaluator struct {
	alertRepo    repositories.AlertRepository
	snapshotRepo repositories.SnapshotRepository
	dispatcher   AlertDispatcher
	interval     time.Duration
	logger       *zap.Logger
	stopCh       chan struct{}
	wg           sync.WaitGroup
}

// NewAlertEvaluator creates a new alert evaluator.
func NewAlertEvaluator(
	alertRepo repositories.AlertRepository,
	snapshotRepo repositories.SnapshotRepository,
	dispatcher AlertDispatcher,
	interval time.Duration,
	logger *zap.Logger,
) *AlertEvaluator {
	return &AlertEvaluator{
		alertRepo:    alertRepo,
		snapshotRepo: snapshotRepo,
		dispatcher:   dispatcher,
		interval:     interval,
		logger:       logger,
		stopCh:       make(chan struct{}),
	}
}

// Start launches the periodic evaluation loop.
func (e *AlertEvaluator) Start(ctx context.Context) {
	e.logger.Info("Starting alert evaluator", zap.Duration("interval", e.interval))

	e.wg.Add(1)
	go e.run(ctx)
}

// Stop gracefully stops the evaluation loop.
func (e *AlertEvaluator) Stop() {
	e.logger.Info("Stopping alert evaluator")
	close(e.stopCh)
	e.wg.Wait()
}

func (e *AlertEvaluator) run(ctx context.Context) {
	defer e.wg.Done()

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.stopCh:
			return
		case <-ticker.C:
			if err := e.EvaluateAll(ctx); err != nil {
				e.logger.Error("Alert evaluation run failed", zap.Error(err))
			}
		}
	}
}

// EvaluateAll runs one evaluation pass over all enabled rules. A
// failure on one rule is logged and does not abort the remaining
// rules; only a failure to load the batch fails the run.
func (e *AlertEvaluator) EvaluateAll(ctx context.Context) error {
	rules, err := e.alertRepo.GetEnabled(ctx)
	if err != nil {
		return fmt.Errorf("failed to load enabled alert rules: %w", err)
	}

	for i := range rules {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.evaluateRule(ctx, &rules[i]); err != nil {
			alertRuleFailuresTotal.Inc()
			e.logger.Error("Alert rule evaluation failed",
				zap.Int64("rule_id", rules[i].ID),
				zap.String("subject", rules[i].Subject),
				zap.Error(err),
			)
		}
	}

	return nil
}

func (e *AlertEvaluator) evaluateRule(ctx context.Context, rule *entities.AlertRule) error {
	snapshots, err := e.snapshotRepo.GetLatest(ctx, rule.Subject, 2)
	if err != nil {
		return fmt.Errorf("failed to load snapshots: %w", err)
	}
	if len(snapshots) < 2 {
		// Not enough history yet; the rule stays armed.
		return nil
	}

	current, previous := snapshots[0], snapshots[1]
	if !ConditionMet(rule, previous, current) {
		return nil
	}

	alertsFiredTotal.Inc()
	e.logger.Info("Alert rule fired",
		zap.Int64("rule_id", rule.ID),
		zap.String("subject", rule.Subject),
		zap.Float64("threshold", rule.Threshold),
		zap.Bool("on_volume", rule.OnVolume),
	)

	e.dispatcher.Dispatch(ctx, buildAlertMessage(rule, previous, current), notify.Channels{
		Push:   rule.PushEnabled,
		Device: rule.DeviceEnabled,
		Mail:   rule.MailEnabled,
	})

	if rule.FireOnce {
		if err := e.alertRepo.Delete(ctx, rule.ID); err != nil {
			return fmt.Errorf("failed to consume fire-once rule: %w", err)
		}
		return nil
	}

	if err := e.alertRepo.SetLastTriggered(ctx, rule.ID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to record trigger time: %w", err)
	}
	return nil
}

// ConditionMet evaluates a rule against consecutive snapshots. Price
// rules fire on a threshold crossing in the configured direction;
// volume rules fire on an absolute delta of at least the threshold,
// regardless of direction.
func ConditionMet(rule *entities.AlertRule, previous, current entities.StatSnapshot) bool {
	if rule.OnVolume {
		delta := current.Volume - previous.Volume
		if delta < 0 {
			delta = -delta
		}
		return delta >= rule.Threshold
	}

	if rule.CrossingOver {
		return previous.Price < rule.Threshold && current.Price >= rule.Threshold
	}
	return previous.Price > rule.Threshold && current.Price <= rule.Threshold
}

func buildAlertMessage(rule *entities.AlertRule, previous, current entities.StatSnapshot) notify.Message {
	var title, body, color string

	switch {
	case rule.OnVolume:
		title = fmt.Sprintf("%s volume moved %.2f", rule.Subject, current.Volume-previous.Volume)
		body = fmt.Sprintf("Volume went from %.2f to %.2f (threshold %.2f)", previous.Volume, current.Volume, rule.Threshold)
		color = "#FFA500"
	case rule.CrossingOver:
		title = fmt.Sprintf("%s crossed over %.4f", rule.Subject, rule.Threshold)
		body = fmt.Sprintf("Price went from %.4f to %.4f", previous.Price, current.Price)
		color = "#00FF00"
	default:
		title = fmt.Sprintf("%s crossed under %.4f", rule.Subject, rule.Threshold)
		body = fmt.Sprintf("Price went from %.4f to %.4f", previous.Price, current.Price)
		color = "#FF0000"
	}

	return notify.Message{
		Subject: rule.Subject,
		Title:   title,
		Body:    body,
		Price:   current.Price,
		Color:   color,
	}
}
