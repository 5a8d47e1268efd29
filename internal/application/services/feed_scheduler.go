package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/foliowatch/foliowatch/internal/domain/repositories"
	"github.com/foliowatch/foliowatch/internal/infrastructure/gateway"
)

// resumeCooldown is how long a pause lasts before the scheduler
// resumes on its own. It is independent of the cycle time, and every
// Pause call restarts it from zero.
const resumeCooldown = 60 * time.Second

// Display renders one feed entry on the external display.
type Display interface {
	Show(ctx context.Context, render gateway.DeviceRender) error
}

type schedCommand int

const (
	cmdPause schedCommand = iota
	cmdResume
)

// FeedScheduler cycles the display through the ordered feed queue.
// Every cycle it shows the head item and moves it to the back; items
// marked one-shot are deleted after their first showing instead.
//
// The Running/Paused state is owned by the rotation goroutine and
// changed only through commands posted by Pause and Resume, so there
// is no shared flag to race on.
type FeedScheduler struct {
	feedRepo  repositories.FeedRepository
	display   Display
	cycleTime time.Duration
	cooldown  time.Duration
	logger    *zap.Logger

	commands chan schedCommand
	paused   atomic.Bool

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewFeedScheduler creates a new feed scheduler. A non-positive cycle
// time falls back to one minute.
func NewFeedScheduler(
	feedRepo repositories.FeedRepository,
	display Display,
	cycleTime time.Duration,
	logger *zap.Logger,
) *FeedScheduler {
	if cycleTime <= 0 {
		cycleTime = time.Minute
	}
	return &FeedScheduler{
		feedRepo:  feedRepo,
		display:   display,
		cycleTime: cycleTime,
		cooldown:  resumeCooldown,
		logger:    logger,
		commands:  make(chan schedCommand, 8),
		stopCh:    make(chan struct{}),
	}
}

// Start launches the rotation loop.
func (s *FeedScheduler) Start(ctx context.Context) {
	s.logger.Info("Starting feed scheduler", zap.Duration("cycle_time", s.cycleTime))

	s.wg.Add(1)
	go s.run(ctx)
}

// Stop gracefully stops the rotation loop.
func (s *FeedScheduler) Stop() {
	s.logger.Info("Stopping feed scheduler")
	close(s.stopCh)
	s.wg.Wait()
}

// Pause suspends rotation and schedules an automatic resume after the
// cooldown. Calling Pause again while already paused restarts the
// cooldown from zero. Requires a started scheduler.
func (s *FeedScheduler) Pause() {
	select {
	case s.commands <- cmdPause:
	case <-s.stopCh:
	}
}

// Resume restarts rotation immediately and cancels any pending
// auto-resume. Requires a started scheduler.
func (s *FeedScheduler) Resume() {
	select {
	case s.commands <- cmdResume:
	case <-s.stopCh:
	}
}

// IsPaused reports whether rotation is currently suspended.
func (s *FeedScheduler) IsPaused() bool {
	return s.paused.Load()
}

func (s *FeedScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cycleTime)
	defer ticker.Stop()

	// The resume timer starts drained; it only arms on a pause.
	resume := time.NewTimer(time.Hour)
	if !resume.Stop() {
		<-resume.C
	}
	defer resume.Stop()

	drainResume := func() {
		if !resume.Stop() {
			select {
			case <-resume.C:
			default:
			}
		}
	}

	paused := false
	setPaused := func(v bool) {
		paused = v
		s.paused.Store(v)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case cmd := <-s.commands:
			switch cmd {
			case cmdPause:
				setPaused(true)
				drainResume()
				resume.Reset(s.cooldown)
				s.logger.Info("Feed rotation paused", zap.Duration("resume_after", s.cooldown))
			case cmdResume:
				if !paused {
					continue
				}
				setPaused(false)
				drainResume()
				s.logger.Info("Feed rotation resumed")
			}
		case <-resume.C:
			if paused {
				setPaused(false)
				s.logger.Info("Feed rotation resumed after cooldown")
			}
		case <-ticker.C:
			if paused {
				continue
			}
			if err := s.Advance(ctx); err != nil {
				s.logger.Error("Feed rotation cycle failed", zap.Error(err))
			}
		}
	}
}

// Advance performs one rotation cycle: show the head of the queue,
// then either delete it (one-shot) or move it behind the tail. An
// empty queue is a no-op.
func (s *FeedScheduler) Advance(ctx context.Context) error {
	items, err := s.feedRepo.GetAllOrdered(ctx)
	if err != nil {
		return fmt.Errorf("failed to read feed queue: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	head := items[0]
	feedCyclesTotal.Inc()

	// The display dispatch is best effort; a failed render must not
	// stall the queue.
	if err := s.display.Show(ctx, gateway.DeviceRender{
		Text:   head.Text,
		Number: head.Price,
		Color:  head.Color,
		Tag:    head.Subject,
	}); err != nil {
		s.logger.Warn("Feed item render failed",
			zap.Int64("item_id", head.ID),
			zap.String("subject", head.Subject),
			zap.Error(err),
		)
	}

	if head.OneShot {
		if err := s.feedRepo.Delete(ctx, head.ID); err != nil {
			return fmt.Errorf("failed to consume one-shot feed item: %w", err)
		}
		return nil
	}

	if err := s.feedRepo.RotateToBack(ctx, head.ID); err != nil {
		return fmt.Errorf("failed to rotate feed item: %w", err)
	}
	return nil
}
