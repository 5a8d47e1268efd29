package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/foliowatch/foliowatch/internal/domain/entities"
	"github.com/foliowatch/foliowatch/internal/domain/repositories"
)

// ErrInvalidFeedItem reports a feed item that cannot be stored.
var ErrInvalidFeedItem = errors.New("invalid feed item")

// FeedService provides business logic for the feed queue itself;
// rotation is the scheduler's job.
type FeedService struct {
	feedRepo  repositories.FeedRepository
	alertRepo repositories.AlertRepository
	logger    *zap.Logger
}

// NewFeedService creates a new feed service.
func NewFeedService(
	feedRepo repositories.FeedRepository,
	alertRepo repositories.AlertRepository,
	logger *zap.Logger,
) *FeedService {
	return &FeedService{
		feedRepo:  feedRepo,
		alertRepo: alertRepo,
		logger:    logger,
	}
}

// FeedListResponse wraps the ordered feed queue for API response.
type FeedListResponse struct {
	Data []entities.FeedItem `json:"data"`
}

// List returns the full queue in rotation order.
func (s *FeedService) List(ctx context.Context) (*FeedListResponse, error) {
	items, err := s.feedRepo.GetAllOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list feed items: %w", err)
	}
	return &FeedListResponse{Data: items}, nil
}

// Add inserts an item. Urgent items go in front of the current head
// so the next cycle shows them first; everything else queues at the
// back.
func (s *FeedService) Add(ctx context.Context, item *entities.FeedItem, urgent bool) error {
	if item.Subject == "" || item.Text == "" {
		return fmt.Errorf("%w: subject and text are required", ErrInvalidFeedItem)
	}

	var err error
	if urgent {
		err = s.feedRepo.InsertAtFront(ctx, item)
	} else {
		err = s.feedRepo.InsertAtEnd(ctx, item)
	}
	if err != nil {
		return fmt.Errorf("failed to add feed item: %w", err)
	}

	s.logger.Info("Feed item added",
		zap.Int64("id", item.ID),
		zap.String("subject", item.Subject),
		zap.Bool("urgent", urgent),
		zap.Bool("one_shot", item.OneShot),
	)
	return nil
}

// Remove deletes an item and cascades to the alert rules attached to
// its subject when no other item references it.
func (s *FeedService) Remove(ctx context.Context, id int64) error {
	items, err := s.feedRepo.GetAllOrdered(ctx)
	if err != nil {
		return fmt.Errorf("failed to read feed queue: %w", err)
	}

	var subject string
	references := 0
	for _, it := range items {
		if it.ID == id {
			subject = it.Subject
		}
	}
	for _, it := range items {
		if it.Subject == subject {
			references++
		}
	}

	if err := s.feedRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete feed item: %w", err)
	}

	if subject != "" && references <= 1 {
		if err := s.alertRepo.DeleteBySubject(ctx, subject); err != nil {
			return fmt.Errorf("failed to cascade alert rules for %s: %w", subject, err)
		}
	}
	return nil
}
