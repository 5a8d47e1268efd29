package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/foliowatch/foliowatch/internal/testutil"
)

func TestFeedService_Add(t *testing.T) {
	feedRepo := testutil.NewMockFeedRepository()
	service := NewFeedService(feedRepo, testutil.NewMockAlertRepository(), zap.NewNop())
	ctx := context.Background()

	feedRepo.AddItem(testutil.CreateTestFeedItem(testutil.FeedItemWithText("existing")))

	back := testutil.CreateTestFeedItem(testutil.FeedItemWithText("back"))
	if err := service.Add(ctx, &back, false); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	front := testutil.CreateTestFeedItem(testutil.FeedItemWithText("front"))
	if err := service.Add(ctx, &front, true); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	items := feedRepo.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].Text != "front" || items[2].Text != "back" {
		t.Errorf("expected order [front existing back], got [%s %s %s]",
			items[0].Text, items[1].Text, items[2].Text)
	}
}

func TestFeedService_Add_Invalid(t *testing.T) {
	service := NewFeedService(testutil.NewMockFeedRepository(), testutil.NewMockAlertRepository(), zap.NewNop())

	item := testutil.CreateTestFeedItem(testutil.FeedItemWithText(""))
	err := service.Add(context.Background(), &item, false)
	if !errors.Is(err, ErrInvalidFeedItem) {
		t.Errorf("Add() error = %v, want ErrInvalidFeedItem", err)
	}
}

func TestFeedService_Remove_CascadesAlerts(t *testing.T) {
	feedRepo := testutil.NewMockFeedRepository()
	alertRepo := testutil.NewMockAlertRepository()
	service := NewFeedService(feedRepo, alertRepo, zap.NewNop())
	ctx := context.Background()

	item := feedRepo.AddItem(testutil.CreateTestFeedItem(testutil.FeedItemWithSubject(testutil.SnekUnit)))
	rule := alertRepo.AddRule(testutil.CreateTestRule(testutil.RuleWithSubject(testutil.SnekUnit)))
	kept := alertRepo.AddRule(testutil.CreateTestRule(testutil.RuleWithSubject(testutil.HoskyUnit)))

	if err := service.Remove(ctx, item.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	if len(feedRepo.Items()) != 0 {
		t.Error("expected feed item to be deleted")
	}
	if _, ok := alertRepo.GetRule(rule.ID); ok {
		t.Error("expected rules on the removed subject to be deleted")
	}
	if _, ok := alertRepo.GetRule(kept.ID); !ok {
		t.Error("expected rules on other subjects to survive")
	}
}

func TestFeedService_Remove_KeepsAlertsForSharedSubject(t *testing.T) {
	feedRepo := testutil.NewMockFeedRepository()
	alertRepo := testutil.NewMockAlertRepository()
	service := NewFeedService(feedRepo, alertRepo, zap.NewNop())
	ctx := context.Background()

	first := feedRepo.AddItem(testutil.CreateTestFeedItem(testutil.FeedItemWithSubject(testutil.SnekUnit)))
	feedRepo.AddItem(testutil.CreateTestFeedItem(
		testutil.FeedItemWithSubject(testutil.SnekUnit),
		testutil.FeedItemWithText("volume ticker"),
	))
	rule := alertRepo.AddRule(testutil.CreateTestRule(testutil.RuleWithSubject(testutil.SnekUnit)))

	if err := service.Remove(ctx, first.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	if len(feedRepo.Items()) != 1 {
		t.Errorf("expected 1 item left, got %d", len(feedRepo.Items()))
	}
	if _, ok := alertRepo.GetRule(rule.ID); !ok {
		t.Error("expected rule to survive while another item shows the subject")
	}
}
