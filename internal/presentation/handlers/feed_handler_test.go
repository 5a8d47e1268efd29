package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/foliowatch/foliowatch/internal/application/services"
	"github.com/foliowatch/foliowatch/internal/testutil"
)

func setupFeedHandlerTest() (*testutil.MockFeedRepository, *services.FeedScheduler, chi.Router) {
	feedRepo := testutil.NewMockFeedRepository()
	alertRepo := testutil.NewMockAlertRepository()
	display := testutil.NewMockDisplay()
	logger := zap.NewNop()

	service := services.NewFeedService(feedRepo, alertRepo, logger)
	scheduler := services.NewFeedScheduler(feedRepo, display, time.Minute, logger)
	handler := NewFeedHandler(service, scheduler, logger)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return feedRepo, scheduler, r
}

func TestFeedHandler_List(t *testing.T) {
	feedRepo, _, router := setupFeedHandlerTest()

	feedRepo.AddItem(testutil.CreateTestFeedItem())

	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	var response struct {
		Data   []json.RawMessage `json:"data"`
		Paused bool              `json:"paused"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Data) != 1 {
		t.Errorf("expected 1 feed item, got %d", len(response.Data))
	}
	if response.Paused {
		t.Error("expected rotation to be running")
	}
}

func TestFeedHandler_Add(t *testing.T) {
	feedRepo, _, router := setupFeedHandlerTest()

	feedRepo.AddItem(testutil.CreateTestFeedItem(testutil.FeedItemWithText("existing")))

	body, _ := json.Marshal(map[string]interface{}{
		"subject": testutil.HoskyUnit,
		"kind":    "token",
		"text":    "HOSKY",
	})

	t.Run("default queues at the back", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/feed", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d", rec.Code)
		}
		items := feedRepo.Items()
		if items[len(items)-1].Text != "HOSKY" {
			t.Errorf("expected new item at the back, queue tail is %q", items[len(items)-1].Text)
		}
	})

	t.Run("urgent queues in front", func(t *testing.T) {
		urgent, _ := json.Marshal(map[string]interface{}{
			"subject": testutil.SnekUnit,
			"kind":    "token",
			"text":    "urgent",
		})
		req := httptest.NewRequest(http.MethodPost, "/feed?urgent=true", bytes.NewReader(urgent))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d", rec.Code)
		}
		items := feedRepo.Items()
		if items[0].Text != "urgent" {
			t.Errorf("expected urgent item at the front, queue head is %q", items[0].Text)
		}
	})
}

func TestFeedHandler_Add_Invalid(t *testing.T) {
	_, _, router := setupFeedHandlerTest()

	req := httptest.NewRequest(http.MethodPost, "/feed", bytes.NewReader([]byte(`{"subject":""}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestFeedHandler_Remove(t *testing.T) {
	feedRepo, _, router := setupFeedHandlerTest()

	feedRepo.AddItem(testutil.CreateTestFeedItem(testutil.FeedItemWithID(1)))

	req := httptest.NewRequest(http.MethodDelete, "/feed/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", rec.Code)
	}
	if len(feedRepo.Items()) != 0 {
		t.Error("expected item removed")
	}
}

func TestFeedHandler_PauseResume(t *testing.T) {
	_, scheduler, router := setupFeedHandlerTest()
	scheduler.Start(context.Background())
	defer scheduler.Stop()

	waitPaused := func(want bool) {
		t.Helper()
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			if scheduler.IsPaused() == want {
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
		t.Fatalf("scheduler paused state never became %v", want)
	}

	req := httptest.NewRequest(http.MethodPost, "/feed/pause", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	waitPaused(true)

	req = httptest.NewRequest(http.MethodPost, "/feed/resume", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	waitPaused(false)
}
