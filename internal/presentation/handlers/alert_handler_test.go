package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/foliowatch/foliowatch/internal/application/services"
	"github.com/foliowatch/foliowatch/internal/domain/entities"
	"github.com/foliowatch/foliowatch/internal/testutil"
)

func setupAlertHandlerTest() (*testutil.MockAlertRepository, chi.Router) {
	repo := testutil.NewMockAlertRepository()
	logger := zap.NewNop()

	service := services.NewAlertService(repo, logger)
	handler := NewAlertHandler(service, logger)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return repo, r
}

func TestAlertHandler_List(t *testing.T) {
	repo, router := setupAlertHandlerTest()

	repo.AddRule(testutil.CreateTestRule())
	disabled := testutil.CreateTestRule(testutil.RuleWithID(2))
	disabled.Enabled = false
	repo.AddRule(disabled)

	req := httptest.NewRequest(http.MethodGet, "/alerts", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	var response services.AlertListResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Data) != 1 {
		t.Errorf("expected only the enabled rule, got %d", len(response.Data))
	}
}

func TestAlertHandler_List_BySubject(t *testing.T) {
	repo, router := setupAlertHandlerTest()

	repo.AddRule(testutil.CreateTestRule(testutil.RuleWithSubject(testutil.SnekUnit)))
	repo.AddRule(testutil.CreateTestRule(testutil.RuleWithID(2), testutil.RuleWithSubject(testutil.HoskyUnit)))

	req := httptest.NewRequest(http.MethodGet, "/alerts?subject="+testutil.SnekUnit, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var response services.AlertListResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Data) != 1 || response.Data[0].Subject != testutil.SnekUnit {
		t.Errorf("expected one rule for subject, got %+v", response.Data)
	}
}

func TestAlertHandler_Create(t *testing.T) {
	repo, router := setupAlertHandlerTest()

	body, _ := json.Marshal(entities.AlertRule{
		Kind:         entities.AlertKindToken,
		Subject:      testutil.SnekUnit,
		Threshold:    1.5,
		CrossingOver: true,
		PushEnabled:  true,
	})

	req := httptest.NewRequest(http.MethodPost, "/alerts", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rules, _ := repo.GetEnabled(req.Context())
	if len(rules) != 1 || rules[0].Threshold != 1.5 {
		t.Errorf("expected persisted enabled rule, got %+v", rules)
	}
}

func TestAlertHandler_Create_Invalid(t *testing.T) {
	_, router := setupAlertHandlerTest()

	tests := []struct {
		name string
		rule entities.AlertRule
	}{
		{"missing subject", entities.AlertRule{Kind: entities.AlertKindToken, Threshold: 1}},
		{"unknown kind", entities.AlertRule{Kind: "weird", Subject: testutil.SnekUnit, Threshold: 1}},
		{"non-positive threshold", entities.AlertRule{Kind: entities.AlertKindToken, Subject: testutil.SnekUnit}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.rule)
			req := httptest.NewRequest(http.MethodPost, "/alerts", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", rec.Code)
			}
		})
	}
}

func TestAlertHandler_Delete(t *testing.T) {
	repo, router := setupAlertHandlerTest()

	rule := repo.AddRule(testutil.CreateTestRule())

	req := httptest.NewRequest(http.MethodDelete, "/alerts/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", rec.Code)
	}
	if _, ok := repo.GetRule(rule.ID); ok {
		t.Error("expected rule deleted")
	}
}
