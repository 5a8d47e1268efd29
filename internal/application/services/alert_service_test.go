package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/foliowatch/foliowatch/internal/domain/entities"
	"github.com/foliowatch/foliowatch/internal/testutil"
)

func TestAlertService_Create(t *testing.T) {
	repo := testutil.NewMockAlertRepository()
	service := NewAlertService(repo, zap.NewNop())

	rule := testutil.CreateTestRule()
	rule.ID = 0
	if err := service.Create(context.Background(), &rule); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if rule.ID == 0 {
		t.Error("expected rule ID to be assigned")
	}
	if _, ok := repo.GetRule(rule.ID); !ok {
		t.Error("expected rule to be stored")
	}
}

func TestAlertService_Create_Validation(t *testing.T) {
	repo := testutil.NewMockAlertRepository()
	service := NewAlertService(repo, zap.NewNop())

	tests := []struct {
		name string
		rule entities.AlertRule
	}{
		{
			name: "missing subject",
			rule: testutil.CreateTestRule(testutil.RuleWithSubject("")),
		},
		{
			name: "unknown kind",
			rule: func() entities.AlertRule {
				r := testutil.CreateTestRule()
				r.Kind = "weather"
				return r
			}(),
		},
		{
			name: "zero threshold",
			rule: testutil.CreateTestRule(testutil.RuleWithThreshold(0)),
		},
		{
			name: "negative threshold",
			rule: testutil.CreateTestRule(testutil.RuleWithThreshold(-0.5)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := tt.rule
			err := service.Create(context.Background(), &rule)
			if !errors.Is(err, ErrInvalidRule) {
				t.Errorf("Create() error = %v, want ErrInvalidRule", err)
			}
		})
	}
}

func TestAlertService_ListBySubject(t *testing.T) {
	repo := testutil.NewMockAlertRepository()
	service := NewAlertService(repo, zap.NewNop())

	repo.AddRule(testutil.CreateTestRule(testutil.RuleWithSubject(testutil.SnekUnit)))
	repo.AddRule(testutil.CreateTestRule(testutil.RuleWithSubject(testutil.SnekUnit), testutil.RuleOnVolume()))
	repo.AddRule(testutil.CreateTestRule(testutil.RuleWithSubject(testutil.HoskyUnit)))

	response, err := service.ListBySubject(context.Background(), testutil.SnekUnit)
	if err != nil {
		t.Fatalf("ListBySubject() error = %v", err)
	}
	if len(response.Data) != 2 {
		t.Errorf("expected 2 rules, got %d", len(response.Data))
	}
}

func TestAlertService_Delete(t *testing.T) {
	repo := testutil.NewMockAlertRepository()
	service := NewAlertService(repo, zap.NewNop())

	rule := repo.AddRule(testutil.CreateTestRule())
	if err := service.Delete(context.Background(), rule.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := repo.GetRule(rule.ID); ok {
		t.Error("expected rule to be gone")
	}
}
