package services

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/foliowatch/foliowatch/internal/infrastructure/gateway"
	"github.com/foliowatch/foliowatch/internal/testutil"
)

type fakeLogoGateway struct {
	calls int
	meta  *gateway.LogoMetadata
	err   error
}

func (f *fakeLogoGateway) Metadata(_ context.Context, unit string) (*gateway.LogoMetadata, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.meta != nil {
		return f.meta, nil
	}
	return &gateway.LogoMetadata{Unit: unit, Base64: "aGVsbG8="}, nil
}

func TestLogoService_GetLogo(t *testing.T) {
	gw := &fakeLogoGateway{}
	service := NewLogoService(gw, nil, time.Hour, zap.NewNop())

	meta, err := service.GetLogo(context.Background(), testutil.SnekUnit)
	if err != nil {
		t.Fatalf("GetLogo() error = %v", err)
	}
	if meta.Unit != testutil.SnekUnit {
		t.Errorf("Unit = %s, want %s", meta.Unit, testutil.SnekUnit)
	}
	if meta.Base64 == "" {
		t.Error("expected logo payload")
	}
	if gw.calls != 1 {
		t.Errorf("upstream calls = %d, want 1", gw.calls)
	}
}

func TestLogoService_GetLogo_UpstreamError(t *testing.T) {
	gw := &fakeLogoGateway{err: &gateway.Error{Integration: "logo", Kind: gateway.KindNoCredential}}
	service := NewLogoService(gw, nil, time.Hour, zap.NewNop())

	_, err := service.GetLogo(context.Background(), testutil.SnekUnit)
	if err == nil {
		t.Fatal("expected error")
	}
	if !gateway.IsKind(err, gateway.KindNoCredential) {
		t.Errorf("expected NoCredential kind, got %v", err)
	}
}
