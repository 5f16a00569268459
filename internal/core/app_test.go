package core

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"nanoeln/internal/blob"
	"nanoeln/internal/config"
	"nanoeln/pkg/domain"
)

func memoryConfig() config.Config {
	cfg := config.Default()
	cfg.Storage.Driver = config.StorageMemory
	cfg.Blob.Driver = blob.DriverMemory
	cfg.Log.Mode = "nop"
	return cfg
}

func TestOpenWiresStoreAndMetrics(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig()
	cfg.Actor = domain.Actor{ID: "user-5", Name: "Dr. Lee"}
	app, err := Open(ctx, cfg, WithLogger(zap.NewNop()), WithNoise(func() float64 { return 0 }))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })

	if app.Blobs.Driver() != blob.DriverMemory {
		t.Fatalf("expected memory blob driver, got %s", app.Blobs.Driver())
	}
	p, err := app.Store.AddProject(ctx, domain.Project{Name: "Wired"})
	if err != nil {
		t.Fatalf("AddProject: %v", err)
	}
	if got := app.Store.AuditLog()[0]; got.UserID != "user-5" || got.EntityID != p.ID {
		t.Fatalf("audit not attributed to configured actor: %+v", got)
	}
	if _, err := app.Store.UploadInstrumentFile(ctx, "inst-1", "run.csv", "text/csv", strings.NewReader("1,2")); err != nil {
		t.Fatalf("UploadInstrumentFile: %v", err)
	}

	rr := httptest.NewRecorder()
	app.MetricsHandler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rr.Body)
	for _, want := range []string{
		`nanoeln_store_operations_total{operation="add_project",status="success"} 1`,
		`nanoeln_store_operations_total{operation="open",status="success"} 1`,
		"nanoeln_store_operation_duration_seconds_bucket",
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("metrics output missing %q:\n%s", want, body)
		}
	}
}

func TestOpenAppliesPredictionNoise(t *testing.T) {
	ctx := context.Background()
	params := domain.ProcessParameters{
		LipidComposition: domain.LipidComposition{IonizableLipid: 50, Cholesterol: 38.5, PEGLipid: 1.5},
		FlowRate:         3,
		Temperature:      25,
		PH:               4,
	}

	quiet := memoryConfig()
	quiet.Prediction.Noise = false
	app, err := Open(ctx, quiet, WithNoise(func() float64 { return 0.5 }))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	res, err := app.Store.RunPrediction(ctx, params)
	if err != nil {
		t.Fatalf("RunPrediction: %v", err)
	}
	if res.Predictions.ZAverage.Value != 75 {
		t.Fatalf("expected noise-free size 75, got %v", res.Predictions.ZAverage.Value)
	}

	noisy := memoryConfig()
	app, err = Open(ctx, noisy, WithNoise(func() float64 { return 0.5 }))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	res, err = app.Store.RunPrediction(ctx, params)
	if err != nil {
		t.Fatalf("RunPrediction: %v", err)
	}
	if res.Predictions.ZAverage.Value != 80 {
		t.Fatalf("expected noisy size 80, got %v", res.Predictions.ZAverage.Value)
	}
}

func TestOpenFailsOnBadLogConfig(t *testing.T) {
	cfg := memoryConfig()
	cfg.Log.Mode = "production"
	cfg.Log.Level = "chatty"
	if _, err := Open(context.Background(), cfg); err == nil {
		t.Fatalf("expected logger error")
	}
}

func TestOpenFailsOnBadStorage(t *testing.T) {
	cfg := memoryConfig()
	cfg.Storage.Driver = "mongo"
	if _, err := Open(context.Background(), cfg, WithLogger(zap.NewNop())); err == nil || !strings.Contains(err.Error(), "snapshot store") {
		t.Fatalf("expected snapshot store error, got %v", err)
	}
}
