package core

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"nanoeln/internal/blob"
	"nanoeln/internal/config"
	"nanoeln/internal/eln"
	"nanoeln/internal/platform/logger"
	"nanoeln/internal/predict"
)

// App is an opened lab data store together with its dependencies.
type App struct {
	Config   config.Config
	Store    *eln.Store
	Blobs    blob.Store
	Logger   *zap.Logger
	Registry *prometheus.Registry
}

type appOptions struct {
	logger    *zap.Logger
	noise     func() float64
	storeOpts []eln.Option
}

// Option customises Open.
type Option func(*appOptions)

// WithLogger uses l instead of building one from the log config.
func WithLogger(l *zap.Logger) Option {
	return func(o *appOptions) { o.logger = l }
}

// WithNoise overrides the predictor noise source when noise is enabled.
func WithNoise(fn func() float64) Option {
	return func(o *appOptions) { o.noise = fn }
}

// WithStoreOptions passes extra options to eln.New.
func WithStoreOptions(opts ...eln.Option) Option {
	return func(o *appOptions) { o.storeOpts = append(o.storeOpts, opts...) }
}

// Open builds the logger, metrics registry, blob store and snapshot backend
// described by cfg and opens the lab data store on top of them.
func Open(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	o := appOptions{noise: rand.Float64}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger
	if log == nil {
		var err error
		log, err = logger.New(cfg.Log.Mode, cfg.Log.Level)
		if err != nil {
			return nil, err
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	rec, err := NewPrometheusRecorder(reg)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	blobs, err := blob.Open(ctx, cfg.BlobOpenConfig())
	if err != nil {
		return nil, fmt.Errorf("open blob store: %w", err)
	}
	backend, err := OpenSnapshotStore(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}

	formula := predict.Formula{}
	if cfg.Prediction.Noise {
		formula.Noise = o.noise
	}
	storeOpts := append([]eln.Option{
		eln.WithActor(cfg.Actor),
		eln.WithLogger(log),
		eln.WithMetrics(rec),
		eln.WithBlobStore(blobs),
		eln.WithPredictor(formula),
	}, o.storeOpts...)
	store, err := eln.New(ctx, backend, storeOpts...)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	log.Info("lab data store ready",
		zap.String("storage", cfg.Storage.Driver),
		zap.String("blob", string(blobs.Driver())),
	)
	return &App{Config: cfg, Store: store, Blobs: blobs, Logger: log, Registry: reg}, nil
}

// MetricsHandler serves the app registry in the Prometheus text format.
func (a *App) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{Registry: a.Registry})
}

// Close releases the snapshot backend and flushes the logger.
func (a *App) Close() error {
	err := a.Store.Close()
	if syncErr := a.Logger.Sync(); syncErr != nil && !isStdSyncError(syncErr) {
		err = errors.Join(err, syncErr)
	}
	return err
}
