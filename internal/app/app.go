package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/cozy-creator/breed-classifier/internal/api"
	"github.com/cozy-creator/breed-classifier/internal/artifact"
	"github.com/cozy-creator/breed-classifier/internal/classifier"
	"github.com/cozy-creator/breed-classifier/internal/config"
	"github.com/cozy-creator/breed-classifier/internal/server"
	"github.com/cozy-creator/breed-classifier/internal/worker"
	"github.com/cozy-creator/breed-classifier/pkg/logger"

	"go.uber.org/zap"
)

// App holds what is needed to bring the service up. Nothing is fetched or
// loaded until Initialize.
type App struct {
	config   *config.Config
	fetchers map[artifact.SourceType]artifact.Fetcher
	loader   classifier.Loader
	labels   []string

	Logger *zap.Logger
}

// Option funcs used to initialize the App struct
type OptionFunc func(app *App) error

func WithLogger(logger *zap.Logger) OptionFunc {
	return func(app *App) error {
		if logger == nil {
			return fmt.Errorf("logger is nil")
		}
		app.Logger = logger
		return nil
	}
}

func WithFetcher(t artifact.SourceType, f artifact.Fetcher) OptionFunc {
	return func(app *App) error {
		app.fetchers[t] = f
		return nil
	}
}

func WithLoader(loader classifier.Loader) OptionFunc {
	return func(app *App) error {
		app.loader = loader
		return nil
	}
}

func WithLabels(labels []string) OptionFunc {
	return func(app *App) error {
		if len(labels) == 0 {
			return fmt.Errorf("label set is empty")
		}
		app.labels = labels
		return nil
	}
}

func NewApp(cfg *config.Config, options ...OptionFunc) (*App, error) {
	if cfg == nil {
		return nil, config.ErrConfigNotLoaded
	}

	app := &App{
		config:   cfg,
		fetchers: make(map[artifact.SourceType]artifact.Fetcher),
		labels:   classifier.ClassLabels,
	}

	if cfg.ONNX != nil {
		app.loader = &classifier.ONNXLoader{
			SharedLibraryPath: cfg.ONNX.SharedLibraryPath,
			InputName:         cfg.ONNX.InputName,
			OutputName:        cfg.ONNX.OutputName,
			ImageSize:         cfg.ONNX.ImageSize,
		}
	}

	for _, opt := range options {
		if err := opt(app); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if app.Logger == nil {
		l, err := logger.InitLogger(cfg)
		if err != nil {
			return nil, err
		}
		app.Logger = l
	}

	if app.loader == nil {
		return nil, fmt.Errorf("no model loader configured")
	}

	return app, nil
}

func (app *App) Config() *config.Config {
	return app.config
}

// Initialize ensures the artifact is on disk and loads it. It is the only way
// to obtain a Runtime, so nothing can be served unless it succeeded.
func (app *App) Initialize(ctx context.Context) (*Runtime, error) {
	cfg := app.config
	dest := cfg.ArtifactPath()

	downloader, err := app.newDownloader(ctx)
	if err != nil {
		return nil, err
	}

	if err := downloader.Ensure(ctx, cfg.ArtifactURL, dest); err != nil {
		return nil, err
	}

	predictor, err := classifier.Load(app.loader, dest, app.labels, app.Logger.Named("classifier"))
	if err != nil {
		return nil, err
	}

	app.Logger.Info("Model loaded",
		zap.String("path", dest),
		zap.Int("classes", len(app.labels)),
	)

	inference := worker.NewInferenceWorker(predictor, cfg.InferenceWorkers)

	srv, err := server.NewServer(cfg, app.Logger)
	if err != nil {
		inference.Stop()
		closePredictor(predictor)
		return nil, fmt.Errorf("failed to create server: %w", err)
	}
	srv.SetupRoutes(api.NewHandler(inference, app.Logger))

	return &Runtime{
		app:       app,
		predictor: predictor,
		inference: inference,
		server:    srv,
	}, nil
}

func (app *App) newDownloader(ctx context.Context) (*artifact.Downloader, error) {
	var options []artifact.OptionFunc

	if source, err := artifact.ParseSource(app.config.ArtifactURL); err == nil && source.Type == artifact.SourceTypeS3 {
		if _, ok := app.fetchers[artifact.SourceTypeS3]; !ok {
			fetcher, err := artifact.NewS3Fetcher(ctx, app.config.S3)
			if err != nil {
				return nil, &artifact.FetchError{Source: app.config.ArtifactURL, Dest: app.config.ArtifactPath(), Err: err}
			}
			options = append(options, artifact.WithFetcher(artifact.SourceTypeS3, fetcher))
		}
	}

	for t, f := range app.fetchers {
		options = append(options, artifact.WithFetcher(t, f))
	}

	return artifact.NewDownloader(app.Logger, options...), nil
}

// Runtime is a fully initialized service: the predictor is loaded and the
// routes are wired to it.
type Runtime struct {
	app       *App
	predictor classifier.Predictor
	inference *worker.InferenceWorker
	server    *server.Server
}

func (r *Runtime) Predictor() classifier.Predictor {
	return r.predictor
}

func (r *Runtime) Handler() http.Handler {
	return r.server.Handler()
}

// Serve listens until ctx is done, then shuts the listener down.
func (r *Runtime) Serve(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		errc <- r.server.Start()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		return r.server.Stop(context.Background())
	}
}

func (r *Runtime) Close() {
	r.inference.Stop()
	closePredictor(r.predictor)
	_ = r.app.Logger.Sync()
}

func closePredictor(p classifier.Predictor) {
	if c, ok := p.(io.Closer); ok {
		c.Close()
	}
}
