package artifact

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cozy-creator/breed-classifier/internal/utils/hashutil"
	"github.com/cozy-creator/breed-classifier/internal/utils/pathutil"

	"go.uber.org/zap"
)

type Downloader struct {
	fetchers map[SourceType]Fetcher
	logger   *zap.Logger
}

type OptionFunc func(d *Downloader)

// WithFetcher registers f for sources of type t, replacing any default.
func WithFetcher(t SourceType, f Fetcher) OptionFunc {
	return func(d *Downloader) {
		d.fetchers[t] = f
	}
}

func NewDownloader(logger *zap.Logger, options ...OptionFunc) *Downloader {
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &Downloader{
		fetchers: map[SourceType]Fetcher{
			SourceTypeDirect: NewHTTPFetcher(nil, os.Stderr),
			SourceTypeFile:   FileFetcher{},

			SourceTypeHuggingface: NewHuggingfaceFetcher(nil),
		},
		logger: logger.Named("artifact"),
	}

	for _, opt := range options {
		opt(d)
	}

	return d
}

// Ensure makes sure an artifact exists at dest. An existing file is trusted as
// is; otherwise the source is fetched into a temporary file next to dest and
// renamed into place once complete.
func (d *Downloader) Ensure(ctx context.Context, rawSource, dest string) error {
	if pathutil.FileExists(dest) {
		d.logger.Info("Artifact already present", zap.String("path", dest))
		return nil
	}

	fail := func(err error) error {
		return &FetchError{Source: rawSource, Dest: dest, Err: err}
	}

	source, err := ParseSource(rawSource)
	if err != nil {
		return fail(err)
	}

	fetcher, ok := d.fetchers[source.Type]
	if !ok {
		return fail(fmt.Errorf("no fetcher registered for %s sources", source.Type))
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fail(fmt.Errorf("failed to create artifact directory: %w", err))
	}

	d.logger.Info("Downloading artifact",
		zap.String("source_type", string(source.Type)),
		zap.String("source", source.Raw),
		zap.String("path", dest),
	)

	tmpPath := dest + ".tmp"
	if err := d.fetchTo(ctx, fetcher, source, tmpPath); err != nil {
		if rmErr := os.Remove(tmpPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			d.logger.Warn("Failed to remove partial artifact", zap.String("path", tmpPath), zap.Error(rmErr))
		}
		return fail(err)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return fail(fmt.Errorf("failed to move file: %w", err))
	}

	d.logArtifact(dest)
	return nil
}

func (d *Downloader) fetchTo(ctx context.Context, fetcher Fetcher, source *Source, path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}

	if err := fetcher.Fetch(ctx, source, f); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	return nil
}

func (d *Downloader) logArtifact(path string) {
	fields := []zap.Field{zap.String("path", path)}

	if info, err := os.Stat(path); err == nil {
		fields = append(fields, zap.Int64("bytes", info.Size()))
	}

	digest, err := hashutil.Blake3File(path)
	if err != nil {
		d.logger.Warn("Failed to hash artifact", zap.String("path", path), zap.Error(err))
	} else {
		fields = append(fields, zap.String("blake3", digest))
	}

	d.logger.Info("Artifact downloaded", fields...)
}
