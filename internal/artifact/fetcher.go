package artifact

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
)

// Fetcher streams the artifact named by source into w.
type Fetcher interface {
	Fetch(ctx context.Context, source *Source, w io.Writer) error
}

type HTTPFetcher struct {
	client   *http.Client
	progress io.Writer
}

// NewHTTPFetcher returns a fetcher for direct urls. Progress is drawn on
// progress; a nil writer disables the bar.
func NewHTTPFetcher(client *http.Client, progress io.Writer) *HTTPFetcher {
	if client == nil {
		client = &http.Client{
			Timeout: 0, // No total timeout
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout: 60 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   60 * time.Second,
				ResponseHeaderTimeout: 60 * time.Second,
				IdleConnTimeout:       60 * time.Second,
			},
		}
	}

	return &HTTPFetcher{client: client, progress: progress}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, source *Source, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.Location, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	progress := mpb.NewWithContext(ctx,
		mpb.WithOutput(f.progress),
		mpb.WithWidth(60),
		mpb.WithRefreshRate(180*time.Millisecond),
	)

	totalSize := resp.ContentLength
	if totalSize < 0 {
		totalSize = 0
	}

	bar := progress.AddBar(totalSize,
		mpb.PrependDecorators(
			decor.Name(filepath.Base(req.URL.Path), decor.WC{W: 40, C: decor.DidentRight}),
			decor.CountersKibiByte("% .2f / % .2f"),
		),
		mpb.AppendDecorators(
			decor.EwmaETA(decor.ET_STYLE_GO, 90),
			decor.Name(" ] "),
			decor.EwmaSpeed(decor.UnitKiB, "% .2f", 60),
		),
	)

	reader := bar.ProxyReader(resp.Body)
	defer reader.Close()

	written, err := io.Copy(w, reader)
	if err != nil {
		bar.Abort(false)
		progress.Wait()
		return fmt.Errorf("read failed: %w", err)
	}

	bar.SetTotal(-1, true)
	progress.Wait()

	if resp.ContentLength > 0 && written != resp.ContentLength {
		return fmt.Errorf("download size mismatch: expected %d, got %d", resp.ContentLength, written)
	}

	return nil
}

// FileFetcher copies an artifact from the local filesystem.
type FileFetcher struct{}

func (FileFetcher) Fetch(_ context.Context, source *Source, w io.Writer) error {
	f, err := os.Open(source.Location)
	if err != nil {
		return fmt.Errorf("failed to open local artifact: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to copy local artifact: %w", err)
	}

	return nil
}
