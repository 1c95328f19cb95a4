package artifact

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cozy-creator/hf-hub/hub"
)

// HubDownloadFunc fetches the files described by params into the hub cache.
type HubDownloadFunc func(params *hub.DownloadParams) error

// HuggingfaceFetcher resolves hf: sources through the Hugging Face hub cache
// and copies the requested file out of the downloaded snapshot.
type HuggingfaceFetcher struct {
	cacheDir string
	download HubDownloadFunc
}

// NewHuggingfaceFetcher wraps client. A nil client is replaced by
// hub.DefaultClient on the first fetch.
func NewHuggingfaceFetcher(client *hub.Client) *HuggingfaceFetcher {
	f := &HuggingfaceFetcher{}
	if client != nil {
		f.useClient(client)
	}
	return f
}

func NewHuggingfaceFetcherWithDownload(cacheDir string, download HubDownloadFunc) *HuggingfaceFetcher {
	return &HuggingfaceFetcher{cacheDir: cacheDir, download: download}
}

func (f *HuggingfaceFetcher) useClient(client *hub.Client) {
	f.cacheDir = client.CacheDir
	f.download = func(params *hub.DownloadParams) error {
		_, err := client.Download(params)
		return err
	}
}

func (f *HuggingfaceFetcher) Fetch(ctx context.Context, source *Source, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	repoID, file, err := source.RepoFile()
	if err != nil {
		return err
	}

	if f.download == nil {
		f.useClient(hub.DefaultClient())
	}

	params := hub.DownloadParams{
		Repo: &hub.Repo{Id: repoID},
	}
	if dir := path.Dir(file); dir != "." {
		params.SubFolder = dir
	}

	if err := f.download(&params); err != nil {
		return fmt.Errorf("failed to download %s from hub: %w", repoID, err)
	}

	snapshot, err := snapshotPath(f.cacheDir, repoID)
	if err != nil {
		return err
	}

	cached, err := os.Open(filepath.Join(snapshot, filepath.FromSlash(file)))
	if err != nil {
		return fmt.Errorf("file %s not found in %s snapshot: %w", file, repoID, err)
	}
	defer cached.Close()

	if _, err := io.Copy(w, cached); err != nil {
		return fmt.Errorf("failed to copy hub artifact: %w", err)
	}

	return nil
}

// repoFolderName converts "org/repo" to "models--org--repo".
func repoFolderName(repoID string) string {
	return "models--" + strings.ReplaceAll(repoID, "/", "--")
}

// snapshotPath follows refs/main to the snapshot folder of repoID.
func snapshotPath(cacheDir, repoID string) (string, error) {
	storage := filepath.Join(cacheDir, repoFolderName(repoID))

	ref, err := os.ReadFile(filepath.Join(storage, "refs", "main"))
	if err != nil {
		return "", fmt.Errorf("no main ref cached for %s: %w", repoID, err)
	}

	return filepath.Join(storage, "snapshots", strings.TrimSpace(string(ref))), nil
}
