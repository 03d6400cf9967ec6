package valyu

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

const defaultDatasetConcurrency = 4

// DatasetOptions tunes dataset downloads.
type DatasetOptions struct {
	// Concurrency bounds parallel file downloads. Defaults to 4.
	Concurrency int
	// OnProgress, when set, is called after each file finishes with the
	// number of completed files and the total.
	OnProgress func(done, total int)
}

// DatasetDownload summarizes a completed dataset download. The dataset
// content itself is written to disk untouched.
type DatasetDownload struct {
	Files int
	Bytes int64
	Dir   string
}

type datasetManifestEntry struct {
	Key          string `json:"key"`
	PresignedURL string `json:"presignedUrl"`
}

// LoadDataset downloads a full dataset, identified as "org/name", into
// saveDir. It resolves a presigned manifest through the authenticated
// training endpoint and fetches the listed files concurrently.
func (c *Client) LoadDataset(ctx context.Context, datasetID, saveDir string, opts *DatasetOptions) (*DatasetDownload, error) {
	org, name, err := splitDatasetID(datasetID)
	if err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &DatasetOptions{}
	}

	// The API expects the id as org:name with the colon percent-encoded.
	var meta struct {
		PresignedURL string `json:"presignedURL"`
	}
	path := fmt.Sprintf("/training/datasets/%s%%3A%s", org, name)
	if err := c.getJSON(ctx, path, nil, &meta, true); err != nil {
		return nil, fmt.Errorf("fetch dataset manifest url: %w", err)
	}
	if meta.PresignedURL == "" {
		return nil, fmt.Errorf("dataset %s: empty manifest url", datasetID)
	}

	var manifest []datasetManifestEntry
	if err := c.fetchJSON(ctx, meta.PresignedURL, &manifest); err != nil {
		return nil, fmt.Errorf("fetch dataset manifest: %w", err)
	}

	if err := os.MkdirAll(saveDir, 0o755); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}

	files := make([]datasetManifestEntry, 0, len(manifest))
	for _, entry := range manifest {
		if strings.HasSuffix(entry.Key, "/") {
			continue
		}
		files = append(files, entry)
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultDatasetConcurrency
	}

	var (
		mu         sync.Mutex
		done       int
		totalBytes int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, entry := range files {
		g.Go(func() error {
			n, err := c.downloadFile(gctx, entry.PresignedURL, saveDir, entry.Key)
			if err != nil {
				return fmt.Errorf("download %s: %w", entry.Key, err)
			}
			mu.Lock()
			done++
			totalBytes += n
			if opts.OnProgress != nil {
				opts.OnProgress(done, len(files))
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &DatasetDownload{Files: len(files), Bytes: totalBytes, Dir: saveDir}, nil
}

// LoadDatasetSamples downloads the public sample archive for a dataset,
// identified as "org/name", and extracts it into saveDir. No API key is
// required.
func (c *Client) LoadDatasetSamples(ctx context.Context, datasetID, saveDir string, opts *DatasetOptions) (*DatasetDownload, error) {
	org, name, err := splitDatasetID(datasetID)
	if err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &DatasetOptions{}
	}

	var meta struct {
		PresignedURL string `json:"presigned_url"`
	}
	query := url.Values{}
	query.Set("orgId", org)
	query.Set("datasetName", name)
	if err := c.getJSON(ctx, "/training/samples", query, &meta, false); err != nil {
		return nil, fmt.Errorf("fetch samples url: %w", err)
	}
	if meta.PresignedURL == "" {
		return nil, fmt.Errorf("dataset %s: empty samples url", datasetID)
	}

	body, err := c.fetch(ctx, meta.PresignedURL)
	if err != nil {
		return nil, fmt.Errorf("download samples archive: %w", err)
	}
	defer func() { _ = body.Close() }()
	archive, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("download samples archive: %w", err)
	}

	download, err := extractZip(archive, saveDir, opts.OnProgress)
	if err != nil {
		return nil, err
	}
	if err := pruneEmptyDirs(saveDir); err != nil {
		return nil, err
	}
	return download, nil
}

func splitDatasetID(datasetID string) (org, name string, err error) {
	org, name, ok := strings.Cut(datasetID, "/")
	if !ok || !isValidDatasetName(datasetID) {
		return "", "", newValidationError("dataset_id", "must be in the format org/dataset-name, got %q", datasetID)
	}
	return org, name, nil
}

// fetchJSON downloads and decodes an unauthenticated JSON document, such
// as a presigned manifest.
func (c *Client) fetchJSON(ctx context.Context, rawURL string, out any) error {
	body, err := c.fetch(ctx, rawURL)
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()
	raw, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// downloadFile streams one manifest entry to disk, preserving the key's
// relative path under saveDir. Keys that would escape saveDir are
// rejected.
func (c *Client) downloadFile(ctx context.Context, rawURL, saveDir, key string) (int64, error) {
	target, err := securePath(saveDir, key)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, err
	}

	body, err := c.fetch(ctx, rawURL)
	if err != nil {
		return 0, err
	}
	defer func() { _ = body.Close() }()

	out, err := os.Create(target)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(out, body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return n, err
}

func extractZip(archive []byte, saveDir string, onProgress func(done, total int)) (*DatasetDownload, error) {
	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("open samples archive: %w", err)
	}

	download := &DatasetDownload{Dir: saveDir}
	total := 0
	for _, f := range reader.File {
		if !strings.HasPrefix(f.Name, "__MACOSX") && !f.FileInfo().IsDir() {
			total++
		}
	}
	for _, f := range reader.File {
		if strings.HasPrefix(f.Name, "__MACOSX") {
			continue
		}
		target, err := securePath(saveDir, f.Name)
		if err != nil {
			return nil, err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return nil, err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, err
		}
		src, err := f.Open()
		if err != nil {
			return nil, err
		}
		dst, err := os.Create(target)
		if err != nil {
			_ = src.Close()
			return nil, err
		}
		n, err := io.Copy(dst, src)
		_ = src.Close()
		if closeErr := dst.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", f.Name, err)
		}
		download.Files++
		download.Bytes += n
		if onProgress != nil {
			onProgress(download.Files, total)
		}
	}
	return download, nil
}

// securePath joins key under baseDir and rejects path traversal.
func securePath(baseDir, key string) (string, error) {
	target := filepath.Join(baseDir, filepath.FromSlash(key))
	base := filepath.Clean(baseDir)
	if target != base && !strings.HasPrefix(target, base+string(os.PathSeparator)) {
		return "", fmt.Errorf("unsafe path %q in archive", key)
	}
	return target, nil
}

// pruneEmptyDirs removes directories left empty after extraction, deepest
// first.
func pruneEmptyDirs(root string) error {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			if err := os.Remove(dir); err != nil {
				return err
			}
		}
	}
	return nil
}
