package raster

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/airbusgeo/osio"
)

// GCSVSIPrefix is the alternate, GDAL-VSI-style spelling of a cloud data
// source path ("/vsigs/bucket/object"), accepted alongside the more common
// "gs://bucket/object" form.
const GCSVSIPrefix = "/vsigs/"

// GCSAdapterOptions configures the osio byte-range adapter fronting GCS
// reads, the same knobs cogify-main.go exposes on its own "-b"/"-n" flags.
type GCSAdapterOptions struct {
	BlockSize       string
	NumCachedBlocks int
}

// NewGCSByteAdapter builds an osio adapter over a GCS bucket, the same
// construction cogify-main.go uses before registering it as a GDAL VSI
// handler.
func NewGCSByteAdapter(ctx context.Context, opts GCSAdapterOptions) (*osio.Adapter, error) {
	cl, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("raster: gcs client: %w", err)
	}
	handle, err := osio.GCSHandle(ctx, osio.GCSClient(cl))
	if err != nil {
		return nil, fmt.Errorf("raster: gcs handle: %w", err)
	}
	adapterOpts := []osio.AdapterOption{}
	if opts.BlockSize != "" {
		adapterOpts = append(adapterOpts, osio.BlockSize(opts.BlockSize))
	}
	if opts.NumCachedBlocks > 0 {
		adapterOpts = append(adapterOpts, osio.NumCachedBlocks(opts.NumCachedBlocks))
	}
	adapter, err := osio.NewAdapter(handle, adapterOpts...)
	if err != nil {
		return nil, fmt.Errorf("raster: osio adapter: %w", err)
	}
	return adapter, nil
}

// ParseGCSPath splits a "gs://bucket/object" or "/vsigs/bucket/object" data
// source path into its bucket and object, mirroring cogify-main.go's
// gsparse helper. ok is false if path carries neither prefix.
func ParseGCSPath(path string) (bucket, object string, ok bool) {
	switch {
	case strings.HasPrefix(path, "gs://"):
		path = path[len("gs://"):]
	case strings.HasPrefix(path, GCSVSIPrefix):
		path = path[len(GCSVSIPrefix):]
	default:
		return "", "", false
	}
	firstSlash := strings.Index(path, "/")
	if firstSlash <= 0 {
		return "", "", false
	}
	object = strings.Trim(path[firstSlash:], "/")
	if object == "" {
		return "", "", false
	}
	return path[:firstSlash], object, true
}

// FetchGCSObject downloads the gs:// (or /vsigs/) raster object at path into
// a temp file under destDir and returns its local path. internal/rasterio
// has no VSI-callback bridge for streaming cloud reads the way
// RegisterVSIAdapter does in the full package it was trimmed from, so
// cloud-hosted raster sources are pulled down whole, once per run, rather
// than streamed tile-by-tile.
func FetchGCSObject(ctx context.Context, path string, opts GCSAdapterOptions, destDir string) (string, error) {
	bucket, object, ok := ParseGCSPath(path)
	if !ok {
		return "", fmt.Errorf("raster: %q is not a gs:// or %s path", path, GCSVSIPrefix)
	}
	adapter, err := NewGCSByteAdapter(ctx, opts)
	if err != nil {
		return "", err
	}
	key := bucket + "/" + object

	size, err := adapter.Size(key)
	if err != nil {
		return "", fmt.Errorf("raster: stat gs://%s: %w", key, err)
	}

	dst, err := os.CreateTemp(destDir, "afc-gcs-*"+filepath.Ext(object))
	if err != nil {
		return "", fmt.Errorf("raster: create temp file for gs://%s: %w", key, err)
	}
	defer dst.Close()

	buf := make([]byte, size)
	n, err := adapter.ReadAt(key, buf, 0)
	if err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("raster: download gs://%s: %w", key, err)
	}
	if _, err := dst.Write(buf[:n]); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("raster: write temp file for gs://%s: %w", key, err)
	}
	return dst.Name(), nil
}
