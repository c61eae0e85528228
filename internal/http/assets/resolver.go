// Package assets maps logical static asset names to their content-hashed URLs.
package assets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
	"time"
)

// ManifestName is the manifest file at the root of the static filesystem.
const ManifestName = "manifest.json"

const defaultDevReloadInterval = 500 * time.Millisecond

// AssetResolver resolves logical asset names to hashed filenames using manifest.json.
type AssetResolver struct {
	mu       sync.RWMutex
	manifest map[string]string
	fsys     fs.FS
	prefix   string

	// dev mode rereads the manifest at most once per reloadEvery.
	dev         bool
	reloadEvery time.Duration
	lastReload  time.Time
	now         func() time.Time

	logger *slog.Logger
}

// Options configures NewAssetResolver.
type Options struct {
	// Prefix is the URL prefix static files are served under. Default "/static/".
	Prefix string
	// Dev rereads the manifest while the process runs.
	Dev    bool
	Logger *slog.Logger
}

// NewAssetResolver reads the manifest from fsys. A missing manifest is not an
// error: every asset then resolves to its logical name.
func NewAssetResolver(fsys fs.FS, opts Options) (*AssetResolver, error) {
	if opts.Prefix == "" {
		opts.Prefix = "/static/"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	ar := &AssetResolver{
		manifest:    map[string]string{},
		fsys:        fsys,
		prefix:      opts.Prefix,
		dev:         opts.Dev,
		reloadEvery: defaultDevReloadInterval,
		now:         time.Now,
		logger:      opts.Logger,
	}
	return ar, ar.Reload()
}

// Reload synchronizes the in-memory manifest with the filesystem.
func (ar *AssetResolver) Reload() error {
	manifest, err := readManifest(ar.fsys)
	ar.mu.Lock()
	defer ar.mu.Unlock()
	ar.lastReload = ar.now()
	if err != nil {
		return err
	}
	ar.manifest = manifest
	return nil
}

func readManifest(fsys fs.FS) (map[string]string, error) {
	if fsys == nil {
		return map[string]string{}, nil
	}
	data, err := fs.ReadFile(fsys, ManifestName)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read asset manifest: %w", err)
	}
	manifest := map[string]string{}
	if len(data) == 0 {
		return manifest, nil
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse asset manifest: %w", err)
	}
	return manifest, nil
}

// URL returns the served URL for a logical asset name, falling back to the
// logical name when the manifest has no entry.
func (ar *AssetResolver) URL(logicalName string) string {
	if ar == nil {
		return "/static/" + logicalName
	}
	ar.reloadForDev()

	ar.mu.RLock()
	defer ar.mu.RUnlock()
	if hashed, ok := ar.manifest[logicalName]; ok {
		return ar.prefix + hashed
	}
	return ar.prefix + logicalName
}

func (ar *AssetResolver) reloadForDev() {
	if !ar.dev {
		return
	}
	ar.mu.RLock()
	due := ar.now().Sub(ar.lastReload) >= ar.reloadEvery
	ar.mu.RUnlock()
	if !due {
		return
	}
	if err := ar.Reload(); err != nil {
		ar.logger.Error("failed to reload asset manifest", slog.Any("error", err))
	}
}
