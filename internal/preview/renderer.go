package preview

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"media_upload_service/internal/media/domain"
	"media_upload_service/internal/media/transformer"
	"media_upload_service/pkg/logger"

	"go.uber.org/zap"
)

// State of the current (asset, format) rendition
type State int

const (
	// Idle no asset
	Idle State = iota
	// Transforming rendition requested, not loaded yet
	Transforming
	// Ready rendition loaded, can be downloaded
	Ready
)

func (s State) String() string {
	switch s {
	case Transforming:
		return "transforming"
	case Ready:
		return "ready"
	default:
		return "idle"
	}
}

var (
	// ErrUnknownFormat label is not in domain.Formats
	ErrUnknownFormat = errors.New("unknown format")
	// ErrNoAsset empty public id
	ErrNoAsset = errors.New("no asset")
	// ErrNotReady download requested before the rendition loaded
	ErrNotReady = errors.New("rendition not ready")
	// ErrStaleLoad the (asset, format) changed while its rendition was loading
	ErrStaleLoad = errors.New("rendition superseded")
)

// Key identify one requested rendition
type Key struct {
	PublicID string
	Format   string
}

// Fetcher download the bytes behind a rendition URL
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Renderer drive Idle -> Transforming -> Ready for one uploaded image
type Renderer struct {
	mu      sync.Mutex
	urls    transformer.URLBuilder
	fetcher Fetcher

	state       State
	publicID    string
	format      domain.OutputFormat
	resolvedURL string
	loaded      []byte
	uploading   bool
	progress    int
}

// NewRenderer create an Idle Renderer on the default format
func NewRenderer(urls transformer.URLBuilder, fetcher Fetcher) *Renderer {
	return &Renderer{
		urls:    urls,
		fetcher: fetcher,
		format:  domain.DefaultFormat(),
	}
}

// BeginUpload mark an upload in flight
func (r *Renderer) BeginUpload() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uploading = true
	r.progress = 0
}

// UploadProgress record upload progress, lower values are ignored
func (r *Renderer) UploadProgress(percent int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if percent > r.progress {
		r.progress = percent
	}
}

// SetAsset switch to a newly uploaded asset and request its rendition
func (r *Renderer) SetAsset(publicID string) (Key, error) {
	if strings.TrimSpace(publicID) == "" {
		return Key{}, ErrNoAsset
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.publicID = publicID
	r.uploading = false
	r.transform()
	return r.key(), nil
}

// SelectFormat change the target format; with an asset present a new rendition is requested.
// Selecting the current format changes nothing.
func (r *Renderer) SelectFormat(label string) (Key, error) {
	f, ok := domain.FormatByLabel(label)
	if !ok {
		return Key{}, fmt.Errorf("%w: %q", ErrUnknownFormat, label)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.Label == r.format.Label {
		return r.key(), nil
	}
	r.format = f
	if r.publicID != "" {
		r.transform()
	}
	return r.key(), nil
}

// Key current (asset, format)
func (r *Renderer) Key() Key {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.key()
}

func (r *Renderer) key() Key {
	return Key{PublicID: r.publicID, Format: r.format.Label}
}

func (r *Renderer) transform() {
	r.state = Transforming
	r.resolvedURL = ""
	r.loaded = nil
	logger.Log.Debug("rendition requested",
		zap.String("publicId", r.publicID),
		zap.String("format", r.format.Label),
	)
}

// RenditionURL URL of the current (asset, format), empty without an asset
func (r *Renderer) RenditionURL() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renditionURL()
}

func (r *Renderer) renditionURL() string {
	if r.publicID == "" {
		return ""
	}
	return r.urls.ImageFormatURL(r.publicID, r.format)
}

// OnLoad rendition for key finished loading at resolvedURL, which may differ from RenditionURL.
// Returns false for loads that arrive outside Transforming or belong to an earlier key.
func (r *Renderer) OnLoad(key Key, resolvedURL string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.onLoad(key, resolvedURL, nil)
}

func (r *Renderer) onLoad(key Key, resolvedURL string, data []byte) bool {
	if r.state != Transforming || key != r.key() || resolvedURL == "" {
		logger.Log.Debug("stale rendition load ignored",
			zap.String("publicId", key.PublicID),
			zap.String("format", key.Format),
			zap.Stringer("state", r.state),
		)
		return false
	}
	r.state = Ready
	r.resolvedURL = resolvedURL
	r.loaded = data
	return true
}

// Load fetch the current rendition and move to Ready once it arrived
func (r *Renderer) Load(ctx context.Context) error {
	r.mu.Lock()
	switch r.state {
	case Idle:
		r.mu.Unlock()
		return ErrNoAsset
	case Ready:
		r.mu.Unlock()
		return nil
	}
	key := r.key()
	url := r.renditionURL()
	r.mu.Unlock()

	data, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		return fmt.Errorf("load %s: %w", url, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.onLoad(key, url, data) {
		return ErrStaleLoad
	}
	return nil
}

// CanDownload true only in Ready
func (r *Renderer) CanDownload() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == Ready
}

// State current state
func (r *Renderer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Format current format
func (r *Renderer) Format() domain.OutputFormat {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.format
}

// ResolvedURL URL captured by OnLoad, empty unless Ready
func (r *Renderer) ResolvedURL() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolvedURL
}

// IsUploading true between BeginUpload and SetAsset / Reset
func (r *Renderer) IsUploading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.uploading
}

// Progress last upload progress
func (r *Renderer) Progress() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.progress
}

// Reset back to Idle, the selected format is kept
func (r *Renderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = Idle
	r.publicID = ""
	r.resolvedURL = ""
	r.loaded = nil
	r.uploading = false
	r.progress = 0
}

// Download write the Ready rendition into dir as <label>.png and return the written path
func (r *Renderer) Download(ctx context.Context, dir string) (string, error) {
	r.mu.Lock()
	if r.state != Ready {
		r.mu.Unlock()
		return "", ErrNotReady
	}
	url := r.resolvedURL
	name := r.format.DownloadName()
	data := r.loaded
	r.mu.Unlock()

	if data == nil {
		var err error
		if data, err = r.fetcher.Fetch(ctx, url); err != nil {
			return "", fmt.Errorf("download %s: %w", url, err)
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}
