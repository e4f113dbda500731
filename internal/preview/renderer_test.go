package preview

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"media_upload_service/internal/media/transformer"
	errprocess "media_upload_service/pkg/err"
	"media_upload_service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func newTestRenderer(f Fetcher) *Renderer {
	logger.SetNewNop()
	return NewRenderer(transformer.NewURLBuilder("https://res.cloudinary.com", "demo"), f)
}

func TestRendererSquareScenario(t *testing.T) {
	r := newTestRenderer(nil)
	assert.Equal(t, Idle, r.State())
	assert.Equal(t, "", r.RenditionURL())

	r.BeginUpload()
	r.UploadProgress(40)
	r.UploadProgress(20)
	assert.True(t, r.IsUploading())
	assert.Equal(t, 40, r.Progress())

	key, err := r.SetAsset("X1")
	require.NoError(t, err)
	assert.Equal(t, Key{PublicID: "X1", Format: "Instagram Square (1:1)"}, key)
	assert.False(t, r.IsUploading())
	assert.Equal(t, Transforming, r.State())
	assert.False(t, r.CanDownload())

	url := r.RenditionURL()
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/c_fill,g_auto,w_1080,h_1080,ar_1:1/X1", url)

	assert.True(t, r.OnLoad(key, url))
	assert.Equal(t, Ready, r.State())
	assert.True(t, r.CanDownload())
	assert.Equal(t, url, r.ResolvedURL())
}

func TestRendererCapturesRewrittenURL(t *testing.T) {
	fetcher := new(mockFetcher)
	r := newTestRenderer(fetcher)
	key, err := r.SetAsset("X1")
	require.NoError(t, err)

	resolved := "https://res.cloudinary.com/demo/image/upload/c_fill,g_auto,w_1080,h_1080,ar_1:1/f_auto/q_auto/X1"
	require.NotEqual(t, r.RenditionURL(), resolved)
	assert.True(t, r.OnLoad(key, resolved))
	assert.Equal(t, Ready, r.State())
	assert.Equal(t, resolved, r.ResolvedURL())

	ctx := context.Background()
	fetcher.On("Fetch", ctx, resolved).Return([]byte("png-bytes"), nil).Once()
	_, err = r.Download(ctx, t.TempDir())
	require.NoError(t, err)
	fetcher.AssertExpectations(t)
}

func TestRendererFormatIdempotence(t *testing.T) {
	r := newTestRenderer(nil)
	_, err := r.SetAsset("X1")
	require.NoError(t, err)

	_, err = r.SelectFormat("Twitter Post (16:9)")
	require.NoError(t, err)
	first := r.RenditionURL()
	_, err = r.SelectFormat("twitter post (16:9)")
	require.NoError(t, err)
	assert.Equal(t, first, r.RenditionURL())
	assert.Contains(t, first, "w_1920,h_1080,ar_16:9")

	_, err = r.SelectFormat("TikTok")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.Equal(t, "Twitter Post (16:9)", r.Format().Label)
}

func TestRendererReselectCurrentFormatKeepsReady(t *testing.T) {
	r := newTestRenderer(nil)
	key, err := r.SetAsset("X1")
	require.NoError(t, err)
	url := r.RenditionURL()
	require.True(t, r.OnLoad(key, url))

	again, err := r.SelectFormat("Instagram Square (1:1)")
	require.NoError(t, err)
	assert.Equal(t, key, again)
	assert.Equal(t, Ready, r.State())
	assert.True(t, r.CanDownload())
	assert.Equal(t, url, r.ResolvedURL())
}

func TestRendererNeverDownloadableWhileTransforming(t *testing.T) {
	fetcher := new(mockFetcher)
	r := newTestRenderer(fetcher)
	squareKey, err := r.SetAsset("X1")
	require.NoError(t, err)
	squareURL := r.RenditionURL()
	require.True(t, r.OnLoad(squareKey, squareURL))

	coverKey, err := r.SelectFormat("Facebook Cover (205:78)")
	require.NoError(t, err)
	assert.NotEqual(t, squareKey, coverKey)
	assert.Equal(t, Transforming, r.State())
	assert.False(t, r.CanDownload())
	assert.Empty(t, r.ResolvedURL())

	_, err = r.Download(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ErrNotReady)
	fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)

	// the square rendition finishing late must not mark the cover ready
	assert.False(t, r.OnLoad(squareKey, squareURL))
	assert.Equal(t, Transforming, r.State())

	assert.True(t, r.OnLoad(coverKey, r.RenditionURL()))
	assert.Equal(t, Ready, r.State())
}

func TestRendererStaleLoadIgnored(t *testing.T) {
	r := newTestRenderer(nil)
	assert.False(t, r.OnLoad(Key{PublicID: "X1", Format: "Instagram Square (1:1)"}, "https://res.cloudinary.com/demo/image/upload/x"))
	assert.Equal(t, Idle, r.State())

	key, err := r.SetAsset("X1")
	require.NoError(t, err)
	assert.False(t, r.OnLoad(key, ""))
	require.True(t, r.OnLoad(key, r.RenditionURL()))
	assert.False(t, r.OnLoad(key, r.RenditionURL()))
	assert.Equal(t, Ready, r.State())

	// a new upload supersedes the previous asset
	_, err = r.SetAsset("X2")
	require.NoError(t, err)
	assert.False(t, r.OnLoad(key, "https://res.cloudinary.com/demo/image/upload/X1"))
	assert.Equal(t, Transforming, r.State())
}

func TestRendererLoad(t *testing.T) {
	fetcher := new(mockFetcher)
	r := newTestRenderer(fetcher)
	ctx := context.Background()

	assert.ErrorIs(t, r.Load(ctx), ErrNoAsset)

	_, err := r.SetAsset("X1")
	require.NoError(t, err)
	url := r.RenditionURL()

	fetcher.On("Fetch", ctx, url).Return(nil, errors.New("network down")).Once()
	assert.Error(t, r.Load(ctx))
	assert.Equal(t, Transforming, r.State())

	fetcher.On("Fetch", ctx, url).Return([]byte("png-bytes"), nil).Once()
	require.NoError(t, r.Load(ctx))
	assert.Equal(t, Ready, r.State())
	assert.Equal(t, url, r.ResolvedURL())
	require.NoError(t, r.Load(ctx))

	// the loaded bytes are written without a second fetch
	path, err := r.Download(ctx, t.TempDir())
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	fetcher.AssertNumberOfCalls(t, "Fetch", 2)
}

func TestRendererReset(t *testing.T) {
	r := newTestRenderer(nil)
	r.BeginUpload()
	r.UploadProgress(80)
	key, err := r.SetAsset("X1")
	require.NoError(t, err)
	require.True(t, r.OnLoad(key, r.RenditionURL()))

	r.Reset()
	assert.Equal(t, Idle, r.State())
	assert.Empty(t, r.RenditionURL())
	assert.Empty(t, r.ResolvedURL())
	assert.Equal(t, 0, r.Progress())
	assert.False(t, r.IsUploading())
	assert.False(t, r.CanDownload())

	_, err = r.SetAsset("  ")
	assert.ErrorIs(t, err, ErrNoAsset)
}

func TestRendererDownload(t *testing.T) {
	fetcher := new(mockFetcher)
	r := newTestRenderer(fetcher)
	key, err := r.SetAsset("X1")
	require.NoError(t, err)
	url := r.RenditionURL()
	require.True(t, r.OnLoad(key, url))

	ctx := context.Background()
	fetcher.On("Fetch", ctx, url).Return([]byte("png-bytes"), nil).Once()

	dir := t.TempDir()
	path, err := r.Download(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "instagram_square_(1:1).png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	fetcher.On("Fetch", ctx, url).Return(nil, errors.New("network down")).Once()
	_, err = r.Download(ctx, dir)
	assert.Error(t, err)
}

func TestAgentFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("image"))
	}))
	defer srv.Close()

	f := AgentFetcher{Timeout: 5 * time.Second}
	data, err := f.Fetch(context.Background(), srv.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, "image", string(data))

	_, err = f.Fetch(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.True(t, errprocess.Is(err, errprocess.ClientNetworkFailure))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.Fetch(ctx, srv.URL+"/ok")
	assert.ErrorIs(t, err, context.Canceled)
}
