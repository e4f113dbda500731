package transformer

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"media_upload_service/internal/media/domain"
	"media_upload_service/pkg/config"
	errprocess "media_upload_service/pkg/err"
	"media_upload_service/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestCloudinary(baseURL string, timeout time.Duration) *Cloudinary {
	c := NewCloudinary(config.TransformerConfig{
		CloudName:  "demo",
		APIKey:     "key",
		APISecret:  "secret",
		APIBaseURL: baseURL,
		Timeout:    timeout,
	})
	c.now = func() time.Time { return time.Unix(1700000000, 0) }
	return c
}

func TestSign(t *testing.T) {
	// sha1("folder=video-uploads&timestamp=1700000000&transformation=q_auto/f_mp4secret")
	params := map[string]string{
		"timestamp":      "1700000000",
		"folder":         "video-uploads",
		"transformation": "q_auto/f_mp4",
		"empty":          "",
	}
	got := Sign(params, "secret")
	assert.Len(t, got, 40)
	assert.Equal(t, got, Sign(map[string]string{
		"transformation": "q_auto/f_mp4",
		"folder":         "video-uploads",
		"timestamp":      "1700000000",
	}, "secret"))
	assert.NotEqual(t, got, Sign(params, "other"))
}

func TestCloudinaryUploadVideo(t *testing.T) {
	logger.SetNewNop()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/demo/video/upload", r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "key", r.FormValue("api_key"))
		assert.Equal(t, "video-uploads", r.FormValue("folder"))
		assert.Equal(t, "q_auto/f_mp4", r.FormValue("transformation"))
		assert.Equal(t, "1700000000", r.FormValue("timestamp"))
		assert.Equal(t, Sign(map[string]string{
			"folder":         "video-uploads",
			"transformation": "q_auto/f_mp4",
			"timestamp":      "1700000000",
		}, "secret"), r.FormValue("signature"))

		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "clip.mov", hdr.Filename)
		assert.Equal(t, "movie-bytes", string(data))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"public_id":"video-uploads/abc","secure_url":"https://res.cloudinary.com/demo/video/upload/video-uploads/abc.mp4","bytes":4200,"duration":12.5,"resource_type":"video","format":"mp4"}`))
	}))
	defer srv.Close()

	res, err := newTestCloudinary(srv.URL, 5*time.Second).Upload(context.Background(), domain.TransformReq{
		Kind:           domain.AssetVideo,
		Folder:         "video-uploads",
		Transformation: domain.VideoTransformation,
		FileName:       "clip.mov",
		Data:           []byte("movie-bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "video-uploads/abc", res.PublicID)
	assert.Equal(t, int64(4200), res.Bytes)
	assert.Equal(t, 12.5, res.Duration)
}

func TestCloudinaryUploadFailures(t *testing.T) {
	logger.SetNewNop()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantMsg string
	}{
		{
			name: "service error message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":{"message":"Invalid image file"}}`))
			},
			wantMsg: "Invalid image file",
		},
		{
			name: "status without body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantMsg: "Upload failed with status 502",
		},
		{
			name: "missing public id",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"secure_url":"https://x"}`))
			},
			wantMsg: "Upload response has no public_id",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`not json`))
			},
			wantMsg: "Malformed upload response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			res, err := newTestCloudinary(srv.URL, 5*time.Second).Upload(context.Background(), domain.TransformReq{
				Kind: domain.AssetImage, Folder: "nextjs-cloudinary-uploads", FileName: "a.png", Data: []byte("png"),
			})
			assert.Nil(t, res)
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.True(t, errprocess.Is(err, errprocess.UpstreamFailure))
		})
	}
}

func TestCloudinaryUploadTimeout(t *testing.T) {
	logger.SetNewNop()
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	_, err := newTestCloudinary(srv.URL, 100*time.Millisecond).Upload(context.Background(), domain.TransformReq{
		Kind: domain.AssetImage, FileName: "a.png", Data: []byte("png"),
	})
	require.Error(t, err)
	assert.Equal(t, "Upload timed out", err.Error())
	assert.Equal(t, http.StatusInternalServerError, errprocess.StatusCode(err))
}

func TestCloudinaryUploadFollowsContext(t *testing.T) {
	logger.SetNewNop()
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	req := domain.TransformReq{Kind: domain.AssetVideo, FileName: "a.mp4", Data: []byte("mp4")}
	c := newTestCloudinary(srv.URL, 30*time.Second)

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(50*time.Millisecond, cancel)

		start := time.Now()
		_, err := c.Upload(ctx, req)
		require.Error(t, err)
		assert.Less(t, time.Since(start), 5*time.Second)
		assert.Equal(t, "Upload cancelled", err.Error())
		assert.ErrorIs(t, err, context.Canceled)
		assert.True(t, errprocess.Is(err, errprocess.UpstreamFailure))
	})

	t.Run("deadline", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := c.Upload(ctx, req)
		require.Error(t, err)
		assert.Less(t, time.Since(start), 5*time.Second)
		assert.Equal(t, "Upload timed out", err.Error())
	})

	t.Run("already done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := c.Upload(ctx, req)
		require.Error(t, err)
		assert.Equal(t, "Upload cancelled", err.Error())
	})
}

type mockMinIO struct {
	mock.Mock
}

func (m *mockMinIO) PutObject(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (minio.UploadInfo, error) {
	args := m.Called(ctx, objectName, reader, size, contentType)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func (m *mockMinIO) PresignGetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *mockMinIO) RemoveObject(ctx context.Context, objectName string) error {
	return m.Called(ctx, objectName).Error(0)
}

func TestMinIOUpload(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mc := new(mockMinIO)
		mc.On("PutObject", ctx, mock.MatchedBy(func(name string) bool {
			return len(name) > len("video-uploads/") && name[len(name)-4:] == ".mp4"
		}), mock.Anything, int64(5), "video/mp4").Return(minio.UploadInfo{Size: 5}, nil)
		mc.On("PresignGetURL", ctx, mock.Anything, time.Hour).Return("http://minio/presigned", nil)

		res, err := NewMinIO(mc, time.Hour).Upload(ctx, domain.TransformReq{
			Kind: domain.AssetVideo, Folder: "video-uploads", FileName: "clip.MP4", ContentType: "video/mp4", Data: []byte("12345"),
		})
		require.NoError(t, err)
		assert.Contains(t, res.PublicID, "video-uploads/")
		assert.Equal(t, "http://minio/presigned", res.SecureURL)
		assert.Equal(t, int64(5), res.Bytes)
		mc.AssertExpectations(t)
	})

	t.Run("presign failure removes the object", func(t *testing.T) {
		mc := new(mockMinIO)
		mc.On("PutObject", ctx, mock.Anything, mock.Anything, int64(1), "application/octet-stream").Return(minio.UploadInfo{Size: 1}, nil)
		mc.On("PresignGetURL", ctx, mock.Anything, defaultPresignExpiry).Return("", errors.New("denied"))
		mc.On("RemoveObject", ctx, mock.Anything).Return(nil)

		_, err := NewMinIO(mc, 0).Upload(ctx, domain.TransformReq{Kind: domain.AssetImage, Data: []byte("x")})
		require.Error(t, err)
		assert.True(t, errprocess.Is(err, errprocess.UpstreamFailure))
		mc.AssertCalled(t, "RemoveObject", ctx, mock.Anything)
	})
}

func TestNew(t *testing.T) {
	tr, err := New(config.TransformerConfig{Driver: config.DriverCloudinary}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Cloudinary{}, tr)

	_, err = New(config.TransformerConfig{Driver: config.DriverMinIO}, nil)
	assert.Error(t, err)

	tr, err = New(config.TransformerConfig{Driver: config.DriverMinIO}, new(mockMinIO))
	require.NoError(t, err)
	assert.IsType(t, &MinIO{}, tr)

	_, err = New(config.TransformerConfig{Driver: "s3"}, nil)
	assert.Error(t, err)
}

func TestURLBuilder(t *testing.T) {
	b := NewURLBuilder("https://res.cloudinary.com/", "demo")
	square, _ := domain.FormatByLabel("Instagram Square (1:1)")

	assert.Equal(t,
		"https://res.cloudinary.com/demo/image/upload/c_fill,g_auto,w_1080,h_1080,ar_1:1/nextjs-cloudinary-uploads/cat",
		b.ImageFormatURL("nextjs-cloudinary-uploads/cat", square))
	assert.Equal(t,
		"https://res.cloudinary.com/demo/video/upload/w_400,h_225,c_fill,g_auto,q_auto,f_jpg/video-uploads/v1",
		b.VideoThumbnailURL("video-uploads/v1"))
	assert.Equal(t,
		"https://res.cloudinary.com/demo/video/upload/w_1920,h_1080/video-uploads/v1",
		b.VideoURL("video-uploads/v1"))
	assert.Equal(t,
		"https://res.cloudinary.com/demo/video/upload/e_preview:duration_15:max_seg_9:min_seg_dur_1/w_400,h_225/video-uploads/v1",
		b.VideoPreviewURL("video-uploads/v1"))
}
