package uploadclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"media_upload_service/internal/media/domain"
	errprocess "media_upload_service/pkg/err"
)

const (
	// DefaultMaxVideoSize largest video accepted locally, 50 MiB
	DefaultMaxVideoSize int64 = 50 * 1024 * 1024

	imageUploadPath = "/api/image-upload"
	videoUploadPath = "/api/video-upload"
	videosPath      = "/api/videos"

	msgFileTooLarge = "File size too large"
)

var (
	// ErrEmptyFile no file or a zero byte file was selected
	ErrEmptyFile = errprocess.New(errprocess.BadInput, "No file selected")
	// ErrUploadInFlight a submit is already running on the form
	ErrUploadInFlight = errors.New("upload already in progress")
)

// File a local file, Open is called once per attempt
type File struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// FileFromPath stat path and open it lazily
func FileFromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}
	return File{
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
		Open:        func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// FileFromBytes in memory file
func FileFromBytes(name, contentType string, data []byte) File {
	return File{
		Name:        name,
		Size:        int64(len(data)),
		ContentType: contentType,
		Open:        func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// Metadata optional video fields
type Metadata struct {
	Title       string
	Description string
}

// Result decoded upload response, PublicID is filled for both kinds
type Result struct {
	PublicID     string        `json:"publicId"`
	URL          string        `json:"url,omitempty"`
	Message      string        `json:"message,omitempty"`
	Video        *domain.Video `json:"video,omitempty"`
	SizeVerified bool          `json:"sizeVerified"`
}

// ProgressFunc receive upload progress in percent
type ProgressFunc func(percent int)

// Client talks to the media upload endpoints
type Client struct {
	baseURL      string
	token        string
	maxVideoSize int64
	httpClient   *http.Client
}

// Option configure Client
type Option func(*Client)

// WithHTTPClient replace the default http client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMaxVideoSize replace the local video size limit
func WithMaxVideoSize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxVideoSize = n
		}
	}
}

// New create Client, token is the session token sent as bearer
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		token:        token,
		maxVideoSize: DefaultMaxVideoSize,
		httpClient:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SubmitUpload stream file as multipart to the endpoint of kind.
// Empty and oversized files are rejected before any network I/O.
func (c *Client) SubmitUpload(ctx context.Context, file File, kind domain.AssetKind, meta Metadata, onProgress ProgressFunc) (*Result, error) {
	if file.Open == nil || file.Size <= 0 {
		return nil, ErrEmptyFile
	}
	if kind == domain.AssetVideo && file.Size > c.maxVideoSize {
		return nil, errprocess.New(errprocess.BadInput, msgFileTooLarge)
	}

	path := imageUploadPath
	fields := map[string]string{}
	if kind == domain.AssetVideo {
		path = videoUploadPath
		fields["title"] = meta.Title
		fields["description"] = meta.Description
		fields["originalSize"] = strconv.FormatInt(file.Size, 10)
	}

	src, err := file.Open()
	if err != nil {
		return nil, errprocess.New(errprocess.BadInput, fmt.Sprintf("open %s: %v", file.Name, err))
	}
	defer src.Close()

	progress := newProgress(file.Size, onProgress)
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeMultipart(mw, fields, file, &countingReader{r: src, onRead: progress.add}))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, pr)
	if err != nil {
		pr.Close()
		return nil, errprocess.New(errprocess.ClientNetworkFailure, err.Error())
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		pr.Close()
		return nil, &errprocess.AppError{Kind: errprocess.ClientNetworkFailure, Message: "Upload failed", Err: err}
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	var res Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, &errprocess.AppError{Kind: errprocess.UpstreamFailure, Message: "Malformed upload response", Err: err}
	}
	if res.PublicID == "" && res.Video != nil {
		res.PublicID = res.Video.PublicID
	}
	progress.done()
	return &res, nil
}

// ListVideos GET /api/videos
func (c *Client) ListVideos(ctx context.Context) ([]domain.Video, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+videosPath, nil)
	if err != nil {
		return nil, errprocess.New(errprocess.ClientNetworkFailure, err.Error())
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &errprocess.AppError{Kind: errprocess.ClientNetworkFailure, Message: "Failed to fetch videos", Err: err}
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	videos := make([]domain.Video, 0)
	if err := json.NewDecoder(resp.Body).Decode(&videos); err != nil {
		return nil, &errprocess.AppError{Kind: errprocess.UpstreamFailure, Message: "Malformed videos response", Err: err}
	}
	return videos, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func writeMultipart(mw *multipart.Writer, fields map[string]string, file File, src io.Reader) error {
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(file.Name)))
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, src); err != nil {
		return err
	}
	return mw.Close()
}

// checkResponse turn a non 2xx answer into an error carrying the server's {error} message
func checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	msg := http.StatusText(resp.StatusCode)
	var body struct {
		Error string `json:"error"`
	}
	if raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)); err == nil {
		if json.Unmarshal(raw, &body) == nil && body.Error != "" {
			msg = body.Error
		}
	}

	kind := errprocess.UpstreamFailure
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		kind = errprocess.Unauthorized
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		kind = errprocess.BadInput
	}
	return errprocess.New(kind, msg)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
