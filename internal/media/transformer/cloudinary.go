package transformer

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"media_upload_service/internal/media/domain"
	"media_upload_service/pkg/config"
	errprocess "media_upload_service/pkg/err"
	"media_upload_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Cloudinary signed upload client for the Cloudinary REST API
type Cloudinary struct {
	cloudName string
	apiKey    string
	apiSecret string
	baseURL   string
	timeout   time.Duration

	now func() time.Time
}

type agentResult struct {
	code int
	body []byte
	errs []error
}

type cloudinaryError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewCloudinary create Cloudinary from the transformer config
func NewCloudinary(cfg config.TransformerConfig) *Cloudinary {
	return &Cloudinary{
		cloudName: cfg.CloudName,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		baseURL:   strings.TrimRight(cfg.APIBaseURL, "/"),
		timeout:   cfg.Timeout,
		now:       time.Now,
	}
}

// Upload POST {base}/{cloud}/{image|video}/upload, one call bounded by the configured timeout
// and by ctx
func (c *Cloudinary) Upload(ctx context.Context, req domain.TransformReq) (*domain.TransformResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, contextFailure(err)
	}

	params := map[string]string{
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
	}
	if req.Folder != "" {
		params["folder"] = req.Folder
	}
	if req.Transformation != "" {
		params["transformation"] = req.Transformation
	}

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	for k, v := range params {
		args.Set(k, v)
	}
	args.Set("api_key", c.apiKey)
	args.Set("signature", Sign(params, c.apiSecret))

	fileName := req.FileName
	if fileName == "" {
		fileName = "upload"
	}

	agent := fiber.Post(c.uploadURL(req.Kind))
	agent.Timeout(c.callTimeout(ctx))
	agent.FileData(&fiber.FormFile{Fieldname: "file", Name: fileName, Content: req.Data})
	agent.MultipartForm(args)
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return nil, errprocess.Set(errprocess.UpstreamFailure, "Upload failed", err)
	}

	start := time.Now()
	done := make(chan agentResult, 1)
	go func() {
		code, body, errs := agent.Bytes()
		done <- agentResult{code: code, body: body, errs: errs}
	}()

	var code int
	var body []byte
	select {
	case <-ctx.Done():
		logger.Log.Warn("cloudinary upload abandoned", zap.String("kind", string(req.Kind)), zap.Error(ctx.Err()))
		return nil, contextFailure(ctx.Err())
	case r := <-done:
		if len(r.errs) > 0 {
			return nil, agentFailure(errors.Join(r.errs...))
		}
		code, body = r.code, r.body
	}

	logger.Log.Debug("cloudinary upload",
		zap.String("kind", string(req.Kind)),
		zap.Int("status", code),
		zap.Duration("elapsed", time.Since(start)),
	)

	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		var ce cloudinaryError
		msg := fmt.Sprintf("Upload failed with status %d", code)
		if json.Unmarshal(body, &ce) == nil && ce.Error.Message != "" {
			msg = ce.Error.Message
		}
		return nil, errprocess.Set(errprocess.UpstreamFailure, msg, nil)
	}

	var res domain.TransformResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, errprocess.Set(errprocess.UpstreamFailure, "Malformed upload response", err)
	}
	if res.PublicID == "" {
		return nil, errprocess.Set(errprocess.UpstreamFailure, "Upload response has no public_id", nil)
	}
	return &res, nil
}

// callTimeout configured timeout, shortened to the ctx deadline when that comes first
func (c *Cloudinary) callTimeout(ctx context.Context) time.Duration {
	timeout := c.timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); timeout <= 0 || left < timeout {
			timeout = left
		}
	}
	return timeout
}

func contextFailure(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errprocess.Set(errprocess.UpstreamFailure, "Upload timed out", err)
	}
	return errprocess.Set(errprocess.UpstreamFailure, "Upload cancelled", err)
}

func agentFailure(err error) error {
	if errors.Is(err, fasthttp.ErrTimeout) {
		return errprocess.Set(errprocess.UpstreamFailure, "Upload timed out", err)
	}
	return errprocess.Set(errprocess.UpstreamFailure, "Upload failed", err)
}

func (c *Cloudinary) uploadURL(kind domain.AssetKind) string {
	resource := "image"
	if kind == domain.AssetVideo {
		resource = "video"
	}
	return fmt.Sprintf("%s/%s/%s/upload", c.baseURL, c.cloudName, resource)
}

// Sign hex sha1 of the params sorted by key as k=v&k=v followed by the api secret
func Sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}
