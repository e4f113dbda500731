package transformer

import (
	"bytes"
	"context"
	"path"
	"path/filepath"
	"strings"
	"time"

	"media_upload_service/internal/media/domain"
	"media_upload_service/pkg/database"
	errprocess "media_upload_service/pkg/err"

	"github.com/google/uuid"
)

const defaultPresignExpiry = 24 * time.Hour

// MinIO development backend: stores the original under folder/<uuid> and answers with a presigned URL.
// Nothing is transformed, Bytes is the stored size and Duration stays 0.
type MinIO struct {
	client database.MinIOClientRepo
	expiry time.Duration
}

// NewMinIO create MinIO backed Transformer
func NewMinIO(client database.MinIOClientRepo, expiry time.Duration) *MinIO {
	if expiry <= 0 {
		expiry = defaultPresignExpiry
	}
	return &MinIO{client: client, expiry: expiry}
}

// Upload put the payload into the bucket
func (m *MinIO) Upload(ctx context.Context, req domain.TransformReq) (*domain.TransformResult, error) {
	publicID := path.Join(req.Folder, uuid.NewString())
	objectName := publicID + strings.ToLower(filepath.Ext(req.FileName))

	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	info, err := m.client.PutObject(ctx, objectName, bytes.NewReader(req.Data), int64(len(req.Data)), contentType)
	if err != nil {
		return nil, errprocess.Set(errprocess.UpstreamFailure, "Upload failed", err)
	}

	url, err := m.client.PresignGetURL(ctx, objectName, m.expiry)
	if err != nil {
		// 已上傳的 object 沒有可用的 URL，刪除避免殘留
		_ = m.client.RemoveObject(ctx, objectName)
		return nil, errprocess.Set(errprocess.UpstreamFailure, "Upload failed", err)
	}

	return &domain.TransformResult{
		PublicID:     publicID,
		SecureURL:    url,
		Bytes:        info.Size,
		Format:       strings.TrimPrefix(filepath.Ext(req.FileName), "."),
		ResourceType: string(req.Kind),
	}, nil
}
