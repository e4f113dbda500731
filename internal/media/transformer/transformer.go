package transformer

import (
	"context"
	"fmt"

	"media_upload_service/internal/media/domain"
	"media_upload_service/pkg/config"
	"media_upload_service/pkg/database"
)

// Transformer the remote service that stores and transforms uploaded media
type Transformer interface {
	Upload(ctx context.Context, req domain.TransformReq) (*domain.TransformResult, error)
}

// New build the Transformer selected by cfg.Driver, minio is only used by the minio driver
func New(cfg config.TransformerConfig, minio database.MinIOClientRepo) (Transformer, error) {
	switch cfg.Driver {
	case config.DriverCloudinary, "":
		return NewCloudinary(cfg), nil
	case config.DriverMinIO:
		if minio == nil {
			return nil, fmt.Errorf("transformer driver %q needs a minio client", cfg.Driver)
		}
		return NewMinIO(minio, cfg.MinIO.PresignExpiry), nil
	default:
		return nil, fmt.Errorf("unknown transformer driver %q", cfg.Driver)
	}
}
