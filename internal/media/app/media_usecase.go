package app

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"media_upload_service/internal/media/domain"
	"media_upload_service/internal/media/repository"
	"media_upload_service/internal/media/transformer"
	errprocess "media_upload_service/pkg/err"
	"media_upload_service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MediaUseCase 這裡封裝了對外提供的應用服務
type MediaUseCase interface {
	UploadImage(ctx context.Context, up domain.UploadImageReq) (*domain.UploadImageRes, error)
	UploadVideo(ctx context.Context, userID string, up domain.UploadVideoReq) (*domain.UploadVideoRes, error)
	ListVideos(ctx context.Context) ([]domain.Video, error)
}

// Folders destination folders on the transformation service
type Folders struct {
	Image string
	Video string
}

type mediaUseCase struct {
	Transformer transformer.Transformer
	VideoRepo   repository.VideoRepo
	Publisher   EventPublisher
	Folders     Folders
}

// NewMediaUseCase 建立一個新的 MediaUseCase, a nil publisher disables events
func NewMediaUseCase(t transformer.Transformer, repo repository.VideoRepo, publisher EventPublisher, folders Folders) MediaUseCase {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &mediaUseCase{
		Transformer: t,
		VideoRepo:   repo,
		Publisher:   publisher,
		Folders:     folders,
	}
}

// 讓 test 可以固定 id 與時間
var (
	newID = uuid.NewString
	now   = time.Now
)

// UploadImage forward the image and pass the identifier through untouched
func (s *mediaUseCase) UploadImage(ctx context.Context, up domain.UploadImageReq) (*domain.UploadImageRes, error) {
	data, err := readPayload(up.File)
	if err != nil {
		return nil, err
	}
	if up.DeclaredSize > 0 && int64(len(data)) != up.DeclaredSize {
		logger.Log.Warn("image payload size mismatch",
			zap.String("fileName", up.FileName),
			zap.Int64("declared", up.DeclaredSize),
			zap.Int("received", len(data)),
		)
	}

	res, err := s.Transformer.Upload(ctx, domain.TransformReq{
		Kind:        domain.AssetImage,
		Folder:      s.Folders.Image,
		FileName:    up.FileName,
		ContentType: up.ContentType,
		Data:        data,
	})
	if err != nil {
		return nil, err
	}

	return &domain.UploadImageRes{PublicID: res.PublicID, URL: res.SecureURL}, nil
}

// UploadVideo 上傳影片到轉換服務，成功後才寫入資料庫，最後發布事件
func (s *mediaUseCase) UploadVideo(ctx context.Context, userID string, up domain.UploadVideoReq) (*domain.UploadVideoRes, error) {
	data, err := readPayload(up.File)
	if err != nil {
		return nil, err
	}
	verified := verifySize(up, int64(len(data)))

	res, err := s.Transformer.Upload(ctx, domain.TransformReq{
		Kind:           domain.AssetVideo,
		Folder:         s.Folders.Video,
		Transformation: domain.VideoTransformation,
		FileName:       up.FileName,
		ContentType:    up.ContentType,
		Data:           data,
	})
	if err != nil {
		return nil, err
	}
	if res == nil || res.PublicID == "" {
		return nil, errprocess.Set(errprocess.UpstreamFailure, "Upload response has no public_id", nil)
	}

	video := domain.Video{
		ID:             newID(),
		Title:          up.Title,
		Description:    up.Description,
		PublicID:       res.PublicID,
		OriginalSize:   up.OriginalSize,
		CompressedSize: strconv.FormatInt(res.Bytes, 10),
		Duration:       res.Duration,
		CreatedAt:      now().UTC(),
	}

	if err := s.VideoRepo.Create(ctx, &video); err != nil {
		errMsg := fmt.Sprintf("publicId[%s] 資料庫建立影片失敗", res.PublicID)
		return nil, errprocess.Set(errprocess.PersistenceFailure, errMsg, err)
	}

	s.publish(ctx, userID, video)

	return &domain.UploadVideoRes{
		Message:      domain.UploadMessage,
		Video:        video,
		SizeVerified: verified,
	}, nil
}

// ListVideos all video records, newest first
func (s *mediaUseCase) ListVideos(ctx context.Context) ([]domain.Video, error) {
	videos, err := s.VideoRepo.ListRecent(ctx)
	if err != nil {
		return nil, errprocess.Set(errprocess.PersistenceFailure, "Failed to fetch videos", err)
	}
	if videos == nil {
		videos = []domain.Video{}
	}
	return videos, nil
}

// publish best effort, the record stays even when the broker is down
func (s *mediaUseCase) publish(ctx context.Context, userID string, video domain.Video) {
	event := domain.VideoUploadedEvent{
		Type:           domain.EventVideoUploaded,
		VideoID:        video.ID,
		PublicID:       video.PublicID,
		UserID:         userID,
		CompressedSize: video.CompressedSize,
		Duration:       video.Duration,
		OccurredAt:     video.CreatedAt,
	}
	if err := s.Publisher.PublishVideoUploaded(ctx, event); err != nil {
		logger.Log.Warn("publish video uploaded event failed",
			zap.String("videoID", video.ID),
			zap.Error(err),
		)
	}
}

func readPayload(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, errprocess.New(errprocess.BadInput, "No file uploaded")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errprocess.Set(errprocess.BadInput, "Failed to read uploaded file", err)
	}
	if len(data) == 0 {
		return nil, errprocess.New(errprocess.BadInput, "No file uploaded")
	}
	return data, nil
}

// verifySize compare the bytes received with the multipart header size and the declared originalSize
func verifySize(up domain.UploadVideoReq, received int64) bool {
	verified := true
	if up.DeclaredSize > 0 && up.DeclaredSize != received {
		verified = false
	}
	if declared, err := strconv.ParseInt(up.OriginalSize, 10, 64); err == nil && declared != received {
		verified = false
	}
	if !verified {
		logger.Log.Warn("video payload size mismatch",
			zap.String("fileName", up.FileName),
			zap.Int64("headerSize", up.DeclaredSize),
			zap.String("originalSize", up.OriginalSize),
			zap.Int64("received", received),
		)
	}
	return verified
}
