package handlers

import (
	"mime/multipart"
	"net/http"

	"media_upload_service/internal/media/app"
	"media_upload_service/internal/media/domain"
	errprocess "media_upload_service/pkg/err"
	"media_upload_service/pkg/logger"
	"media_upload_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	errMissingCredentials = "Missing Cloudinary credentials"
	errNoFile             = "No file uploaded"
)

// MediaHandler media upload / listing handler
type MediaHandler struct {
	Usecase app.MediaUseCase
	// HasCredentials false when the transformation service credentials are not configured
	HasCredentials bool
}

// NewMediaHandler create media handler
func NewMediaHandler(usecase app.MediaUseCase, hasCredentials bool) *MediaHandler {
	return &MediaHandler{
		Usecase:        usecase,
		HasCredentials: hasCredentials,
	}
}

// UploadImage godoc
// @Summary Upload an image
// @Description Forwards the image to the transformation service and returns its public id
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image File"
// @Success 200 {object} domain.UploadImageRes "Upload success response"
// @Failure 400 {object} ErrorResponse "No file uploaded"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Upload failed"
// @Router /api/image-upload [post]
func (h *MediaHandler) UploadImage(c *fiber.Ctx) error {
	if !h.HasCredentials {
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{Error: errMissingCredentials})
	}

	fileHeader, file, err := openFormFile(c)
	if err != nil {
		return sendError(c, err)
	}
	defer file.Close()

	res, err := h.Usecase.UploadImage(c.UserContext(), domain.UploadImageReq{
		FileName:     fileHeader.Filename,
		ContentType:  fileHeader.Header.Get(fiber.HeaderContentType),
		DeclaredSize: fileHeader.Size,
		File:         file,
	})
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(res)
}

// UploadVideo godoc
// @Summary Upload a video
// @Description Forwards the video to the transformation service, then stores its metadata
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Video File"
// @Param title formData string false "Video Title"
// @Param description formData string false "Video Description"
// @Param originalSize formData string false "Original size in bytes"
// @Success 200 {object} domain.UploadVideoRes "Upload success response"
// @Failure 400 {object} ErrorResponse "No file uploaded"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Upload failed"
// @Router /api/video-upload [post]
func (h *MediaHandler) UploadVideo(c *fiber.Ctx) error {
	if !h.HasCredentials {
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{Error: errMissingCredentials})
	}

	fileHeader, file, err := openFormFile(c)
	if err != nil {
		return sendError(c, err)
	}
	defer file.Close()

	res, err := h.Usecase.UploadVideo(c.UserContext(), middlewares.UserID(c), domain.UploadVideoReq{
		Title:        c.FormValue("title"),
		Description:  c.FormValue("description"),
		OriginalSize: c.FormValue("originalSize"),
		FileName:     fileHeader.Filename,
		ContentType:  fileHeader.Header.Get(fiber.HeaderContentType),
		DeclaredSize: fileHeader.Size,
		File:         file,
	})
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(res)
}

// ListVideos godoc
// @Summary List videos
// @Description All stored videos, newest first
// @Tags Media
// @Produce json
// @Success 200 {array} domain.Video "Videos"
// @Failure 500 {object} ErrorResponse "Failed to fetch videos"
// @Router /api/videos [get]
func (h *MediaHandler) ListVideos(c *fiber.Ctx) error {
	videos, err := h.Usecase.ListVideos(c.UserContext())
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(videos)
}

func openFormFile(c *fiber.Ctx) (*multipart.FileHeader, multipart.File, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil || fileHeader.Size == 0 {
		return nil, nil, errprocess.New(errprocess.BadInput, errNoFile)
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Log.Error("open uploaded file failed", zap.String("fileName", fileHeader.Filename), zap.Error(err))
		return nil, nil, errprocess.New(errprocess.BadInput, errNoFile)
	}
	return fileHeader, file, nil
}
