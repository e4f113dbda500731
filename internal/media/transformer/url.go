package transformer

import (
	"fmt"
	"strings"

	"media_upload_service/internal/media/domain"
)

const (
	thumbnailWidth  = 400
	thumbnailHeight = 225
	videoWidth      = 1920
	videoHeight     = 1080

	previewEffect = "e_preview:duration_15:max_seg_9:min_seg_dur_1"
)

// URLBuilder build delivery URLs for stored assets
type URLBuilder struct {
	DeliveryBaseURL string
	CloudName       string
}

// NewURLBuilder create URLBuilder
func NewURLBuilder(deliveryBaseURL, cloudName string) URLBuilder {
	return URLBuilder{DeliveryBaseURL: strings.TrimRight(deliveryBaseURL, "/"), CloudName: cloudName}
}

// ImageFormatURL fill-cropped, gravity-auto rendition of an image at the format's dimensions
func (b URLBuilder) ImageFormatURL(publicID string, f domain.OutputFormat) string {
	return b.build("image", fmt.Sprintf("c_fill,g_auto,w_%d,h_%d,ar_%s", f.Width, f.Height, f.AspectRatio), publicID)
}

// VideoThumbnailURL 400x225 jpg frame of a video
func (b URLBuilder) VideoThumbnailURL(publicID string) string {
	return b.build("video", fmt.Sprintf("w_%d,h_%d,c_fill,g_auto,q_auto,f_jpg", thumbnailWidth, thumbnailHeight), publicID)
}

// VideoURL full size 1920x1080 playback URL
func (b URLBuilder) VideoURL(publicID string) string {
	return b.build("video", fmt.Sprintf("w_%d,h_%d", videoWidth, videoHeight), publicID)
}

// VideoPreviewURL short hover preview at thumbnail size
func (b URLBuilder) VideoPreviewURL(publicID string) string {
	return b.build("video", fmt.Sprintf("%s/w_%d,h_%d", previewEffect, thumbnailWidth, thumbnailHeight), publicID)
}

func (b URLBuilder) build(resource, transformation, publicID string) string {
	return fmt.Sprintf("%s/%s/%s/upload/%s/%s", b.DeliveryBaseURL, b.CloudName, resource, transformation, publicID)
}
