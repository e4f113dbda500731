package domain

import (
	"io"
	"math"
	"strconv"
	"time"
)

// AssetKind definition what is uploaded
type AssetKind string

const (
	//AssetImage image upload
	AssetImage AssetKind = "image"
	//AssetVideo video upload
	AssetVideo AssetKind = "video"
)

// UploadMessage answered after a video is persisted
const UploadMessage = "Video uploaded successfully"

// Video 定義影片模型, created once per successful video upload and read-only afterwards
type Video struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title          string    `gorm:"not null;default:''" json:"title"`
	Description    string    `gorm:"not null;default:''" json:"description"`
	PublicID       string    `gorm:"uniqueIndex;not null" json:"publicId"`
	OriginalSize   string    `gorm:"not null;default:''" json:"originalSize"`
	CompressedSize string    `gorm:"not null;default:''" json:"compressedSize"`
	Duration       float64   `gorm:"not null;default:0" json:"duration"`
	CreatedAt      time.Time `gorm:"index" json:"createdAt"`
}

// CompressionPercentage round((1 - compressed/original) * 100), 0 when a size is unknown
func (v Video) CompressionPercentage() int {
	original, err := strconv.ParseFloat(v.OriginalSize, 64)
	if err != nil || original <= 0 {
		return 0
	}
	compressed, err := strconv.ParseFloat(v.CompressedSize, 64)
	if err != nil {
		return 0
	}
	return int(math.Round((1 - compressed/original) * 100))
}

// UploadImageReq usecase upload image request
type UploadImageReq struct {
	FileName     string
	ContentType  string
	DeclaredSize int64
	File         io.Reader
}

// UploadImageRes usecase upload image response
type UploadImageRes struct {
	PublicID string `json:"publicId"`
	URL      string `json:"url,omitempty"`
}

// UploadVideoReq usecase upload video request
type UploadVideoReq struct {
	Title        string
	Description  string
	OriginalSize string
	FileName     string
	ContentType  string
	DeclaredSize int64
	File         io.Reader
}

// UploadVideoRes usecase upload video response
type UploadVideoRes struct {
	Message      string `json:"message"`
	Video        Video  `json:"video"`
	SizeVerified bool   `json:"sizeVerified"`
}
