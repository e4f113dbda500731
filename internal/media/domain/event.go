package domain

import "time"

const (
	//QueueName definition queue / topic name for upload events
	QueueName = "media.uploaded"

	//EventVideoUploaded a video record was persisted
	EventVideoUploaded = "video.uploaded"
)

// VideoUploadedEvent published after a video record is persisted
type VideoUploadedEvent struct {
	Type           string    `json:"type"`
	VideoID        string    `json:"video_id"`
	PublicID       string    `json:"public_id"`
	UserID         string    `json:"user_id"`
	CompressedSize string    `json:"compressed_size"`
	Duration       float64   `json:"duration"`
	OccurredAt     time.Time `json:"occurred_at"`
}
