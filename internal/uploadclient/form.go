package uploadclient

import (
	"context"
	"sync"

	"media_upload_service/internal/media/domain"
	errprocess "media_upload_service/pkg/err"
)

const (
	msgVideoUploaded = "Video uploaded successfully"
	msgVideoFailed   = "Failed to upload video"
	msgUploadFailed  = "Upload failed"
)

// Form holds one pending upload, a failed submit keeps every field so it can be retried
type Form struct {
	mu     sync.Mutex
	client *Client
	kind   domain.AssetKind

	file         *File
	title        string
	description  string
	uploading    bool
	progress     int
	notification string
}

// NewForm create an empty Form uploading kind through client
func NewForm(client *Client, kind domain.AssetKind) *Form {
	return &Form{client: client, kind: kind}
}

// SetFile select the file to upload
func (f *Form) SetFile(file File) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.file = &file
}

// SetMetadata set video title and description
func (f *Form) SetMetadata(title, description string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.title = title
	f.description = description
}

// Submit upload the selected file. A second Submit while one is running fails with ErrUploadInFlight.
func (f *Form) Submit(ctx context.Context, onProgress ProgressFunc) (*Result, error) {
	f.mu.Lock()
	if f.uploading {
		f.mu.Unlock()
		return nil, ErrUploadInFlight
	}
	if f.file == nil {
		f.mu.Unlock()
		return nil, ErrEmptyFile
	}
	file := *f.file
	meta := Metadata{Title: f.title, Description: f.description}
	f.uploading = true
	f.progress = 0
	f.notification = ""
	f.mu.Unlock()

	res, err := f.client.SubmitUpload(ctx, file, f.kind, meta, func(p int) {
		f.mu.Lock()
		f.progress = p
		f.mu.Unlock()
		if onProgress != nil {
			onProgress(p)
		}
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploading = false

	if err != nil {
		f.notification = f.failureMessage(err)
		return nil, err
	}

	f.file = nil
	f.title = ""
	f.description = ""
	if f.kind == domain.AssetVideo {
		f.notification = msgVideoUploaded
	}
	return res, nil
}

func (f *Form) failureMessage(err error) string {
	if errprocess.Is(err, errprocess.BadInput) {
		return err.Error()
	}
	if f.kind == domain.AssetVideo {
		return msgVideoFailed
	}
	return msgUploadFailed
}

// IsUploading true while Submit runs
func (f *Form) IsUploading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.uploading
}

// Progress last reported percentage
func (f *Form) Progress() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.progress
}

// Notification user visible outcome of the last Submit
func (f *Form) Notification() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notification
}

// Fields current file name, title and description
func (f *Form) Fields() (fileName, title, description string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.file != nil {
		fileName = f.file.Name
	}
	return fileName, f.title, f.description
}
