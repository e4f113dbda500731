package domain

// TransformReq one upload forwarded to the transformation service
type TransformReq struct {
	Kind           AssetKind
	Folder         string
	Transformation string
	FileName       string
	ContentType    string
	Data           []byte
}

// TransformResult the parts of the service response this system keeps
type TransformResult struct {
	PublicID     string  `json:"public_id"`
	SecureURL    string  `json:"secure_url"`
	Bytes        int64   `json:"bytes"`
	Duration     float64 `json:"duration"`
	Format       string  `json:"format"`
	ResourceType string  `json:"resource_type"`
}

// VideoTransformation quality and container normalization applied to every video upload
const VideoTransformation = "q_auto/f_mp4"
