package documents

type initiateRequest struct {
	Filename    string `json:"filename" form:"filename"`
	ContentType string `json:"content_type" form:"content_type"`
}

type completeRequest struct {
	Key string `json:"key" form:"key"`
}

// Initiated is returned when an upload slot is reserved.
type Initiated struct {
	UploadURL   string `json:"upload_url"`
	Key         string `json:"key"`
	DocumentID  int64  `json:"document_id"`
	ContentType string `json:"content_type"`
}

type Completed struct {
	Status     string `json:"status"`
	DocumentID int64  `json:"document_id"`
}
