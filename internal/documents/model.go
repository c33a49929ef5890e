package documents

import "time"

type ScanStatus string

const (
	ScanPending  ScanStatus = "pending"
	ScanClean    ScanStatus = "clean"
	ScanInfected ScanStatus = "infected"
	ScanFailed   ScanStatus = "failed"
)

// Document is one file slot inside a bundle. SizeBytes stays nil until the
// upload is confirmed.
type Document struct {
	ID            int64      `json:"id"`
	BundleID      int64      `json:"bundle_id"`
	Filename      string     `json:"filename"`
	ContentType   string     `json:"content_type"`
	Key           string     `json:"s3_key"`
	SizeBytes     *int64     `json:"size_bytes"`
	ScannedStatus ScanStatus `json:"scanned_status"`
	CreatedAt     time.Time  `json:"created_at"`
}
