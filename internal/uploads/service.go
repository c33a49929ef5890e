package uploads

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"scholarvalley-api/internal/audit"
	"scholarvalley-api/internal/shared/apperr"
	"scholarvalley-api/internal/shared/auth"
	"scholarvalley-api/internal/shared/metrics"
	"scholarvalley-api/internal/shared/storage/object"
	"scholarvalley-api/internal/shared/telemetry"
)

type Initiated struct {
	UploadURL   string `json:"upload_url"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
}

type Received struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	UserID int64  `json:"user_id"`
}

// Service coordinates uploads that are not tied to a bundle. Keys live
// under uploads/{user_id}/.
type Service struct {
	Store     object.Store
	Audit     audit.Recorder
	Metrics   metrics.Recorder
	UploadTTL time.Duration
	newID     func() string
}

func NewService(store object.Store, recorder audit.Recorder, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = object.DefaultUploadTTL
	}
	return &Service{
		Store:     store,
		Audit:     recorder,
		Metrics:   metrics.Noop{},
		UploadTTL: ttl,
		newID:     uuid.NewString,
	}
}

func keyPrefix(userID int64) string {
	return fmt.Sprintf("uploads/%d/", userID)
}

func (s *Service) Initiate(ctx context.Context, p auth.Principal, contentType, clientIP string) (Initiated, error) {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return Initiated{}, apperr.Unprocessable("content_type is required")
	}
	key := keyPrefix(p.UserID) + s.newID()

	url, err := s.Store.PresignPut(ctx, key, contentType, s.UploadTTL)
	if err != nil {
		telemetry.Error("uploads.presign.failed", map[string]any{
			"key":         key,
			"contentType": contentType,
			"err":         err,
		})
		return Initiated{}, apperr.Internal("Failed to generate presigned URL", err)
	}

	if err := s.Audit.Record(ctx, audit.Entry{
		UserID:       audit.Actor(p.UserID),
		Action:       "file_upload_initiated",
		ResourceType: "s3_object",
		ResourceID:   key,
		Metadata:     map[string]any{"content_type": contentType},
		IPAddress:    clientIP,
	}); err != nil {
		return Initiated{}, err
	}
	s.Metrics.Upload("adhoc", "initiated")
	return Initiated{UploadURL: url, Key: key, ContentType: contentType}, nil
}

// Complete checks storage for key. Callers may only confirm keys issued
// under their own prefix.
func (s *Service) Complete(ctx context.Context, p auth.Principal, key, clientIP string) (Received, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Received{}, apperr.Unprocessable("key is required")
	}
	if !strings.HasPrefix(key, keyPrefix(p.UserID)) {
		return Received{}, apperr.Forbidden("Not allowed")
	}

	info, err := s.Store.Head(ctx, key)
	if errors.Is(err, object.ErrObjectNotFound) {
		return Received{}, apperr.Validation("Uploaded object not found in S3")
	}
	if err != nil {
		telemetry.Error("uploads.head.failed", map[string]any{"key": key, "err": err})
		return Received{}, apperr.Internal("Error validating uploaded object", err)
	}

	if err := s.Audit.Record(ctx, audit.Entry{
		UserID:       audit.Actor(p.UserID),
		Action:       "file_upload_completed",
		ResourceType: "s3_object",
		ResourceID:   key,
		Metadata:     map[string]any{"size_bytes": info.Size},
		IPAddress:    clientIP,
	}); err != nil {
		return Received{}, err
	}
	s.Metrics.Upload("adhoc", "completed")
	return Received{Status: "received", Key: key, UserID: p.UserID}, nil
}
