package documents

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"scholarvalley-api/internal/applicants"
	"scholarvalley-api/internal/audit"
	"scholarvalley-api/internal/shared/apperr"
	"scholarvalley-api/internal/shared/auth"
	"scholarvalley-api/internal/shared/metrics"
	"scholarvalley-api/internal/shared/storage/object"
	"scholarvalley-api/internal/shared/telemetry"
	"scholarvalley-api/internal/shared/util"
)

// BundleAuthorizer resolves a bundle and checks the caller owns it.
type BundleAuthorizer interface {
	AuthorizeBundle(ctx context.Context, p auth.Principal, bundleID int64) (applicants.Bundle, error)
}

type Service struct {
	Repo      Repo
	Bundles   BundleAuthorizer
	Store     object.Store
	Audit     audit.Recorder
	Metrics   metrics.Recorder
	UploadTTL time.Duration
	newID     func() string
}

func NewService(repo Repo, bundles BundleAuthorizer, store object.Store, recorder audit.Recorder, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = object.DefaultUploadTTL
	}
	return &Service{
		Repo:      repo,
		Bundles:   bundles,
		Store:     store,
		Audit:     recorder,
		Metrics:   metrics.Noop{},
		UploadTTL: ttl,
		newID:     uuid.NewString,
	}
}

// Initiate reserves a pending document in the bundle and returns a
// presigned PUT for it.
func (s *Service) Initiate(ctx context.Context, p auth.Principal, bundleID int64, filename, contentType, clientIP string) (Initiated, error) {
	contentType = strings.TrimSpace(contentType)
	if strings.TrimSpace(filename) == "" || contentType == "" {
		return Initiated{}, apperr.Unprocessable("filename and content_type are required")
	}
	safeName, err := util.SanitizeFileName(filename)
	if err != nil {
		return Initiated{}, apperr.Validation("Invalid filename")
	}

	bundle, err := s.Bundles.AuthorizeBundle(ctx, p, bundleID)
	if err != nil {
		return Initiated{}, err
	}

	key := fmt.Sprintf("documents/%d/%s/%s", bundle.ID, s.newID(), safeName)
	doc, err := s.Repo.Create(ctx, Document{
		BundleID:      bundle.ID,
		Filename:      filename,
		ContentType:   contentType,
		Key:           key,
		ScannedStatus: ScanPending,
	})
	if err != nil {
		return Initiated{}, err
	}

	url, err := s.Store.PresignPut(ctx, key, contentType, s.UploadTTL)
	if err != nil {
		telemetry.Error("documents.presign.failed", map[string]any{
			"bundle_id":   bundle.ID,
			"document_id": doc.ID,
			"key":         key,
			"err":         err,
		})
		return Initiated{}, apperr.Internal("Failed to generate presigned URL", err)
	}

	if err := s.Audit.Record(ctx, audit.Entry{
		UserID:       audit.Actor(p.UserID),
		Action:       "document_upload_initiated",
		ResourceType: "document",
		ResourceID:   strconv.FormatInt(doc.ID, 10),
		Metadata:     map[string]any{"bundle_id": bundle.ID, "filename": filename},
		IPAddress:    clientIP,
	}); err != nil {
		return Initiated{}, err
	}
	s.Metrics.Upload("document", "initiated")

	return Initiated{
		UploadURL:   url,
		Key:         key,
		DocumentID:  doc.ID,
		ContentType: contentType,
	}, nil
}

// Complete confirms the object behind key landed in storage and records
// its size on the document.
func (s *Service) Complete(ctx context.Context, p auth.Principal, documentID int64, key, clientIP string) (Completed, error) {
	if strings.TrimSpace(key) == "" {
		return Completed{}, apperr.Unprocessable("key is required")
	}
	doc, err := s.Repo.GetByID(ctx, documentID)
	if errors.Is(err, ErrNotFound) {
		return Completed{}, apperr.NotFound("Document not found")
	}
	if err != nil {
		return Completed{}, err
	}
	if doc.Key != key {
		return Completed{}, apperr.Validation("Key does not match document")
	}
	if _, err := s.Bundles.AuthorizeBundle(ctx, p, doc.BundleID); err != nil {
		return Completed{}, err
	}

	info, err := s.Store.Head(ctx, key)
	if errors.Is(err, object.ErrObjectNotFound) {
		return Completed{}, apperr.Validation("Uploaded file not found in storage")
	}
	if err != nil {
		telemetry.Error("documents.head.failed", map[string]any{
			"document_id": doc.ID,
			"key":         key,
			"err":         err,
		})
		return Completed{}, apperr.Internal("Error validating upload", err)
	}

	if err := s.Repo.SetSize(ctx, doc.ID, info.Size); err != nil {
		return Completed{}, err
	}
	if err := s.Audit.Record(ctx, audit.Entry{
		UserID:       audit.Actor(p.UserID),
		Action:       "document_upload_completed",
		ResourceType: "document",
		ResourceID:   strconv.FormatInt(doc.ID, 10),
		Metadata:     map[string]any{"size_bytes": info.Size},
		IPAddress:    clientIP,
	}); err != nil {
		return Completed{}, err
	}
	s.Metrics.Upload("document", "completed")

	return Completed{Status: "ok", DocumentID: doc.ID}, nil
}
