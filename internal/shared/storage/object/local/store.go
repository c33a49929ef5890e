package local

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"scholarvalley-api/internal/shared/server/respond"
	"scholarvalley-api/internal/shared/storage/object"
	"scholarvalley-api/internal/shared/telemetry"
)

// RoutePath is where the signed PUT endpoint is mounted.
const RoutePath = "/dev/objects"

var (
	errInvalidKey       = errors.New("invalid storage key")
	errInvalidSignature = errors.New("invalid or expired upload signature")
)

// Store implements object.Store on the local filesystem for development.
// Presigned URLs point back at this API's RoutePath and are HMAC-signed.
type Store struct {
	baseDir string
	baseURL string
	secret  []byte
	now     func() time.Time
}

// New creates a local store rooted at baseDir. baseURL is the externally
// reachable origin of the API, e.g. http://localhost:8000.
func New(baseDir, baseURL string, secret []byte) *Store {
	return &Store{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  secret,
		now:     time.Now,
	}
}

// PresignPut returns a signed URL accepted by Handler until ttl elapses.
func (s *Store) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := s.resolve(key); err != nil {
		return "", err
	}
	if ttl <= 0 {
		ttl = object.DefaultUploadTTL
	}
	expires := s.now().Add(ttl).Unix()
	q := url.Values{}
	q.Set("content_type", contentType)
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("signature", s.sign(key, contentType, expires))
	return s.baseURL + RoutePath + "/" + key + "?" + q.Encode(), nil
}

// Head stats the object on disk.
func (s *Store) Head(ctx context.Context, key string) (object.Info, error) {
	if err := ctx.Err(); err != nil {
		return object.Info{}, err
	}
	fullPath, err := s.resolve(key)
	if err != nil {
		return object.Info{}, err
	}
	fi, err := os.Stat(fullPath)
	if errors.Is(err, os.ErrNotExist) {
		return object.Info{}, object.ErrObjectNotFound
	}
	if err != nil {
		return object.Info{}, fmt.Errorf("stat object: %w", err)
	}
	return object.Info{Size: fi.Size()}, nil
}

// Put writes r at key.
func (s *Store) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	fullPath, err := s.resolve(key)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return 0, fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open file: %w", err)
	}

	written, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		return 0, fmt.Errorf("write body: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close file: %w", err)
	}
	return written, nil
}

// Verify checks a presigned URL's signature and expiry.
func (s *Store) Verify(key, contentType, expiresRaw, signature string) error {
	expires, err := strconv.ParseInt(expiresRaw, 10, 64)
	if err != nil {
		return errInvalidSignature
	}
	if s.now().Unix() > expires {
		return errInvalidSignature
	}
	want := s.sign(key, contentType, expires)
	if !hmac.Equal([]byte(want), []byte(signature)) {
		return errInvalidSignature
	}
	return nil
}

// Handler accepts signed PUT uploads at RoutePath/*key.
func (s *Store) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimPrefix(c.Param("key"), "/")
		contentType := c.Query("content_type")
		if err := s.Verify(key, contentType, c.Query("expires"), c.Query("signature")); err != nil {
			respond.Error(c, http.StatusForbidden, "forbidden", err.Error(), nil)
			return
		}
		if got := c.ContentType(); contentType != "" && got != "" && got != contentType {
			respond.Error(c, http.StatusBadRequest, "validation_error", "content type does not match signed upload", nil)
			return
		}
		size, err := s.Put(c.Request.Context(), key, c.Request.Body)
		if err != nil {
			telemetry.Error("local_store.put.failed", map[string]any{"key": key, "err": err})
			respond.Internal(c, err)
			return
		}
		telemetry.Info("local_store.put", map[string]any{"key": key, "size_bytes": size})
		c.Status(http.StatusOK)
	}
}

func (s *Store) sign(key, contentType string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s\n%s\n%d", key, contentType, expires)
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *Store) resolve(key string) (string, error) {
	clean := filepath.Clean(key)
	if key == "" || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", errInvalidKey
	}
	return filepath.Join(s.baseDir, clean), nil
}

var _ object.Store = (*Store)(nil)
