package s3

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"scholarvalley-api/internal/shared/storage/object"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "documents/1/abc/transcript.pdf", want: "documents/1/abc/transcript.pdf"},
		{name: "simple prefix", prefix: "prod", key: "uploads/7/abc", want: "prod/uploads/7/abc"},
		{name: "prefix and key slashes", prefix: "/prod/", key: "/uploads/7/abc", want: "prod/uploads/7/abc"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

type fakeHead struct {
	out *s3.HeadObjectOutput
	err error
	key string
}

func (f *fakeHead) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.key = aws.ToString(in.Key)
	return f.out, f.err
}

type fakePresign struct {
	expires time.Duration
	input   *s3.PutObjectInput
	err     error
}

func (f *fakePresign) PresignPutObject(_ context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (string, error) {
	opts := s3.PresignOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	f.expires = opts.Expires
	f.input = in
	if f.err != nil {
		return "", f.err
	}
	return "https://bucket.s3.amazonaws.com/" + aws.ToString(in.Key) + "?X-Amz-Signature=abc", nil
}

func TestPresignPutUsesTTLAndContentType(t *testing.T) {
	p := &fakePresign{}
	store := &Store{client: &fakeHead{}, presign: p, bucket: "sv-docs"}

	url, err := store.PresignPut(context.Background(), "uploads/7/abc", "application/pdf", 0)
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	if url == "" {
		t.Fatalf("expected url")
	}
	if p.expires != object.DefaultUploadTTL {
		t.Fatalf("expected default ttl, got %s", p.expires)
	}
	if aws.ToString(p.input.ContentType) != "application/pdf" || aws.ToString(p.input.Bucket) != "sv-docs" {
		t.Fatalf("unexpected input %+v", p.input)
	}
}

func TestPresignPutWrapsError(t *testing.T) {
	cause := errors.New("credentials expired")
	store := &Store{client: &fakeHead{}, presign: &fakePresign{err: cause}, bucket: "sv-docs"}
	if _, err := store.PresignPut(context.Background(), "k", "text/plain", time.Minute); !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestHeadReportsSize(t *testing.T) {
	head := &fakeHead{out: &s3.HeadObjectOutput{ContentLength: aws.Int64(2048), ContentType: aws.String("application/pdf")}}
	store := &Store{client: head, presign: &fakePresign{}, bucket: "sv-docs", prefix: "prod"}

	info, err := store.Head(context.Background(), "documents/1/x/a.pdf")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if info.Size != 2048 || info.ContentType != "application/pdf" {
		t.Fatalf("unexpected info %+v", info)
	}
	if head.key != "prod/documents/1/x/a.pdf" {
		t.Fatalf("unexpected key %q", head.key)
	}
}

func TestHeadMapsNotFound(t *testing.T) {
	notFound404 := &awshttp.ResponseError{
		ResponseError: &smithyhttp.ResponseError{
			Response: &smithyhttp.Response{Response: &http.Response{StatusCode: http.StatusNotFound}},
			Err:      errors.New("not found"),
		},
	}
	forbidden := &awshttp.ResponseError{
		ResponseError: &smithyhttp.ResponseError{
			Response: &smithyhttp.Response{Response: &http.Response{StatusCode: http.StatusForbidden}},
			Err:      errors.New("access denied"),
		},
	}

	cases := []struct {
		name     string
		err      error
		notFound bool
	}{
		{name: "typed", err: &s3types.NotFound{}, notFound: true},
		{name: "http 404", err: notFound404, notFound: true},
		{name: "http 403", err: forbidden, notFound: false},
		{name: "network", err: errors.New("dial tcp: timeout"), notFound: false},
	}
	for _, tc := range cases {
		store := &Store{client: &fakeHead{err: tc.err}, presign: &fakePresign{}, bucket: "sv-docs"}
		_, err := store.Head(context.Background(), "k")
		if got := errors.Is(err, object.ErrObjectNotFound); got != tc.notFound {
			t.Fatalf("%s: not found = %v, want %v (err=%v)", tc.name, got, tc.notFound, err)
		}
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestSDKPresignPutURL(t *testing.T) {
	cfg := aws.Config{
		Region:      "us-east-1",
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider("AKID", "SECRET", "")),
	}
	client := s3.NewFromConfig(cfg)
	store := &Store{client: client, presign: sdkPresigner{client: s3.NewPresignClient(client)}, bucket: "sv-docs"}

	raw, err := store.PresignPut(context.Background(), "uploads/7/abc", "application/pdf", 0)
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	q := parsed.Query()
	if q.Get("X-Amz-Expires") != "900" {
		t.Fatalf("expected 900s expiry, got %q", q.Get("X-Amz-Expires"))
	}
	if !strings.HasSuffix(parsed.Path, "/uploads/7/abc") {
		t.Fatalf("expected key in path, got %q", parsed.Path)
	}
	signed := q.Get("X-Amz-SignedHeaders")
	if !strings.Contains(signed, "host") {
		t.Fatalf("unexpected signed headers %q", signed)
	}
	if strings.Contains(signed, "content-length") {
		t.Fatalf("content-length must not be signed: %q", signed)
	}
}
