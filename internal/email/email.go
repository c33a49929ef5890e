package email

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"scholarvalley-api/internal/shared/telemetry"
)

// Sender delivers transactional mail. Callers treat delivery as best effort.
type Sender interface {
	Send(ctx context.Context, to []string, subject, html string) error
}

// API is the subset of the SES v2 client the sender uses.
type API interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type SES struct {
	client API
	from   string
}

// NewSES builds an SES sender using the default AWS credential chain.
func NewSES(ctx context.Context, region, from string) (*SES, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SES{client: sesv2.NewFromConfig(cfg), from: from}, nil
}

// NewSESWithClient wraps an existing client.
func NewSESWithClient(client API, from string) *SES {
	return &SES{client: client, from: from}
}

// Send is a no-op when no sender address is configured or there are no
// recipients.
func (s *SES) Send(ctx context.Context, to []string, subject, html string) error {
	if s.from == "" || len(to) == 0 {
		return nil
	}
	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination:      &types.Destination{ToAddresses: to},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(html), Charset: aws.String("UTF-8")},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send email: %w", err)
	}
	return nil
}

// Noop discards every message.
type Noop struct{}

func (Noop) Send(context.Context, []string, string, string) error { return nil }

// SendBestEffort sends and logs failure instead of returning it.
func SendBestEffort(ctx context.Context, s Sender, to []string, subject, html string) {
	if s == nil {
		return
	}
	if err := s.Send(ctx, to, subject, html); err != nil {
		telemetry.Warn("email.send.failed", map[string]any{
			"recipients": len(to),
			"subject":    subject,
			"err":        err,
		})
	}
}
