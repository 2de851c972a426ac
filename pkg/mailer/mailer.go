/**
 * @description
 * Email delivery abstraction. The production implementation sends through
 * AWS SES; tests inject stub mailers. The dispatcher in internal/app is the
 * only caller, so every send already runs under a per-message timeout.
 *
 * @dependencies
 * - github.com/aws/aws-sdk-go-v2/config: AWS credential/region resolution.
 * - github.com/aws/aws-sdk-go-v2/service/ses: The SES API client.
 */

package mailer

import (
	"context"
	"errors"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Email is one outgoing message. Templates fill Subject and HTMLBody; the
// dispatcher fills To from the outbox row.
type Email struct {
	To       string
	Subject  string
	HTMLBody string
}

// Mailer sends a single email.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// SESMailer sends email through AWS SES.
type SESMailer struct {
	client *ses.Client
	from   string
}

// NewSESMailer creates an SES-backed mailer using the default AWS credential
// chain for the given region.
func NewSESMailer(ctx context.Context, region, from string) (*SESMailer, error) {
	from = strings.TrimSpace(from)
	if from == "" {
		return nil, errors.New("mailer: sender address is required")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SESMailer{client: ses.NewFromConfig(cfg), from: from}, nil
}

// Send delivers one email via the SES SendEmail API.
func (m *SESMailer) Send(ctx context.Context, email Email) error {
	if strings.TrimSpace(email.To) == "" {
		return errors.New("mailer: recipient is required")
	}

	utf8 := "UTF-8"
	_, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: &m.from,
		Destination: &types.Destination{
			ToAddresses: []string{email.To},
		},
		Message: &types.Message{
			Subject: &types.Content{Charset: &utf8, Data: &email.Subject},
			Body: &types.Body{
				Html: &types.Content{Charset: &utf8, Data: &email.HTMLBody},
			},
		},
	})
	return err
}
