package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESAPI is the subset of the SES client used by SESSender.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESSender sends through Amazon SES.
type SESSender struct {
	client SESAPI
	from   string
}

// NewSESSender loads the default AWS config for region.
func NewSESSender(ctx context.Context, region, from string) (*SESSender, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewSESSenderWithClient(ses.NewFromConfig(cfg), from), nil
}

// NewSESSenderWithClient wraps an existing SES client.
func NewSESSenderWithClient(client SESAPI, from string) *SESSender {
	if strings.TrimSpace(from) == "" {
		from = DefaultFrom
	}
	return &SESSender{client: client, from: from}
}

// Send delivers msg via SES.
func (s *SESSender) Send(ctx context.Context, msg Message) Result {
	if err := validate(msg); err != nil {
		return failed(err)
	}
	out, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(s.from),
		Destination: &sestypes.Destination{ToAddresses: []string{msg.To}},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
			Body: &sestypes.Body{
				Html: &sestypes.Content{Data: aws.String(msg.HTML), Charset: aws.String("UTF-8")},
			},
		},
	})
	if err != nil {
		return failed(fmt.Errorf("ses send: %w", err))
	}
	return Result{Success: true, ID: aws.ToString(out.MessageId)}
}
