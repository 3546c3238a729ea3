package connect

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ses"
)

// SESEmailSender sends plain-text transactional email through AWS SES.
type SESEmailSender struct {
	client *ses.SES
	from   string
}

func NewSESEmailSender(client *ses.SES, from string) *SESEmailSender {
	return &SESEmailSender{client: client, from: from}
}

func (s *SESEmailSender) Send(ctx context.Context, to, subject, body string) error {
	if s.client == nil {
		return fmt.Errorf("email client not configured")
	}

	input := &ses.SendEmailInput{
		Source: aws.String(s.from),
		Destination: &ses.Destination{
			ToAddresses: []*string{aws.String(to)},
		},
		Message: &ses.Message{
			Subject: &ses.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
			Body: &ses.Body{
				Text: &ses.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(body),
				},
			},
		},
	}

	if _, err := s.client.SendEmailWithContext(ctx, input); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}
