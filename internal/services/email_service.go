package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Mailer sends an HTML email to a list of recipients
type Mailer interface {
	Send(ctx context.Context, recipients []string, subject, htmlBody string) error
}

// SESAPI is the subset of the SES client used by SESMailer
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESMailer sends emails using AWS SES
type SESMailer struct {
	client      SESAPI
	fromAddress string
	logger      *slog.Logger
}

// NewSESMailer creates a new SES mailer
func NewSESMailer(client SESAPI, fromAddress string, logger *slog.Logger) *SESMailer {
	return &SESMailer{
		client:      client,
		fromAddress: fromAddress,
		logger:      logger,
	}
}

// Send delivers one message addressed to all recipients
func (m *SESMailer) Send(ctx context.Context, recipients []string, subject, htmlBody string) error {
	if m.fromAddress == "" {
		return fmt.Errorf("email sender address not configured")
	}
	if len(recipients) == 0 {
		return fmt.Errorf("no recipients")
	}

	input := &ses.SendEmailInput{
		Source: aws.String(m.fromAddress),
		Destination: &types.Destination{
			ToAddresses: recipients,
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data:    aws.String(htmlBody),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	result, err := m.client.SendEmail(ctx, input)
	if err != nil {
		m.logger.Error("failed to send email via SES",
			slog.Int("recipients", len(recipients)),
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Info("email sent",
		slog.Int("recipients", len(recipients)),
		slog.String("message_id", aws.ToString(result.MessageId)))

	return nil
}
