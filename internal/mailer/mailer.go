// Package mailer delivers invite emails through Amazon SES.  When no
// sender address is configured the mailer runs disabled and logs the
// skipped sends, which keeps local development working without AWS
// credentials.
package mailer

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// Sender delivers an invite email carrying a one-time login link.
type Sender interface {
	SendInvite(ctx context.Context, toEmail, magicLink, inviteID string) error
}

// SESMailer sends through the SESv2 API.
type SESMailer struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	enabled   bool
}

// NewSESMailer builds the mailer.  An empty fromEmail yields a
// disabled instance that skips all sends.
func NewSESMailer(ctx context.Context, region, fromEmail, fromName string) (*SESMailer, error) {
	if fromEmail == "" {
		log.Println("mailer disabled: SES_FROM_EMAIL not configured")
		return &SESMailer{enabled: false}, nil
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	log.Printf("mailer enabled: from=%s region=%s", fromEmail, region)
	return &SESMailer{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   true,
	}, nil
}

// SendInvite renders the invite template and sends it to toEmail.
func (m *SESMailer) SendInvite(ctx context.Context, toEmail, magicLink, inviteID string) error {
	if !m.enabled {
		log.Printf("mailer disabled: skipping invite email to %s", toEmail)
		return nil
	}
	subject := "You're invited to ArbitrageOS"
	return m.send(ctx, toEmail, subject,
		inviteEmailHTML(magicLink, toEmail, inviteID),
		inviteEmailText(magicLink, inviteID))
}

func (m *SESMailer) send(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	from := m.fromEmail
	if m.fromName != "" {
		from = fmt.Sprintf("%s <%s>", m.fromName, m.fromEmail)
	}
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}
	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("send email to %s: %w", toEmail, err)
	}
	log.Printf("invite email sent: to=%s", toEmail)
	return nil
}
