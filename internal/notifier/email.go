package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	config "github.com/Keoroanthony/go-storefront/configs"
	"github.com/Keoroanthony/go-storefront/internal/events"
)

var (
	ErrNoSender    = errors.New("sender email address is not configured")
	ErrNoRecipient = errors.New("recipient email address is empty")
)

// SESAPI is the part of the SES client the email notifier uses.
type SESAPI interface {
	SendEmail(ctx context.Context, in *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type Email struct {
	client SESAPI
	sender string
}

// NewEmail builds an SES backed notifier. Static credentials are used when
// configured, the default AWS chain otherwise.
func NewEmail(ctx context.Context, cfg config.EmailConfig) (*Email, error) {
	const op = "notifier.NewEmail"

	if cfg.SenderEmail == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNoSender)
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to load AWS SDK config: %w", op, err)
	}
	return NewEmailWithClient(ses.NewFromConfig(awsCfg), cfg.SenderEmail), nil
}

func NewEmailWithClient(client SESAPI, sender string) *Email {
	return &Email{client: client, sender: sender}
}

func (e *Email) NotifyOrderPlaced(ctx context.Context, ev events.OrderPlaced) error {
	const op = "notifier.Email.NotifyOrderPlaced"

	if e.sender == "" {
		return fmt.Errorf("%s: %w", op, ErrNoSender)
	}
	if ev.User.Email == "" {
		return fmt.Errorf("%s: %w", op, ErrNoRecipient)
	}

	input := &ses.SendEmailInput{
		Source: aws.String(e.sender),
		Destination: &types.Destination{
			ToAddresses: []string{ev.User.Email},
		},
		Message: &types.Message{
			Subject: utf8Content(subject(ev)),
			Body: &types.Body{
				Html: utf8Content(emailHTML(ev)),
				Text: utf8Content(emailText(ev)),
			},
		},
	}

	if _, err := e.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("%s: failed to send email: %w", op, err)
	}

	slog.Info("order confirmation email sent", "op", op, "order_id", ev.Order.ID, "to", ev.User.Email)
	return nil
}

func utf8Content(s string) *types.Content {
	return &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(s)}
}

func emailText(ev events.OrderPlaced) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\nThank you for your order! Your order #%d has been successfully placed.\n\n", greetingName(ev), ev.Order.ID)
	fmt.Fprintf(&b, "Order Details:\nReference: %s\nItems: %d\n", ev.Order.Reference, ev.Order.Quantity())
	for _, l := range ev.Order.Lines {
		fmt.Fprintf(&b, "  %s x %d\n", lineName(l.ProductID, l.Product), l.Quantity)
	}
	b.WriteString("\nBest regards,\nYour Storefront Team")
	return b.String()
}

func emailHTML(ev events.OrderPlaced) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<html><body><p>Dear %s,</p>", escape(greetingName(ev)))
	fmt.Fprintf(&b, "<p>Thank you for your order! Your order #%d has been successfully placed.</p>", ev.Order.ID)
	fmt.Fprintf(&b, "<p><strong>Reference:</strong> %s</p><ul>", ev.Order.Reference)
	for _, l := range ev.Order.Lines {
		fmt.Fprintf(&b, "<li>%s x %d</li>", escape(lineName(l.ProductID, l.Product)), l.Quantity)
	}
	b.WriteString("</ul><p>Best regards,</p><p>Your Storefront Team</p></body></html>")
	return b.String()
}
