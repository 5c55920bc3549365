package notify

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/mrz1836/postmark"
)

// EmailConfig configures the Postmark-backed email channel.
type EmailConfig struct {
	ServerToken  string `env:"POSTMARK_SERVER_TOKEN,required"`
	AccountToken string `env:"POSTMARK_ACCOUNT_TOKEN,required"`
	SenderEmail  string `env:"EMAIL_SENDER,required"`
}

// AddressResolver maps a recipient user ID to an email address.
// Returns ("", false) when the user has no deliverable address.
type AddressResolver func(ctx context.Context, userID uuid.UUID) (string, bool)

// subjects per notification kind; unknown kinds fall back to the raw kind string.
var emailSubjects = map[Kind]string{
	KindBookingCreated:        "Your booking was created",
	KindBookingConfirmed:      "Your booking is confirmed",
	KindBookingCancelled:      "Your booking was cancelled",
	KindBookingRescheduled:    "Your booking was rescheduled",
	KindBookingAdminNew:       "New booking received",
	KindBookingAdminCancelled: "A booking was cancelled",
}

// EmailDispatcher delivers booking notifications through Postmark's
// transactional API. Recipient addresses are resolved through an injected
// resolver since the booking core does not own user records.
type EmailDispatcher struct {
	client  *postmark.Client
	sender  string
	resolve AddressResolver
}

// NewEmailDispatcher creates a Postmark-backed dispatcher.
// Tokens are required up front so misconfiguration fails at startup instead
// of silently dropping mail in production.
func NewEmailDispatcher(cfg EmailConfig, resolve AddressResolver) (*EmailDispatcher, error) {
	if cfg.ServerToken == "" || cfg.AccountToken == "" {
		return nil, errors.New("notify: postmark tokens are required")
	}
	if cfg.SenderEmail == "" {
		return nil, errors.New("notify: sender email is required")
	}
	if resolve == nil {
		return nil, errors.New("notify: address resolver is required")
	}

	return &EmailDispatcher{
		client:  postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
		sender:  cfg.SenderEmail,
		resolve: resolve,
	}, nil
}

// Dispatch sends a single notification email.
func (d *EmailDispatcher) Dispatch(ctx context.Context, n Notification) error {
	addr, ok := d.resolve(ctx, n.RecipientID)
	if !ok {
		return ErrMissingRecipient
	}

	subject, ok := emailSubjects[n.Kind]
	if !ok {
		subject = string(n.Kind)
	}

	resp, err := d.client.SendEmail(ctx, postmark.Email{
		From:     d.sender,
		To:       addr,
		Subject:  subject,
		Tag:      string(n.Kind),
		TextBody: renderEmailBody(n),
	})
	if err != nil {
		return errors.Join(ErrEmailDeliveryFailed, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(ErrEmailDeliveryFailed,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message))
	}
	return nil
}

func renderEmailBody(n Notification) string {
	keys := make([]string, 0, len(n.Payload))
	for k := range n.Payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(subjectLine(n))
	for _, k := range keys {
		fmt.Fprintf(&b, "\n%s: %v", k, n.Payload[k])
	}
	return b.String()
}

func subjectLine(n Notification) string {
	if s, ok := emailSubjects[n.Kind]; ok {
		return s
	}
	return string(n.Kind)
}
