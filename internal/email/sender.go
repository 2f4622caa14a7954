// Package email delivers transactional mail for the CRM: account
// verification, password resets, teammate invites and follow-up reminders.
package email

import (
	"context"

	"staffing_crm_backend/platform/config"
)

// Sender delivers the CRM's transactional emails.
type Sender interface {
	SendVerificationEmail(ctx context.Context, toEmail, verifyURL string) error
	SendPasswordResetEmail(ctx context.Context, toEmail, resetURL string) error
	SendOrganizationInviteEmail(ctx context.Context, toEmail, organizationName, inviteURL string) error
	SendFollowUpReminderEmail(ctx context.Context, toEmail, company, contactName, followUpDate, note, leadURL string) error
}

// NoopSender drops all mail. Used when email delivery is not configured.
type NoopSender struct{}

func (NoopSender) SendVerificationEmail(ctx context.Context, toEmail, verifyURL string) error {
	return nil
}

func (NoopSender) SendPasswordResetEmail(ctx context.Context, toEmail, resetURL string) error {
	return nil
}

func (NoopSender) SendOrganizationInviteEmail(ctx context.Context, toEmail, organizationName, inviteURL string) error {
	return nil
}

func (NoopSender) SendFollowUpReminderEmail(ctx context.Context, toEmail, company, contactName, followUpDate, note, leadURL string) error {
	return nil
}

// NewSender picks the delivery backend from configuration: a direct SMTP
// connection when a host is set, the Brevo API when a key is set, and a
// no-op otherwise.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}

	if cfg.GetSMTPHost() != "" {
		return NewSMTPSender(
			cfg.GetSMTPHost(), cfg.GetSMTPPort(),
			cfg.GetSMTPUsername(), cfg.GetSMTPPassword(),
			cfg.GetEmailFromAddress(), cfg.GetEmailFromName(),
		), nil
	}

	return NewBrevoSender(cfg), nil
}
