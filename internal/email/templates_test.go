package email

import (
	"context"
	"strings"
	"testing"
)

func TestRenderEmailTemplates(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     any
		want     []string
	}{
		{
			name:     "verification",
			template: "verification.html",
			data: verificationEmailData{baseEmailData: baseEmailData{
				Title:    "Verify your email address",
				Heading:  "Verify your email address",
				CTALabel: "Verify email",
				CTAURL:   "https://app.example.com/verify?token=abc",
			}},
			want: []string{"Verify your email address", "https://app.example.com/verify?token=abc"},
		},
		{
			name:     "organization invite",
			template: "organization_invite.html",
			data: organizationInviteEmailData{
				baseEmailData: baseEmailData{
					Title:    "You have been invited",
					Heading:  "You have been invited",
					CTALabel: "Accept invitation",
					CTAURL:   "https://app.example.com/invite?token=xyz",
				},
				OrganizationName: "Summit Staffing",
			},
			want: []string{"Summit Staffing", "Accept invitation"},
		},
		{
			name:     "follow-up reminder",
			template: "follow_up_reminder.html",
			data: followUpReminderEmailData{
				baseEmailData: baseEmailData{
					Title:    "Follow-up due today",
					Heading:  "Follow-up due today",
					CTALabel: "Open lead",
					CTAURL:   "https://app.example.com/leads/42",
				},
				Company:      "Acme Corp",
				ContactName:  "John Smith",
				FollowUpDate: "2026-09-15",
				Note:         "Ask for the plant manager",
			},
			want: []string{"Acme Corp", "John Smith", "2026-09-15", "Ask for the plant manager"},
		},
		{
			name:     "password reset",
			template: "password_reset.html",
			data: passwordResetEmailData{baseEmailData: baseEmailData{
				Title:    "Reset your password",
				Heading:  "Reset your password",
				CTALabel: "Reset password",
				CTAURL:   "https://app.example.com/reset?token=def",
			}},
			want: []string{"Reset password", "https://app.example.com/reset?token=def"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := renderEmailTemplate(tt.template, tt.data)
			if err != nil {
				t.Fatalf("renderEmailTemplate(%s) returned error: %v", tt.template, err)
			}
			for _, fragment := range tt.want {
				if !strings.Contains(html, fragment) {
					t.Errorf("rendered %s missing %q", tt.template, fragment)
				}
			}
		})
	}
}

func TestNoopSenderNeverFails(t *testing.T) {
	var sender Sender = NoopSender{}
	if err := sender.SendVerificationEmail(context.Background(), "x@example.com", "url"); err != nil {
		t.Errorf("NoopSender returned error: %v", err)
	}
}
