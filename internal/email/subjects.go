package email

const (
	subjectVerification          = "Verify your email address"
	subjectPasswordReset         = "Reset your password"
	subjectOrganizationInviteFmt = "You have been invited to join %s"
	subjectFollowUpReminderFmt   = "Follow-up reminder: %s"
)
