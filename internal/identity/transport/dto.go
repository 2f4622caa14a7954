// Package transport holds the identity module's request DTOs.
package transport

// CreateOrganizationRequest provisions a new organization for the caller.
type CreateOrganizationRequest struct {
	Name         string   `json:"name" binding:"required,min=2,max=200"`
	Domain       string   `json:"domain" binding:"omitempty,fqdn,max=255"`
	InviteEmails []string `json:"inviteEmails" binding:"omitempty,max=20,dive,email"`
}

// UpdateOrganizationRequest renames the caller's organization.
type UpdateOrganizationRequest struct {
	Name string `json:"name" binding:"required,min=2,max=200"`
}

// CreateInviteRequest invites a teammate by email.
type CreateInviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}
