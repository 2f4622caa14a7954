// Package transport holds the leads module's request DTOs.
package transport

import "github.com/google/uuid"

// CreateLeadRequest is the intake payload for a new lead. Company and
// contact name are individually optional; the service requires at least
// one of them.
type CreateLeadRequest struct {
	Company         string   `json:"company" binding:"omitempty,max=200"`
	ContactName     string   `json:"contactName" binding:"omitempty,max=200"`
	ContactEmail    string   `json:"contactEmail" binding:"omitempty,email"`
	ContactPhone    string   `json:"contactPhone" binding:"omitempty,max=30"`
	Website         string   `json:"website" binding:"omitempty,max=300"`
	ContactTitle    string   `json:"contactTitle" binding:"omitempty,max=150"`
	BuyingRole      string   `json:"buyingRole" binding:"omitempty,max=100"`
	Industry        string   `json:"industry" binding:"omitempty,max=100"`
	Status          string   `json:"status" binding:"omitempty,max=100"`
	Rating          string   `json:"rating" binding:"omitempty,max=100"`
	Source          string   `json:"source" binding:"omitempty,max=100"`
	Note            string   `json:"note" binding:"omitempty,max=5000"`
	Latitude        *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude       *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
	LocationSource  string   `json:"locationSource" binding:"omitempty,max=50"`
	LocationRaw     string   `json:"locationRaw" binding:"omitempty,max=500"`
	PrimaryImageURL string   `json:"primaryImageUrl" binding:"omitempty,max=1000"`
}

// UpdateLeadRequest is a partial update; omitted fields stay unchanged.
type UpdateLeadRequest struct {
	Company         *string    `json:"company" binding:"omitempty,max=200"`
	ContactName     *string    `json:"contactName" binding:"omitempty,max=200"`
	ContactEmail    *string    `json:"contactEmail" binding:"omitempty,email"`
	ContactPhone    *string    `json:"contactPhone" binding:"omitempty,max=30"`
	Website         *string    `json:"website" binding:"omitempty,max=300"`
	ContactTitle    *string    `json:"contactTitle" binding:"omitempty,max=150"`
	BuyingRole      *string    `json:"buyingRole" binding:"omitempty,max=100"`
	Industry        *string    `json:"industry" binding:"omitempty,max=100"`
	Status          *string    `json:"status" binding:"omitempty,max=100"`
	Rating          *string    `json:"rating" binding:"omitempty,max=100"`
	Note            *string    `json:"note" binding:"omitempty,max=5000"`
	OwnerUserID     *uuid.UUID `json:"ownerUserId"`
	Latitude        *float64   `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude       *float64   `json:"longitude" binding:"omitempty,min=-180,max=180"`
	LocationSource  *string    `json:"locationSource" binding:"omitempty,max=50"`
	LocationRaw     *string    `json:"locationRaw" binding:"omitempty,max=500"`
	PrimaryImageURL *string    `json:"primaryImageUrl" binding:"omitempty,max=1000"`
}

// LogCallRequest records one sales call against a lead.
type LogCallRequest struct {
	Status       string `json:"status" binding:"required,max=100"`
	Rating       string `json:"rating" binding:"omitempty,max=100"`
	CallType     string `json:"callType" binding:"omitempty,max=100"`
	Note         string `json:"note" binding:"omitempty,max=5000"`
	FollowUpDate string `json:"followUpDate" binding:"omitempty,datetime=2006-01-02"`
}

// NearbyRequest asks for previously called leads around the rep's position.
// The coordinates are pointers so a 0 latitude or longitude still binds.
type NearbyRequest struct {
	Lat *float64 `form:"lat" binding:"required,min=-90,max=90"`
	Lng *float64 `form:"lng" binding:"required,min=-180,max=180"`
}
