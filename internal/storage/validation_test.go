package storage

import "testing"

func TestValidateCardImageType(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		wantErr     bool
	}{
		{name: "jpeg", contentType: "image/jpeg", wantErr: false},
		{name: "png with charset parameter", contentType: "image/png; charset=binary", wantErr: false},
		{name: "uppercase", contentType: "IMAGE/WEBP", wantErr: false},
		{name: "pdf rejected", contentType: "application/pdf", wantErr: true},
		{name: "empty rejected", contentType: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCardImageType(tt.contentType)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateCardImageType(%q) error = %v, wantErr %v", tt.contentType, err, tt.wantErr)
			}
		})
	}
}

func TestExtensionFor(t *testing.T) {
	if got := extensionFor("image/jpeg"); got != ".jpg" {
		t.Errorf("extensionFor(image/jpeg) = %q, expected .jpg", got)
	}
	if got := extensionFor("application/zip"); got != "" {
		t.Errorf("extensionFor(application/zip) = %q, expected empty", got)
	}
}
