package cardscan

import (
	"context"
	"encoding/base64"
	"strings"

	"staffing_crm_backend/platform/apperr"
	"staffing_crm_backend/platform/config"
	"staffing_crm_backend/platform/logger"
)

// TextDetector abstracts the OCR backend so the service can be tested
// without calling Vision.
type TextDetector interface {
	DetectText(ctx context.Context, imageBase64 string) (string, error)
}

// ImageStore persists the original card photo. Optional; nil disables it.
type ImageStore interface {
	UploadCardImage(ctx context.Context, data []byte, contentType string) (string, error)
}

// ScanResult is the full response for one scanned card.
type ScanResult struct {
	Extraction
	RawText       string    `json:"rawText"`
	PhotoLocation *GeoPoint `json:"photoLocation,omitempty"`
	ImageKey      string    `json:"imageKey,omitempty"`
}

// Service orchestrates OCR, parsing, EXIF location recovery and optional
// photo storage.
type Service struct {
	detector TextDetector
	images   ImageStore
	cfg      config.VisionConfig
	log      *logger.Logger
}

func NewService(detector TextDetector, images ImageStore, cfg config.VisionConfig, log *logger.Logger) *Service {
	return &Service{
		detector: detector,
		images:   images,
		cfg:      cfg,
		log:      log,
	}
}

// Scan runs the full card pipeline over a base64-encoded photo.
func (s *Service) Scan(ctx context.Context, imageBase64 string) (*ScanResult, error) {
	if !s.cfg.IsVisionEnabled() {
		return nil, apperr.Internal("card scanning is not configured")
	}

	encoded := stripDataURLPrefix(imageBase64)

	text, err := s.detector.DetectText(ctx, encoded)
	if err != nil {
		s.log.UpstreamError("vision", "scan_card", err)
		return nil, apperr.Upstream("card text detection failed", err)
	}

	if strings.TrimSpace(text) == "" {
		return nil, apperr.Unprocessable("no text detected on card")
	}

	result := &ScanResult{
		Extraction: ParseCardText(text),
		RawText:    text,
	}

	if imageData, err := base64.StdEncoding.DecodeString(encoded); err == nil {
		result.PhotoLocation = photoLocation(imageData)
		result.ImageKey = s.storeImage(ctx, imageData)
	}

	return result, nil
}

// Parse extracts fields from text the caller already has, without OCR.
func (s *Service) Parse(rawText string) Extraction {
	return ParseCardText(rawText)
}

func (s *Service) storeImage(ctx context.Context, imageData []byte) string {
	if s.images == nil {
		return ""
	}

	key, err := s.images.UploadCardImage(ctx, imageData, "image/jpeg")
	if err != nil {
		// Scan results are still useful without the stored photo.
		s.log.Error("card image upload failed", "error", err)
		return ""
	}
	return key
}

func stripDataURLPrefix(encoded string) string {
	if idx := strings.Index(encoded, ";base64,"); idx >= 0 && strings.HasPrefix(encoded, "data:") {
		return encoded[idx+len(";base64,"):]
	}
	return encoded
}
