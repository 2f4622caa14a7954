package cardscan

import (
	"context"
	"errors"
	"testing"

	"staffing_crm_backend/platform/apperr"
	"staffing_crm_backend/platform/logger"
)

type fakeDetector struct {
	text string
	err  error
}

func (f *fakeDetector) DetectText(ctx context.Context, imageBase64 string) (string, error) {
	return f.text, f.err
}

type fakeVisionConfig struct{ key string }

func (f fakeVisionConfig) GetVisionAPIKey() string { return f.key }
func (f fakeVisionConfig) IsVisionEnabled() bool   { return f.key != "" }

func newTestService(detector TextDetector, key string) *Service {
	return NewService(detector, nil, fakeVisionConfig{key: key}, logger.New("development"))
}

func TestScanParsesDetectedText(t *testing.T) {
	detector := &fakeDetector{text: "Acme Corp\nJohn Smith\nOperations Manager\njohn@acme.com"}
	svc := newTestService(detector, "test-key")

	result, err := svc.Scan(context.Background(), "aGVsbG8=")
	if err != nil {
		t.Fatalf("Scan() returned error: %v", err)
	}

	if result.Company != "Acme Corp" || result.ContactName != "John Smith" {
		t.Errorf("unexpected fields: %+v", result.CardFields)
	}
	if result.RawText != detector.text {
		t.Errorf("RawText = %q, expected detector output", result.RawText)
	}
}

func TestScanNoTextDetected(t *testing.T) {
	svc := newTestService(&fakeDetector{text: "   \n "}, "test-key")

	_, err := svc.Scan(context.Background(), "aGVsbG8=")
	if err == nil {
		t.Fatal("expected error for card without text")
	}
	if !apperr.Is(err, apperr.KindUnprocessable) {
		t.Errorf("expected unprocessable error, got %v", err)
	}
}

func TestScanUpstreamFailure(t *testing.T) {
	svc := newTestService(&fakeDetector{err: errors.New("boom")}, "test-key")

	_, err := svc.Scan(context.Background(), "aGVsbG8=")
	if err == nil {
		t.Fatal("expected error when detection fails")
	}
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Errorf("expected upstream error, got %v", err)
	}
}

func TestScanDisabledWithoutAPIKey(t *testing.T) {
	svc := newTestService(&fakeDetector{text: "ignored"}, "")

	_, err := svc.Scan(context.Background(), "aGVsbG8=")
	if err == nil {
		t.Fatal("expected error when vision is not configured")
	}
	if !apperr.Is(err, apperr.KindInternal) {
		t.Errorf("expected internal error, got %v", err)
	}
}

func TestStripDataURLPrefix(t *testing.T) {
	if got := stripDataURLPrefix("data:image/jpeg;base64,aGVsbG8="); got != "aGVsbG8=" {
		t.Errorf("stripDataURLPrefix() = %q", got)
	}
	if got := stripDataURLPrefix("aGVsbG8="); got != "aGVsbG8=" {
		t.Errorf("plain payload should pass through, got %q", got)
	}
}
