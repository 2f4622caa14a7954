package cardscan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"staffing_crm_backend/platform/config"
	"staffing_crm_backend/platform/logger"
)

const visionEndpoint = "https://vision.googleapis.com/v1/images:annotate"

// VisionClient calls the Google Vision annotate endpoint for document text
// detection.
type VisionClient struct {
	client *http.Client
	cfg    config.VisionConfig
	log    *logger.Logger
}

func NewVisionClient(cfg config.VisionConfig, log *logger.Logger) *VisionClient {
	return &VisionClient{
		client: &http.Client{Timeout: 15 * time.Second},
		cfg:    cfg,
		log:    log,
	}
}

type visionRequest struct {
	Requests []visionRequestItem `json:"requests"`
}

type visionRequestItem struct {
	Image        visionImage        `json:"image"`
	Features     []visionFeature    `json:"features"`
	ImageContext visionImageContext `json:"imageContext"`
}

type visionImage struct {
	Content string `json:"content"`
}

type visionFeature struct {
	Type string `json:"type"`
}

type visionImageContext struct {
	LanguageHints []string `json:"languageHints"`
}

type visionResponse struct {
	Responses []struct {
		FullTextAnnotation struct {
			Text string `json:"text"`
		} `json:"fullTextAnnotation"`
		TextAnnotations []struct {
			Description string `json:"description"`
		} `json:"textAnnotations"`
	} `json:"responses"`
}

// DetectText runs document text detection over a base64-encoded image and
// returns the recognized text blob. An empty string means the card had no
// detectable text; that is not an error at this layer.
func (c *VisionClient) DetectText(ctx context.Context, imageBase64 string) (string, error) {
	payload := visionRequest{
		Requests: []visionRequestItem{{
			Image:        visionImage{Content: imageBase64},
			Features:     []visionFeature{{Type: "DOCUMENT_TEXT_DETECTION"}},
			ImageContext: visionImageContext{LanguageHints: []string{"en"}},
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal vision request: %w", err)
	}

	reqURL := visionEndpoint + "?key=" + c.cfg.GetVisionAPIKey()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		c.log.UpstreamError("vision", "annotate", fmt.Errorf("status %d", resp.StatusCode))
		return "", fmt.Errorf("vision api error: %d", resp.StatusCode)
	}

	var parsed visionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode vision response: %w", err)
	}

	if len(parsed.Responses) == 0 {
		return "", nil
	}

	text := parsed.Responses[0].FullTextAnnotation.Text
	if text == "" && len(parsed.Responses[0].TextAnnotations) > 0 {
		text = parsed.Responses[0].TextAnnotations[0].Description
	}
	return text, nil
}
