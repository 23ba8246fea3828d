package ocr

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"split-server/internal/infrastructure/metrics"
)

const defaultBaseURL = "https://api.mistral.ai"

// Client extracts bill text from images through the Mistral OCR API.
type Client struct {
	httpClient *resty.Client
	model      string
	log        zerolog.Logger
}

// NewClient creates a Resty-backed OCR client.
func NewClient(apiKey string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		httpClient: resty.New().
			SetBaseURL(defaultBaseURL).
			SetHeader("Content-Type", "application/json").
			SetAuthToken(apiKey).
			SetTimeout(timeout),
		model: "mistral-ocr-latest",
		log:   log.With().Str("infra", "ocr").Logger(),
	}
}

type ocrRequest struct {
	Model    string      `json:"model"`
	Document ocrDocument `json:"document"`
}

type ocrDocument struct {
	Type     string `json:"type"`
	ImageURL string `json:"image_url"`
}

type ocrResponse struct {
	Pages []ocrPage `json:"pages"`
}

type ocrPage struct {
	Index    int    `json:"index"`
	Markdown string `json:"markdown"`
}

type ocrErrorResponse struct {
	Message string `json:"message"`
	Detail  []struct {
		Msg string `json:"msg"`
	} `json:"detail"`
}

// ExtractFromURL runs OCR over the image at the given URL and returns the
// extracted markdown of the single page. Errors carry user-presentable text.
func (c *Client) ExtractFromURL(ctx context.Context, imageURL string) (string, error) {
	started := time.Now()

	text, err := c.extract(ctx, imageURL)
	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.OCRProcessingTotal.WithLabelValues("image_url", status).Inc()
	metrics.OCRProcessingDuration.WithLabelValues("image_url").Observe(time.Since(started).Seconds())

	return text, err
}

func (c *Client) extract(ctx context.Context, imageURL string) (string, error) {
	var result ocrResponse
	var apiError ocrErrorResponse

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(ocrRequest{
			Model: c.model,
			Document: ocrDocument{
				Type:     "image_url",
				ImageURL: imageURL,
			},
		}).
		SetResult(&result).
		SetError(&apiError).
		Post("/v1/ocr")
	if err != nil {
		return "", fmt.Errorf("Error: OCR request failed - %v", err)
	}

	if resp.IsError() {
		c.log.Error().Int("status", resp.StatusCode()).Msg("ocr api error")
		if resp.StatusCode() == http.StatusUnprocessableEntity && len(apiError.Detail) > 0 {
			return "", fmt.Errorf("Error: OCR validation failed - %s", apiError.Detail[0].Msg)
		}
		if apiError.Message != "" {
			return "", fmt.Errorf("Error: OCR failed - %s", apiError.Message)
		}
		return "", fmt.Errorf("Error: OCR failed with HTTP %d", resp.StatusCode())
	}

	if len(result.Pages) == 0 {
		return "", fmt.Errorf("Error: OCR returned no pages for the image")
	}

	// Bill photos are single-page; further pages are noise.
	markdown := strings.TrimSpace(result.Pages[0].Markdown)
	if markdown == "" {
		return "", fmt.Errorf("Error: OCR could not extract any text from the image")
	}
	return markdown, nil
}
