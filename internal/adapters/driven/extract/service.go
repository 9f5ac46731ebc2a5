package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driven"
)

// Ensure ServiceExtractor implements the interface.
var _ driven.TextExtractor = (*ServiceExtractor)(nil)

// Service extractor defaults. OCR for scanned uploads makes requests
// slow, hence the generous timeout.
const (
	serviceDefaultTimeout  = 120 * time.Second
	serviceDefaultPriority = 100
)

// ServiceConfig holds extraction service connection settings.
type ServiceConfig struct {
	// BaseURL is the service endpoint, e.g. "http://localhost:8090".
	BaseURL string

	// APIKey authenticates requests when the service requires it.
	APIKey string

	// Extensions are the file extensions routed to the service.
	// Defaults to pdf, doc and docx.
	Extensions []string

	// Timeout for extraction requests.
	Timeout time.Duration

	// Priority for registry dispatch. Defaults above the local
	// extractors so the service takes over the formats it claims.
	Priority int
}

// ServiceExtractor sends files to an HTTP extraction service that
// handles format parsing and falls back to OCR for scanned documents.
type ServiceExtractor struct {
	baseURL    string
	apiKey     string
	extensions []string
	priority   int
	client     *http.Client
}

// extractResponse is the service's response body.
type extractResponse struct {
	Text string `json:"text"`
}

// NewServiceExtractor creates an extraction service client.
func NewServiceExtractor(cfg ServiceConfig) *ServiceExtractor {
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{"pdf", "doc", "docx"}
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = serviceDefaultTimeout
	}
	if cfg.Priority == 0 {
		cfg.Priority = serviceDefaultPriority
	}

	return &ServiceExtractor{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		extensions: cfg.Extensions,
		priority:   cfg.Priority,
		client:     &http.Client{Timeout: cfg.Timeout},
	}
}

// SupportedExtensions returns the extensions routed to the service.
func (e *ServiceExtractor) SupportedExtensions() []string {
	return e.extensions
}

// Priority returns the selection priority.
func (e *ServiceExtractor) Priority() int {
	return e.priority
}

// Extract uploads the file and returns the service's extracted text.
func (e *ServiceExtractor) Extract(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("build extraction request: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("build extraction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/extract", &body)
	if err != nil {
		return "", fmt.Errorf("create extraction request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("extraction service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("extraction service returned %d: %s", resp.StatusCode, string(respBody))
	}

	var result extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode extraction response: %w", err)
	}

	text := strings.TrimSpace(result.Text)
	if looksScanned(text) {
		return "", fmt.Errorf("%s: %w", path, domain.ErrExtractionEmpty)
	}
	return text, nil
}
