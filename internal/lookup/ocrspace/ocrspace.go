package ocrspace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/vbonduro/foodlens/internal/lookup"
)

const defaultAPIURL = "https://api.ocr.space/parse/image"

type OCRSpaceClient struct {
	apiKey   string
	language string
	client   *http.Client
	apiURL   string
}

func NewOCRSpaceClient(apiKey, language string) *OCRSpaceClient {
	if language == "" {
		language = "eng"
	}
	return &OCRSpaceClient{
		apiKey:   apiKey,
		language: language,
		client:   &http.Client{},
		apiURL:   defaultAPIURL,
	}
}

type parseResponse struct {
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"`
	ParsedResults         []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
}

// errorMessage flattens ErrorMessage, which the service sends either as a
// string or as a list of strings.
func (r parseResponse) errorMessage() string {
	var list []string
	if err := json.Unmarshal(r.ErrorMessage, &list); err == nil && len(list) > 0 {
		return strings.Join(list, "; ")
	}
	var s string
	if err := json.Unmarshal(r.ErrorMessage, &s); err == nil && s != "" {
		return s
	}
	return "unknown error"
}

// ExtractText uploads data as a multipart file. An empty payload is rejected
// with lookup.ErrEmptyImage before anything is sent.
func (c *OCRSpaceClient) ExtractText(ctx context.Context, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", lookup.ErrEmptyImage
	}
	if c.apiKey == "" {
		return "", lookup.ErrMissingAPIKey
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fields := map[string]string{
		"apikey":            c.apiKey,
		"language":          c.language,
		"isOverlayRequired": "false",
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return "", fmt.Errorf("failed to write form field: %w", err)
		}
	}
	if filename == "" {
		filename = "upload.jpg"
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return "", fmt.Errorf("failed to write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call ocr.space: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr.space returned status %d", resp.StatusCode)
	}

	var result parseResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if result.IsErroredOnProcessing {
		return "", &lookup.OCRError{Message: result.errorMessage()}
	}
	if len(result.ParsedResults) == 0 {
		return "", lookup.ErrNoText
	}
	text := result.ParsedResults[0].ParsedText
	if strings.TrimSpace(text) == "" {
		return "", lookup.ErrNoText
	}
	return text, nil
}
