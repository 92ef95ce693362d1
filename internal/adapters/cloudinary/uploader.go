package cloudinary

// Package cloudinary uploads profile pictures to Cloudinary's unsigned
// upload endpoint. Failures here are surfaced to callers but never block
// account creation.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/lindasales/salespro/internal/ports"
)

// Config captures the subset of the Cloudinary upload API we need.
type Config struct {
	// UploadURL is the full unsigned upload endpoint, e.g.
	// https://api.cloudinary.com/v1_1/<cloud>/image/upload
	UploadURL    string
	UploadPreset string
	Timeout      time.Duration
	Client       *http.Client
}

// Client delivers image uploads to the Cloudinary HTTP API.
type Client struct {
	uploadURL    string
	uploadPreset string
	client       *http.Client
}

// NewClient builds a Cloudinary upload client. Callers should pass a validated config.
func NewClient(cfg Config) (*Client, error) {
	uploadURL := strings.TrimSpace(cfg.UploadURL)
	if uploadURL == "" {
		return nil, errors.New("cloudinary upload url is required")
	}
	preset := strings.TrimSpace(cfg.UploadPreset)
	if preset == "" {
		return nil, errors.New("cloudinary upload preset is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		uploadURL:    uploadURL,
		uploadPreset: preset,
		client:       hc,
	}, nil
}

// uploadResponse is the slice of the Cloudinary response we care about.
type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload posts the file as multipart form data and returns the hosted secure URL.
func (c *Client) Upload(ctx context.Context, in ports.UploadInput) (string, error) {
	if in.Content == nil {
		return "", errors.New("upload content is required")
	}

	preset := strings.TrimSpace(in.Preset)
	if preset == "" {
		preset = c.uploadPreset
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("upload_preset", preset); err != nil {
		return "", fmt.Errorf("write upload_preset field: %w", err)
	}
	part, err := mw.CreateFormFile("file", fallbackFileName(in.FileName))
	if err != nil {
		return "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, in.Content); err != nil {
		return "", fmt.Errorf("copy file content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &body)
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("cloudinary request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read cloudinary response: %w", err)
	}

	var parsed uploadResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode cloudinary response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(parsed.Error.Message)
		if msg == "" {
			msg = strings.TrimSpace(string(respBody))
		}
		return "", fmt.Errorf("cloudinary upload %s: %s", resp.Status, msg)
	}

	if parsed.SecureURL == "" {
		return "", errors.New("cloudinary response missing secure_url")
	}
	return parsed.SecureURL, nil
}

func fallbackFileName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "upload"
	}
	return name
}
