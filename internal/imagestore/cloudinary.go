// Package imagestore uploads product images to the external image host.
// Image processing, transformation, and delivery are entirely delegated to
// the hosted service; this package only hands bytes over and keeps the URL.
package imagestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Uploader is what the admin upload flow consumes.
type Uploader interface {
	Upload(ctx context.Context, filename string, file io.Reader) (string, error)
}

var ErrNoSecureURL = errors.New("no secure URL returned from Cloudinary")

const uploadFolder = "products"

// CloudinaryClient performs unsigned uploads against the Cloudinary upload
// API. Calls go through a circuit breaker so a struggling image host fails
// fast instead of tying up admin requests.
type CloudinaryClient struct {
	httpClient   *http.Client
	breaker      *gobreaker.CircuitBreaker[string]
	uploadURL    string
	uploadPreset string
}

// NewCloudinaryClient builds a client for the given cloud. baseURL overrides
// the Cloudinary API endpoint; leave it empty outside tests.
func NewCloudinaryClient(cloudName, uploadPreset, baseURL string) *CloudinaryClient {
	if baseURL == "" {
		baseURL = "https://api.cloudinary.com"
	}

	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    "cloudinary",
		Timeout: 30 * time.Second,
	})

	return &CloudinaryClient{
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		breaker:      breaker,
		uploadURL:    fmt.Sprintf("%s/v1_1/%s/image/upload", baseURL, cloudName),
		uploadPreset: uploadPreset,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends one file and returns its hosted secure URL.
func (c *CloudinaryClient) Upload(ctx context.Context, filename string, file io.Reader) (string, error) {
	return c.breaker.Execute(func() (string, error) {
		return c.upload(ctx, filename, file)
	})
}

func (c *CloudinaryClient) upload(ctx context.Context, filename string, file io.Reader) (string, error) {
	body, contentType, err := buildForm(c.uploadPreset, filename, file)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, body)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("cloudinary request failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode cloudinary response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error.Message != "" {
			return "", fmt.Errorf("cloudinary upload error: %s", parsed.Error.Message)
		}
		return "", fmt.Errorf("cloudinary upload failed with status %d", resp.StatusCode)
	}

	if parsed.SecureURL == "" {
		return "", ErrNoSecureURL
	}

	return parsed.SecureURL, nil
}

func buildForm(preset, filename string, file io.Reader) (io.Reader, string, error) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		err := writeForm(writer, preset, filename, file)
		if cerr := writer.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()

	return pr, writer.FormDataContentType(), nil
}

func writeForm(writer *multipart.Writer, preset, filename string, file io.Reader) error {
	if err := writer.WriteField("upload_preset", preset); err != nil {
		return err
	}
	if err := writer.WriteField("folder", uploadFolder); err != nil {
		return err
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	return nil
}
