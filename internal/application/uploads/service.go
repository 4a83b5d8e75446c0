package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"clientdir-backend/internal/pkg/apperr"
)

// StorageClient is the capability needed from the object store: a signed
// upload URL for a bucket path.
type StorageClient interface {
	CreateSignedUploadURL(ctx context.Context, bucket, path string) (string, error)
}

// HTTPClient is a StorageClient backed by the Supabase storage HTTP API.
type HTTPClient struct {
	BaseURL   string
	SecretKey string
	Client    *http.Client
}

type signedUploadResponse struct {
	SignedURL      string `json:"signedUrl"`
	SignedURLSnake string `json:"signed_url"`
	URL            string `json:"url"`
	Path           string `json:"path"`
}

func (c *HTTPClient) CreateSignedUploadURL(ctx context.Context, bucket, path string) (string, error) {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 10 * time.Second}
	}
	if c.BaseURL == "" {
		return "", fmt.Errorf("storage: SUPABASE_URL is not set")
	}
	if c.SecretKey == "" {
		return "", fmt.Errorf("storage: SUPABASE_SECRET_KEY is not set")
	}
	base := strings.TrimRight(c.BaseURL, "/")
	url := fmt.Sprintf("%s/storage/v1/object/upload/sign/%s/%s", base, bucket, path)

	bodyBytes, _ := json.Marshal(map[string]interface{}{
		"expiresIn": 3600,
		"upsert":    false,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", err
	}
	// Storage API wants the key as both apikey header and Bearer token.
	req.Header.Set("apikey", c.SecretKey)
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("storage error: status %d body: %s", resp.StatusCode, respBody)
	}

	var data signedUploadResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return "", fmt.Errorf("storage response decode: %w", err)
	}
	if data.SignedURL != "" {
		return data.SignedURL, nil
	}
	if data.SignedURLSnake != "" {
		return data.SignedURLSnake, nil
	}
	if data.URL != "" {
		u := data.URL
		if u[0] != '/' {
			u = "/" + u
		}
		return base + u, nil
	}
	return "", fmt.Errorf("storage returned no signed URL, body: %s", respBody)
}

// Service signs client-logo uploads and derives the public URL the account
// row stores in logo_url.
type Service struct {
	Client     StorageClient
	StorageURL string
}

const logoBucket = "client-logos"

// UploadResult is returned to the form: where to PUT the file and the public
// URL to persist.
type UploadResult struct {
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
	Path      string `json:"path"`
}

// SignLogoUpload generates a signed upload URL for a client logo. The path is
// timestamped so re-uploads never clash.
func (s *Service) SignLogoUpload(ctx context.Context, fileName string) (*UploadResult, error) {
	if strings.TrimSpace(fileName) == "" {
		return nil, apperr.Validationf("file name is required")
	}
	path := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), fileName)

	signedURL, err := s.Client.CreateSignedUploadURL(ctx, logoBucket, path)
	if err != nil {
		return nil, apperr.Dependency("logo upload sign", err)
	}

	publicURL := fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		strings.TrimRight(s.StorageURL, "/"), logoBucket, path)

	return &UploadResult{
		UploadURL: signedURL,
		PublicURL: publicURL,
		Path:      path,
	}, nil
}
