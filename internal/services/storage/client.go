package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/saeed-karout/Today-s-recipe-Ai/internal/httpclient"
)

// Client uploads image bytes to Supabase storage and hands back a publicly
// fetchable URL. It exists only as the alternative image-transport path for
// the generation call; recipe data is never persisted.
type Client struct {
	supabaseURL string
	serviceKey  string
	httpClient  *http.Client
}

var ErrUploadFailed = errors.New("upload failed")

func NewClient(supabaseURL, serviceKey string) *Client {
	return &Client{
		supabaseURL: supabaseURL,
		serviceKey:  serviceKey,
		httpClient:  httpclient.NewInstrumentedClient(30 * time.Second),
	}
}

// HashContent returns the hex SHA-256 of the data, used for stable object
// naming.
func HashContent(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

type uploadResponse struct {
	Key string `json:"Key"`
	Id  string `json:"Id"`
}

func (c *Client) UploadImage(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error) {
	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.supabaseURL, bucket, path)

	req, err := http.NewRequestWithContext(httpclient.WithProvider(ctx, "Supabase"), "POST", uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: %s", ErrUploadFailed, string(body))
	}

	var result uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	return c.GetPublicURL(bucket, path), nil
}

func (c *Client) GetPublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.supabaseURL, bucket, path)
}
