package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/assetvault/internal/common"
)

// ObjectStoragePath is the server route for presign, delete and download.
const ObjectStoragePath = "/admin/api/object-storage"

const msgNotConfigured = "Object storage not configured"

// UploadRequest describes one file of a presign batch.
type UploadRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Size        int64  `json:"size"`
	Checksum    string `json:"checksum"`
	Description string `json:"description,omitempty"`
}

// Grant is a presigned upload authorization returned by the server.
type Grant struct {
	ID           string    `json:"id"`
	Key          string    `json:"key"`
	PresignedURL string    `json:"presignedUrl"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ServerError is a failure the server reported in the "err" field.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

type envelope struct {
	Msg  string          `json:"msg"`
	Err  string          `json:"err"`
	Data json.RawMessage `json:"data"`
}

// Client talks to one AssetVault server. It is safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New returns a Client for baseURL. A nil httpClient means http.DefaultClient.
func New(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
	}
}

// Presign asks the server to authorize the batch. Grants come back in
// server order; callers correlate them by Key.
func (c *Client) Presign(ctx context.Context, reqs []UploadRequest) ([]Grant, error) {
	var data struct {
		URLs []Grant `json:"urls"`
	}
	if err := c.do(ctx, http.MethodPut, c.baseURL+ObjectStoragePath, reqs, &data); err != nil {
		return nil, err
	}
	if len(data.URLs) != len(reqs) {
		return nil, fmt.Errorf("presign: got %d grants for %d files", len(data.URLs), len(reqs))
	}
	return data.URLs, nil
}

// Delete removes the object and its record. Deleting a missing key succeeds.
func (c *Client) Delete(ctx context.Context, key string) error {
	return c.do(ctx, http.MethodDelete, c.baseURL+ObjectStoragePath, map[string]string{"key": key}, nil)
}

// DownloadURL returns a presigned GET URL for an uploaded object.
func (c *Client) DownloadURL(ctx context.Context, key string) (string, error) {
	var data struct {
		URL string `json:"url"`
	}
	u := c.baseURL + ObjectStoragePath + "?key=" + url.QueryEscape(key)
	if err := c.do(ctx, http.MethodGet, u, nil, &data); err != nil {
		return "", err
	}
	return data.URL, nil
}

func (c *Client) do(ctx context.Context, method, u string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrTransport, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrTransport, err)
	}
	// Non-JSON bodies (e.g. a proxy page) still map by status below.
	_ = json.Unmarshal(raw, &env)

	if err := statusError(resp.StatusCode, env.Err); err != nil {
		return err
	}
	if env.Err != "" {
		if env.Err == msgNotConfigured {
			return fmt.Errorf("%w: %s", common.ErrNotConfigured, env.Err)
		}
		return &ServerError{StatusCode: resp.StatusCode, Message: env.Err}
	}

	if out != nil {
		if len(env.Data) == 0 {
			return errors.New("response has no data")
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func statusError(code int, msg string) error {
	if code >= 200 && code < 300 {
		return nil
	}
	if msg == "" {
		msg = http.StatusText(code)
	}

	var sentinel error
	switch code {
	case http.StatusBadRequest:
		sentinel = common.ErrValidation
	case http.StatusUnauthorized:
		sentinel = common.ErrorUnauthorized
	case http.StatusForbidden:
		sentinel = common.ErrForbidden
	case http.StatusNotFound:
		sentinel = common.ErrorNotFound
	default:
		return &ServerError{StatusCode: code, Message: msg}
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}
