package capture

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const maxPhotoBytes = 16 << 20

// Client talks to the camera service over its JSON API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
	logger  *zap.Logger
}

type ClientOption func(*clientOptions)

type clientOptions struct {
	httpClient      *http.Client
	breakerFailures uint32
	breakerCooldown time.Duration
	logger          *zap.Logger
}

func WithHTTPClient(c *http.Client) ClientOption {
	return func(o *clientOptions) { o.httpClient = c }
}

// WithBreaker opens the circuit after failures consecutive transport errors and keeps it open
// for cooldown. Zero failures disables tripping.
func WithBreaker(failures uint32, cooldown time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.breakerFailures = failures
		o.breakerCooldown = cooldown
	}
}

func WithClientLogger(l *zap.Logger) ClientOption {
	return func(o *clientOptions) { o.logger = l }
}

func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("url.Parse: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("camera service url[%s] must be absolute", baseURL)
	}

	o := clientOptions{
		httpClient:      &http.Client{Timeout: 30 * time.Second},
		breakerFailures: 3,
		breakerCooldown: 30 * time.Second,
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	failures := o.breakerFailures
	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        "camera-service",
		MaxRequests: 1,
		Timeout:     o.breakerCooldown,
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return failures > 0 && counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			o.logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Client{
		baseURL: u,
		http:    o.httpClient,
		breaker: breaker,
		logger:  o.logger,
	}, nil
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type StatusResponse struct {
	Available bool   `json:"available"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	Output    string `json:"output,omitempty"`
}

type CaptureRequest struct {
	Filename string `json:"filename,omitempty"`
}

type CaptureResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	PhotoURL  string `json:"photoUrl,omitempty"`
	LocalPath string `json:"localPath,omitempty"`
	Error     string `json:"error,omitempty"`
	Details   string `json:"details,omitempty"`
}

type DeleteResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type PhotoDTO struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Path     string `json:"path"`
}

type PhotosResponse struct {
	Success bool       `json:"success"`
	Photos  []PhotoDTO `json:"photos,omitempty"`
	Error   string     `json:"error,omitempty"`
}

func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	if _, err := c.doJSON(ctx, http.MethodGet, "/api/health", nil, &out); err != nil {
		return HealthResponse{}, err
	}
	return out, nil
}

// Status reports the camera state. The service answers 500 with a JSON body when the camera is
// missing, so only transport and decoding problems are returned as errors.
func (c *Client) Status(ctx context.Context) (StatusResponse, error) {
	var out StatusResponse
	if _, err := c.doJSON(ctx, http.MethodGet, "/api/camera/status", nil, &out); err != nil {
		return StatusResponse{}, err
	}
	return out, nil
}

func (c *Client) Capture(ctx context.Context, filename string) (CaptureResponse, error) {
	var out CaptureResponse
	if _, err := c.doJSON(ctx, http.MethodPost, "/api/camera/capture", CaptureRequest{Filename: filename}, &out); err != nil {
		return CaptureResponse{}, err
	}
	return out, nil
}

func (c *Client) DeletePhoto(ctx context.Context, filename string) error {
	if filename == "" {
		return fmt.Errorf("filename is empty")
	}

	var out DeleteResponse
	status, err := c.doJSON(ctx, http.MethodDelete, "/api/photos/"+url.PathEscape(filename), nil, &out)
	if status == http.StatusNotFound {
		return fmt.Errorf("photo[%s]: %w", filename, ErrPhotoNotFound)
	}
	if err != nil {
		return err
	}
	if !out.Success {
		return fmt.Errorf("delete photo[%s]: %s", filename, out.Error)
	}
	return nil
}

func (c *Client) ListPhotos(ctx context.Context) (PhotosResponse, error) {
	var out PhotosResponse
	if _, err := c.doJSON(ctx, http.MethodGet, "/api/photos", nil, &out); err != nil {
		return PhotosResponse{}, err
	}
	return out, nil
}

// FetchPhoto downloads a photo referenced by a photoUrl returned from Capture.
func (c *Client) FetchPhoto(ctx context.Context, photoURL string) ([]byte, string, error) {
	resp, err := c.do(ctx, http.MethodGet, photoURL, nil, "")
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch photo[%s]: unexpected status %d", photoURL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("io.ReadAll: %w", err)
	}
	if len(data) > maxPhotoBytes {
		return nil, "", fmt.Errorf("fetch photo[%s]: larger than %d bytes", photoURL, maxPhotoBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

// URL resolves a service-relative path such as a photoUrl against the base URL.
func (c *Client) URL(ref string) (string, error) {
	rel, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("url.Parse: %w", err)
	}
	return c.baseURL.ResolveReference(rel).String(), nil
}

func (c *Client) doJSON(ctx context.Context, method, ref string, in, out any) (int, error) {
	var (
		body        io.Reader
		contentType string
	)
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("json.Marshal: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	resp, err := c.do(ctx, method, ref, body, contentType)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("%s %s: decode status %d body: %w", method, ref, resp.StatusCode, err)
	}
	return resp.StatusCode, nil
}

func (c *Client) do(ctx context.Context, method, ref string, body io.Reader, contentType string) (*http.Response, error) {
	target, err := c.URL(ref)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		return c.http.Do(req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%s %s: %w: %w", method, ref, ErrServiceUnavailable, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, ref, err)
	}
	return resp, nil
}
