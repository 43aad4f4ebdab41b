package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/spynter/hub360/logging"
	"github.com/spynter/hub360/tour"
)

var _ Client = &httpClient{}

type httpClient struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// NewHTTPClient creates a Client that talks to the tour service over HTTP.
// Requests run through a circuit breaker so a flapping backend fails fast
// instead of stacking timeouts behind the render loop.
//
// Parameters:
//   - baseURL: the tour service base address, without a trailing slash
//   - opts: optional configuration, see the With* functions
//
// Returns:
//   - Client: the configured client
func NewHTTPClient(baseURL string, opts ...HTTPClientOption) Client {
	c := &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
		breaker: defaultBreaker(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchTour implements Client.
func (c *httpClient) FetchTour(ctx context.Context, id string) (*tour.Tour, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/tours/"+url.PathEscape(id), nil, "")
	if err != nil {
		return nil, &tour.PersistenceError{Op: "fetch tour", Err: err}
	}
	return decodeTour(body, "fetch tour")
}

// ReplaceTour implements Client.
func (c *httpClient) ReplaceTour(ctx context.Context, id string, t *tour.Tour) (*tour.Tour, error) {
	payload, err := json.Marshal(t)
	if err != nil {
		return nil, &tour.PersistenceError{Op: "replace tour", Err: err}
	}

	body, err := c.do(ctx, http.MethodPut, "/api/tours/"+url.PathEscape(id), bytes.NewReader(payload), "application/json")
	if err != nil {
		return nil, &tour.PersistenceError{Op: "replace tour", Err: err}
	}
	return decodeTour(body, "replace tour")
}

// AppendHotspot implements Client.
func (c *httpClient) AppendHotspot(ctx context.Context, tourID, sceneID string, h tour.Hotspot) (*tour.Hotspot, error) {
	payload, err := json.Marshal(h)
	if err != nil {
		return nil, &tour.PersistenceError{Op: "append hotspot", Err: err}
	}

	path := fmt.Sprintf("/api/tours/%s/scenes/%s/hotspots", url.PathEscape(tourID), url.PathEscape(sceneID))
	body, err := c.do(ctx, http.MethodPost, path, bytes.NewReader(payload), "application/json")
	if err != nil {
		return nil, &tour.PersistenceError{Op: "append hotspot", Err: err}
	}

	var stored tour.Hotspot
	if err := json.Unmarshal(body, &stored); err != nil {
		return nil, &tour.PersistenceError{Op: "append hotspot", Err: err}
	}
	return &stored, nil
}

// ResolveTourByAccessKey implements Client.
func (c *httpClient) ResolveTourByAccessKey(ctx context.Context, key string) (*tour.Tour, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/embed/"+url.PathEscape(key), nil, "")
	if err != nil {
		var serr *statusError
		if asStatus(err, &serr) && (serr.code == http.StatusUnauthorized ||
			serr.code == http.StatusForbidden || serr.code == http.StatusNotFound) {
			// Internal detail stays out of the embed surface.
			return nil, &tour.PermissionError{Reason: "tour not available"}
		}
		return nil, &tour.PersistenceError{Op: "resolve access key", Err: err}
	}
	return decodeTour(body, "resolve access key")
}

// UploadImage implements Client.
func (c *httpClient) UploadImage(ctx context.Context, filename string, data []byte) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return "", &tour.PersistenceError{Op: "upload image", Err: err}
	}
	if _, err := part.Write(data); err != nil {
		return "", &tour.PersistenceError{Op: "upload image", Err: err}
	}
	if err := mw.Close(); err != nil {
		return "", &tour.PersistenceError{Op: "upload image", Err: err}
	}

	body, err := c.do(ctx, http.MethodPost, "/api/upload", &buf, mw.FormDataContentType())
	if err != nil {
		return "", &tour.PersistenceError{Op: "upload image", Err: err}
	}

	var resp struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &tour.PersistenceError{Op: "upload image", Err: err}
	}
	if resp.URL == "" {
		return "", &tour.PersistenceError{Op: "upload image", Err: fmt.Errorf("upload response carried no url")}
	}
	return resp.URL, nil
}

// do performs one request through the circuit breaker and returns the
// response body. Non-2xx responses come back as *statusError so callers can
// map specific codes.
func (c *httpClient) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	return c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return nil, err
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			logging.Warn().
				Str("method", method).
				Str("path", path).
				Int("status", resp.StatusCode).
				Msg("tour api request failed")
			return nil, &statusError{code: resp.StatusCode}
		}
		return data, nil
	})
}

func decodeTour(body []byte, op string) (*tour.Tour, error) {
	var t tour.Tour
	if err := json.Unmarshal(body, &t); err != nil {
		return nil, &tour.PersistenceError{Op: op, Err: err}
	}
	return &t, nil
}

func asStatus(err error, target **statusError) bool {
	return errors.As(err, target)
}

// statusError carries a non-2xx HTTP status through the breaker.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}
