package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/sistema-laudos/laudos-go/internal/metrics"
	"github.com/sistema-laudos/laudos-go/internal/storage"
)

// basePath is the backend API prefix shared by every resource.
const basePath = "/api/v1"

// DefaultTimeout is generous because contract uploads can be large.
const DefaultTimeout = 5 * time.Minute

// Refresher exchanges a refresh token for a new token pair. A returned empty
// refresh token keeps the stored one.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (accessToken, newRefreshToken string, err error)
}

// Options configures a Client.
type Options struct {
	// ServerURL is the backend host; basePath is appended to it.
	ServerURL string
	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration
	// Store supplies and receives tokens. Required.
	Store storage.Store
	// Refresher performs the 401 token refresh. Optional: without one any
	// 401 clears the session immediately.
	Refresher Refresher
	// OnUnauthorized is invoked once per failed-refresh event, after tokens
	// are wiped. Listeners typically raise a "session expired" notification
	// and log the session out.
	OnUnauthorized func(message string)
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Metrics, when set, receives per-operation request statistics.
	Metrics *metrics.Collector
	// HTTPClient overrides the default client, for tests.
	HTTPClient *http.Client
}

// Client is the HTTP client for the Sistema de Laudos backend.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	store          storage.Store
	refresher      Refresher
	onUnauthorized func(string)
	logger         *slog.Logger
	metrics        *metrics.Collector

	// refreshGroup collapses concurrent 401 refreshes into one attempt;
	// every caller blocks on the in-flight refresh and retries with its
	// result.
	refreshGroup singleflight.Group
}

// New creates a backend client.
func New(opts Options) *Client {
	if opts.ServerURL == "" {
		opts.ServerURL = "http://localhost:8000"
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Store == nil {
		opts.Store = storage.NewMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		baseURL:        opts.ServerURL + basePath,
		httpClient:     httpClient,
		store:          opts.Store,
		refresher:      opts.Refresher,
		onUnauthorized: opts.OnUnauthorized,
		logger:         opts.Logger,
		metrics:        opts.Metrics,
	}
}

// request is one backend call, replayable for the post-refresh retry.
type request struct {
	method      string
	path        string
	query       url.Values
	contentType string
	body        []byte
	progress    func(percent int)
}

// get performs a GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out)
}

// post performs a POST with a JSON body.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, body, out)
}

// put performs a PUT with a JSON body.
func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, nil, body, out)
}

// del performs a DELETE.
func (c *Client) del(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, out)
}

// getBlob performs a GET and returns the raw response body.
func (c *Client) getBlob(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.execute(ctx, request{method: http.MethodGet, path: path, query: query})
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	r := request{method: method, path: path, query: query}
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		r.body = payload
		r.contentType = "application/json"
	}

	data, err := c.execute(ctx, r)
	if err != nil {
		return err
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// upload performs a multipart POST reporting transfer progress. The payload
// is buffered so the request can be replayed after a token refresh.
func (c *Client) upload(ctx context.Context, path, field, filename string, content io.Reader, onProgress func(int)) ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("read upload content: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finish multipart body: %w", err)
	}

	return c.execute(ctx, request{
		method:      http.MethodPost,
		path:        path,
		contentType: w.FormDataContentType(),
		body:        buf.Bytes(),
		progress:    onProgress,
	})
}

// execute runs a request with the stored access token. On a 401 it performs
// at most one shared refresh and retries the request once with the fresh
// token; a 401 on the retried request is returned as-is, never re-refreshed.
func (c *Client) execute(ctx context.Context, r request) ([]byte, error) {
	token, _ := c.store.Get(storage.KeyAccessToken)

	data, err := c.attempt(ctx, r, token)
	if StatusCode(err) != http.StatusUnauthorized {
		return data, err
	}

	newToken, refreshErr := c.refreshAccessToken(ctx)
	if refreshErr != nil {
		c.logger.Warn("token refresh failed, clearing session", "error", refreshErr)
		c.handleUnauthorized()
		return nil, err
	}

	return c.attempt(ctx, r, newToken)
}

// attempt performs a single HTTP exchange and normalizes failures.
func (c *Client) attempt(ctx context.Context, r request, token string) (data []byte, err error) {
	if c.metrics != nil {
		start := time.Now()
		defer func() {
			c.metrics.RecordRequest(operationName(r.method, r.path), time.Since(start),
				err != nil, int64(len(r.body)), int64(len(data)))
		}()
	}

	endpoint := c.baseURL + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		reader := bytes.NewReader(r.body)
		if r.progress != nil {
			body = &progressReader{r: reader, total: int64(len(r.body)), report: r.progress}
		} else {
			body = reader
		}
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("X-Request-ID", uuid.New().String())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if r.progress != nil && (errors.Is(err, context.DeadlineExceeded) || isTimeout(err)) {
			return nil, &Error{Message: MsgUploadTimeout, cause: err}
		}
		return nil, connectionError(err)
	}
	defer resp.Body.Close()

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, connectionError(err)
	}

	c.logger.Debug("api request", "method", r.method, "path", r.path, "status", resp.StatusCode)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, nil
	}

	detail := extractDetail(data)
	if r.progress != nil {
		if apiErr := uploadError(resp.StatusCode, detail); apiErr != nil {
			return nil, apiErr
		}
	}
	return nil, normalizeStatus(resp.StatusCode, detail)
}

// refreshAccessToken performs the shared refresh. Concurrent callers receive
// the result of a single underlying attempt.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	v, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		refreshToken, ok := c.store.Get(storage.KeyRefreshToken)
		if !ok || refreshToken == "" {
			return nil, errors.New("no refresh token available")
		}
		if c.refresher == nil {
			return nil, errors.New("no refresher configured")
		}

		access, newRefresh, err := c.refresher.Refresh(ctx, refreshToken)
		if err != nil {
			return nil, fmt.Errorf("refresh token: %w", err)
		}
		if err := c.store.Set(storage.KeyAccessToken, access); err != nil {
			return nil, fmt.Errorf("store access token: %w", err)
		}
		if newRefresh != "" {
			if err := c.store.Set(storage.KeyRefreshToken, newRefresh); err != nil {
				return nil, fmt.Errorf("store refresh token: %w", err)
			}
		}
		return access, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// handleUnauthorized wipes the session after an unrecoverable 401 and raises
// the ambient signal for listeners, independent of which call triggered it.
func (c *Client) handleUnauthorized() {
	_ = c.store.Delete(storage.KeyAccessToken)
	_ = c.store.Delete(storage.KeyRefreshToken)
	_ = c.store.Delete(storage.KeyUser)

	if c.onUnauthorized != nil {
		c.onUnauthorized(MsgSessionExpired)
	}
}

// uploadError maps upload-specific failures. The backend detail wins when
// present; otherwise 413/415 get their dedicated messages.
func uploadError(status int, detail string) *Error {
	if status == http.StatusUnauthorized {
		return nil // let the refresh flow run
	}
	if detail != "" {
		return &Error{StatusCode: status, Message: detail, Detail: detail}
	}
	switch status {
	case http.StatusRequestEntityTooLarge:
		return &Error{StatusCode: status, Message: MsgFileTooLarge}
	case http.StatusUnsupportedMediaType:
		return &Error{StatusCode: status, Message: MsgUnsupportedType}
	}
	return nil
}

// unmarshalResult decodes a raw response body into out, tolerating empty
// bodies.
func unmarshalResult(data []byte, out any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// extractDetail pulls the backend's {"detail": "..."} message, if any.
func extractDetail(data []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	return payload.Detail
}

// operationName collapses a request path to its resource family, keeping
// per-id paths from exploding the metrics cardinality.
func operationName(method, path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i > 0 {
		trimmed = trimmed[:i]
	}
	return method + " /" + trimmed
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// progressReader reports transfer percentage as the transport consumes the
// request body.
type progressReader struct {
	r      io.Reader
	total  int64
	read   int64
	last   int
	report func(int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.total > 0 {
		p.read += int64(n)
		percent := int(math.Round(float64(p.read) * 100 / float64(p.total)))
		if percent != p.last {
			p.last = percent
			p.report(percent)
		}
	}
	return n, err
}
