package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mattaxpro/client-go/internal/session"
	"github.com/mattaxpro/client-go/pkg/util"
)

// UnauthorizedHandler is invoked once per 401 response, after the stored
// token has been cleared. It stands in for the redirect-to-login step.
type UnauthorizedHandler func(ctx context.Context)

// Options configures a Client.
type Options struct {
	BaseURL string
	// Timeout of zero means none: a hung request stays pending until
	// the transport gives up.
	Timeout        time.Duration
	Store          session.Store
	Logger         *zap.Logger
	OnUnauthorized UnauthorizedHandler
	// HTTPClient overrides the default transport, mainly for tests.
	HTTPClient *http.Client
}

// Client is the shared REST transport. Every request attaches the
// current bearer token (one consistent credential scheme), carries a
// correlation id, and performs no retries; the caller owns any retry
// affordance.
type Client struct {
	baseURL        string
	http           *http.Client
	store          session.Store
	logger         *zap.Logger
	onUnauthorized UnauthorizedHandler
}

// New constructs the client.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		http:           httpClient,
		store:          opts.Store,
		logger:         logger,
		onUnauthorized: opts.OnUnauthorized,
	}
}

// errorBody is the shape servers use for failure messages.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}, fallback string) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return util.Wrap(util.KindNetwork, fallback, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := c.newRequest(ctx, method, path, query, reader)
	if err != nil {
		return util.Wrap(util.KindNetwork, fallback, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out, fallback)
}

// doMultipart uploads a file field plus optional form values, used by
// CSV import and receipt extraction.
func (c *Client) doMultipart(ctx context.Context, path, field, filename string, file io.Reader, out interface{}, fallback string) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return util.Wrap(util.KindNetwork, fallback, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return util.Wrap(util.KindNetwork, fallback, err)
	}
	if err := writer.Close(); err != nil {
		return util.Wrap(util.KindNetwork, fallback, err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, &buf)
	if err != nil {
		return util.Wrap(util.KindNetwork, fallback, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.send(req, out, fallback)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	token, err := c.store.Load()
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) send(req *http.Request, out interface{}, fallback string) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Error(err),
		)
		return util.NewNetwork(fallback, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request completed",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		c.handleUnauthorized(req.Context())
		return util.NewAuthentication("session expired or invalid")
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return util.Wrap(util.KindNetwork, fmt.Sprintf("%s: unreadable response", fallback), err)
		}
		return nil
	}

	message := fallback
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Message != "" {
			message = body.Message
		} else if body.Error != "" {
			message = body.Error
		}
	}
	return util.FromStatus(resp.StatusCode, message)
}

// handleUnauthorized is the shared 401 path: clear the stored token,
// then notify the embedder so it can redirect to login. Runs for a 401
// from any resource endpoint.
func (c *Client) handleUnauthorized(ctx context.Context) {
	if err := c.store.Clear(ctx, session.ClearReasonUnauthorized); err != nil {
		c.logger.Warn("failed to clear session after 401", zap.Error(err))
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized(ctx)
	}
}
