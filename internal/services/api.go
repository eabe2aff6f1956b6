// Request envelope builder for the video API
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidx/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const defaultBaseURL string = "http://localhost:8000/api/v1"

// Request describes a call relative to the API base URL.
//
// Body may be nil, a []byte or [json.RawMessage] sent as-is, or any value encoded as JSON.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    any
	Headers map[string]string
}

// APIService performs requests against the video API and normalizes every outcome into an [Envelope].
//
// It is safe for concurrent use.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewAPIService creates a new API service. An empty baseURL uses the local default, a nil client
// uses [http.DefaultClient] and a nil token store keeps the session in memory.
func NewAPIService(baseURL string, client *http.Client, tokens TokenStore) *APIService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if tokens == nil {
		tokens = NewMemoryTokenStore()
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		tokens:     tokens,
		logger:     log.Default(),
	}
}

// SetRateLimit limits outgoing requests to rps per second. Zero or less disables limiting.
func (a *APIService) SetRateLimit(rps float64) {
	if rps <= 0 {
		a.limiter = nil
		return
	}
	a.limiter = rate.NewLimiter(rate.Limit(rps), 1)
}

// SetLogger replaces the logger used for request tracing.
func (a *APIService) SetLogger(l *log.Logger) {
	if l != nil {
		a.logger = l
	}
}

// Tokens returns the store whose token is attached to requests.
func (a *APIService) Tokens() TokenStore {
	return a.tokens
}

// BaseURL returns the API base URL without a trailing slash.
func (a *APIService) BaseURL() string {
	return a.baseURL
}

// Do performs r and returns its outcome. It never returns an error; failures are reported in the envelope.
func (a *APIService) Do(ctx context.Context, r Request) Envelope {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	fullURL := a.baseURL + "/" + strings.TrimLeft(r.Path, "/")
	if len(r.Query) > 0 {
		fullURL += "?" + r.Query.Encode()
	}

	body, err := encodeBody(r.Body)
	if err != nil {
		return localFailure(err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return failure(KindTransport, 0, fmt.Sprintf("failed to create request: %v", err))
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	token := a.tokens.Token()
	if token != "" {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
	}

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return failure(KindTransport, 0, fmt.Sprintf("rate limit wait: %v", err))
		}
	}

	start := time.Now()
	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Debug("api request failed", "method", method, "path", r.Path, "error", err)
		return failure(KindTransport, 0, fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure(KindTransport, resp.StatusCode, fmt.Sprintf("failed to read response: %v", err))
	}

	a.logger.Debug("api request", "method", method, "path", r.Path, "status", resp.StatusCode, "duration", time.Since(start))

	return a.normalize(resp, data, token != "")
}

func (a *APIService) normalize(resp *http.Response, data []byte, authenticated bool) Envelope {
	jsonBody := isJSONContent(resp.Header.Get("Content-Type"))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if len(bytes.TrimSpace(data)) == 0 {
			return Envelope{Success: true, Status: resp.StatusCode}
		}
		if !jsonBody || !json.Valid(data) {
			return failure(KindFormat, resp.StatusCode, invalidFormatMessage)
		}
		if msg, rejected := reportedFailure(data, resp.StatusCode); rejected {
			return failure(KindStatus, resp.StatusCode, msg)
		}
		return Envelope{Success: true, Status: resp.StatusCode, Data: json.RawMessage(data)}
	}

	msg := ""
	if jsonBody {
		msg = errorMessage(data)
	}
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
	}
	env := failure(KindStatus, resp.StatusCode, msg)

	if resp.StatusCode == http.StatusUnauthorized && authenticated {
		if err := a.tokens.Clear(); err != nil {
			a.logger.Warn("failed to clear session after 401", "error", err)
		} else {
			a.logger.Info("session rejected, signed out")
		}
		env.cause = fmt.Errorf("%w: %s", shared.ErrTokenExpired, msg)
	}
	return env
}

// Get performs a GET request to path.
func (a *APIService) Get(ctx context.Context, path string, query url.Values) Envelope {
	return a.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with body encoded as JSON.
func (a *APIService) Post(ctx context.Context, path string, body any) Envelope {
	return a.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to encode request body: %v", shared.ErrInvalidInput, err)
		}
		return data, nil
	}
}

func isJSONContent(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// errorMessage extracts the server-provided message from an error body.
func errorMessage(data []byte) string {
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	for _, key := range []string{"message", "error", "detail"} {
		if s, ok := body[key].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
