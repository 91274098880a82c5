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
)

// TokenSource supplies the bearer token attached to authenticated requests.
// An empty string means "no token"; the Authorization header is then omitted.
type TokenSource interface {
	AccessToken() string
}

// requestOptions controls per-request behavior of HTTPClient.do.
type requestOptions struct {
	skipAuth bool
}

// HTTPClient implements Client over JSON/HTTP.
type HTTPClient struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
}

func NewHTTPClient(baseURL string, tokens TokenSource, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    httpClient,
	}
}

// do performs one request against the backend.
//
// Behavior, in order:
//   - a JSON content type is set whenever a body is present;
//   - a bearer token from the TokenSource is attached unless opts.skipAuth;
//   - the response body is parsed as JSON or text based on its content type;
//   - any non-2xx status is returned as *APIError, preferring a "detail"
//     field from a JSON error body over the HTTP status text.
//
// On success the parsed JSON body is decoded into out (when out is non-nil).
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any, opts requestOptions) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if !opts.skipAuth && c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return fmt.Errorf("%w: %v", ErrUnavailable, urlErr.Err)
		}
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var data any
	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") && len(raw) > 0 {
		if err := json.Unmarshal(raw, &data); err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}
	} else if resp.StatusCode != http.StatusNoContent {
		data = string(raw)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			Status:  resp.StatusCode,
			Message: errorMessage(data, resp),
			Body:    data,
		}
	}

	if out != nil && strings.Contains(contentType, "application/json") && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}
	}
	return nil
}

// errorMessage extracts the user-facing message for a failed response,
// preferring a "detail" field from a JSON error body.
func errorMessage(data any, resp *http.Response) string {
	if m, ok := data.(map[string]any); ok {
		if detail, ok := m["detail"]; ok {
			return fmt.Sprint(detail)
		}
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return "request failed"
}

func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": string(password)}
	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &result, requestOptions{skipAuth: true}); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GetStudentProfile(ctx context.Context) (*StudentProfile, error) {
	var profile StudentProfile
	if err := c.do(ctx, http.MethodGet, "/students/me", nil, &profile, requestOptions{}); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *HTTPClient) GetJoinSession(ctx context.Context, token string) (*SessionSnapshot, error) {
	var snap SessionSnapshot
	path := "/join/" + url.PathEscape(token)
	if err := c.do(ctx, http.MethodGet, path, nil, &snap, requestOptions{}); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *HTTPClient) SubmitJoinSession(ctx context.Context, token string, payload *CheckinPayload) (*SubmitResult, error) {
	var result SubmitResult
	path := "/join/" + url.PathEscape(token)
	if err := c.do(ctx, http.MethodPost, path, payload, &result, requestOptions{}); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GetSessionDashboard(ctx context.Context, sessionID string) (*SessionDashboard, error) {
	var dashboard SessionDashboard
	path := "/sessions/" + url.PathEscape(sessionID) + "/dashboard"
	if err := c.do(ctx, http.MethodGet, path, nil, &dashboard, requestOptions{}); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

func (c *HTTPClient) GetSessionSubmissions(ctx context.Context, sessionID string) ([]Submission, error) {
	var submissions []Submission
	path := "/sessions/" + url.PathEscape(sessionID) + "/submissions"
	if err := c.do(ctx, http.MethodGet, path, nil, &submissions, requestOptions{}); err != nil {
		return nil, err
	}
	return submissions, nil
}

func (c *HTTPClient) ListCourseSessions(ctx context.Context, courseID string) ([]SessionMeta, error) {
	var sessions []SessionMeta
	path := "/courses/" + url.PathEscape(courseID) + "/sessions"
	if err := c.do(ctx, http.MethodGet, path, nil, &sessions, requestOptions{}); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *HTTPClient) CloseSession(ctx context.Context, sessionID string) error {
	path := "/sessions/" + url.PathEscape(sessionID) + "/close"
	return c.do(ctx, http.MethodPost, path, nil, nil, requestOptions{})
}
