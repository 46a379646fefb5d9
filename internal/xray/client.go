package xray

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fjglira/xraysync/internal/domain"
)

// DefaultTimeout bounds every request made by the client.
const DefaultTimeout = 10 * time.Second

// Credentials authenticate against the Xray API.
type Credentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// Client talks to the Xray authentication and import endpoints.
type Client struct {
	AuthURL     string
	ImportURL   string
	Credentials Credentials
	HTTPClient  *http.Client
}

// NewClient creates a new Client. A non-positive timeout uses DefaultTimeout.
func NewClient(authURL, importURL string, creds Credentials, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		AuthURL:     authURL,
		ImportURL:   importURL,
		Credentials: creds,
		HTTPClient:  &http.Client{Timeout: timeout},
	}
}

// ImportResponse is the status and body returned by a successful import.
type ImportResponse struct {
	StatusCode int
	Body       string
}

// Authenticate exchanges the client credentials for a bearer token. The
// endpoint may answer with a bare JSON string or an object holding one of
// access_token, token or jwt.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	raw, err := json.Marshal(c.Credentials)
	if err != nil {
		return "", domain.NewError("auth", c.AuthURL, 0, "failed to encode credentials", err)
	}

	status, body, err := c.post(ctx, c.AuthURL, "", raw)
	if err != nil {
		return "", domain.NewErrorWithSuggestion("auth", c.AuthURL, 0,
			"authentication request failed",
			"check AUTH_URL and network connectivity",
			err)
	}
	if status < 200 || status >= 300 {
		return "", domain.NewErrorWithSuggestion("auth", c.AuthURL, 0,
			fmt.Sprintf("authentication returned HTTP %d: %s", status, body),
			"check CLIENT_ID and CLIENT_SECRET",
			nil)
	}

	token, err := extractToken(body)
	if err != nil {
		return "", domain.NewError("auth", c.AuthURL, 0, err.Error(), nil)
	}
	return token, nil
}

// Import uploads the payload with the given bearer token.
func (c *Client) Import(ctx context.Context, token string, issues []TestIssue) (*ImportResponse, error) {
	raw, err := Marshal(issues)
	if err != nil {
		return nil, domain.NewError("upload", c.ImportURL, 0, "failed to encode payload", err)
	}

	status, body, err := c.post(ctx, c.ImportURL, token, raw)
	if err != nil {
		return nil, domain.NewError("upload", c.ImportURL, 0, "import request failed", err)
	}
	if status < 200 || status >= 300 {
		return nil, domain.NewError("upload", c.ImportURL, 0,
			fmt.Sprintf("import returned HTTP %d: %s", status, body), nil)
	}
	return &ImportResponse{StatusCode: status, Body: string(body)}, nil
}

func (c *Client) post(ctx context.Context, url, token string, payload []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// extractToken pulls the bearer token out of an authentication response.
func extractToken(body []byte) (string, error) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("authentication response is not valid JSON")
	}

	var token string
	switch v := decoded.(type) {
	case string:
		token = v
	case map[string]any:
		for _, key := range []string{"access_token", "token", "jwt"} {
			if s, ok := v[key].(string); ok && s != "" {
				token = s
				break
			}
		}
	}
	if token == "" {
		return "", fmt.Errorf("authentication response has no token")
	}
	return token, nil
}
