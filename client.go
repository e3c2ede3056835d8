package adminkit

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

	"github.com/rs/zerolog"

	"github.com/talentbase/adminkit.go/pkg/config"
)

// Scope selects the API namespace a resource lives under. The server applies
// tenant and session authorization per scope; the client only builds paths.
type Scope string

// ScopeSuperAdmin is the platform-wide namespace used by super-admin screens.
const ScopeSuperAdmin Scope = "superadmin"

// CompanyScope returns the per-company admin namespace for the given company.
func CompanyScope(companyID string) Scope {
	return Scope("companies/" + companyID)
}

// Client is the HTTP client every Resource goes through. It manages the base
// URL, bearer token and serialization; it holds no UI state whatsoever.
//
// Client instances are safe for concurrent use by multiple goroutines.
type Client struct {
	baseURL    string
	httpClient *http.Client
	authToken  string
	logger     zerolog.Logger
}

// Option customizes a Client at construction time.
type Option func(*Client)

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.authToken = token }
}

// WithHTTPClient replaces the underlying HTTP client, e.g. to install a test
// transport or custom TLS settings.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout on the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client for the given base URL, e.g. "https://api.example.com".
// The URL must not carry a trailing slash or an /api prefix.
//
// The client starts with a 30-second timeout and a no-op logger.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromEnv creates a Client from the ADMINKIT_* environment. A .env file in
// the working directory is honored when present. Options are applied after
// the environment so they win on conflict.
func FromEnv(opts ...Option) (*Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	base := []Option{WithToken(cfg.Token), WithTimeout(cfg.Timeout)}
	return New(cfg.BaseURL, append(base, opts...)...), nil
}

// SetAuthToken replaces the bearer token, e.g. after a session refresh.
func (c *Client) SetAuthToken(token string) { c.authToken = token }

// do performs one HTTP request. The body, when non-nil, is marshaled to JSON.
// Only transport-level failures are reported here; status handling belongs to
// decode.
func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Kind: KindDecode, Message: "could not encode the request payload", cause: err}
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, transportError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	c.logger.Debug().Str("method", method).Str("path", path).Msg("api request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Str("method", method).Str("path", path).Err(err).Msg("api request failed")
		return nil, transportError(err)
	}
	return resp, nil
}

// errorBody is the error envelope the API uses for rejections.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// decode consumes the response. A non-2xx status becomes a server error
// carrying the server-supplied message when one is present. A nil target
// discards the body (delete responses are empty).
func decode(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var eb errorBody
		msg := ""
		if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil {
			if eb.Error != "" {
				msg = eb.Error
			} else {
				msg = eb.Message
			}
		}
		return serverError(resp.StatusCode, msg)
	}

	if target != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return decodeError(err)
		}
	}
	return nil
}

// FileDescriptor is what the upload endpoint returns in place of an entity.
// The material form carries these fields into its create payload.
type FileDescriptor struct {
	FilePath string `json:"filePath"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
}

// UploadMaterial uploads one file through POST /api/{scope}/materials/upload
// as multipart form data and returns the stored file's descriptor.
func (c *Client) UploadMaterial(ctx context.Context, scope Scope, fileName string, r io.Reader) (FileDescriptor, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return FileDescriptor{}, transportError(err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return FileDescriptor{}, transportError(err)
	}
	if err := mw.Close(); err != nil {
		return FileDescriptor{}, transportError(err)
	}

	path := fmt.Sprintf("/api/%s/materials/upload", scope)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return FileDescriptor{}, transportError(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return FileDescriptor{}, transportError(err)
	}

	var fd FileDescriptor
	if err := decode(resp, &fd); err != nil {
		return FileDescriptor{}, err
	}
	return fd, nil
}

// collectionPath builds /api/{scope}/{entity}, optionally with an id segment
// and query string.
func collectionPath(scope Scope, entity, id string, query url.Values) string {
	path := fmt.Sprintf("/api/%s/%s", scope, entity)
	if id != "" {
		path += "/" + url.PathEscape(id)
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return path
}
