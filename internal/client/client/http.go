package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/snappy/internal/client/models"
	"github.com/dmitrijs2005/snappy/internal/common"
	"github.com/dmitrijs2005/snappy/internal/logging"
	"github.com/google/uuid"
)

// maxResponseSize caps how much of a response body is read. Avatars are
// small SVGs and rosters are bounded by the user base.
const maxResponseSize = 8 << 20

// HTTPConfig holds configuration for creating an HTTPClient.
type HTTPConfig struct {
	// ServerURL is the chat backend base URL, e.g. "http://localhost:5000".
	ServerURL string
	// AvatarAPIURL is the avatar generator base URL; the seed is appended
	// as the last path segment.
	AvatarAPIURL string
	// Timeout bounds every single request. Zero means no bound.
	Timeout time.Duration
	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client
	// Logger receives per-request debug records. If nil, logging is discarded.
	Logger logging.Logger
}

// HTTPClient talks JSON to the chat backend and fetches raw SVGs from the
// avatar generator. It implements both Client and AvatarGenerator and is
// safe for concurrent use.
type HTTPClient struct {
	serverURL    string
	avatarAPIURL string
	timeout      time.Duration
	httpClient   *http.Client
	logger       logging.Logger
}

var (
	_ Client          = (*HTTPClient)(nil)
	_ AvatarGenerator = (*HTTPClient)(nil)
)

func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	serverURL, err := normalizeBaseURL("ServerURL", cfg.ServerURL)
	if err != nil {
		return nil, err
	}
	avatarURL, err := normalizeBaseURL("AvatarAPIURL", cfg.AvatarAPIURL)
	if err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &HTTPClient{
		serverURL:    serverURL,
		avatarAPIURL: avatarURL,
		timeout:      cfg.Timeout,
		httpClient:   httpClient,
		logger:       logger.With("component", "http-client"),
	}, nil
}

func normalizeBaseURL(field, raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("client: %s is required", field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("client: invalid %s %q: %w", field, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("client: invalid %s %q: scheme must be http or https", field, raw)
	}
	return strings.TrimRight(raw, "/"), nil
}

// Close releases idle connections held by the transport.
func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// loginRequest is the wire shape of the login body built by encodeLogin.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

const hexDigits = "0123456789abcdef"

// encodeLogin renders a loginRequest body without copying the password into
// a string. Password bytes are emitted as a JSON string, escaping quotes,
// backslashes and control characters.
func encodeLogin(username string, password []byte) ([]byte, error) {
	user, err := json.Marshal(username)
	if err != nil {
		return nil, fmt.Errorf("client: failed to marshal request: %w", err)
	}

	// Worst case every byte becomes \u00XX; sized so append never reallocates
	// and leaves an unwiped copy behind.
	buf := make([]byte, 0, len(user)+6*len(password)+32)
	buf = append(buf, `{"username":`...)
	buf = append(buf, user...)
	buf = append(buf, `,"password":"`...)
	for _, b := range password {
		switch {
		case b == '"' || b == '\\':
			buf = append(buf, '\\', b)
		case b < 0x20:
			buf = append(buf, '\\', 'u', '0', '0', hexDigits[b>>4], hexDigits[b&0xf])
		default:
			buf = append(buf, b)
		}
	}
	buf = append(buf, `"}`...)
	return buf, nil
}

type loginResponse struct {
	Status bool            `json:"status"`
	Msg    string          `json:"msg"`
	User   models.Identity `json:"user"`
}

// Login exchanges credentials for the identity record. A response with
// status=false is reported as ErrRejected carrying the server message.
//
// The password is never converted to a string; the encoded request body is
// wiped once the request is done.
func (c *HTTPClient) Login(ctx context.Context, username string, password []byte) (models.Identity, error) {
	payload, err := encodeLogin(username, password)
	if err != nil {
		return models.Identity{}, err
	}
	defer common.WipeByteArray(payload)

	body, err := c.do(ctx, http.MethodPost, c.serverURL, "/api/auth/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		return models.Identity{}, err
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return models.Identity{}, fmt.Errorf("%w: login: %v", ErrMalformedResponse, err)
	}
	if !resp.Status {
		return models.Identity{}, fmt.Errorf("%w: %s", ErrRejected, resp.Msg)
	}
	return resp.User, nil
}

type rosterResponse struct {
	Users []models.Contact `json:"users"`
}

// GetContacts returns every contact reachable by identityID, in server order.
// Both {"users":[...]} and a bare JSON array are accepted.
func (c *HTTPClient) GetContacts(ctx context.Context, identityID string) ([]models.Contact, error) {
	body, err := c.doJSON(ctx, http.MethodGet, c.serverURL, "/api/auth/allusers/"+url.PathEscape(identityID), nil)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var contacts []models.Contact
		if err := json.Unmarshal(trimmed, &contacts); err != nil {
			return nil, fmt.Errorf("%w: roster: %v", ErrMalformedResponse, err)
		}
		return nonNil(contacts), nil
	}

	var resp rosterResponse
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return nil, fmt.Errorf("%w: roster: %v", ErrMalformedResponse, err)
	}
	return nonNil(resp.Users), nil
}

func nonNil(c []models.Contact) []models.Contact {
	if c == nil {
		return []models.Contact{}
	}
	return c
}

type setAvatarRequest struct {
	Image string `json:"image"`
}

type setAvatarResponse struct {
	IsSet bool   `json:"isSet"`
	Image string `json:"image"`
}

// SetAvatar submits payload as the avatar of identityID.
func (c *HTTPClient) SetAvatar(ctx context.Context, identityID string, payload string) (AvatarCommit, error) {
	body, err := c.doJSON(ctx, http.MethodPost, c.serverURL, "/api/auth/setavatar/"+url.PathEscape(identityID),
		setAvatarRequest{Image: payload})
	if err != nil {
		return AvatarCommit{}, err
	}

	var resp setAvatarResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return AvatarCommit{}, fmt.Errorf("%w: set avatar: %v", ErrMalformedResponse, err)
	}
	if resp.IsSet && resp.Image == "" {
		return AvatarCommit{}, fmt.Errorf("%w: set avatar: accepted without image", ErrMalformedResponse)
	}
	return AvatarCommit{Accepted: resp.IsSet, CanonicalPayload: resp.Image}, nil
}

// GetCandidate fetches one generated SVG and returns it base64 encoded.
func (c *HTTPClient) GetCandidate(ctx context.Context, seed int) (string, error) {
	body, err := c.do(ctx, http.MethodGet, c.avatarAPIURL, "/"+strconv.Itoa(seed), "", nil)
	if err != nil {
		return "", err
	}
	if len(body) == 0 {
		return "", fmt.Errorf("%w: empty avatar for seed %d", ErrMalformedResponse, seed)
	}
	return base64.StdEncoding.EncodeToString(body), nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, base, path string, payload any) ([]byte, error) {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("client: failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, base, path, contentType, body)
}

// do performs one request under the configured timeout. Transport failures
// map to ErrUnavailable, non-2xx statuses to *StatusError. Cancellation by the
// caller is returned as-is so callers can tell it apart from a failure.
func (c *HTTPClient) do(ctx context.Context, method, base, path, contentType string, body io.Reader) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	request, err := http.NewRequestWithContext(ctx, method, base+path, body)
	if err != nil {
		return nil, fmt.Errorf("client: failed to create request: %w", err)
	}
	requestID := uuid.NewString()
	request.Header.Set(common.RequestIDHeaderName, requestID)
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}

	started := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%s %s: %w", method, path, context.Canceled)
		}
		c.logger.Warn(ctx, "request failed", "request_id", requestID, "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s %s: %v", ErrUnavailable, method, path, err)
	}

	c.logger.Debug(ctx, "request done", "request_id", requestID, "method", method, "path", path,
		"status", response.StatusCode, "elapsed", time.Since(started))

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, &StatusError{Method: method, Path: path, StatusCode: response.StatusCode, Body: string(responseBody)}
	}
	return responseBody, nil
}
