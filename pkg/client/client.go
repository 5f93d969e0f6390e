package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/enclypt/enclypt/pkg/domain"
)

// DefaultTimeout is the per-request deadline when none is configured.
const DefaultTimeout = 30 * time.Second

// allowedPaths is the fixed endpoint whitelist. Anything else is rejected
// locally before a request is built.
var allowedPaths = map[string]struct{}{
	"/token":          {},
	"/register":       {},
	"/encrypt":        {},
	"/decrypt":        {},
	"/dashboard":      {},
	"/dashboard/json": {},
	"/dashboard/key":  {},
}

// Client is the Enclypt API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a new API client with the default request timeout.
func New(baseURL, token string) *Client {
	return NewWithTimeout(baseURL, token, DefaultTimeout)
}

// NewWithTimeout creates a new API client with an explicit request timeout.
func NewWithTimeout(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// tokenResponse is the shape of the POST /token response.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Login exchanges credentials for a bearer token. The token is returned, not
// stored — session ownership belongs to the session manager.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp tokenResponse
	body := map[string]string{"username": username, "password": password}
	if err := c.post(ctx, "/token", body, &resp); err != nil {
		return "", fmt.Errorf("client.Login: %w", err)
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("client.Login: empty access_token in response")
	}
	return resp.AccessToken, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	if err := c.post(ctx, "/register", body, nil); err != nil {
		return fmt.Errorf("client.Register: %w", err)
	}
	return nil
}

// Dashboard returns the account overview: email, tier and processed files.
func (c *Client) Dashboard(ctx context.Context) (*domain.DashboardData, error) {
	var d domain.DashboardData
	if err := c.get(ctx, "/dashboard", &d); err != nil {
		return nil, fmt.Errorf("client.Dashboard: %w", err)
	}
	return &d, nil
}

// DashboardJSON returns the raw file-listing export.
func (c *Client) DashboardJSON(ctx context.Context) ([]domain.FileRecord, error) {
	var files []domain.FileRecord
	if err := c.get(ctx, "/dashboard/json", &files); err != nil {
		return nil, fmt.Errorf("client.DashboardJSON: %w", err)
	}
	return files, nil
}

// LicenseKey returns the account's license key.
func (c *Client) LicenseKey(ctx context.Context) (string, error) {
	var k domain.LicenseKey
	if err := c.get(ctx, "/dashboard/key", &k); err != nil {
		return "", fmt.Errorf("client.LicenseKey: %w", err)
	}
	return k.Key, nil
}

// TransferRequest describes a file submitted for encryption or decryption.
// RSAKey is the PEM key material for method "rsa": the public key when
// encrypting, the private key when decrypting. Other methods ignore it.
type TransferRequest struct {
	Filename string
	Data     io.Reader
	Method   domain.Method
	RSAKey   string
}

// TransferResult is the transformed file returned by the server, along with
// the filename the server suggested via Content-Disposition.
type TransferResult struct {
	Filename string
	Data     []byte
}

// Encrypt submits a file for server-side encryption.
func (c *Client) Encrypt(ctx context.Context, req TransferRequest) (*TransferResult, error) {
	res, err := c.transfer(ctx, "/encrypt", req, "rsa_public_key", "encrypted_")
	if err != nil {
		return nil, fmt.Errorf("client.Encrypt: %w", err)
	}
	return res, nil
}

// Decrypt submits a file for server-side decryption.
func (c *Client) Decrypt(ctx context.Context, req TransferRequest) (*TransferResult, error) {
	res, err := c.transfer(ctx, "/decrypt", req, "rsa_private_key", "decrypted_")
	if err != nil {
		return nil, fmt.Errorf("client.Decrypt: %w", err)
	}
	return res, nil
}

func (c *Client) transfer(ctx context.Context, path string, req TransferRequest, keyField, fallbackPrefix string) (*TransferResult, error) {
	url, err := c.buildURL(path)
	if err != nil {
		return nil, err
	}
	if !req.Method.Valid() {
		return nil, fmt.Errorf("invalid method %q", req.Method)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", req.Filename)
	if err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}
	if _, err := io.Copy(part, req.Data); err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if err := w.WriteField("method", string(req.Method)); err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}
	if req.RSAKey != "" {
		if err := w.WriteField(keyField, req.RSAKey); err != nil {
			return nil, fmt.Errorf("build form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())
	c.setCommonHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyNetErr(err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		return nil, readAPIError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	name := fallbackPrefix + req.Filename
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			name = params["filename"]
		}
	}
	return &TransferResult{Filename: name, Data: data}, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body, out any) error {
	url, err := c.buildURL(path)
	if err != nil {
		return err
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setCommonHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyNetErr(err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		return readAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) buildURL(path string) (string, error) {
	if _, ok := allowedPaths[path]; !ok {
		return "", fmt.Errorf("%w: %s", ErrPathNotAllowed, path)
	}
	return c.baseURL + path, nil
}

func (c *Client) setCommonHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// classifyNetErr maps transport failures onto the client error taxonomy:
// deadline overruns become ErrTimeout, everything else stays a generic
// network error.
func classifyNetErr(err error) error {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w after deadline: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("network error: %w", err)
}

// readAPIError converts a non-2xx response into an HTTPError, preferring the
// server's "detail" field and falling back to the raw body.
func readAPIError(resp *http.Response) error {
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
	if readErr != nil {
		return &HTTPError{StatusCode: resp.StatusCode, Detail: fmt.Sprintf("failed to read body: %v", readErr)}
	}
	var apiErr struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Detail != "" {
		return &HTTPError{StatusCode: resp.StatusCode, Detail: apiErr.Detail}
	}
	return &HTTPError{StatusCode: resp.StatusCode, Detail: string(body)}
}
