// Package upstream provides the HTTP client used to call tenant HR backends.
//
// All calls share a uniform error taxonomy so handlers never inspect raw
// transport errors:
//
//   - timeouts surface as ErrUpstreamTimeout (504)
//   - transport failures surface as ErrUpstreamUnavailable (503)
//   - backend 4xx responses surface as *UpstreamClientError and pass through
//     with their original status code
//   - backend 5xx responses and unparsable success bodies surface as
//     ErrUpstreamBadResponse (502)
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/allisson/hrgate/internal/errors"
)

// Target identifies a tenant HR backend: its base URL plus the decrypted API
// key sent as a bearer token. The key only ever lives in memory.
type Target struct {
	BaseURL string
	APIKey  string
}

// FilePart describes one file in a multipart upload.
type FilePart struct {
	FieldName   string
	FileName    string
	ContentType string
	Content     io.Reader
}

// Download is a streamed file response from the HR backend. The caller owns
// Body and must close it.
type Download struct {
	Body               io.ReadCloser
	ContentType        string
	ContentDisposition string
	ContentLength      int64
}

// Client calls tenant HR backends with a fixed timeout ceiling.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client. The timeout applies to every call regardless of
// payload shape, including the streamed body of downloads.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// CallJSON performs a JSON request against the target and returns the raw
// JSON response body. For GET requests payload is ignored.
func (c *Client) CallJSON(
	ctx context.Context,
	target Target,
	method, endpoint string,
	payload any,
) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil && method != http.MethodGet {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, joinURL(target.BaseURL, endpoint), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	setAuth(req, target)

	c.logger.Info("calling hr backend",
		slog.String("method", method),
		slog.String("endpoint", endpoint),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(method, endpoint, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if err := c.checkStatus(resp, method, endpoint); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportError(method, endpoint, err)
	}
	if !json.Valid(data) {
		c.logger.Error("hr backend returned invalid JSON",
			slog.String("method", method),
			slog.String("endpoint", endpoint),
		)
		return nil, apperrors.Wrap(apperrors.ErrUpstreamBadResponse, "invalid JSON body")
	}

	return json.RawMessage(data), nil
}

// CallMultipart performs a multipart/form-data POST against the target and
// returns the raw JSON response body. Fields are plain form values; files are
// streamed into their parts.
func (c *Client) CallMultipart(
	ctx context.Context,
	target Target,
	endpoint string,
	fields map[string]string,
	files []FilePart,
) (json.RawMessage, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write form field: %w", err)
		}
	}

	for _, file := range files {
		part, err := createFilePart(writer, file)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, fmt.Errorf("failed to copy file content: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		joinURL(target.BaseURL, endpoint),
		&buf,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	setAuth(req, target)

	c.logger.Info("calling hr backend (multipart)",
		slog.String("endpoint", endpoint),
		slog.Int("files", len(files)),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(http.MethodPost, endpoint, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if err := c.checkStatus(resp, http.MethodPost, endpoint); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportError(http.MethodPost, endpoint, err)
	}
	if !json.Valid(data) {
		return nil, apperrors.Wrap(apperrors.ErrUpstreamBadResponse, "invalid JSON body")
	}

	return json.RawMessage(data), nil
}

// Download performs a GET against the target and returns the response body as
// a stream, along with the content headers the backend provided. The caller
// must close Download.Body.
func (c *Client) Download(ctx context.Context, target Target, endpoint string) (*Download, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, joinURL(target.BaseURL, endpoint), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	setAuth(req, target)

	c.logger.Info("downloading from hr backend", slog.String("endpoint", endpoint))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(http.MethodGet, endpoint, err)
	}

	if err := c.checkStatus(resp, http.MethodGet, endpoint); err != nil {
		_ = resp.Body.Close()
		return nil, err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	contentDisposition := resp.Header.Get("Content-Disposition")
	if contentDisposition == "" {
		contentDisposition = "attachment"
	}

	return &Download{
		Body:               resp.Body,
		ContentType:        contentType,
		ContentDisposition: contentDisposition,
		ContentLength:      resp.ContentLength,
	}, nil
}

// checkStatus maps non-2xx responses to the uniform error taxonomy. It reads
// and discards the response body for error statuses.
func (c *Client) checkStatus(resp *http.Response, method, endpoint string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))

	c.logger.Error("hr backend returned error status",
		slog.String("method", method),
		slog.String("endpoint", endpoint),
		slog.Int("status_code", resp.StatusCode),
	)

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return &apperrors.UpstreamClientError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
		}
	}

	return apperrors.Wrap(
		apperrors.ErrUpstreamBadResponse,
		fmt.Sprintf("status %d", resp.StatusCode),
	)
}

// transportError maps transport failures to the uniform error taxonomy.
func (c *Client) transportError(method, endpoint string, err error) error {
	c.logger.Error("hr backend call failed",
		slog.String("method", method),
		slog.String("endpoint", endpoint),
		slog.Any("error", err),
	)

	if isTimeout(err) {
		return apperrors.Wrap(apperrors.ErrUpstreamTimeout, err.Error())
	}
	return apperrors.Wrap(apperrors.ErrUpstreamUnavailable, err.Error())
}

// isTimeout reports whether the transport error was caused by a timeout.
func isTimeout(err error) bool {
	if apperrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if apperrors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}
	return false
}

// errorMessage extracts the "message" field from a JSON error body, falling
// back to a generic description when the body is not parsable.
func errorMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	return "error communicating with the HR backend"
}

// setAuth adds the bearer token header when the target has an API key.
func setAuth(req *http.Request, target Target) {
	if target.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+target.APIKey)
	}
}

// joinURL concatenates a base URL and an endpoint path without doubled slashes.
func joinURL(baseURL, endpoint string) string {
	return strings.TrimRight(baseURL, "/") + endpoint
}

func createFilePart(writer *multipart.Writer, file FilePart) (io.Writer, error) {
	if file.ContentType == "" {
		return writer.CreateFormFile(file.FieldName, file.FileName)
	}

	header := textproto.MIMEHeader{}
	header.Set(
		"Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, file.FieldName, file.FileName),
	)
	header.Set("Content-Type", file.ContentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to create file part: %w", err)
	}
	return part, nil
}

const errorBodyLimit = 64 * 1024
