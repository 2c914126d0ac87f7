package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client performs HTTP fetches for a build.
//
// We build on resty rather than raw net/http for its request-scoped
// context plumbing and header management; response bodies are still
// read manually so the size limit applies while reading, not after.
type Client struct {
	// http is the underlying resty client.
	http *resty.Client

	// maxBodySize limits how many response bytes are read.
	maxBodySize int64
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// WithUserAgent sets the User-Agent header for all requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.http.SetHeader("User-Agent", ua)
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		c.maxBodySize = size
	}
}

// NewClient creates a Client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:        resty.New(),
		maxBodySize: 10 * 1024 * 1024, // 10MB
	}

	// Bodies are read through readBody so the limit is enforced during
	// the read; resty must not slurp them first.
	c.http.SetDoNotParseResponse(true)

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Page is a fetched profile page.
type Page struct {
	// Body is the raw HTML.
	Body []byte

	// ContentType is the Content-Type response header, used for
	// charset detection during extraction.
	ContentType string
}

// FetchPage performs one GET of a live profile page.
// Non-2xx responses and network errors are fatal; the caller does not
// retry.
func (c *Client) FetchPage(ctx context.Context, pageURL string) (*Page, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "text/html,application/xhtml+xml").
		Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile page: %w", err)
	}

	body, err := c.readBody(resp)
	if err != nil {
		return nil, err
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %s returned %s", ErrBadStatus, redactURL(pageURL), resp.Status())
	}

	return &Page{
		Body:        body,
		ContentType: resp.Header().Get("Content-Type"),
	}, nil
}

// Avatar is the result of a successful avatar download.
type Avatar struct {
	// Path is the file the avatar was written to.
	Path string

	// Data is the downloaded image bytes, kept for EXIF inspection.
	Data []byte

	// SHA256 is the hex digest of Data, used for change detection.
	SHA256 string

	// ContentType is the Content-Type response header.
	ContentType string
}

// DownloadAvatar performs one GET of the avatar URL and writes exactly
// the response bytes to path, overwriting any prior file. Parent
// directories are created as needed.
func (c *Client) DownloadAvatar(ctx context.Context, avatarURL, path string) (*Avatar, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(avatarURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch avatar: %w", err)
	}

	data, err := c.readBody(resp)
	if err != nil {
		return nil, err
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: avatar fetch returned %s", ErrBadStatus, resp.Status())
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: got content type %q", ErrNotImage, contentType)
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create avatar directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return nil, fmt.Errorf("failed to write avatar file: %w", err)
	}

	sum := sha256.Sum256(data)

	return &Avatar{
		Path:        path,
		Data:        data,
		SHA256:      hex.EncodeToString(sum[:]),
		ContentType: contentType,
	}, nil
}

// readBody reads the raw response body, enforcing the size limit while
// reading. It always closes the body.
func (c *Client) readBody(resp *resty.Response) ([]byte, error) {
	raw := resp.RawBody()
	if raw == nil {
		return nil, nil
	}
	defer raw.Close() //nolint:errcheck // Read errors surface below

	// Read one byte past the limit to distinguish "exactly at the
	// limit" from "over it".
	data, err := io.ReadAll(io.LimitReader(raw, c.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(data)) > c.maxBodySize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, c.maxBodySize)
	}

	return data, nil
}

// redactURL drops the query string from a URL for error messages.
// Avatar and page URLs can carry signed tokens.
func redactURL(s string) string {
	if i := strings.IndexByte(s, '?'); i >= 0 {
		return s[:i]
	}
	return s
}
