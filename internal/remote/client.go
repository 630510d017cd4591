// Package remote implements the HTTP client for the image-of-the-day
// service. It performs exactly the two calls the archive needs, with a fixed
// timeout and no retry; retries and caching are the engine's business.
package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lochfern/bingwall/internal/domain"
	"go.uber.org/zap"
)

const (
	defaultArchiveURL = "https://www.bing.com/HpImageArchive.aspx"
	defaultImageHost  = "https://www.bing.com"

	requestTimeout = 15 * time.Second
	_maxImageSize  = 30 * 1024 * 1024 // 30 MB
)

// Compile-time check that Client implements domain.Source.
var _ domain.Source = (*Client)(nil)

// Client talks to the image archive endpoint over HTTP.
type Client struct {
	logger     *zap.Logger
	client     *http.Client
	archiveURL string
	imageHost  string
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURLs overrides the archive endpoint and image host, mainly for
// tests against a local server.
func WithBaseURLs(archiveURL, imageHost string) Option {
	return func(c *Client) {
		c.archiveURL = archiveURL
		c.imageHost = imageHost
	}
}

// NewClient creates a client for the remote service.
func NewClient(logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		logger: logger,
		client: &http.Client{
			Timeout: requestTimeout, // Essential to prevent blocking the daemon
		},
		archiveURL: defaultArchiveURL,
		imageHost:  defaultImageHost,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchMetadata requests the single day at the given offset for a region and
// returns the raw JSON body. A timeout or non-2xx status fails with ErrRemote
// and no partial data.
func (c *Client) FetchMetadata(ctx context.Context, offset int, region string) ([]byte, error) {
	url := fmt.Sprintf("%s?format=js&n=1&idx=%d&cc=%s", c.archiveURL, offset, region)
	data, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("metadata fetched",
		zap.Int("offset", offset),
		zap.String("region", region),
		zap.Int("bytes", len(data)))
	return data, nil
}

// FetchImage downloads the image bytes behind a metadata url field, applying
// the resolution policy of ResolveImageURL first.
func (c *Client) FetchImage(ctx context.Context, rawURL string) ([]byte, error) {
	url := c.ResolveImageURL(rawURL)
	data, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("image fetched",
		zap.String("url", url),
		zap.Int("bytes", len(data)))
	return data, nil
}

// ResolveImageURL resolves a metadata url field: absolute http(s) urls are
// used verbatim, anything else is treated as root-relative and prefixed with
// the service's canonical host over https.
func (c *Client) ResolveImageURL(rawURL string) string {
	if strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://") {
		return rawURL
	}
	return c.imageHost + rawURL
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", domain.ErrRemote, err)
	}
	req.Header.Set("User-Agent", "bingwall/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRemote, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status code %d", domain.ErrRemote, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, _maxImageSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrRemote, err)
	}
	return data, nil
}
