// Package s3client stores daily document snapshots and re-hosts seasonal
// guild icons in an S3-compatible bucket.
package s3client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const (
	maxImageSize    = 10 * 1024 * 1024  // 10 MB
	maxSnapshotSize = 100 * 1024 * 1024 // 100 MB
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// urlValidator is the function used to validate URLs before fetching.
// It is a variable so tests can override it.
var urlValidator = validateImageURL

// validateImageURL checks that the URL uses an allowed scheme and does not
// resolve to a private/loopback IP range.
func validateImageURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme %q", parsed.Scheme)
	}

	host := parsed.Hostname()
	ips, err := net.LookupHost(host)
	if err != nil {
		return fmt.Errorf("DNS lookup failed for %q: %w", host, err)
	}
	for _, ipStr := range ips {
		ip := net.ParseIP(ipStr)
		if ip == nil {
			continue
		}
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
			return fmt.Errorf("URL resolves to a blocked IP range")
		}
	}
	return nil
}

var (
	ErrNotConfigured = errors.New("s3 is not configured")
	ErrNotFound      = errors.New("snapshot not found")
)

func isNotFound(err error) bool {
	var nsk *s3types.NoSuchKey
	return errors.As(err, &nsk) || strings.Contains(err.Error(), "NoSuchKey")
}

type Client struct {
	s3       *s3.Client
	bucket   string
	endpoint string
	log      *slog.Logger
}

// New builds a client from S3_KEY, S3_SECRET, S3_ENDPOINT and S3_BUCKET.
// Missing configuration returns ErrNotConfigured so the bot can run
// without snapshots.
func New() (*Client, error) {
	key := os.Getenv("S3_KEY")
	secret := os.Getenv("S3_SECRET")
	endpoint := os.Getenv("S3_ENDPOINT")
	bucket := os.Getenv("S3_BUCKET")
	if key == "" || secret == "" || endpoint == "" || bucket == "" {
		return nil, ErrNotConfigured
	}

	client := s3.New(s3.Options{
		Region:           "us-southeast-1",
		BaseEndpoint:     &endpoint,
		Credentials:      credentials.NewStaticCredentialsProvider(key, secret, ""),
		UsePathStyle:     true,
		RetryMaxAttempts: 5,
	})

	return &Client{
		s3:       client,
		bucket:   bucket,
		endpoint: endpoint,
		log:      slog.Default(),
	}, nil
}

// NewDirect creates a Client with explicitly provided dependencies.
func NewDirect(s3Client *s3.Client, bucket, endpoint string, log *slog.Logger) *Client {
	return &Client{
		s3:       s3Client,
		bucket:   bucket,
		endpoint: endpoint,
		log:      log,
	}
}

// Bucket returns the configured S3 bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}

func snapshotPath(kind, date string) string {
	return fmt.Sprintf("snapshots/%s/%s.json", kind, date)
}

// SaveSnapshot stores one day's copy of a document under
// snapshots/{kind}/{date}.json.
func (c *Client) SaveSnapshot(ctx context.Context, kind, date string, data []byte) error {
	s3Path := snapshotPath(kind, date)

	start := time.Now()
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &c.bucket,
		Key:    &s3Path,
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("saving snapshot to s3: %w", err)
	}

	c.log.Info(fmt.Sprintf("s3 write time: %dms", time.Since(start).Milliseconds()),
		"kind", kind, "date", date, "bytes", len(data))
	return nil
}

// FetchSnapshot retrieves a stored snapshot, ErrNotFound if the day has
// none.
func (c *Client) FetchSnapshot(ctx context.Context, kind, date string) ([]byte, error) {
	s3Path := snapshotPath(kind, date)
	out, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &c.bucket,
		Key:    &s3Path,
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetching snapshot from s3: %w", err)
	}
	defer out.Body.Close()
	return io.ReadAll(io.LimitReader(out.Body, maxSnapshotSize))
}

// FetchThemeIcon downloads a seasonal icon, verifying the URL and that
// the payload really is an image.
func (c *Client) FetchThemeIcon(ctx context.Context, iconURL string) ([]byte, error) {
	if err := urlValidator(iconURL); err != nil {
		return nil, fmt.Errorf("URL validation failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, iconURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building icon request: %w", err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching icon: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return nil, fmt.Errorf("reading icon body: %w", err)
	}

	ct := http.DetectContentType(data)
	if !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("icon URL returned %s, not an image", ct)
	}
	return data, nil
}

// SaveThemeIcon re-hosts a seasonal icon under icons/{guildID}/{season}
// and returns the public URL. The path is deterministic so re-uploads
// replace the previous copy.
func (c *Client) SaveThemeIcon(ctx context.Context, guildID, season string, data []byte) (string, error) {
	ext := "bin"
	switch http.DetectContentType(data) {
	case "image/jpeg":
		ext = "jpg"
	case "image/png":
		ext = "png"
	case "image/gif":
		ext = "gif"
	case "image/webp":
		ext = "webp"
	}
	s3Path := fmt.Sprintf("icons/%s/%s.%s", guildID, season, ext)

	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &c.bucket,
		Key:    &s3Path,
		Body:   bytes.NewReader(data),
		ACL:    s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("uploading icon to s3: %w", err)
	}

	finalURL := c.buildS3URL(s3Path)
	c.log.Info("Theme icon saved", "guild_id", guildID, "season", season, "s3_url", finalURL)
	return finalURL, nil
}

func (c *Client) buildS3URL(s3Path string) string {
	base := strings.TrimRight(c.endpoint, "/")
	return base + "/" + c.bucket + "/" + url.PathEscape(s3Path)
}
