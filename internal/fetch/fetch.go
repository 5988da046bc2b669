// Package fetch downloads remote files through a lookaside cache.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"time"

	"github.com/jengzang/contour-backend/internal/cache"
)

// ErrUpstream reports a failed or unacceptable upstream response.
var ErrUpstream = errors.New("upstream request failed")

var (
	driveURL = regexp.MustCompile(`https://drive\.google\.com(.*)`)
	driveID  = regexp.MustCompile(`[-\w]{25,}`)
)

// Identity leaves the downloaded body untouched.
func Identity(body []byte) ([]byte, error) { return body, nil }

// Resource is a processed download.
type Resource struct {
	Body        []byte `json:"body"`
	ContentType string `json:"content_type"`
}

// Fetcher downloads and processes remote files, caching the processed
// result per operation and URL.
type Fetcher struct {
	client   *http.Client
	cache    cache.Cache
	maxBytes int64
}

// NewFetcher creates a fetcher. A nil client uses a client with the given
// timeout.
func NewFetcher(client *http.Client, c cache.Cache, timeout time.Duration, maxBytes int64) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Fetcher{client: client, cache: c, maxBytes: maxBytes}
}

// RewriteURL turns a Google Drive share link into a direct download link.
// Other URLs are returned unchanged.
func RewriteURL(rawURL string) string {
	if !driveURL.MatchString(rawURL) {
		return rawURL
	}
	id := driveID.FindString(rawURL)
	if id == "" {
		return rawURL
	}
	return "https://drive.google.com/uc?export=download&id=" + id
}

// Key is the cache key for op applied to rawURL.
func Key(op, rawURL string) []byte {
	sum := sha256.Sum256([]byte(op + "\x00" + RewriteURL(rawURL)))
	return sum[:]
}

// Fetch downloads rawURL, applies process to the body and caches the
// result under op. Cache errors are logged and the download proceeds.
func (f *Fetcher) Fetch(ctx context.Context, rawURL, op string, process func([]byte) ([]byte, error)) (*Resource, error) {
	target := RewriteURL(rawURL)
	key := Key(op, rawURL)

	if raw, ok, err := f.cache.Get(ctx, key); err != nil {
		log.Printf("Warning: cache lookup for %s failed: %v", target, err)
	} else if ok {
		var res Resource
		if err := json.Unmarshal(raw, &res); err == nil {
			return &res, nil
		}
		log.Printf("Warning: discarding undecodable cache entry for %s", target)
	}

	body, contentType, err := f.download(ctx, target)
	if err != nil {
		return nil, err
	}

	processed, err := process(body)
	if err != nil {
		return nil, err
	}

	res := &Resource{Body: processed, ContentType: contentType}
	if raw, err := json.Marshal(res); err != nil {
		log.Printf("Warning: failed to encode cache entry for %s: %v", target, err)
	} else if err := f.cache.Set(ctx, key, raw); err != nil {
		log.Printf("Warning: failed to cache %s: %v", target, err)
	}

	return res, nil
}

func (f *Fetcher) download(ctx context.Context, target string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		return nil, "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("%w: %s returned %s", ErrUpstream, target, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		return nil, "", fmt.Errorf("%w: failed to read body: %v", ErrUpstream, err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, "", fmt.Errorf("%w: body exceeds %d bytes", ErrUpstream, f.maxBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}
	return body, contentType, nil
}
