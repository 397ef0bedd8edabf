package fundperf

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"fmt"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/fundperf/date"
	"github.com/rs/zerolog"
)

// feedCache is an http.RoundTripper keeping successful responses on disk.
// Keys include the day, so the cache expires every day.
type feedCache struct {
	base http.RoundTripper
	dir  string
	log  *zerolog.Logger
}

func (c *feedCache) RoundTrip(req *http.Request) (*http.Response, error) {
	key := fmt.Sprintf("%s %s %s", date.Today(), req.Method, req.URL)
	key = fmt.Sprintf("fundperf-%x", sha1.Sum([]byte(key)))

	if resp, err := c.get(key, req); err == nil {
		c.log.Debug().Str("url", req.URL.String()).Msg("feed cache hit")
		return resp, nil
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	c.log.Info().Str("method", req.Method).Str("url", req.URL.String()).Str("status", resp.Status).Msg("feed fetched")
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	if err := c.put(key, resp); err != nil {
		c.log.Warn().Err(err).Msg("cannot write feed cache")
	}
	return resp, nil
}

func (c *feedCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
}

// put dumps resp to disk. DumpResponse leaves resp.Body readable.
func (c *feedCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), content, 0o644)
}

// NewFeedClient returns an HTTP client caching the feeds it fetches in dir for the day.
// An empty dir uses the system temporary directory.
func NewFeedClient(dir string, log *zerolog.Logger) *http.Client {
	if dir == "" {
		dir = os.TempDir()
	}
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &http.Client{Transport: &feedCache{base: http.DefaultTransport, dir: dir, log: log}}
}

// FeedURL expands the {id} placeholder of a feed URL template.
func FeedURL(template, id string) string { return strings.ReplaceAll(template, "{id}", id) }

// IsURL reports whether a feed location is fetched over HTTP rather than read from a file.
func IsURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// FetchFeeds downloads a provider document and extracts its feeds.
func FetchFeeds(ctx context.Context, client *http.Client, url string, paths FeedPaths) (Feeds, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Feeds{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return Feeds{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Feeds{}, fmt.Errorf("cannot http GET %v%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	return DecodeFeeds(resp.Body, paths)
}
