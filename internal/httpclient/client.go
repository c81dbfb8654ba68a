package httpclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:133.0) Gecko/20100101 Firefox/133.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:133.0) Gecko/20100101 Firefox/133.0",
	"Mozilla/5.0 (X11; Linux x86_64; rv:133.0) Gecko/20100101 Firefox/133.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36 Edg/131.0.0.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.2 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:132.0) Gecko/20100101 Firefox/132.0",
	"Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:133.0) Gecko/20100101 Firefox/133.0",
}

// RandomUserAgent returns a browser-like user agent from the rotation
// pool. Engine adapters receive the user agent from their caller, so the
// pick happens once per search rather than once per request.
func RandomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}

// Options configures the anti-ban HTTP client.
type Options struct {
	ProxyURL    string
	MinDelay    time.Duration
	MaxDelay    time.Duration
	MaxRetries  int
	BackoffBase time.Duration
	Logger      *logrus.Logger
}

func (o Options) withDefaults() Options {
	if o.MinDelay == 0 {
		o.MinDelay = 2 * time.Second
	}
	if o.MaxDelay == 0 {
		o.MaxDelay = 5 * time.Second
	}
	if o.MaxRetries == 0 {
		o.MaxRetries = 3
	}
	if o.BackoffBase == 0 {
		o.BackoffBase = 2 * time.Second
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	return o
}

// Client wraps http.Client with anti-ban protections. It sets no headers
// of its own: engine adapters own their complete header set, and the
// client must not add or overwrite anything behind their back.
type Client struct {
	inner       *http.Client
	mu          sync.Mutex
	lastReq     map[string]time.Time
	minDelay    time.Duration
	maxDelay    time.Duration
	maxRetries  int
	backoffBase time.Duration
	log         *logrus.Logger
}

// New creates a Client with the given options.
func New(opts Options) (*Client, error) {
	opts = opts.withDefaults()

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
	}

	if opts.ProxyURL != "" {
		proxyURL, err := url.Parse(opts.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("httpclient: invalid proxy URL: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &Client{
		inner:       &http.Client{Transport: transport},
		lastReq:     make(map[string]time.Time),
		minDelay:    opts.MinDelay,
		maxDelay:    opts.MaxDelay,
		maxRetries:  opts.MaxRetries,
		backoffBase: opts.BackoffBase,
		log:         opts.Logger,
	}, nil
}

// Do executes the request with per-host rate limiting and retry with
// exponential backoff on 429/503 responses.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if err := c.rateLimit(req.Context(), req.URL.Host); err != nil {
		return nil, err
	}

	var lastStatus int

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		resp, err := c.inner.Do(req)
		if err != nil {
			return nil, fmt.Errorf("httpclient: request failed: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode != http.StatusServiceUnavailable {
			return resp, nil
		}

		resp.Body.Close()
		lastStatus = resp.StatusCode
		backoff := time.Duration(1<<uint(attempt)) * c.backoffBase
		c.log.WithFields(logrus.Fields{
			"host":    req.URL.Host,
			"status":  resp.StatusCode,
			"backoff": backoff,
			"attempt": attempt + 1,
			"retries": c.maxRetries,
		}).Warn("upstream throttled request, backing off")

		select {
		case <-time.After(backoff):
		case <-req.Context().Done():
			return nil, req.Context().Err()
		}
	}

	return nil, fmt.Errorf("httpclient: giving up on %s after %d attempts, last status %d", req.URL.Host, c.maxRetries, lastStatus)
}

func (c *Client) rateLimit(ctx context.Context, host string) error {
	c.mu.Lock()
	last, ok := c.lastReq[host]
	c.lastReq[host] = time.Now()
	c.mu.Unlock()

	if !ok {
		return nil
	}

	elapsed := time.Since(last)
	delay := c.minDelay
	if c.maxDelay > c.minDelay {
		delay += time.Duration(rand.Int63n(int64(c.maxDelay - c.minDelay)))
	}

	if elapsed < delay {
		wait := delay - elapsed
		c.log.WithFields(logrus.Fields{
			"host": host,
			"wait": wait.Round(time.Millisecond),
		}).Debug("rate limiting request")
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	c.mu.Lock()
	c.lastReq[host] = time.Now()
	c.mu.Unlock()

	return nil
}
