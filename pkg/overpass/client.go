package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/paulmach/osm"

	"isochrone_mapper/pkg/geo"
	"isochrone_mapper/pkg/street"
)

// AcquisitionError is returned when every attempt against every mirror has
// failed. It is terminal: no partial graph is ever produced for the network.
type AcquisitionError struct {
	Network  street.Network
	Attempts int
	Err      error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("acquiring %s network failed after %d attempts: %v", e.Network, e.Attempts, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

// Config holds the acquisition client settings. It is passed in explicitly;
// there is no package-level mutable state.
type Config struct {
	Endpoints   []string      // ordered mirror list, tried round-robin per attempt
	Timeout     time.Duration // per-request timeout; an expiry counts as a failed attempt
	MaxAttempts int
	BackoffBase time.Duration // wait before retry k is BackoffBase × k
	UserAgent   string
}

// DefaultConfig returns the public Overpass mirrors with conservative limits.
func DefaultConfig() Config {
	return Config{
		Endpoints: []string{
			"https://overpass-api.de/api/interpreter",
			"https://overpass.kumi.systems/api/interpreter",
			"https://overpass.osm.ch/api/interpreter",
		},
		Timeout:     180 * time.Second,
		MaxAttempts: 6,
		BackoffBase: 2 * time.Second,
		UserAgent:   "isochrone_mapper/1.0",
	}
}

// Client fetches street networks from the Overpass API with mirror failover
// and linear backoff.
type Client struct {
	cfg   Config
	http  *http.Client
	sleep func(time.Duration) // injectable for tests
}

// NewClient creates a client from the given config.
func NewClient(cfg Config) *Client {
	if len(cfg.Endpoints) == 0 {
		cfg.Endpoints = DefaultConfig().Endpoints
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultConfig().MaxAttempts
	}
	return &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: cfg.Timeout},
		sleep: time.Sleep,
	}
}

// FetchNetwork downloads the streets of one network type within radiusM
// meters of center and returns the parsed OSM document. Transient failures
// (connection errors, non-200 statuses, malformed bodies) rotate to the
// next mirror with linearly increasing backoff; once the attempt budget is
// exhausted the returned error is a terminal *AcquisitionError.
func (c *Client) FetchNetwork(ctx context.Context, center geo.LatLng, radiusM float64, net street.Network) (*osm.OSM, error) {
	query := networkQuery(center, radiusM, net)

	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		endpoint := c.cfg.Endpoints[(attempt-1)%len(c.cfg.Endpoints)]

		doc, err := c.post(ctx, endpoint, query)
		if err == nil {
			log.Printf("Fetched %s network: %d nodes, %d ways (attempt %d, %s)",
				net, len(doc.Nodes), len(doc.Ways), attempt, endpoint)
			return doc, nil
		}
		lastErr = err
		log.Printf("Overpass attempt %d/%d for %s network failed (%s): %v",
			attempt, c.cfg.MaxAttempts, net, endpoint, err)

		if ctx.Err() != nil {
			break
		}
		if attempt < c.cfg.MaxAttempts {
			c.sleep(c.cfg.BackoffBase * time.Duration(attempt))
		}
	}

	return nil, &AcquisitionError{Network: net, Attempts: c.cfg.MaxAttempts, Err: lastErr}
}

// post executes a single Overpass request against one endpoint.
func (c *Client) post(ctx context.Context, endpoint, query string) (*osm.OSM, error) {
	reqCtx := ctx
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var doc osm.OSM
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse OSM JSON: %w", err)
	}

	return &doc, nil
}
