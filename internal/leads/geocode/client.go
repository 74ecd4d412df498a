// internal/leads/geocode/client.go
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	commonhttp "leadgen/internal/common/http"
	"leadgen/internal/common/database"
	"leadgen/internal/common/logger"
	"leadgen/internal/common/metrics"
	"leadgen/internal/models"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

var (
	ErrNotFound     = errors.New("PLACE_NOT_FOUND")
	ErrLookupFailed = errors.New("PLACE_LOOKUP_FAILED")
)

// Client resolves place names to coordinates and back. Lookups are rate
// limited and, when a cache is supplied, cached in redis.
type Client struct {
	config  *Config
	http    *commonhttp.Client
	limiter *rate.Limiter
	cache   redis.Cmdable
	logger  logger.Logger
}

// NewClient builds a lookup client. cache may be nil.
func NewClient(config *Config, cache redis.Cmdable, log logger.Logger) *Client {
	limit := rate.Inf
	if config.Rate > 0 {
		limit = rate.Limit(config.Rate)
	}
	return &Client{
		config:  config,
		http:    commonhttp.NewClient(config.Timeout, config.UserAgent),
		limiter: rate.NewLimiter(limit, 1),
		cache:   cache,
		logger:  log.With(map[string]interface{}{"component": "geocode"}),
	}
}

// Lookup returns the first match for place within the configured country.
func (c *Client) Lookup(ctx context.Context, place string) (models.GeoLocation, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return models.GeoLocation{}, ErrNotFound
	}

	key := "geocode:fwd:" + c.config.CountryCode + ":" + strings.ToLower(place)
	var cached models.GeoLocation
	if c.fromCache(ctx, key, &cached) {
		metrics.GeocodeLookups.WithLabelValues("forward", "cached").Inc()
		return cached, nil
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("q", place)
	if c.config.CountryCode != "" {
		q.Set("countrycodes", c.config.CountryCode)
	}

	var results []searchResult
	if err := c.get(ctx, "/search", q, &results); err != nil {
		metrics.GeocodeLookups.WithLabelValues("forward", "error").Inc()
		return models.GeoLocation{}, err
	}

	if len(results) == 0 {
		metrics.GeocodeLookups.WithLabelValues("forward", "miss").Inc()
		return models.GeoLocation{}, fmt.Errorf("%w: %s", ErrNotFound, place)
	}
	loc, ok := results[0].location()
	if !ok {
		metrics.GeocodeLookups.WithLabelValues("forward", "error").Inc()
		return models.GeoLocation{}, fmt.Errorf("%w: bad coordinates for %s", ErrLookupFailed, place)
	}

	metrics.GeocodeLookups.WithLabelValues("forward", "hit").Inc()
	c.toCache(ctx, key, loc)
	return loc, nil
}

// Reverse returns a short human-readable label for a coordinate.
func (c *Client) Reverse(ctx context.Context, geo models.GeoLocation) (string, error) {
	lat := strconv.FormatFloat(geo.Lat, 'f', 5, 64)
	lng := strconv.FormatFloat(geo.Lng, 'f', 5, 64)

	key := "geocode:rev:" + lat + "," + lng
	var cached string
	if c.fromCache(ctx, key, &cached) {
		metrics.GeocodeLookups.WithLabelValues("reverse", "cached").Inc()
		return cached, nil
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", lat)
	q.Set("lon", lng)

	var result reverseResult
	if err := c.get(ctx, "/reverse", q, &result); err != nil {
		metrics.GeocodeLookups.WithLabelValues("reverse", "error").Inc()
		return "", err
	}

	label := result.label()
	if result.Error != "" || label == "" {
		metrics.GeocodeLookups.WithLabelValues("reverse", "miss").Inc()
		return "", fmt.Errorf("%w: %s,%s", ErrNotFound, lat, lng)
	}

	metrics.GeocodeLookups.WithLabelValues("reverse", "hit").Inc()
	c.toCache(ctx, key, label)
	return label, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	endpoint := strings.TrimRight(c.config.BaseURL, "/") + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrLookupFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrLookupFailed, err)
	}
	return nil
}

func (c *Client) fromCache(ctx context.Context, key string, v interface{}) bool {
	if c.cache == nil {
		return false
	}
	err := database.GetJSON(ctx, c.cache, key, v)
	if err != nil && !errors.Is(err, database.ErrCacheMiss) {
		c.logger.Warn("geocode cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	return err == nil
}

func (c *Client) toCache(ctx context.Context, key string, v interface{}) {
	if c.cache == nil {
		return
	}
	if err := database.SetJSON(ctx, c.cache, key, v, c.config.CacheTTL); err != nil {
		c.logger.Warn("geocode cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}
