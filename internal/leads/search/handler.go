// internal/leads/search/handler.go
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"leadgen/internal/common/logger"
	"leadgen/internal/common/metrics"
	"leadgen/internal/common/observability"
	"leadgen/internal/leads/parser"
	"leadgen/internal/models"
)

var (
	ErrSearchFailed = errors.New("SEARCH_FAILED")
	ErrEmptyTerm    = errors.New("search term is empty")
)

// Client builds prompts, calls the generator once and parses the reply.
// It keeps no state between calls.
type Client struct {
	config    *Config
	generator Generator
	logger    logger.Logger
	obs       *observability.Observability
}

func NewClient(config *Config, generator Generator, log logger.Logger, obs *observability.Observability) *Client {
	return &Client{
		config:    config,
		generator: generator,
		logger:    log.With(map[string]interface{}{"component": "search"}),
		obs:       obs,
	}
}

// Search issues exactly one model call. Failures are not retried and come back wrapped in ErrSearchFailed.
func (c *Client) Search(ctx context.Context, req Request) ([]models.Business, error) {
	if strings.TrimSpace(req.Term) == "" {
		return nil, ErrEmptyTerm
	}

	kind := req.Kind()
	prompt := BuildPrompt(req, c.config.Country)

	c.logger.Info("search started", map[string]interface{}{
		"kind":      kind,
		"term":      req.Term,
		"location":  req.Location,
		"excluded":  len(req.ExcludeNames),
		"grounding": prompt.Grounding != nil,
	})

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	metrics.ActiveSearches.Inc()
	start := time.Now()
	text, err := c.generator.Generate(ctx, prompt)
	elapsed := time.Since(start)
	metrics.ActiveSearches.Dec()
	metrics.SearchDuration.WithLabelValues(kind).Observe(elapsed.Seconds())

	if err != nil {
		metrics.SearchesTotal.WithLabelValues(kind, "error").Inc()
		c.obs.RecordSearch(ctx, kind, "error", elapsed)
		c.logger.Error("search failed", map[string]interface{}{
			"kind":     kind,
			"error":    err.Error(),
			"duration": elapsed.String(),
		})
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}

	res := parser.ParseDetailed(text)

	outcome := "ok"
	if len(res.Businesses) == 0 {
		outcome = "empty"
	}
	metrics.SearchesTotal.WithLabelValues(kind, outcome).Inc()
	c.obs.RecordSearch(ctx, kind, outcome, elapsed)

	c.logger.Info("search completed", map[string]interface{}{
		"kind":      kind,
		"records":   len(res.Businesses),
		"truncated": res.Truncated,
		"nameless":  res.Nameless,
		"duration":  elapsed.String(),
	})

	return res.Businesses, nil
}
