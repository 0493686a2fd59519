// Package search queries the DuckDuckGo instant answer API.
package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Andrewp2/andrew-chat/internal/domain"
	"github.com/Andrewp2/andrew-chat/internal/metrics"
)

// Provider is the label used for errors and metrics.
const Provider = "duckduckgo"

// MaxTopics is how many related topics are considered.
const MaxTopics = 3

// Client is an HTTP client for the instant answer API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewClient creates a search client for baseURL (e.g.
// https://api.duckduckgo.com). m may be nil.
func NewClient(baseURL string, httpClient *http.Client, m *metrics.Metrics) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		metrics:    m,
		logger:     log.With().Str("component", "search").Logger(),
	}
}

// Search returns the text of the first three related topics joined by
// newlines. Topics without text are skipped, and no topics gives "".
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	text, err := c.search(ctx, query)
	c.metrics.Upstream(Provider, err)
	if err != nil {
		return "", domain.NewUpstreamError(Provider, err)
	}
	return text, nil
}

func (c *Client) search(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_redirect", "1")
	params.Set("no_html", "1")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/?"+params.Encode(), nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to create request")
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read response")
	}
	// A JSON body is read whatever the status; only a non-JSON body fails.
	if !json.Valid(body) {
		return "", errors.Errorf("search returned a non-JSON response (status %d)", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Msg("search returned a non-OK status with a JSON body")
	}

	return relatedTopics(body)
}

func relatedTopics(body []byte) (string, error) {
	var snippets []string
	i := 0
	_, err := jsonparser.ArrayEach(body, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
		defer func() { i++ }()
		if i >= MaxTopics || dataType != jsonparser.Object {
			return
		}
		if text, err := jsonparser.GetString(value, "Text"); err == nil {
			snippets = append(snippets, text)
		}
	}, "RelatedTopics")
	if errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "parse RelatedTopics")
	}
	return strings.Join(snippets, "\n"), nil
}
