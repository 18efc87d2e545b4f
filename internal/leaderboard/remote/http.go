// Package remote is the HTTP client for the leaderboard backend served by
// cmd/web.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/spacedefenders/internal/leaderboard"
)

// DefaultTimeout bounds every request made by HTTPClient.
const DefaultTimeout = 3 * time.Second

// HTTPClient talks to the leaderboard backend.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
}

var _ leaderboard.Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the backend at baseURL
// (for example "http://localhost:8080").
func NewHTTPClient(baseURL string, timeout time.Duration, logger *log.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type postRequest struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// PostScore submits a run. Errors are logged and swallowed.
func (c *HTTPClient) PostScore(ctx context.Context, score int, name string) {
	if err := c.postScore(ctx, score, name); err != nil {
		c.logger.Error("error posting score", "score", score, "err", err)
	}
}

func (c *HTTPClient) postScore(ctx context.Context, score int, name string) error {
	body, err := json.Marshal(postRequest{Name: leaderboard.NormalizeName(name), Score: score})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/scores", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}

// TopScores fetches up to limit entries, best first. Errors yield nil.
func (c *HTTPClient) TopScores(ctx context.Context, limit int) []leaderboard.Entry {
	entries, err := c.topScores(ctx, leaderboard.ClampLimit(limit))
	if err != nil {
		c.logger.Error("error fetching scores", "err", err)
		return nil
	}
	return entries
}

func (c *HTTPClient) topScores(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/scores?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var entries []leaderboard.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode scores: %w", err)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// New returns an HTTPClient for baseURL, or leaderboard.Disabled when
// baseURL is empty.
func New(baseURL string, logger *log.Logger) leaderboard.Client {
	if baseURL == "" {
		return leaderboard.Disabled{Logger: logger}
	}
	return NewHTTPClient(baseURL, DefaultTimeout, logger)
}
