package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xidui/funba/internal/metrics"
)

// SeasonType values accepted by leaguegamefinder.
const (
	SeasonTypeRegular  = "Regular Season"
	SeasonTypePlayoffs = "Playoffs"
)

// Client talks to the NBA stats API. It classifies failures as transient or
// permanent; retrying is the caller's concern (see Retrier).
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter chan struct{} // caps concurrent upstream requests
}

// New creates a stats API client.
func New(baseURL string, timeout time.Duration) *Client {
	// The upstream is rate-sensitive; cap concurrent requests well below
	// the worker pool size.
	rateLimiter := make(chan struct{}, 10)
	for i := 0; i < 10; i++ {
		rateLimiter <- struct{}{}
	}

	return &Client{
		baseURL:     baseURL,
		rateLimiter: rateLimiter,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// get performs one GET against an endpoint and decodes the result sets.
// Exactly one attempt; errors carry a transient/permanent classification.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (*statsResponse, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.rateLimiter:
	}
	defer func() { c.rateLimiter <- struct{}{} }()

	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &FetchError{Kind: Permanent, Endpoint: endpoint, Err: err}
	}

	// The stats API rejects requests without browser-ish headers.
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("User-Agent", "funba/1.0")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordFetch(endpoint, "error", time.Since(start).Seconds())
		return nil, &FetchError{Kind: Transient, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordFetch(endpoint, "error", time.Since(start).Seconds())
		return nil, &FetchError{Kind: Transient, Endpoint: endpoint, Err: err}
	}

	metrics.RecordFetch(endpoint, fmt.Sprintf("%d", resp.StatusCode), time.Since(start).Seconds())

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &FetchError{
			Kind:     Transient,
			Endpoint: endpoint,
			Err:      fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body, 200)),
		}
	default:
		return nil, &FetchError{
			Kind:     Permanent,
			Endpoint: endpoint,
			Err:      fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body, 200)),
		}
	}

	var decoded statsResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &FetchError{Kind: Permanent, Endpoint: endpoint, Err: fmt.Errorf("decode response: %w", err)}
	}

	log.Debug().
		Str("endpoint", endpoint).
		Int("result_sets", len(decoded.ResultSets)).
		Msg("Stats API request successful")

	return &decoded, nil
}

// ShotChartDetail fetches all shot attempts for (team, player, game).
func (c *Client) ShotChartDetail(ctx context.Context, teamID, playerID, gameID string) ([]ShotChartRow, error) {
	params := url.Values{}
	params.Set("TeamID", teamID)
	params.Set("PlayerID", playerID)
	params.Set("GameID", gameID)
	params.Set("ContextMeasure", "FGA")
	params.Set("SeasonType", SeasonTypeRegular)

	resp, err := c.get(ctx, "shotchartdetail", params)
	if err != nil {
		return nil, err
	}
	return decodeShotChart(resp)
}

// BoxScoreTraditional fetches team and player box-score lines for a game.
func (c *Client) BoxScoreTraditional(ctx context.Context, gameID string) (*BoxScore, error) {
	params := url.Values{}
	params.Set("GameID", gameID)
	params.Set("StartPeriod", "0")
	params.Set("EndPeriod", "10")

	resp, err := c.get(ctx, "boxscoretraditionalv2", params)
	if err != nil {
		return nil, err
	}
	return decodeBoxScore(resp)
}

// PlayByPlay fetches the ordered event log for a game.
func (c *Client) PlayByPlay(ctx context.Context, gameID string) ([]PlayByPlayRow, error) {
	params := url.Values{}
	params.Set("GameID", gameID)
	params.Set("StartPeriod", "0")
	params.Set("EndPeriod", "10")

	resp, err := c.get(ctx, "playbyplayv2", params)
	if err != nil {
		return nil, err
	}
	return decodePlayByPlay(resp)
}

// LeagueGameFinder fetches the game list for a season.
func (c *Client) LeagueGameFinder(ctx context.Context, season, seasonType string) ([]GameFinderRow, error) {
	params := url.Values{}
	params.Set("Season", season)
	params.Set("SeasonType", seasonType)
	params.Set("LeagueID", "00")

	resp, err := c.get(ctx, "leaguegamefinder", params)
	if err != nil {
		return nil, err
	}
	return decodeGameFinder(resp)
}

// CommonAllPlayers fetches the full player list.
func (c *Client) CommonAllPlayers(ctx context.Context) ([]PlayerListRow, error) {
	params := url.Values{}
	params.Set("LeagueID", "00")
	params.Set("IsOnlyCurrentSeason", "0")

	resp, err := c.get(ctx, "commonallplayers", params)
	if err != nil {
		return nil, err
	}
	return decodePlayerList(resp)
}

// TeamYears fetches the franchise list.
func (c *Client) TeamYears(ctx context.Context) ([]TeamYearsRow, error) {
	params := url.Values{}
	params.Set("LeagueID", "00")

	resp, err := c.get(ctx, "commonteamyears", params)
	if err != nil {
		return nil, err
	}
	return decodeTeamYears(resp)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
