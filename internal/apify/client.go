package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mlutsenko/prevet/internal/model"
	"github.com/mlutsenko/prevet/internal/util"
	"github.com/mlutsenko/prevet/internal/worker"
)

// ErrMissingToken indicates the Apify API token was not configured.
var ErrMissingToken = errors.New("apify: API token not set (export APIFY_API_TOKEN or set apify.token)")

// Client runs the SimilarWeb actor on Apify and retrieves its dataset.
// The actor is an asynchronous job: start run, poll until terminal,
// then fetch the result items. One run covers the whole domain set.
type Client struct {
	httpClient   *http.Client
	limiter      *worker.Limiter
	baseURL      string
	actorID      string
	token        string
	userAgent    string
	maxBytes     int64
	pollInterval time.Duration
	runTimeout   time.Duration
}

// NewClient creates a client from configuration. The token is required up
// front; failing here keeps a misconfigured run from starting at all.
func NewClient(cfg model.ApifyConfig, httpCfg model.HTTPConfig) (*Client, error) {
	if cfg.Token == "" {
		return nil, ErrMissingToken
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: httpCfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.ProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy),
			},
		},
		limiter:      worker.NewLimiter(httpCfg.RequestsPerSecond, httpCfg.BurstSize),
		baseURL:      cfg.BaseURL,
		actorID:      cfg.ActorID,
		token:        cfg.Token,
		userAgent:    httpCfg.UserAgent,
		maxBytes:     httpCfg.MaxBodyBytes,
		pollInterval: cfg.PollInterval,
		runTimeout:   cfg.RunTimeout,
	}, nil
}

// Terminal actor run states, as reported by the Apify run API.
const (
	statusSucceeded = "SUCCEEDED"
	statusFailed    = "FAILED"
	statusAborted   = "ABORTED"
	statusTimedOut  = "TIMED-OUT"
)

type runData struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	DefaultDatasetID string `json:"defaultDatasetId"`
}

type runEnvelope struct {
	Data runData `json:"data"`
}

// FetchSnapshots retrieves one raw snapshot per domain. Fewer records than
// domains is not an error; the provider omits sites below its traffic floor.
func (c *Client) FetchSnapshots(ctx context.Context, domains []string) ([]Snapshot, error) {
	if len(domains) == 0 {
		return nil, fmt.Errorf("apify: no domains requested")
	}

	ctx, cancel := context.WithTimeout(ctx, c.runTimeout)
	defer cancel()

	run, err := c.startRun(ctx, domains)
	if err != nil {
		return nil, fmt.Errorf("start actor run: %w", err)
	}

	final, err := c.waitForRun(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("wait for run %s: %w", run.ID, err)
	}
	if final.Status != statusSucceeded {
		return nil, fmt.Errorf("apify: run %s finished with status %s", run.ID, final.Status)
	}

	items, err := c.fetchDataset(ctx, run.DefaultDatasetID)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset %s: %w", run.DefaultDatasetID, err)
	}
	return items, nil
}

func (c *Client) startRun(ctx context.Context, domains []string) (*runData, error) {
	body, err := json.Marshal(map[string][]string{"websites": domains})
	if err != nil {
		return nil, fmt.Errorf("marshal input: %w", err)
	}

	var envelope runEnvelope
	endpoint := fmt.Sprintf("%s/v2/acts/%s/runs", c.baseURL, url.PathEscape(c.actorID))
	if err := c.doJSON(ctx, http.MethodPost, endpoint, body, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data.ID == "" || envelope.Data.DefaultDatasetID == "" {
		return nil, fmt.Errorf("apify: run response missing run or dataset id")
	}
	return &envelope.Data, nil
}

// waitForRun polls the run status until it reaches a terminal state. Poll
// pacing combines the fixed interval with the API rate limiter.
func (c *Client) waitForRun(ctx context.Context, runID string) (*runData, error) {
	endpoint := fmt.Sprintf("%s/v2/acts/%s/runs/%s", c.baseURL, url.PathEscape(c.actorID), url.PathEscape(runID))

	for {
		var envelope runEnvelope
		if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &envelope); err != nil {
			return nil, err
		}

		switch envelope.Data.Status {
		case statusSucceeded, statusFailed, statusAborted, statusTimedOut:
			return &envelope.Data, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *Client) fetchDataset(ctx context.Context, datasetID string) ([]Snapshot, error) {
	endpoint := fmt.Sprintf("%s/v2/datasets/%s/items", c.baseURL, url.PathEscape(datasetID))

	var items []Snapshot
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// doJSON performs one rate-limited API round trip and decodes the response.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, body []byte, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	withToken, err := appendToken(endpoint, c.token)
	if err != nil {
		return fmt.Errorf("build url: %w", err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, withToken, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %d %s: %s", resp.StatusCode, resp.Status, snippet(data))
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func appendToken(endpoint, token string) (string, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	query := parsed.Query()
	query.Set("token", token)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func snippet(data []byte) string {
	const max = 200
	if len(data) > max {
		return string(data[:max]) + "..."
	}
	return string(data)
}
