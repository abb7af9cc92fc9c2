package meshapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"meshsync/internal/infra"
)

// ErrJobNotFound indicates the job is unknown upstream. It is an expected
// transient state for freshly submitted jobs, not a failure.
var ErrJobNotFound = errors.New("meshapi: job not found")

// Options configures the mesh generation API client.
type Options struct {
	BaseURL        string
	APIKey         string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the mesh generation API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *infra.Logger
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		return nil, errors.New("meshapi: base url is required")
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(opts.APIKey),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// JobStatus fetches the upstream view of one job. A 404 maps to
// ErrJobNotFound; any other non-2xx status is an error.
func (c *Client) JobStatus(ctx context.Context, jobID string) (*StatusResponse, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, errors.New("meshapi: job id is required")
	}
	endpoint := c.baseURL + "/status/" + jobID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("meshapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("meshapi: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrJobNotFound
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("meshapi: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("meshapi: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded StatusResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("meshapi: decode response: %w", err)
	}
	c.logger.Debug().
		Str("job_id", jobID).
		Str("status", decoded.Status).
		Msg("meshapi: fetched job status")
	return &decoded, nil
}
