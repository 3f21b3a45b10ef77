package cvm

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	informePathFmt = "FI/DOC/INF_DIARIO/DADOS/inf_diario_fi_%s.zip"
	registryPath   = "FI/CAD/DADOS/cad_fi.csv"
)

// ClientConfig configures the CVM open-data client
type ClientConfig struct {
	BaseURL           string
	RequestTimeout    time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client downloads datasets from the CVM open-data portal. Requests are
// rate limited so a full backfill does not hammer the portal.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient creates a CVM client from the given configuration
func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 2
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 2 * time.Minute
	}

	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.RequestTimeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:  logger,
	}
}

// DownloadInforme fetches the zipped daily informe archive for one month
// (YYYYMM) and returns its raw bytes.
func (c *Client) DownloadInforme(ctx context.Context, yyyymm string) ([]byte, error) {
	url := fmt.Sprintf("%s/"+informePathFmt, c.baseURL, yyyymm)
	return c.get(ctx, url)
}

// DownloadRegistry fetches the fund registry CSV (cad_fi) used for
// CNPJ-to-name enrichment.
func (c *Client) DownloadRegistry(ctx context.Context) ([]byte, error) {
	return c.get(ctx, c.baseURL+"/"+registryPath)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	c.logger.InfoContext(ctx, "downloaded CVM dataset",
		slog.String("url", url),
		slog.Int("bytes", len(body)),
		slog.Duration("elapsed", time.Since(start)),
	)

	return body, nil
}
