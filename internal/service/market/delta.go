package market

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"StockScan/internal/domain/models"
	drepo "StockScan/internal/domain/repository"
	"StockScan/internal/service/ratelimit"
	xhttp "StockScan/pkg/http"
	applogger "StockScan/pkg/logger"
	xutil "StockScan/pkg/util"
)

// Client implements DataFetcher against the Delta Exchange candle history API.
type Client struct {
	baseURL string
	http    *xhttp.Client
	limiter *ratelimit.Limiter
	rate    float64
	burst   float64
	logger  *applogger.Logger
}

// New creates a Delta Exchange market data client.
func New(baseURL string, httpClient *xhttp.Client, limiter *ratelimit.Limiter, ratePerSec, burst float64, logger *applogger.Logger) drepo.DataFetcher {
	if ratePerSec <= 0 {
		ratePerSec = 5
	}
	if burst <= 0 {
		burst = 10
	}
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		limiter: limiter,
		rate:    ratePerSec,
		burst:   burst,
		logger:  logger,
	}
}

type candlePoint struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

type candleResponse struct {
	Success bool          `json:"success"`
	Result  []candlePoint `json:"result"`
}

// FetchCandles pulls windowDays of history at the given resolution, oldest
// candle first.
func (c *Client) FetchCandles(ctx context.Context, instrument string, windowDays int, resolution string) (*models.Dataset, error) {
	if !drepo.IsValidResolution(resolution) {
		return nil, fmt.Errorf("unsupported resolution %q", resolution)
	}

	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -windowDays)
	from, to = xutil.AlignRange(from, to, resolution)

	var resp candleResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/v2/history/candles",
		QueryParams: map[string][]string{
			"resolution": {resolution},
			"symbol":     {instrument},
			"start":      {strconv.FormatInt(from.Unix(), 10)},
			"end":        {strconv.FormatInt(to.Unix(), 10)},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("fetch candles %s: %w", instrument, err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("fetch candles %s: upstream reported failure", instrument)
	}
	if len(resp.Result) == 0 {
		return nil, fmt.Errorf("fetch candles %s: empty result", instrument)
	}

	candles := make([]models.Candle, 0, len(resp.Result))
	for _, p := range resp.Result {
		candles = append(candles, models.Candle{
			Time:   time.Unix(p.Time, 0).UTC(),
			Open:   p.Open,
			High:   p.High,
			Low:    p.Low,
			Close:  p.Close,
			Volume: p.Volume,
		})
	}
	sort.Slice(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })

	c.logger.Debug("candles fetched",
		applogger.String("instrument", instrument),
		applogger.String("resolution", resolution),
		applogger.Int("count", len(candles)),
	)

	return &models.Dataset{
		Instrument: instrument,
		Resolution: resolution,
		WindowDays: windowDays,
		Candles:    candles,
	}, nil
}

// wait blocks until the upstream token bucket admits one request or the
// context is cancelled.
func (c *Client) wait(ctx context.Context) error {
	for !c.limiter.Allow("delta", c.burst, c.rate) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
	return nil
}
