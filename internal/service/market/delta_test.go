package market

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"StockScan/internal/service/ratelimit"
	xhttp "StockScan/pkg/http"
	applogger "StockScan/pkg/logger"
)

func marketLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c := New(srv.URL, xhttp.NewClient(), ratelimit.New(), 100, 100, marketLogger(t)).(*Client)
	return c
}

func TestFetchCandlesParsesAndSorts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/history/candles" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("symbol") != "BTCUSD" || q.Get("resolution") != "5m" {
			t.Errorf("unexpected query %v", q)
		}
		if q.Get("start") == "" || q.Get("end") == "" {
			t.Errorf("missing time range")
		}
		// out of order on purpose
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"result": []map[string]float64{
				{"time": 1700000600, "open": 2, "high": 3, "low": 1, "close": 2.5, "volume": 20},
				{"time": 1700000300, "open": 1, "high": 2, "low": 0.5, "close": 1.5, "volume": 10},
			},
		})
	}))
	defer srv.Close()

	ds, err := newTestClient(t, srv).FetchCandles(context.Background(), "BTCUSD", 5, "5m")
	if err != nil {
		t.Fatalf("FetchCandles: %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("expected 2 candles, got %d", ds.Len())
	}
	if !ds.Candles[0].Time.Before(ds.Candles[1].Time) {
		t.Fatalf("candles not sorted oldest first")
	}
	if ds.Instrument != "BTCUSD" || ds.Resolution != "5m" || ds.WindowDays != 5 {
		t.Fatalf("unexpected dataset metadata %+v", ds)
	}
}

func TestFetchCandlesUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "result": []interface{}{}})
	}))
	defer srv.Close()

	if _, err := newTestClient(t, srv).FetchCandles(context.Background(), "BTCUSD", 5, "5m"); err == nil {
		t.Fatalf("expected error on success=false")
	}
}

func TestFetchCandlesEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "result": []interface{}{}})
	}))
	defer srv.Close()

	if _, err := newTestClient(t, srv).FetchCandles(context.Background(), "BTCUSD", 5, "5m"); err == nil {
		t.Fatalf("expected error on empty result")
	}
}

func TestFetchCandlesRejectsBadResolution(t *testing.T) {
	c := New("http://unused", xhttp.NewClient(), ratelimit.New(), 100, 100, marketLogger(t))
	if _, err := c.FetchCandles(context.Background(), "BTCUSD", 5, "2m"); err == nil {
		t.Fatalf("expected error for unsupported resolution")
	}
}
