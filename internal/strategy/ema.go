package strategy

import (
	"context"
	"math"
	"time"

	"StockScan/internal/domain/models"
	"StockScan/internal/indicator"
)

// emaStrategy signals on 9/15 EMA crossovers with volume confirmation.
type emaStrategy struct {
	deps Deps
}

// NewEMA constructs the EMA crossover strategy.
func NewEMA(deps Deps) Strategy { return &emaStrategy{deps: deps} }

func (s *emaStrategy) Name() string { return "EMA Crossover Strategy" }

func (s *emaStrategy) Evaluate(ctx context.Context, instrument string) (models.SignalOutcome, error) {
	started := time.Now()

	ds, err := s.deps.Fetcher.FetchCandles(ctx, instrument, 5, "5m")
	if err != nil {
		return models.SignalOutcome{}, err
	}
	if ds.Len() < 16 {
		return hold(s.Name(), instrument, lastClose(ds), started), nil
	}

	closes := ds.Closes()
	ema9 := indicator.EMA(closes, 9)
	ema15 := indicator.EMA(closes, 15)
	rsi := indicator.RSI(closes, 14)
	volSMA := indicator.SMA(ds.Volumes(), 10)

	i := ds.Len() - 1
	latest := ds.Last()
	if !indicator.Valid(ema9[i-1]) || !indicator.Valid(ema15[i-1]) {
		return hold(s.Name(), instrument, latest.Close, started), nil
	}

	volumeOK := indicator.Valid(volSMA[i]) && latest.Volume > volSMA[i]
	crossUp := ema9[i-1] <= ema15[i-1] && ema9[i] > ema15[i]
	crossDown := ema9[i-1] >= ema15[i-1] && ema9[i] < ema15[i]

	sig := models.SignalHold
	switch {
	case crossUp && latest.Close > ema9[i] && volumeOK:
		sig = models.SignalBuy
	case crossDown && latest.Close < ema9[i] && volumeOK:
		sig = models.SignalSell
	}
	if sig == models.SignalHold {
		return hold(s.Name(), instrument, latest.Close, started), nil
	}

	// EMA separation, RSI neutrality, price position, and candle color each
	// add weighted confirmation points.
	points := clampPoints(math.Abs(ema9[i]-ema15[i])/latest.Close*1000, 40)
	if indicator.Valid(rsi[i]) && rsi[i] > 30 && rsi[i] < 70 {
		points += 20
	}
	if sig == models.SignalBuy && latest.Close > ema9[i] && ema9[i] > ema15[i] {
		points += 25
	} else if sig == models.SignalSell && latest.Close < ema9[i] && ema9[i] < ema15[i] {
		points += 25
	}
	if sig == models.SignalBuy && latest.Green() {
		points += 15
	} else if sig == models.SignalSell && !latest.Green() {
		points += 15
	}

	return outcome(s.Name(), instrument, sig, points, latest.Close, started), nil
}

func lastClose(ds *models.Dataset) float64 {
	if ds.Len() == 0 {
		return 0
	}
	return ds.Last().Close
}
