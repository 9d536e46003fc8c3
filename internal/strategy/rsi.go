package strategy

import (
	"context"
	"time"

	"StockScan/internal/domain/models"
	"StockScan/internal/indicator"
)

// rsiStrategy signals on oversold/overbought RSI extremes.
type rsiStrategy struct {
	deps Deps
}

// NewRSI constructs the RSI strategy.
func NewRSI(deps Deps) Strategy { return &rsiStrategy{deps: deps} }

func (s *rsiStrategy) Name() string { return "RSI Oversold/Overbought Strategy" }

func (s *rsiStrategy) Evaluate(ctx context.Context, instrument string) (models.SignalOutcome, error) {
	started := time.Now()

	ds, err := s.deps.Fetcher.FetchCandles(ctx, instrument, 5, "5m")
	if err != nil {
		return models.SignalOutcome{}, err
	}
	if ds.Len() < 16 {
		return hold(s.Name(), instrument, lastClose(ds), started), nil
	}

	closes := ds.Closes()
	rsi := indicator.RSI(closes, 14)
	ema9 := indicator.EMA(closes, 9)
	ema15 := indicator.EMA(closes, 15)

	i := ds.Len() - 1
	latest := ds.Last()
	prev := ds.Candles[i-1]
	if !indicator.Valid(rsi[i]) {
		return hold(s.Name(), instrument, latest.Close, started), nil
	}

	sig := models.SignalHold
	switch {
	case rsi[i] < 30 && latest.Close > prev.Low:
		sig = models.SignalBuy
	case rsi[i] > 70 && latest.Close < prev.High:
		sig = models.SignalSell
	}
	if sig == models.SignalHold {
		return hold(s.Name(), instrument, latest.Close, started), nil
	}

	// Deeper extremes score higher; EMA trend and candle color add smaller
	// confirmations either way.
	var points float64
	emaUp := indicator.Valid(ema9[i]) && indicator.Valid(ema15[i]) && ema9[i] > ema15[i]
	if sig == models.SignalBuy {
		points = (30 - rsi[i]) / 30 * 60
		if emaUp {
			points += 20
		} else {
			points += 10
		}
		if latest.Green() {
			points += 15
		} else {
			points += 5
		}
	} else {
		points = (rsi[i] - 70) / 30 * 60
		if !emaUp {
			points += 20
		} else {
			points += 10
		}
		if !latest.Green() {
			points += 15
		} else {
			points += 5
		}
	}

	return outcome(s.Name(), instrument, sig, points, latest.Close, started), nil
}
