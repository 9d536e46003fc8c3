package strategy

import (
	"context"
	"math"
	"time"

	"StockScan/internal/domain/models"
	"StockScan/internal/indicator"
)

// macdStrategy signals on MACD/signal-line crossovers filtered by zero-line
// position, histogram direction, RSI, and the short EMA.
type macdStrategy struct {
	deps Deps
}

// NewMACD constructs the MACD strategy.
func NewMACD(deps Deps) Strategy { return &macdStrategy{deps: deps} }

func (s *macdStrategy) Name() string { return "MACD Convergence Divergence Strategy" }

func (s *macdStrategy) Evaluate(ctx context.Context, instrument string) (models.SignalOutcome, error) {
	started := time.Now()

	ds, err := s.deps.Fetcher.FetchCandles(ctx, instrument, 5, "5m")
	if err != nil {
		return models.SignalOutcome{}, err
	}
	if ds.Len() < 27 {
		return hold(s.Name(), instrument, lastClose(ds), started), nil
	}

	closes := ds.Closes()
	macd, sigLine, hist := indicator.MACD(closes, 12, 26, 9)
	rsi := indicator.RSI(closes, 14)
	ema9 := indicator.EMA(closes, 9)
	ema15 := indicator.EMA(closes, 15)

	i := ds.Len() - 1
	latest := ds.Last()
	if !indicator.Valid(rsi[i]) || !indicator.Valid(ema9[i]) {
		return hold(s.Name(), instrument, latest.Close, started), nil
	}

	crossUp := macd[i-1] <= sigLine[i-1] && macd[i] > sigLine[i]
	crossDown := macd[i-1] >= sigLine[i-1] && macd[i] < sigLine[i]
	histUp := hist[i] > hist[i-1]

	sig := models.SignalHold
	switch {
	case crossUp && macd[i] < 0 && histUp && rsi[i] < 70 && latest.Close > ema9[i]:
		sig = models.SignalBuy
	case crossDown && macd[i] > 0 && !histUp && rsi[i] > 30 && latest.Close < ema9[i]:
		sig = models.SignalSell
	}
	if sig == models.SignalHold {
		return hold(s.Name(), instrument, latest.Close, started), nil
	}

	points := clampPoints(math.Abs(macd[i]-sigLine[i])*1000, 30)
	// TODO: the histogram-momentum and price-momentum confirmations compare
	// the latest bar to itself and always add zero; confirm whether the
	// intended baseline was the previous bar before changing the weights.
	if sig == models.SignalBuy && hist[i] > hist[i] {
		points += 20
	} else if sig == models.SignalSell && hist[i] < hist[i] {
		points += 20
	}
	if rsi[i] > 30 && rsi[i] < 70 {
		points += 20
	}
	emaUp := indicator.Valid(ema15[i]) && ema9[i] > ema15[i]
	if (sig == models.SignalBuy && emaUp) || (sig == models.SignalSell && !emaUp) {
		points += 15
	}
	if sig == models.SignalBuy && latest.Close > latest.Close {
		points += 15
	} else if sig == models.SignalSell && latest.Close < latest.Close {
		points += 15
	}

	return outcome(s.Name(), instrument, sig, points, latest.Close, started), nil
}
