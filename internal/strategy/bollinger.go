package strategy

import (
	"context"
	"math"
	"time"

	"StockScan/internal/domain/models"
	"StockScan/internal/indicator"
)

// bollingerStrategy signals when price touches a Bollinger band while
// stretched away from the long EMA.
type bollingerStrategy struct {
	deps Deps
}

// NewBollinger constructs the Bollinger Bands strategy.
func NewBollinger(deps Deps) Strategy { return &bollingerStrategy{deps: deps} }

func (s *bollingerStrategy) Name() string { return "Bollinger Bands Strategy" }

func (s *bollingerStrategy) Evaluate(ctx context.Context, instrument string) (models.SignalOutcome, error) {
	started := time.Now()

	ds, err := s.deps.Fetcher.FetchCandles(ctx, instrument, 30, "15m")
	if err != nil {
		return models.SignalOutcome{}, err
	}
	if ds.Len() < 21 {
		return hold(s.Name(), instrument, lastClose(ds), started), nil
	}

	closes := ds.Closes()
	upper, lower := indicator.Bollinger(closes, 20, 2)
	ema300 := indicator.EMA(closes, 300)

	i := ds.Len() - 1
	latest := ds.Last()

	// Distance of price from the 300 EMA in percent; zero when the long EMA
	// has not warmed up yet.
	priceToEMA := 0.0
	if indicator.Valid(ema300[i]) && ema300[i] != 0 {
		priceToEMA = (latest.Close - ema300[i]) / ema300[i] * 100
	}

	const threshold = 0.001 // 0.1% band-touch tolerance

	sig := models.SignalHold
	switch {
	case indicator.Valid(lower[i]) && math.Abs(latest.Close-lower[i]) <= threshold*lower[i] && priceToEMA <= 0:
		sig = models.SignalBuy
	case indicator.Valid(upper[i]) && math.Abs(latest.Close-upper[i]) <= threshold*upper[i] && priceToEMA >= 0:
		sig = models.SignalSell
	}
	if sig == models.SignalHold {
		return hold(s.Name(), instrument, latest.Close, started), nil
	}

	var points float64
	if sig == models.SignalBuy {
		dist := math.Abs(latest.Close-lower[i]) / lower[i]
		points = math.Max(0, 40-dist*10000)
	} else {
		dist := math.Abs(latest.Close-upper[i]) / upper[i]
		points = math.Max(0, 40-dist*10000)
	}
	if sig == models.SignalBuy && priceToEMA < 0 {
		points += clampPoints(math.Abs(priceToEMA)*10, 30)
	} else if sig == models.SignalSell && priceToEMA > 0 {
		points += clampPoints(math.Abs(priceToEMA)*10, 30)
	}
	if sig == models.SignalBuy && latest.Green() {
		points += 15
	} else if sig == models.SignalSell && !latest.Green() {
		points += 15
	}

	return outcome(s.Name(), instrument, sig, points, latest.Close, started), nil
}
