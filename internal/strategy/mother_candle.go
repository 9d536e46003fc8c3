package strategy

import (
	"context"
	"time"

	"StockScan/internal/domain/models"
	"StockScan/internal/indicator"
)

// motherCandleStrategy signals on breakouts from a mother-bar pattern: the
// bar before last engulfed its predecessor and the latest close escapes that
// predecessor's range while price is stretched from the long EMA.
type motherCandleStrategy struct {
	deps Deps
}

// NewMotherCandle constructs the mother candle strategy.
func NewMotherCandle(deps Deps) Strategy { return &motherCandleStrategy{deps: deps} }

func (s *motherCandleStrategy) Name() string { return "Mother Candle Strategy" }

func (s *motherCandleStrategy) Evaluate(ctx context.Context, instrument string) (models.SignalOutcome, error) {
	started := time.Now()

	ds, err := s.deps.Fetcher.FetchCandles(ctx, instrument, 30, "15m")
	if err != nil {
		return models.SignalOutcome{}, err
	}
	if ds.Len() < 3 {
		return hold(s.Name(), instrument, lastClose(ds), started), nil
	}

	closes := ds.Closes()
	ema300 := indicator.EMA(closes, 300)

	i := ds.Len() - 1
	latest := ds.Last()
	mother := ds.Candles[i-1]
	ref := ds.Candles[i-2]

	priceToEMA := 0.0
	if indicator.Valid(ema300[i]) && ema300[i] != 0 {
		priceToEMA = (latest.Close - ema300[i]) / ema300[i] * 100
	}

	// The inside-bar variant of this pattern keys off the bar after the
	// breakout and can never fire on the live (latest) candle, so only the
	// mother-bar branch is decidable here.
	motherBar := mother.High > ref.High && mother.Low < ref.Low

	sig := models.SignalHold
	switch {
	case motherBar && latest.Close > ref.High && priceToEMA <= -1:
		sig = models.SignalBuy
	case motherBar && latest.Close < ref.Low && priceToEMA >= 1:
		sig = models.SignalSell
	}
	if sig == models.SignalHold {
		return hold(s.Name(), instrument, latest.Close, started), nil
	}

	points := 30.0
	if sig == models.SignalBuy && priceToEMA < 0 {
		points += clampPoints(-priceToEMA*5, 30)
	} else if sig == models.SignalSell && priceToEMA > 0 {
		points += clampPoints(priceToEMA*5, 30)
	}
	if sig == models.SignalBuy && latest.Green() {
		points += 20
	} else if sig == models.SignalSell && !latest.Green() {
		points += 20
	}
	vols := ds.Volumes()
	n := len(vols)
	tail := vols
	if n > 20 {
		tail = vols[n-20:]
	}
	if avg := indicator.Mean(tail); avg > 0 && latest.Volume > avg {
		points += 20
	}

	return outcome(s.Name(), instrument, sig, points, latest.Close, started), nil
}
