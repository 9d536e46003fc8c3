package strategy

import (
	"context"
	"math"
	"time"

	"StockScan/internal/domain/models"
	"StockScan/internal/indicator"
)

// volumeBreakoutStrategy signals on high-volume breaks of the recent
// high/low with a strong candle body.
type volumeBreakoutStrategy struct {
	deps Deps
}

// NewVolumeBreakout constructs the volume breakout strategy.
func NewVolumeBreakout(deps Deps) Strategy { return &volumeBreakoutStrategy{deps: deps} }

func (s *volumeBreakoutStrategy) Name() string { return "Volume Breakout Strategy" }

func (s *volumeBreakoutStrategy) Evaluate(ctx context.Context, instrument string) (models.SignalOutcome, error) {
	started := time.Now()

	ds, err := s.deps.Fetcher.FetchCandles(ctx, instrument, 5, "5m")
	if err != nil {
		return models.SignalOutcome{}, err
	}
	if ds.Len() < 22 {
		return hold(s.Name(), instrument, lastClose(ds), started), nil
	}

	closes := ds.Closes()
	highs := ds.Highs()
	lows := ds.Lows()
	volSMA := indicator.SMA(ds.Volumes(), 20)
	rsi := indicator.RSI(closes, 14)
	ema15 := indicator.EMA(closes, 15)
	hiMax := indicator.RollingMax(highs, 10)
	loMin := indicator.RollingMin(lows, 10)

	i := ds.Len() - 1
	latest := ds.Last()
	if !indicator.Valid(volSMA[i]) || volSMA[i] == 0 || !indicator.Valid(rsi[i]) || !indicator.Valid(ema15[i]) {
		return hold(s.Name(), instrument, latest.Close, started), nil
	}

	volRatio := latest.Volume / volSMA[i]
	body := latest.BodyPercent()

	sig := models.SignalHold
	switch {
	case volRatio > 2.0 && latest.Close > hiMax[i-1] && body > 40 &&
		latest.Green() && rsi[i] < 80 && latest.Close > ema15[i]:
		sig = models.SignalBuy
	case volRatio > 2.0 && latest.Close < loMin[i-1] && body > 40 &&
		!latest.Green() && rsi[i] > 20 && latest.Close < ema15[i]:
		sig = models.SignalSell
	}
	if sig == models.SignalHold {
		return hold(s.Name(), instrument, latest.Close, started), nil
	}

	var points float64
	if volRatio > 1 {
		points = clampPoints((volRatio-1)*20, 40)
	}
	var strength float64
	if sig == models.SignalBuy {
		strength = (latest.Close - hiMax[i-1]) / hiMax[i-1] * 1000
	} else {
		strength = (loMin[i-1] - latest.Close) / loMin[i-1] * 1000
	}
	points += clampPoints(math.Abs(strength), 25)
	points += clampPoints(body/2, 20)
	if sig == models.SignalBuy && rsi[i] > 40 && rsi[i] < 80 {
		points += 15
	} else if sig == models.SignalSell && rsi[i] > 20 && rsi[i] < 60 {
		points += 15
	}

	return outcome(s.Name(), instrument, sig, points, latest.Close, started), nil
}
