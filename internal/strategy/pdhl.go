package strategy

import (
	"context"
	"time"

	"StockScan/internal/domain/models"
	"StockScan/internal/indicator"
	xutil "StockScan/pkg/util"
)

// pdhlStrategy signals on breakouts through the previous day's high or low:
// a close back above the previous day low after closing below it is a buy,
// the mirror through the previous day high is a sell.
type pdhlStrategy struct {
	deps Deps
}

// NewPDHL constructs the previous-day high/low breakout strategy.
func NewPDHL(deps Deps) Strategy { return &pdhlStrategy{deps: deps} }

func (s *pdhlStrategy) Name() string { return "Previous Day HL Strategy" }

func (s *pdhlStrategy) Evaluate(ctx context.Context, instrument string) (models.SignalOutcome, error) {
	started := time.Now()

	ds, err := s.deps.Fetcher.FetchCandles(ctx, instrument, 30, "15m")
	if err != nil {
		return models.SignalOutcome{}, err
	}
	if ds.Len() < 2 {
		return hold(s.Name(), instrument, lastClose(ds), started), nil
	}

	i := ds.Len() - 1
	latest := ds.Last()
	prev := ds.Candles[i-1]

	prevHigh, prevLow, ok := previousDayRange(ds.Candles, latest.Time)
	if !ok {
		return hold(s.Name(), instrument, latest.Close, started), nil
	}

	sig := models.SignalHold
	switch {
	case prev.Close < prevLow && latest.Close > prevLow:
		sig = models.SignalBuy
	case prev.Close > prevHigh && latest.Close < prevHigh:
		sig = models.SignalSell
	}
	if sig == models.SignalHold {
		return hold(s.Name(), instrument, latest.Close, started), nil
	}

	points := 40.0
	var strength float64
	if sig == models.SignalBuy {
		strength = (latest.Close - prevLow) / prevLow
	} else {
		strength = (prevHigh - latest.Close) / prevHigh
	}
	points += clampPoints(strength*5000, 30)
	if sig == models.SignalBuy && latest.Green() {
		points += 15
	} else if sig == models.SignalSell && !latest.Green() {
		points += 15
	}
	n := ds.Len()
	tail := ds.Volumes()
	if n > 20 {
		tail = tail[n-20:]
	}
	if avg := indicator.Mean(tail); avg > 0 && latest.Volume > avg*1.2 {
		points += 15
	}

	return outcome(s.Name(), instrument, sig, points, latest.Close, started), nil
}

// previousDayRange returns the high/low of the calendar day (UTC) before the
// day the latest candle belongs to.
func previousDayRange(candles []models.Candle, latest time.Time) (high, low float64, ok bool) {
	day := xutil.DayStart(latest)
	prevDay := day.Add(-24 * time.Hour)
	for _, c := range candles {
		d := xutil.DayStart(c.Time)
		if !d.Equal(prevDay) {
			continue
		}
		if !ok {
			high, low, ok = c.High, c.Low, true
			continue
		}
		if c.High > high {
			high = c.High
		}
		if c.Low < low {
			low = c.Low
		}
	}
	return high, low, ok
}
