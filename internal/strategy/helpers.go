package strategy

import (
	"math"
	"time"

	"StockScan/internal/domain/models"
)

// outcome assembles a SignalOutcome from the raw confidence points (0..100
// scale) a heuristic accumulated. Confidence is emitted as a fraction of 1
// rounded to three decimals.
func outcome(name, instrument string, sig models.Signal, points, price float64, started time.Time) models.SignalOutcome {
	if points > 100 {
		points = 100
	}
	if points < 0 {
		points = 0
	}
	return models.SignalOutcome{
		StrategyName: name,
		Instrument:   instrument,
		Signal:       sig,
		Confidence:   math.Round(points/100*1000) / 1000,
		Price:        math.Round(price*100) / 100,
		Elapsed:      time.Since(started),
		ProducedAt:   time.Now().UTC(),
		OK:           true,
	}
}

// hold is the outcome for a dataset that produced no actionable signal.
func hold(name, instrument string, price float64, started time.Time) models.SignalOutcome {
	return outcome(name, instrument, models.SignalHold, 0, price, started)
}

func clampPoints(v, max float64) float64 {
	if v > max {
		return max
	}
	if v < 0 {
		return 0
	}
	return v
}
