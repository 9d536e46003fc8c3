package models

import "time"

// Candle represents a single OHLCV bar.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Green reports whether the candle closed at or above its open.
func (c Candle) Green() bool { return c.Close >= c.Open }

// Range returns the high-low span of the candle.
func (c Candle) Range() float64 { return c.High - c.Low }

// BodyPercent returns the candle body as a percentage of its range.
func (c Candle) BodyPercent() float64 {
	r := c.Range()
	if r == 0 {
		return 0
	}
	body := c.Close - c.Open
	if body < 0 {
		body = -body
	}
	return body / r * 100
}

// Dataset is a fetched candle series for one instrument. It is the unit the
// cache stores; instances are never mutated after construction.
type Dataset struct {
	Instrument string   `json:"instrument"`
	Resolution string   `json:"resolution"`
	WindowDays int      `json:"window_days"`
	Candles    []Candle `json:"candles"`
}

// Len returns the number of candles.
func (d *Dataset) Len() int { return len(d.Candles) }

// Last returns the most recent candle. Callers must check Len first.
func (d *Dataset) Last() Candle { return d.Candles[len(d.Candles)-1] }

// Closes returns the close series.
func (d *Dataset) Closes() []float64 {
	out := make([]float64, len(d.Candles))
	for i, c := range d.Candles {
		out[i] = c.Close
	}
	return out
}

// Highs returns the high series.
func (d *Dataset) Highs() []float64 {
	out := make([]float64, len(d.Candles))
	for i, c := range d.Candles {
		out[i] = c.High
	}
	return out
}

// Lows returns the low series.
func (d *Dataset) Lows() []float64 {
	out := make([]float64, len(d.Candles))
	for i, c := range d.Candles {
		out[i] = c.Low
	}
	return out
}

// Volumes returns the volume series.
func (d *Dataset) Volumes() []float64 {
	out := make([]float64, len(d.Candles))
	for i, c := range d.Candles {
		out[i] = c.Volume
	}
	return out
}
