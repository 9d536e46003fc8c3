// Package strategy holds the pluggable signal generators and their static
// registry. A strategy is a pure function of its instrument plus fetched
// candle data; all upstream I/O goes through the injected DataFetcher.
package strategy

import (
	"context"
	"fmt"
	"sort"

	"StockScan/internal/domain/models"
	drepo "StockScan/internal/domain/repository"
)

// Strategy evaluates one instrument and produces a signal outcome.
type Strategy interface {
	Name() string
	Evaluate(ctx context.Context, instrument string) (models.SignalOutcome, error)
}

// Deps carries the collaborators a strategy constructor may need.
type Deps struct {
	Fetcher drepo.DataFetcher
}

// Factory constructs a strategy from its dependencies.
type Factory func(Deps) Strategy

// builtin maps config identifiers to constructors. New strategies are added
// here, not loaded reflectively.
var builtin = map[string]Factory{
	"ema":             NewEMA,
	"rsi":             NewRSI,
	"macd":            NewMACD,
	"bollinger":       NewBollinger,
	"volume_breakout": NewVolumeBreakout,
	"pdhl":            NewPDHL,
	"mother_candle":   NewMotherCandle,
}

// IsRegistered reports whether id names a known strategy.
func IsRegistered(id string) bool {
	_, ok := builtin[id]
	return ok
}

// Registered returns the sorted list of known strategy identifiers.
func Registered() []string {
	ids := make([]string, 0, len(builtin))
	for id := range builtin {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Build resolves a list of strategy identifiers into instances. An unknown
// identifier is an error, not a silent skip.
func Build(ids []string, deps Deps) ([]Strategy, error) {
	out := make([]Strategy, 0, len(ids))
	for _, id := range ids {
		f, ok := builtin[id]
		if !ok {
			return nil, fmt.Errorf("unknown strategy %q (registered: %v)", id, Registered())
		}
		out = append(out, f(deps))
	}
	return out, nil
}
