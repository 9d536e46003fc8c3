package usecase

import "StockScan/internal/domain/models"

// Aggregate builds the immutable batch result from the collected outcomes.
// Outcomes for failed tasks are simply absent from the input. Grouping is by
// instrument in first-seen order, appending within a group in arrival order,
// so re-aggregating the same slice yields a structurally equal result.
func Aggregate(outcomes []models.SignalOutcome, instruments, strategies []string) *models.BatchAggregate {
	expected := len(instruments) * len(strategies)

	index := make(map[string]int, len(instruments))
	groups := make([]models.InstrumentGroup, 0, len(instruments))
	for _, o := range outcomes {
		i, ok := index[o.Instrument]
		if !ok {
			i = len(groups)
			index[o.Instrument] = i
			groups = append(groups, models.InstrumentGroup{Instrument: o.Instrument})
		}
		groups[i].Outcomes = append(groups[i].Outcomes, o)
	}

	return &models.BatchAggregate{
		Summary: models.BatchSummary{
			TotalInstruments: len(groups),
			TotalStrategies:  len(strategies),
			TotalOutcomes:    len(outcomes),
			ExpectedOutcomes: expected,
			FailedOutcomes:   expected - len(outcomes),
		},
		Groups: groups,
	}
}
