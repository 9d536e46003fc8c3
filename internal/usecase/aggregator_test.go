package usecase

import (
	"reflect"
	"testing"

	"StockScan/internal/domain/models"
)

func out(strategy, instrument string, sig models.Signal) models.SignalOutcome {
	return models.SignalOutcome{
		StrategyName: strategy,
		Instrument:   instrument,
		Signal:       sig,
		OK:           true,
	}
}

func TestAggregateGroupsByInstrument(t *testing.T) {
	outcomes := []models.SignalOutcome{
		out("rsi", "ETHUSD", models.SignalHold),
		out("ema", "BTCUSD", models.SignalBuy),
		out("ema", "ETHUSD", models.SignalSell),
	}

	agg := Aggregate(outcomes, []string{"BTCUSD", "ETHUSD"}, []string{"ema", "rsi"})
	if len(agg.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(agg.Groups))
	}
	// first-seen order, not input list order
	if agg.Groups[0].Instrument != "ETHUSD" {
		t.Fatalf("expected ETHUSD first, got %s", agg.Groups[0].Instrument)
	}
	if len(agg.Groups[0].Outcomes) != 2 || len(agg.Groups[1].Outcomes) != 1 {
		t.Fatalf("unexpected group sizes %d/%d", len(agg.Groups[0].Outcomes), len(agg.Groups[1].Outcomes))
	}
	if agg.Groups[0].Outcomes[0].StrategyName != "rsi" {
		t.Fatalf("expected arrival order within group")
	}
}

func TestAggregateCounters(t *testing.T) {
	outcomes := []models.SignalOutcome{
		out("ema", "BTCUSD", models.SignalBuy),
		out("rsi", "BTCUSD", models.SignalHold),
		out("ema", "ETHUSD", models.SignalHold),
	}

	agg := Aggregate(outcomes, []string{"BTCUSD", "ETHUSD"}, []string{"ema", "rsi"})
	s := agg.Summary
	if s.ExpectedOutcomes != 4 {
		t.Fatalf("expected 4 expected outcomes, got %d", s.ExpectedOutcomes)
	}
	if s.TotalOutcomes != 3 || s.FailedOutcomes != 1 {
		t.Fatalf("unexpected totals %d/%d", s.TotalOutcomes, s.FailedOutcomes)
	}
	if s.TotalInstruments != 2 || s.TotalStrategies != 2 {
		t.Fatalf("unexpected counts %d/%d", s.TotalInstruments, s.TotalStrategies)
	}
}

func TestAggregateDeterministic(t *testing.T) {
	outcomes := []models.SignalOutcome{
		out("ema", "BTCUSD", models.SignalBuy),
		out("rsi", "ETHUSD", models.SignalSell),
		out("rsi", "BTCUSD", models.SignalHold),
	}
	instruments := []string{"BTCUSD", "ETHUSD"}
	strategies := []string{"ema", "rsi"}

	a := Aggregate(outcomes, instruments, strategies)
	b := Aggregate(outcomes, instruments, strategies)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("aggregation is not deterministic")
	}
}

func TestPublishableGate(t *testing.T) {
	allHold := Aggregate([]models.SignalOutcome{
		out("ema", "BTCUSD", models.SignalHold),
		out("rsi", "BTCUSD", models.SignalHold),
	}, []string{"BTCUSD"}, []string{"ema", "rsi"})
	if allHold.Publishable() {
		t.Fatalf("all-HOLD batch must not be publishable")
	}

	oneBuy := Aggregate([]models.SignalOutcome{
		out("ema", "BTCUSD", models.SignalHold),
		out("rsi", "BTCUSD", models.SignalBuy),
	}, []string{"BTCUSD"}, []string{"ema", "rsi"})
	if !oneBuy.Publishable() {
		t.Fatalf("batch with a BUY must be publishable")
	}

	empty := Aggregate(nil, []string{"BTCUSD"}, []string{"ema"})
	if empty.Publishable() {
		t.Fatalf("empty batch must not be publishable")
	}
}
