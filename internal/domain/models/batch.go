package models

import "time"

// Signal is the direction a strategy recommends for an instrument.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalHold Signal = "HOLD"
)

// TaskDescriptor identifies one (strategy, instrument) unit of work inside a
// batch. Sequence numbers start at 1 and exist for progress logs only.
type TaskDescriptor struct {
	StrategyID string `json:"strategy_id"`
	Instrument string `json:"instrument"`
	Sequence   int    `json:"sequence"`
	BatchSize  int    `json:"batch_size"`
}

// SignalOutcome is the result of one successfully completed task. A task that
// exhausts its retries produces no outcome at all.
type SignalOutcome struct {
	StrategyName string        `json:"strategy_name"`
	Instrument   string        `json:"instrument"`
	Signal       Signal        `json:"signal"`
	Confidence   float64       `json:"confidence"`
	Price        float64       `json:"price"`
	Elapsed      time.Duration `json:"execution_duration"`
	ProducedAt   time.Time     `json:"produced_at"`
	OK           bool          `json:"ok"`
}

// BatchSummary holds the batch-level counters.
type BatchSummary struct {
	TotalInstruments int `json:"total_instruments"`
	TotalStrategies  int `json:"total_strategies"`
	TotalOutcomes    int `json:"total_outcomes"`
	ExpectedOutcomes int `json:"expected_outcomes"`
	FailedOutcomes   int `json:"failed_outcomes"`
}

// InstrumentGroup collects the outcomes produced for a single instrument.
type InstrumentGroup struct {
	Instrument string          `json:"instrument"`
	Outcomes   []SignalOutcome `json:"outcomes"`
}

// BatchAggregate is the immutable result of one scan cycle, built once after
// every task has reached a terminal state.
type BatchAggregate struct {
	Summary BatchSummary      `json:"summary"`
	Groups  []InstrumentGroup `json:"groups"`
}

// Publishable reports whether the batch carries at least one actionable
// signal. An all-HOLD batch is not forwarded downstream.
func (b *BatchAggregate) Publishable() bool {
	for _, g := range b.Groups {
		for _, o := range g.Outcomes {
			if o.Signal != SignalHold {
				return true
			}
		}
	}
	return false
}

// CycleStatus describes how a scan cycle ended.
type CycleStatus string

const (
	CyclePublished CycleStatus = "published"
	CycleSkipped   CycleStatus = "skipped"
	CycleEmpty     CycleStatus = "empty"
)

// CycleResult is what RunCycle hands back to its trigger.
type CycleResult struct {
	BatchID   string          `json:"batch_id,omitempty"`
	Status    CycleStatus     `json:"status"`
	Aggregate *BatchAggregate `json:"aggregate,omitempty"`
	Elapsed   time.Duration   `json:"elapsed"`
}
