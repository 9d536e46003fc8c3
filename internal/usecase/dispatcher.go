package usecase

import "StockScan/internal/domain/models"

// BuildTasks expands the instrument and strategy lists into the full task set
// for one batch cycle. Sequence numbers start at 1 and BatchSize is the total
// for the cycle; both exist only for progress logging. An empty input list
// yields an empty task set, which the caller treats as a skipped cycle.
func BuildTasks(instruments, strategies []string) []models.TaskDescriptor {
	total := len(instruments) * len(strategies)
	if total == 0 {
		return nil
	}
	tasks := make([]models.TaskDescriptor, 0, total)
	seq := 1
	for _, inst := range instruments {
		for _, strat := range strategies {
			tasks = append(tasks, models.TaskDescriptor{
				StrategyID: strat,
				Instrument: inst,
				Sequence:   seq,
				BatchSize:  total,
			})
			seq++
		}
	}
	return tasks
}
