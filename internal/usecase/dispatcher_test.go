package usecase

import "testing"

func TestBuildTasksCrossProduct(t *testing.T) {
	instruments := []string{"BTCUSD", "ETHUSD", "SOLUSD"}
	strategies := []string{"ema", "rsi"}

	tasks := BuildTasks(instruments, strategies)
	if len(tasks) != 6 {
		t.Fatalf("expected 6 tasks, got %d", len(tasks))
	}
	for i, task := range tasks {
		if task.Sequence != i+1 {
			t.Fatalf("task %d: expected sequence %d, got %d", i, i+1, task.Sequence)
		}
		if task.BatchSize != 6 {
			t.Fatalf("task %d: expected batch size 6, got %d", i, task.BatchSize)
		}
	}
	if tasks[0].Instrument != "BTCUSD" || tasks[0].StrategyID != "ema" {
		t.Fatalf("unexpected first task %+v", tasks[0])
	}
	if tasks[1].Instrument != "BTCUSD" || tasks[1].StrategyID != "rsi" {
		t.Fatalf("expected strategies to vary fastest, got %+v", tasks[1])
	}
	if tasks[5].Instrument != "SOLUSD" || tasks[5].StrategyID != "rsi" {
		t.Fatalf("unexpected last task %+v", tasks[5])
	}
}

func TestBuildTasksEmpty(t *testing.T) {
	if got := BuildTasks(nil, []string{"ema"}); got != nil {
		t.Fatalf("expected nil for no instruments, got %v", got)
	}
	if got := BuildTasks([]string{"BTCUSD"}, nil); got != nil {
		t.Fatalf("expected nil for no strategies, got %v", got)
	}
}
