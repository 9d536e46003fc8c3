package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validYAML = `
environment: test
server:
  port: 8080
scan:
  instruments: [BTCUSD]
  strategies: [rsi]
batch:
  workers: 4
  max_attempts: 3
  backoff_base: 500ms
  attempt_timeout: 15s
sink:
  notifier: redis
  batch_channel: scan.batches
clickhouse:
  host: localhost
  port: 9000
  database: stockscan
market:
  base_url: https://api.delta.exchange
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Batch.BackoffBase.Std() != 500*time.Millisecond {
		t.Fatalf("unexpected backoff %v", cfg.Batch.BackoffBase)
	}
	if cfg.Sink.Notifier != "redis" {
		t.Fatalf("unexpected notifier %s", cfg.Sink.Notifier)
	}
}

func TestLoadRejectsUnknownNotifier(t *testing.T) {
	body := `
environment: test
scan:
  instruments: [BTCUSD]
  strategies: [rsi]
sink:
  notifier: rabbitmq
clickhouse:
  host: localhost
market:
  base_url: http://x
`
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected error for unknown notifier")
	}
}

func TestLoadRequiresInstruments(t *testing.T) {
	body := `
environment: test
scan:
  strategies: [rsi]
sink:
  notifier: redis
clickhouse:
  host: localhost
market:
  base_url: http://x
`
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected error for missing instruments")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("INSTRUMENTS", "SOLUSD,XRPUSD")
	t.Setenv("BATCH_WORKERS", "16")

	cfg, err := LoadWithEnv(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("LoadWithEnv: %v", err)
	}
	if len(cfg.Scan.Instruments) != 2 || cfg.Scan.Instruments[0] != "SOLUSD" {
		t.Fatalf("env override not applied: %v", cfg.Scan.Instruments)
	}
	if cfg.Batch.Workers != 16 {
		t.Fatalf("worker override not applied: %d", cfg.Batch.Workers)
	}
}
