package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "REDIS_ENABLED", "SCHEDULER_SWEEP_INTERVAL", "SCHEDULER_DAILY_SWEEP_HOUR_UTC"} {
		t.Setenv(key, "")
	}
	// Empty values are set but unparsable, so the defaults apply.
	cfg := Load()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Scheduler.SweepInterval != 60*time.Minute {
		t.Errorf("expected default sweep interval 60m, got %s", cfg.Scheduler.SweepInterval)
	}
	if cfg.Scheduler.DailySweepHourUTC != 0 {
		t.Errorf("expected default daily hour 0, got %d", cfg.Scheduler.DailySweepHourUTC)
	}
	if !cfg.Redis.Enabled {
		t.Error("expected redis to be enabled by default")
	}
	if cfg.Redis.LockTTL != 30*time.Second {
		t.Errorf("expected default lock ttl 30s, got %s", cfg.Redis.LockTTL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("SCHEDULER_SWEEP_INTERVAL", "5m")
	t.Setenv("SCHEDULER_DAILY_SWEEP_HOUR_UTC", "-1")
	t.Setenv("SCHEDULER_BATCH_SIZE", "not-a-number")

	cfg := Load()

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("expected sqlite driver, got %s", cfg.Database.Driver)
	}
	if cfg.Redis.Enabled {
		t.Error("expected redis to be disabled")
	}
	if cfg.Scheduler.SweepInterval != 5*time.Minute {
		t.Errorf("expected sweep interval 5m, got %s", cfg.Scheduler.SweepInterval)
	}
	if cfg.Scheduler.DailySweepHourUTC != -1 {
		t.Errorf("expected the daily sweep to be disabled, got %d", cfg.Scheduler.DailySweepHourUTC)
	}
	if cfg.Scheduler.BatchSize != 100 {
		t.Errorf("expected invalid batch size to fall back to 100, got %d", cfg.Scheduler.BatchSize)
	}
}
