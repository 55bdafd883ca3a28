package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Check defaults
	if cfg.Port != "8090" {
		t.Errorf("Expected Port to be 8090, got %s", cfg.Port)
	}

	if cfg.Trading.Environment != "paper" {
		t.Errorf("Expected Trading.Environment to be paper, got %s", cfg.Trading.Environment)
	}

	if cfg.Trading.ExecutionMode != "simulated" {
		t.Errorf("Expected Trading.ExecutionMode to be simulated, got %s", cfg.Trading.ExecutionMode)
	}

	if cfg.Trading.MaxPositionRatio != 10.0 {
		t.Errorf("Expected MaxPositionRatio to be 10.0, got %f", cfg.Trading.MaxPositionRatio)
	}

	if cfg.Trading.OrderDelay != 500*time.Millisecond {
		t.Errorf("Expected OrderDelay to be 500ms, got %s", cfg.Trading.OrderDelay)
	}

	if cfg.Trading.DefaultBuyTicker != "005930" {
		t.Errorf("Expected DefaultBuyTicker to be 005930, got %s", cfg.Trading.DefaultBuyTicker)
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("ENV", "production")
	os.Setenv("TRADING_ENV", "prod")
	os.Setenv("TRADING_DAILY_LOSS_RATIO", "1.5")
	os.Setenv("TRADING_ORDER_DELAY", "250ms")

	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("ENV")
		os.Unsetenv("TRADING_ENV")
		os.Unsetenv("TRADING_DAILY_LOSS_RATIO")
		os.Unsetenv("TRADING_ORDER_DELAY")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Expected Port to be 9000, got %s", cfg.Port)
	}

	if cfg.Trading.Environment != "prod" {
		t.Errorf("Expected Trading.Environment to be prod, got %s", cfg.Trading.Environment)
	}

	if cfg.Trading.DailyLossRatio != 1.5 {
		t.Errorf("Expected DailyLossRatio to be 1.5, got %f", cfg.Trading.DailyLossRatio)
	}

	if cfg.Trading.OrderDelay != 250*time.Millisecond {
		t.Errorf("Expected OrderDelay to be 250ms, got %s", cfg.Trading.OrderDelay)
	}
}

func TestValidateRejectsBadEnvironment(t *testing.T) {
	os.Setenv("TRADING_ENV", "sandbox")
	defer os.Unsetenv("TRADING_ENV")

	if _, err := Load(); err == nil {
		t.Error("Expected Load() to fail for TRADING_ENV=sandbox")
	}
}

func TestValidateRejectsLiveProdWithoutCredentials(t *testing.T) {
	os.Setenv("TRADING_ENV", "prod")
	os.Setenv("TRADING_EXECUTION_MODE", "live")
	os.Setenv("KIS_APP_KEY", "")

	defer func() {
		os.Unsetenv("TRADING_ENV")
		os.Unsetenv("TRADING_EXECUTION_MODE")
		os.Unsetenv("KIS_APP_KEY")
	}()

	if _, err := Load(); err == nil {
		t.Error("Expected Load() to fail for live prod execution without KIS credentials")
	}
}
