package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/minsuk-dev/hermes/internal/screener"
)

// screenCmd represents the screen command
var screenCmd = &cobra.Command{
	Use:   "screen [tickers...]",
	Short: "티커 거래가능 여부 일괄 확인",
	Long: `KIS 매수가능조회 API로 종목별 거래가능 여부를 확인합니다.

거래정지/상장폐지/관리종목은 거래불가로 분류됩니다.
LLM이나 DB 없이 순수 API 기반으로 동작합니다.

Example:
  go run ./cmd/hermes screen 005930 000660 035720
  go run ./cmd/hermes screen 005930 --delay 200ms`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScreen,
}

var (
	screenDelay   time.Duration
	screenRetries int
)

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().DurationVar(&screenDelay, "delay", 100*time.Millisecond, "API 호출 간격")
	screenCmd.Flags().IntVar(&screenRetries, "retries", 2, "에러 시 재시도 횟수")
}

func runScreen(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Hermes Ticker Screener ===")
	fmt.Printf("Checking %d ticker(s)\n\n", len(args))

	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	scrCfg := screener.DefaultConfig()
	scrCfg.CallDelay = screenDelay
	scrCfg.MaxRetries = screenRetries

	s := screener.New(rt.kisClient, scrCfg, rt.log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := s.Screen(ctx, args)
	if err != nil {
		return fmt.Errorf("screening aborted: %w", err)
	}

	printScreenResult(result)
	return nil
}

func printScreenResult(result *screener.Result) {
	stats := screener.Summarize(result)

	fmt.Println("📊 Screening Result")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	for _, ticker := range result.Tradable {
		fmt.Printf("  ✅ %s\n", ticker)
	}
	for _, ticker := range result.NonTradable {
		fmt.Printf("  ❌ %s\n", ticker)
	}
	for _, e := range result.Errors {
		fmt.Printf("  ⚠️  %s: %s\n", e.Ticker, e.Error)
	}
	fmt.Println()
	fmt.Printf("%-15s %10d\n", "Total:", stats.TotalTickers)
	fmt.Printf("%-15s %10d\n", "Tradable:", stats.TradableCount)
	fmt.Printf("%-15s %10d\n", "Errors:", stats.ErrorCount)
	fmt.Printf("%-15s %9.1f%%\n", "Tradable ratio:", stats.TradableRatio*100)
	fmt.Printf("%-15s %9.2fs\n", "Elapsed:", result.Elapsed.Seconds())
}
