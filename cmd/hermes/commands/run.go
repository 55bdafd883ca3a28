package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/minsuk-dev/hermes/internal/contracts"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "매매 파이프라인 1회 실행",
	Long: `매매 의사결정 파이프라인을 1회 실행합니다.

이 명령어는:
- 계좌 스냅샷 수집 (KIS)
- 시장 분석 및 매매 계획 수립
- 리스크 검증 통과 시 주문 실행
- 최종 리포트 출력

Example:
  go run ./cmd/hermes run
  go run ./cmd/hermes run --mode live
  go run ./cmd/hermes run --timeout 2m`,
	RunE: runPipeline,
}

var (
	runMode    string
	runTimeout time.Duration
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runMode, "mode", "", "execution mode (simulated|live), overrides TRADING_EXECUTION_MODE")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 90*time.Second, "run timeout")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Hermes Trading Pipeline ===")

	if runMode != "" {
		if runMode != string(contracts.ModeSimulated) && runMode != string(contracts.ModeLive) {
			return fmt.Errorf("invalid mode %q (simulated|live)", runMode)
		}
		// Must be set before wiring: it decides which order service is used
		if err := os.Setenv("TRADING_EXECUTION_MODE", runMode); err != nil {
			return err
		}
	}

	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	mode := contracts.ExecutionMode(rt.cfg.Trading.ExecutionMode)
	env := contracts.Environment(rt.cfg.Trading.Environment)

	if mode == contracts.ModeLive {
		fmt.Println("⚠️  LIVE mode: orders will be sent to the broker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	result := rt.runner.RunPipeline(ctx, env, mode)

	fmt.Println(result.FinalReport)
	fmt.Printf("Run %s finished in %.2fs: success=%v orders=%d errors=%d\n",
		result.RunID, result.Elapsed.Seconds(), result.Success, result.OrdersExecuted, result.ErrorCount)

	if !result.Success {
		return fmt.Errorf("pipeline run failed with %d error(s)", result.ErrorCount)
	}
	return nil
}
