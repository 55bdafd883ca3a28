package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "시스템 상태 점검",
	Long: `구성요소별 연결 상태를 점검합니다.

점검 항목:
- 설정 (환경, 실행 모드)
- KIS API (계좌 잔고 조회)
- Database (연결 및 풀 상태)

Example:
  go run ./cmd/hermes status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Hermes System Status ===")

	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	fmt.Println("\n⚙️  Configuration")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("%-18s %s\n", "Environment:", rt.cfg.Trading.Environment)
	fmt.Printf("%-18s %s\n", "Execution mode:", rt.cfg.Trading.ExecutionMode)
	fmt.Printf("%-18s %v\n", "KIS virtual:", rt.cfg.KIS.IsVirtual)

	fmt.Println("\n🏦 KIS API")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	balance, holdings, err := rt.kisClient.GetBalance(ctx)
	if err != nil {
		fmt.Printf("  ❌ Balance inquiry failed: %v\n", err)
	} else {
		fmt.Printf("%-18s %d KRW\n", "Available cash:", balance.AvailableCash)
		fmt.Printf("%-18s %d KRW\n", "Total asset:", balance.TotalAsset)
		fmt.Printf("%-18s %d\n", "Holdings:", len(holdings))
	}

	fmt.Println("\n🗄️  Database")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	if rt.db == nil {
		fmt.Println("  ⚠️  Not configured (DATABASE_URL not set)")
	} else if status, err := rt.db.HealthCheck(ctx); err != nil {
		fmt.Printf("  ❌ Unhealthy: %v\n", err)
	} else {
		fmt.Printf("%-18s %v\n", "Response time:", status.ResponseTime)
		fmt.Printf("%-18s %d/%d\n", "Connections:", status.TotalConns, status.MaxConns)
	}

	fmt.Println()
	return nil
}
