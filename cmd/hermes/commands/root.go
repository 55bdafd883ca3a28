package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hermes",
	Short: "Hermes - KIS 기반 자동매매 파이프라인",
	Long: `Hermes Unified CLI

단일 사이클 매매 의사결정 파이프라인.
Snapshot → Analyze → Plan → Validate → Dispatch → Report

Usage:
  go run ./cmd/hermes [command]

Examples:
  go run ./cmd/hermes run
  go run ./cmd/hermes run --mode live
  go run ./cmd/hermes screen 005930 000660
  go run ./cmd/hermes api
  go run ./cmd/hermes status`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
