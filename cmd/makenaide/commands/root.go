package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "makenaide",
	Short: "Makenaide - 암호화폐 기술적 스캐닝 시스템",
	Long: `Makenaide CLI

Upbit KRW 마켓 전체를 대상으로 한 Weinstein Stage 기반
기술적 점수화/분류 시스템.

Usage:
  go run ./cmd/makenaide [command]

Examples:
  go run ./cmd/makenaide collect
  go run ./cmd/makenaide scan
  go run ./cmd/makenaide api
  go run ./cmd/makenaide scheduler start`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
