package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "payflow",
		Short:         "payflow - fee quotes and prototype progression control",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("addr", envOrDefault("PAYFLOW_ADDR", "localhost:8080"), "gRPC server address")
	rootCmd.PersistentFlags().String("token", envOrDefault("API_TOKEN", "dev-token"), "API token")
	rootCmd.PersistentFlags().String("session", envOrDefault("PAYFLOW_SESSION", "default"), "session id receipts are stored under")

	// Add subcommands
	rootCmd.AddCommand(quoteCmd())
	rootCmd.AddCommand(stateCmd())
	rootCmd.AddCommand(counterpartyCmd())
	rootCmd.AddCommand(paymentCmd())

	return rootCmd
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
