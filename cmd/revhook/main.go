package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/garrettladley/revhook/internal/version"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "revhook",
		Short:         "Revolut Merchant orders and webhooks from your terminal",
		Version:       version.Get(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(orderCmd())
	rootCmd.AddCommand(webhookCmd())
	rootCmd.AddCommand(signCmd())
	rootCmd.AddCommand(verifyCmd())

	if err := fang.Execute(context.Background(), rootCmd, fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM)); err != nil {
		os.Exit(1)
	}
}
