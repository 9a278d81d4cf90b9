package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/garrettladley/revhook/internal/webhook"
)

const envWebhookSecret = "REVOLUT_WEBHOOK_SECRET"

func readPayload(cmd *cobra.Command, file string) ([]byte, error) {
	if file == "" || file == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(file)
}

func secretFlag(secret string) (webhook.Secret, error) {
	if secret == "" {
		secret = os.Getenv(envWebhookSecret)
	}
	if secret == "" {
		return "", fmt.Errorf("--secret or %s is required", envWebhookSecret)
	}
	return webhook.Secret(secret), nil
}

func signCmd() *cobra.Command {
	var (
		secret    string
		timestamp string
		file      string
	)

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Print the headers Revolut would send for a payload",
		Long:  "Reads a payload from --file (or stdin) and prints Revolut-Request-Timestamp and Revolut-Signature headers, for exercising a local endpoint with curl.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := secretFlag(secret)
			if err != nil {
				return err
			}
			body, err := readPayload(cmd, file)
			if err != nil {
				return fmt.Errorf("failed to read payload: %w", err)
			}
			if timestamp == "" {
				timestamp = strconv.FormatInt(time.Now().UnixMilli(), 10)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s: %s\n", webhook.HeaderTimestamp, timestamp)
			_, _ = fmt.Fprintf(out, "%s: %s\n", webhook.HeaderSignature, webhook.Sign(s, timestamp, body))
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (defaults to $"+envWebhookSecret+")")
	cmd.Flags().StringVar(&timestamp, "timestamp", "", "unix milliseconds (defaults to now)")
	cmd.Flags().StringVar(&file, "file", "", "payload file (defaults to stdin)")
	return cmd
}

func verifyCmd() *cobra.Command {
	var (
		secret    string
		timestamp string
		signature string
		file      string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a captured notification the way the server would",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := secretFlag(secret)
			if err != nil {
				return err
			}
			body, err := readPayload(cmd, file)
			if err != nil {
				return fmt.Errorf("failed to read payload: %w", err)
			}

			store := webhook.NewStore()
			store.Set(s)

			h := http.Header{}
			h.Set(webhook.HeaderTimestamp, timestamp)
			h.Set(webhook.HeaderSignature, signature)

			outcome := webhook.NewAuthenticator(store).Authenticate(cmd.Context(), webhook.Notification{
				Header:     h,
				Body:       body,
				ReceivedAt: time.Now(),
			})

			out := cmd.OutOrStdout()
			if !outcome.IsAccepted() {
				_, _ = fmt.Fprintln(out, failStyle.Render("rejected")+" "+outcome.Code()+": "+outcome.Message())
				return fmt.Errorf("notification rejected: %s", outcome.Code())
			}
			_, _ = fmt.Fprintln(out, okStyle.Render("accepted"))
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (defaults to $"+envWebhookSecret+")")
	cmd.Flags().StringVar(&timestamp, "timestamp", "", "Revolut-Request-Timestamp header value")
	cmd.Flags().StringVar(&signature, "signature", "", "Revolut-Signature header value")
	cmd.Flags().StringVar(&file, "file", "", "payload file (defaults to stdin)")
	return cmd
}
