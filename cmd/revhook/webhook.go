package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/garrettladley/revhook/internal/client/revolut"
	"github.com/garrettladley/revhook/internal/webhook"
)

func webhookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Manage webhook subscriptions",
	}
	cmd.AddCommand(webhookListCmd(), webhookCreateCmd(), webhookDeleteCmd(), webhookRotateCmd())
	return cmd
}

func webhookListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List webhook subscriptions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			hooks, err := client.Webhooks.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list webhooks: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(hooks) == 0 {
				_, _ = fmt.Fprintln(out, labelStyle.Render("no webhooks registered"))
				return nil
			}

			widths := []int{38, 52}
			_, _ = fmt.Fprintln(out, headerStyle.Render(row(widths, "ID", "URL", "EVENTS")))
			for _, h := range hooks {
				_, _ = fmt.Fprintln(out, row(widths, h.ID, h.URL, joinEvents(h.Events)))
			}
			return nil
		},
	}
}

func webhookCreateCmd() *cobra.Command {
	var (
		url    string
		events []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Subscribe a URL to webhook events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			req := revolut.CreateWebhookRequest{URL: url, Events: webhook.DefaultEvents}
			if len(events) > 0 {
				req.Events = make([]webhook.EventType, len(events))
				for i, e := range events {
					req.Events[i] = webhook.EventType(strings.ToUpper(e))
				}
			}

			wh, err := client.Webhooks.Create(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("failed to create webhook: %w", err)
			}

			printWebhook(cmd, "Webhook created", wh)
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "HTTPS endpoint that receives notifications")
	cmd.Flags().StringSliceVar(&events, "event", nil, "event type to subscribe to (repeatable, default ORDER_COMPLETED,ORDER_AUTHORISED)")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func webhookDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a webhook subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			if err := client.Webhooks.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to delete webhook: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("deleted")+" "+args[0])
			return nil
		},
	}
}

func webhookRotateCmd() *cobra.Command {
	var grace time.Duration

	cmd := &cobra.Command{
		Use:   "rotate ID",
		Short: "Rotate a webhook's signing secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			req := revolut.RotateSigningSecretRequest{}
			if secs := int64(grace / time.Second); secs > 0 {
				req.ExpirationPeriod = fmt.Sprintf("PT%dS", secs)
			}

			wh, err := client.Webhooks.RotateSigningSecret(cmd.Context(), args[0], req)
			if err != nil {
				return fmt.Errorf("failed to rotate signing secret: %w", err)
			}

			printWebhook(cmd, "Signing secret rotated", wh)
			return nil
		},
	}

	cmd.Flags().DurationVar(&grace, "grace", 0, "how long the previous secret keeps signing")
	return cmd
}

func printWebhook(cmd *cobra.Command, title string, wh *revolut.Webhook) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, headerStyle.Render(title))
	_, _ = fmt.Fprintln(out, field("id", wh.ID))
	if wh.URL != "" {
		_, _ = fmt.Fprintln(out, field("url", wh.URL))
	}
	if len(wh.Events) > 0 {
		_, _ = fmt.Fprintln(out, field("events", joinEvents(wh.Events)))
	}
	if wh.SigningSecret != "" {
		_, _ = fmt.Fprintln(out, field("signing secret", string(wh.SigningSecret)))
		_, _ = fmt.Fprintln(out, field("fingerprint", wh.SigningSecret.Fingerprint()))
	}
}

func joinEvents(events []webhook.EventType) string {
	s := make([]string, len(events))
	for i, e := range events {
		s[i] = string(e)
	}
	return strings.Join(s, ",")
}
