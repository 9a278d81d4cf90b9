package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/garrettladley/revhook/internal/client/revolut"
	"github.com/garrettladley/revhook/internal/ledger"
)

func orderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Create and inspect orders",
	}
	cmd.AddCommand(orderCreateCmd(), orderListCmd(), orderGetCmd())
	return cmd
}

func orderCreateCmd() *cobra.Command {
	var (
		amount      int64
		currency    string
		description string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an order and print its checkout URL",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if amount <= 0 {
				return fmt.Errorf("--amount must be positive, got %d", amount)
			}

			client, err := newClient()
			if err != nil {
				return err
			}
			l, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = l.Close() }()

			order, err := client.Orders.Create(ctx, revolut.CreateOrderRequest{
				Amount:      amount,
				Currency:    strings.ToUpper(currency),
				Description: description,
			})
			if err != nil {
				return fmt.Errorf("failed to create order: %w", err)
			}

			if err := l.Insert(ctx, toLedgerOrder(order)); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, headerStyle.Render("Order created"))
			_, _ = fmt.Fprintln(out, field("id", order.ID))
			_, _ = fmt.Fprintln(out, field("amount", formatAmount(order.Amount, order.Currency)))
			_, _ = fmt.Fprintln(out, field("state", string(order.State)))
			_, _ = fmt.Fprintln(out, field("checkout", linkStyle.Render(order.CheckoutURL)))
			return nil
		},
	}

	cmd.Flags().Int64Var(&amount, "amount", 0, "amount in minor units (1000 = 10.00)")
	cmd.Flags().StringVar(&currency, "currency", "GBP", "ISO 4217 currency code")
	cmd.Flags().StringVar(&description, "description", "", "order description")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func orderListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders created from this machine",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			l, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = l.Close() }()

			orders, err := l.List(ctx, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(orders) == 0 {
				_, _ = fmt.Fprintln(out, labelStyle.Render("no orders yet"))
				return nil
			}

			widths := []int{38, 12, 14, 18}
			_, _ = fmt.Fprintln(out, headerStyle.Render(row(widths, "ID", "STATE", "AMOUNT", "CREATED", "CHECKOUT")))
			for _, o := range orders {
				_, _ = fmt.Fprintln(out, row(widths,
					o.ID,
					o.State,
					formatAmount(o.Amount, o.Currency),
					o.CreatedAt.Local().Format("2006-01-02 15:04"),
					o.CheckoutURL,
				))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of orders")
	return cmd
}

func orderGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Fetch an order's current state from Revolut",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := newClient()
			if err != nil {
				return err
			}

			order, err := client.Orders.Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get order: %w", err)
			}

			l, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = l.Close() }()
			if err := l.Insert(ctx, toLedgerOrder(order)); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, field("id", order.ID))
			_, _ = fmt.Fprintln(out, field("amount", formatAmount(order.Amount, order.Currency)))
			_, _ = fmt.Fprintln(out, field("outstanding", formatAmount(order.OutstandingAmount, order.Currency)))
			_, _ = fmt.Fprintln(out, field("state", badgeStyle.Render(string(order.State))))
			return nil
		},
	}
}

func toLedgerOrder(o *revolut.Order) ledger.Order {
	created := o.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return ledger.Order{
		ID:          o.ID,
		Token:       o.Token,
		State:       string(o.State),
		Amount:      o.Amount,
		Currency:    o.Currency,
		Description: o.Description,
		CheckoutURL: o.CheckoutURL,
		CreatedAt:   created,
	}
}

// formatAmount assumes two minor-unit digits, true for the currencies Revolut
// Merchant settles in.
func formatAmount(minor int64, currency string) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return sign + strconv.FormatInt(minor/100, 10) + "." + fmt.Sprintf("%02d", minor%100) + " " + currency
}
