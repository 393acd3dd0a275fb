package main

import (
	"errors"
	"fmt"

	"neoshop/internal/order"

	"github.com/spf13/cobra"
)

func newCheckoutCmd(a *app) *cobra.Command {
	var form order.BuyerForm

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the current cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.session.Checkout(cmd.Context(), form)
			if errors.Is(err, order.ErrEmptyCart) {
				// already reported through the notifier
				return nil
			}
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&form.Name, "name", "", "Buyer name")
	f.StringVar(&form.Email, "email", "", "Buyer email")
	f.StringVar(&form.Address, "address", "", "Delivery address")
	f.StringVar(&form.Payment, "payment", "card", "Payment method")
	f.StringVar(&form.Delivery, "delivery", "home", "Delivery method")
	f.BoolVar(&form.TermsAccepted, "accept-terms", false, "Accept the terms and conditions")
	return cmd
}

func newOrdersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List placed orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := a.session.Orders(cmd.Context())
			if err != nil {
				return err
			}
			if len(orders) == 0 {
				fmt.Fprintln(a.out, "No orders yet.")
				return nil
			}

			tw := newTable(a.out, "ORDER", "WHEN", "BUYER", "ITEMS", "TOTAL")
			for _, o := range orders {
				row(tw, o.ID, o.When.Format("2006-01-02 15:04"), o.Buyer.Name, len(o.Items), a.money.Format(o.Total))
			}
			tw.Flush()
			return nil
		},
	}
}
