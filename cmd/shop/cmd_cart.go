package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newCartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show or change the cart",
		Long: `Show or change the persisted cart.

Subcommands:
  show   - List cart lines and the total
  add    - Add a product
  set    - Set a line quantity (clamped to stock)
  rm     - Remove a line
  clear  - Empty the cart`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.printCart()
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "List cart lines and the total",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a.printCart()
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <product-id> [qty]",
			Short: "Add a product to the cart",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.requireCatalog(); err != nil {
					return err
				}
				qty := 1
				if len(args) == 2 {
					n, err := parseQty(args[1])
					if err != nil {
						return err
					}
					qty = n
				}

				_, added, err := a.session.AddToCart(cmd.Context(), args[0], qty)
				if err != nil {
					return err
				}
				if !added {
					fmt.Fprintf(a.out, "No product with id %q.\n", args[0])
					return nil
				}
				a.printCart()
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <product-id> <qty>",
			Short: "Set a line quantity",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				qty, err := parseQty(args[1])
				if err != nil {
					return err
				}
				if err := a.session.SetQuantity(cmd.Context(), args[0], qty); err != nil {
					return err
				}
				a.printCart()
				return nil
			},
		},
		&cobra.Command{
			Use:     "rm <product-id>",
			Aliases: []string{"remove"},
			Short:   "Remove a line after confirmation",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				removed, err := a.session.RemoveFromCart(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if removed {
					a.printCart()
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart after confirmation",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cleared, err := a.session.EmptyCart(cmd.Context())
				if err != nil {
					return err
				}
				if cleared {
					a.printCart()
				}
				return nil
			},
		},
	)
	return cmd
}

func parseQty(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	return n, nil
}
