package main

import (
	"context"
	"fmt"
	"io"

	"neoshop/internal/cart"
	"neoshop/internal/config"
	"neoshop/internal/db"
	"neoshop/internal/logger"
	"neoshop/internal/notify"
	"neoshop/internal/order"
	"neoshop/internal/product"
	"neoshop/internal/storefront"
	"neoshop/internal/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app is what every subcommand works against. It is built once per
// invocation in the root's PersistentPreRunE.
type app struct {
	session    *storefront.Session
	money      *utils.MoneyFormatter
	out        io.Writer
	loadErr    error
	closeStore func() error

	// flags
	assumeYes bool
	catalog   string
}

// assumeYes answers every confirmation with yes.
type assumeYes struct {
	*notify.Terminal
}

func (assumeYes) Confirm(ctx context.Context, _ notify.Confirmation) (bool, error) {
	return true, ctx.Err()
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "shop",
		Short:         "Terminal storefront",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	root.PersistentFlags().BoolVarP(&a.assumeYes, "yes", "y", false, "Answer yes to every confirmation")
	root.PersistentFlags().StringVar(&a.catalog, "catalog", "", "Catalog URL or file (default: CATALOG_SOURCE)")

	root.AddCommand(
		newProductsCmd(a),
		newCategoriesCmd(a),
		newCartCmd(a),
		newCheckoutCmd(a),
		newOrdersCmd(a),
	)
	return root
}

func (a *app) open(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if a.catalog != "" {
		cfg.CatalogSource = a.catalog
	}

	logger.Init("cli")
	ctx := cmd.Context()

	store, closeStore, err := db.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	a.closeStore = closeStore

	a.out = cmd.OutOrStdout()
	a.money = utils.NewMoneyFormatter("es-AR", "ARS")

	term := notify.NewTerminal(cmd.InOrStdin(), a.out, a.money)
	var n notify.Notifier = term
	if a.assumeYes {
		n = assumeYes{term}
	}

	a.session = storefront.New(
		product.NewCatalog(product.NewSource(cfg.CatalogSource), product.NewEngine(cfg.CollationLang)),
		cart.NewStore(cart.NewRepository(store)),
		order.NewService(order.NewRepository(store)),
		n,
		storefront.WithProcessingDelay(cfg.CheckoutDelay),
	)

	// cart and order commands still work without a catalog
	a.loadErr = a.session.Start(ctx)
	if a.loadErr != nil {
		logger.FromCtx(ctx).Debug("catalog unavailable", zap.Error(a.loadErr))
	}
	return nil
}

func (a *app) close() error {
	logger.Sync()
	if a.closeStore == nil {
		return nil
	}
	return a.closeStore()
}

// requireCatalog fails commands that cannot run without products.
func (a *app) requireCatalog() error {
	if a.loadErr != nil {
		return a.loadErr
	}
	if a.session.Catalog().Status().State != product.StateReady {
		return product.ErrCatalogUnavailable
	}
	return nil
}

func (a *app) price(p float64) string {
	if p <= 0 {
		return "price to be confirmed"
	}
	return a.money.Format(p)
}

func (a *app) printCart() {
	c := a.session.Cart()
	if c.IsEmpty() {
		fmt.Fprintln(a.out, "Your cart is empty.")
		return
	}
	tw := newTable(a.out, "ID", "PRODUCT", "QTY", "PRICE", "SUBTOTAL")
	for _, l := range c.Lines() {
		row(tw, l.ID, l.Name, l.Qty, a.price(l.Price), a.money.Format(l.Subtotal()))
	}
	tw.Flush()
	fmt.Fprintf(a.out, "%d item(s) · Total: %s\n", c.Count(), a.money.Format(c.Total()))
}
