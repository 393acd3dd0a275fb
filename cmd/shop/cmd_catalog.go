package main

import (
	"fmt"

	"neoshop/internal/product"

	"github.com/spf13/cobra"
)

func newProductsCmd(a *app) *cobra.Command {
	f := product.DefaultFilter()
	var sort string

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products, optionally filtered and sorted",
		Long: `List the catalog.

Sort keys: relevance, price-asc, price-desc, name-asc, name-desc.
Unknown keys keep catalog order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCatalog(); err != nil {
				return err
			}
			f.Sort = product.ParseSortKey(sort)

			list := a.session.Browse(f)
			if len(list) == 0 {
				fmt.Fprintln(a.out, "No products match your search.")
				return nil
			}

			tw := newTable(a.out, "ID", "NAME", "CATEGORY", "PRICE", "STOCK", "RATING")
			for _, p := range list {
				row(tw, p.ID, p.Name, p.Category, a.price(p.Price), p.Stock, p.Rating)
			}
			tw.Flush()
			fmt.Fprintf(a.out, "%d product(s)\n", len(list))
			return nil
		},
	}

	cmd.Flags().StringVarP(&f.Query, "query", "q", "", "Match name or category")
	cmd.Flags().StringVarP(&f.Category, "category", "c", product.CategoryAll, "Exact category, or 'all'")
	cmd.Flags().StringVarP(&sort, "sort", "s", string(product.SortRelevance), "Sort key")
	return cmd
}

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List catalog categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCatalog(); err != nil {
				return err
			}
			for _, c := range a.session.Categories() {
				fmt.Fprintln(a.out, c)
			}
			return nil
		},
	}
}
