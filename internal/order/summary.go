package order

import (
	"fmt"
	"strings"

	"neoshop/internal/utils"
)

// Summary renders the confirmation shown once an order is placed.
func Summary(o *Order, money *utils.MoneyFormatter) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Order: %s\n", o.ID)
	fmt.Fprintf(&b, "Buyer: %s (%s)\n", o.Buyer.Name, o.Buyer.Email)
	fmt.Fprintf(&b, "Delivery: %s · Payment: %s\n", o.Buyer.Delivery, o.Buyer.Payment)
	b.WriteString("----\n")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "• %d× %s: %s\n", it.Qty, it.Name, money.Format(it.Subtotal()))
	}
	b.WriteString("----\n")
	fmt.Fprintf(&b, "Total: %s\n", money.Format(o.Total))

	return b.String()
}
