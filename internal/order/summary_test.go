package order

import (
	"testing"

	"neoshop/internal/utils"

	"github.com/stretchr/testify/assert"
)

func TestSummary(t *testing.T) {
	o := sampleOrder("NABC123")
	o.Items = append(o.Items, Item{ID: "B", Name: "Botas", Qty: 1, Price: 50})
	o.Total = 250

	got := Summary(&o, utils.NewMoneyFormatter("es-AR", "ARS"))

	assert.Contains(t, got, "Order: NABC123")
	assert.Contains(t, got, "Buyer: Ana Martinez (ana@example.com)")
	assert.Contains(t, got, "Delivery: home · Payment: card")
	assert.Contains(t, got, "2× Auriculares")
	assert.Contains(t, got, "1× Botas")
	assert.Contains(t, got, "Total: ")
}
