package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"neoshop/internal/cart"
	"neoshop/internal/notify"
	"neoshop/internal/order"
	"neoshop/internal/product"
	"neoshop/internal/storage"
	"neoshop/internal/storefront"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sourceFunc func(ctx context.Context) ([]product.Product, error)

func (f sourceFunc) Fetch(ctx context.Context) ([]product.Product, error) { return f(ctx) }

var catalog = []product.Product{
	{ID: "p1", Name: "Zapatillas", Category: "Calzado", Price: 120, Stock: 3},
	{ID: "p2", Name: "Auriculares", Category: "Audio", Price: 80, Stock: 10},
	{ID: "p3", Name: "Parlante", Category: "Audio", Price: 0, Stock: 4},
}

func newTestServer(t *testing.T, src product.Source) (*http.ServeMux, *storefront.Session) {
	t.Helper()
	kv := storage.NewMemoryStore()
	base := notify.NewScript()

	s := storefront.New(
		product.NewCatalog(src, product.NewEngine("es")),
		cart.NewStore(cart.NewRepository(kv)),
		order.NewService(order.NewRepository(kv)),
		base,
		storefront.WithProcessingDelay(0),
	)
	_ = s.Start(context.Background())

	mux := http.NewServeMux()
	NewHandler(s, nil).Register(mux)
	return mux, s
}

func readyServer(t *testing.T) (*http.ServeMux, *storefront.Session) {
	return newTestServer(t, sourceFunc(func(context.Context) ([]product.Product, error) {
		return catalog, nil
	}))
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func TestProducts(t *testing.T) {
	mux, _ := readyServer(t)

	t.Run("filters and sorts", func(t *testing.T) {
		rr := do(t, mux, http.MethodGet, "/products?category=Audio&sort=price-desc", "")
		require.Equal(t, http.StatusOK, rr.Code)

		resp := decode[productsResponse](t, rr)
		require.Len(t, resp.Products, 2)
		assert.Equal(t, "p2", resp.Products[0].ID)
		assert.Equal(t, "p3", resp.Products[1].ID)
		assert.Equal(t, product.SortPriceDesc, resp.Filter.Sort)
	})

	t.Run("query matches category case-insensitively", func(t *testing.T) {
		rr := do(t, mux, http.MethodGet, "/products?q=CALZ", "")
		resp := decode[productsResponse](t, rr)
		require.Len(t, resp.Products, 1)
		assert.Equal(t, "p1", resp.Products[0].ID)
	})

	t.Run("unknown sort keeps catalog order", func(t *testing.T) {
		rr := do(t, mux, http.MethodGet, "/products?sort=bogus", "")
		resp := decode[productsResponse](t, rr)
		require.Len(t, resp.Products, 3)
		assert.Equal(t, "p1", resp.Products[0].ID)
		assert.Equal(t, product.SortRelevance, resp.Filter.Sort)
	})

	t.Run("by id", func(t *testing.T) {
		rr := do(t, mux, http.MethodGet, "/products/p2", "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Auriculares", decode[product.Product](t, rr).Name)

		rr = do(t, mux, http.MethodGet, "/products/nope", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("categories in first-seen order", func(t *testing.T) {
		rr := do(t, mux, http.MethodGet, "/categories", "")
		resp := decode[map[string][]string](t, rr)
		assert.Equal(t, []string{"Calzado", "Audio"}, resp["categories"])
	})
}

func TestProducts_CatalogUnavailable(t *testing.T) {
	mux, _ := newTestServer(t, sourceFunc(func(context.Context) ([]product.Product, error) {
		return nil, errors.New("connection refused")
	}))

	for _, target := range []string{"/products", "/products/p1", "/categories"} {
		rr := do(t, mux, http.MethodGet, target, "")
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code, target)
		assert.Contains(t, rr.Body.String(), "catalog unavailable")
	}
}

func TestCartItems(t *testing.T) {
	mux, s := readyServer(t)

	t.Run("add merges and clamps to stock", func(t *testing.T) {
		rr := do(t, mux, http.MethodPost, "/cart/items", `{"id":"p1","qty":2}`)
		require.Equal(t, http.StatusCreated, rr.Code)

		rr = do(t, mux, http.MethodPost, "/cart/items", `{"id":"p1","qty":5}`)
		require.Equal(t, http.StatusCreated, rr.Code)

		resp := decode[mutationResponse](t, rr)
		assert.True(t, resp.Applied)
		require.Len(t, resp.Notices, 1)
		assert.Equal(t, notify.KindSuccess, resp.Notices[0].Kind)
		assert.Equal(t, "Added to cart", resp.Notices[0].Title)
		require.Len(t, resp.Cart.Lines, 1)
		assert.Equal(t, 3, resp.Cart.Lines[0].Qty)
		assert.Equal(t, 360.0, resp.Cart.Total)
	})

	t.Run("qty defaults to one", func(t *testing.T) {
		rr := do(t, mux, http.MethodPost, "/cart/items", `{"id":"p2"}`)
		require.Equal(t, http.StatusCreated, rr.Code)
		line, ok := s.Cart().Line("p2")
		require.True(t, ok)
		assert.Equal(t, 1, line.Qty)
	})

	t.Run("rejections", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, do(t, mux, http.MethodPost, "/cart/items", `{"id":"ghost","qty":1}`).Code)
		assert.Equal(t, http.StatusConflict, do(t, mux, http.MethodPost, "/cart/items", `{"id":"p3","qty":1}`).Code)
		assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodPost, "/cart/items", `{"id":"p2","qty":-1}`).Code)
		assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodPost, "/cart/items", `{`).Code)
		assert.Equal(t, 4, s.Cart().Count())
	})

	t.Run("set quantity clamps", func(t *testing.T) {
		rr := do(t, mux, http.MethodPatch, "/cart/items/p2", `{"qty":99}`)
		require.Equal(t, http.StatusOK, rr.Code)
		line, _ := s.Cart().Line("p2")
		assert.Equal(t, 10, line.Qty)

		rr = do(t, mux, http.MethodPatch, "/cart/items/p2", `{"qty":0}`)
		require.Equal(t, http.StatusOK, rr.Code)
		line, _ = s.Cart().Line("p2")
		assert.Equal(t, 1, line.Qty)
	})

	t.Run("set quantity on absent line is not applied", func(t *testing.T) {
		rr := do(t, mux, http.MethodPatch, "/cart/items/ghost", `{"qty":2}`)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.False(t, decode[mutationResponse](t, rr).Applied)
	})

	t.Run("remove needs confirmation", func(t *testing.T) {
		rr := do(t, mux, http.MethodDelete, "/cart/items/p2", "")
		require.Equal(t, http.StatusOK, rr.Code)
		resp := decode[mutationResponse](t, rr)
		assert.False(t, resp.Applied)
		require.Len(t, resp.Notices, 1)
		assert.Equal(t, notify.KindConfirm, resp.Notices[0].Kind)
		_, ok := s.Cart().Line("p2")
		assert.True(t, ok)

		rr = do(t, mux, http.MethodDelete, "/cart/items/p2?confirm=true", "")
		assert.True(t, decode[mutationResponse](t, rr).Applied)
		_, ok = s.Cart().Line("p2")
		assert.False(t, ok)
	})

	t.Run("empty cart", func(t *testing.T) {
		rr := do(t, mux, http.MethodDelete, "/cart", "")
		assert.False(t, decode[mutationResponse](t, rr).Applied)
		assert.False(t, s.Cart().IsEmpty())

		rr = do(t, mux, http.MethodDelete, "/cart?confirm=true", "")
		assert.True(t, decode[mutationResponse](t, rr).Applied)
		assert.True(t, s.Cart().IsEmpty())

		// nothing to confirm on an empty cart
		rr = do(t, mux, http.MethodDelete, "/cart?confirm=true", "")
		resp := decode[mutationResponse](t, rr)
		assert.False(t, resp.Applied)
		assert.Empty(t, resp.Notices)
	})

	t.Run("get cart", func(t *testing.T) {
		rr := do(t, mux, http.MethodGet, "/cart", "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"lines":[],"count":0,"total":0}`, rr.Body.String())
	})
}

func TestCheckout(t *testing.T) {
	mux, s := readyServer(t)
	const buyer = `{"name":"Ana","email":"ana@example.com","address":"Calle 1","payment":"card","delivery":"home","terms":true}`

	t.Run("empty cart", func(t *testing.T) {
		rr := do(t, mux, http.MethodPost, "/checkout", buyer)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	require.Equal(t, http.StatusCreated, do(t, mux, http.MethodPost, "/cart/items", `{"id":"p1","qty":2}`).Code)

	t.Run("missing fields", func(t *testing.T) {
		rr := do(t, mux, http.MethodPost, "/checkout", `{"name":"","email":"bad","terms":false}`)
		require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		resp := decode[validationResponse](t, rr)
		assert.Equal(t, "Complete your details", resp.Title)
		require.Len(t, resp.Notices, 1)
		assert.Equal(t, notify.KindValidationError, resp.Notices[0].Kind)
	})

	t.Run("invalid email", func(t *testing.T) {
		rr := do(t, mux, http.MethodPost, "/checkout", `{"name":"Ana","email":"ana@x","address":"Calle 1","terms":true}`)
		require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Equal(t, "Invalid email", decode[validationResponse](t, rr).Title)
		assert.False(t, s.Cart().IsEmpty())
	})

	t.Run("terms not accepted", func(t *testing.T) {
		rr := do(t, mux, http.MethodPost, "/checkout", `{"name":"Ana","email":"ana@example.com","address":"Calle 1"}`)
		require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Equal(t, "Accept the terms", decode[validationResponse](t, rr).Title)
	})

	t.Run("places the order", func(t *testing.T) {
		rr := do(t, mux, http.MethodPost, "/checkout", buyer)
		require.Equal(t, http.StatusCreated, rr.Code)

		resp := decode[checkoutResponse](t, rr)
		require.NotNil(t, resp.Order)
		assert.True(t, strings.HasPrefix(resp.Order.ID, "N"))
		assert.Equal(t, 240.0, resp.Order.Total)
		assert.Contains(t, resp.Summary, resp.Order.ID)
		require.Len(t, resp.Notices, 1)
		assert.Equal(t, notify.KindOrderSummary, resp.Notices[0].Kind)
		assert.True(t, s.Cart().IsEmpty())
	})

	t.Run("history", func(t *testing.T) {
		rr := do(t, mux, http.MethodGet, "/orders", "")
		require.Equal(t, http.StatusOK, rr.Code)
		resp := decode[map[string][]order.Order](t, rr)
		require.Len(t, resp["orders"], 1)
		assert.Equal(t, "Ana", resp["orders"][0].Buyer.Name)
	})
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{cart.ErrInvalidQuantity, http.StatusBadRequest},
		{cart.ErrOutOfStock, http.StatusConflict},
		{storefront.ErrPriceUnconfirmed, http.StatusConflict},
		{order.ErrEmptyCart, http.StatusConflict},
		{&order.ValidationError{Title: "x"}, http.StatusUnprocessableEntity},
		{context.Canceled, http.StatusRequestTimeout},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
