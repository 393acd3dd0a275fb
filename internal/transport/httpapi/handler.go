// Package httpapi exposes a storefront session as a JSON API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"neoshop/internal/cart"
	"neoshop/internal/logger"
	"neoshop/internal/notify"
	"neoshop/internal/order"
	"neoshop/internal/product"
	"neoshop/internal/storefront"
	"neoshop/internal/utils"

	"go.uber.org/zap"
)

type Handler struct {
	session *storefront.Session
	money   *utils.MoneyFormatter
}

func NewHandler(s *storefront.Session, money *utils.MoneyFormatter) *Handler {
	if money == nil {
		money = utils.NewMoneyFormatter("es-AR", "ARS")
	}
	return &Handler{session: s, money: money}
}

// Register mounts every route on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /products", h.listProducts)
	mux.HandleFunc("GET /products/{id}", h.getProduct)
	mux.HandleFunc("GET /categories", h.listCategories)

	mux.HandleFunc("GET /cart", h.getCart)
	mux.HandleFunc("POST /cart/items", h.addItem)
	mux.HandleFunc("PATCH /cart/items/{id}", h.setQuantity)
	mux.HandleFunc("DELETE /cart/items/{id}", h.removeItem)
	mux.HandleFunc("DELETE /cart", h.emptyCart)

	mux.HandleFunc("POST /checkout", h.checkout)
	mux.HandleFunc("GET /orders", h.listOrders)
}

type productsResponse struct {
	Products []product.Product   `json:"products"`
	Count    int                 `json:"count"`
	Filter   product.FilterState `json:"filter"`
}

type cartResponse struct {
	Lines []cart.Line `json:"lines"`
	Count int         `json:"count"`
	Total float64     `json:"total"`
}

type mutationResponse struct {
	Applied bool             `json:"applied"`
	Cart    cartResponse     `json:"cart"`
	Notices []notify.Message `json:"notices"`
}

type addItemRequest struct {
	ID  string `json:"id"`
	Qty int    `json:"qty"`
}

type setQuantityRequest struct {
	Qty int `json:"qty"`
}

type checkoutResponse struct {
	Order   *order.Order     `json:"order"`
	Summary string           `json:"summary"`
	Notices []notify.Message `json:"notices"`
}

type validationResponse struct {
	Error   string           `json:"error"`
	Title   string           `json:"title"`
	Text    string           `json:"text"`
	Notices []notify.Message `json:"notices"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	if !h.catalogReady(w) {
		return
	}

	q := r.URL.Query()
	f := product.DefaultFilter()
	f.Query = q.Get("q")
	if c := q.Get("category"); c != "" {
		f.Category = c
	}
	f.Sort = product.ParseSortKey(q.Get("sort"))

	list := h.session.Browse(f)
	utils.WriteJSON(w, http.StatusOK, productsResponse{Products: list, Count: len(list), Filter: f})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	if !h.catalogReady(w) {
		return
	}
	p, ok := h.session.Catalog().Find(r.PathValue("id"))
	if !ok {
		utils.WriteJSONError(w, product.ErrProductNotFound.Error(), http.StatusNotFound)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	if !h.catalogReady(w) {
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string][]string{"categories": h.session.Categories()})
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, h.cartView())
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Qty == 0 {
		req.Qty = 1
	}

	script := notify.NewScript()
	_, added, err := h.session.With(script).AddToCart(r.Context(), req.ID, req.Qty)
	if err != nil {
		h.writeError(w, r, "addItem", err)
		return
	}
	if !added {
		utils.WriteJSONError(w, product.ErrProductNotFound.Error(), http.StatusNotFound)
		return
	}
	h.writeMutation(w, http.StatusCreated, true, script)
}

func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	id := r.PathValue("id")
	_, present := h.session.Cart().Line(id)

	script := notify.NewScript()
	if err := h.session.With(script).SetQuantity(r.Context(), id, req.Qty); err != nil {
		h.writeError(w, r, "setQuantity", err)
		return
	}
	h.writeMutation(w, http.StatusOK, present, script)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	script := confirmScript(r)
	removed, err := h.session.With(script).RemoveFromCart(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, "removeItem", err)
		return
	}
	h.writeMutation(w, http.StatusOK, removed, script)
}

func (h *Handler) emptyCart(w http.ResponseWriter, r *http.Request) {
	script := confirmScript(r)
	cleared, err := h.session.With(script).EmptyCart(r.Context())
	if err != nil {
		h.writeError(w, r, "emptyCart", err)
		return
	}
	h.writeMutation(w, http.StatusOK, cleared, script)
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var form order.BuyerForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	script := notify.NewScript()
	o, err := h.session.With(script).Checkout(r.Context(), form)

	var verr *order.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.WriteJSON(w, http.StatusUnprocessableEntity, validationResponse{
			Error:   order.ErrValidation.Error(),
			Title:   verr.Title,
			Text:    verr.Text,
			Notices: script.Messages(),
		})
		return
	case o != nil && errors.Is(err, order.ErrFailedClearCart):
		// the order is already in the history; only the cart is stale
		logger.FromCtx(r.Context()).Error("order placed but cart not cleared",
			zap.String("order_id", o.ID), zap.Error(err))
	case err != nil:
		h.writeError(w, r, "checkout", err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, checkoutResponse{
		Order:   o,
		Summary: order.Summary(o, h.money),
		Notices: script.Messages(),
	})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.session.Orders(r.Context())
	if err != nil {
		h.writeError(w, r, "listOrders", err)
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	utils.WriteJSON(w, http.StatusOK, map[string][]order.Order{"orders": orders})
}

func (h *Handler) catalogReady(w http.ResponseWriter) bool {
	st := h.session.Catalog().Status()
	if st.State == product.StateReady {
		return true
	}
	utils.WriteJSONError(w, product.ErrCatalogUnavailable.Error(), http.StatusServiceUnavailable)
	return false
}

func (h *Handler) cartView() cartResponse {
	c := h.session.Cart()
	lines := c.Lines()
	if lines == nil {
		lines = []cart.Line{}
	}
	return cartResponse{Lines: lines, Count: c.Count(), Total: c.Total()}
}

func (h *Handler) writeMutation(w http.ResponseWriter, code int, applied bool, script *notify.Script) {
	notices := script.Messages()
	if notices == nil {
		notices = []notify.Message{}
	}
	utils.WriteJSON(w, code, mutationResponse{Applied: applied, Cart: h.cartView(), Notices: notices})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, method string, err error) {
	code := statusFor(err)
	log := logger.FromCtx(r.Context()).With(zap.String("layer", "httpapi"), zap.String("method", method))
	if code >= http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
	} else {
		log.Info("request rejected", zap.Error(err))
	}
	utils.WriteJSONError(w, err.Error(), code)
}

// confirmScript answers the confirmation prompt with the confirm query flag.
func confirmScript(r *http.Request) *notify.Script {
	s := notify.NewScript()
	s.Default = r.URL.Query().Get("confirm") == "true"
	return s
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, cart.ErrOutOfStock), errors.Is(err, storefront.ErrPriceUnconfirmed), errors.Is(err, order.ErrEmptyCart):
		return http.StatusConflict
	case errors.Is(err, order.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, product.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, product.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
