package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront.dev/internal/audit"
	"storefront.dev/internal/auth"
	"storefront.dev/internal/store"
)

func (a *API) handleOrdersCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		// Listing every order exposes other users' data; admin only.
		a.adminOnly(http.HandlerFunc(a.listOrders)).ServeHTTP(w, r)
	case http.MethodPost:
		a.createOrder(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleOrderResource(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/orders/")
	if path == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	if path == "mine" {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.myOrders(w, r)
		return
	}

	if strings.HasSuffix(path, "/pay") {
		id := strings.TrimSuffix(strings.TrimSuffix(path, "/pay"), "/")
		id = strings.TrimSuffix(id, "/")
		if id == "" {
			writeError(w, r, http.StatusNotFound, "resource not found")
			return
		}
		if r.Method != http.MethodPut {
			methodNotAllowed(w, r, http.MethodPut)
			return
		}
		a.payOrder(w, r, id)
		return
	}

	if strings.Contains(path, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.getOrder(w, r, path)
	case http.MethodDelete:
		a.adminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a.deleteOrder(w, r, path)
		})).ServeHTTP(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodDelete)
	}
}

func (a *API) createOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		unauthorized(w, r, errNoToken.Error())
		return
	}

	var draft store.OrderDraft
	if err := decodeJSON(w, r, &draft); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	order, err := a.orders.Create(r.Context(), id.UserID, draft)
	if err != nil {
		handleStoreError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "order.create", map[string]any{
		"order_id":    order.ID.Hex(),
		"total_price": strconv.FormatFloat(order.TotalPrice, 'f', 2, 64),
		"items":       len(order.OrderItems),
	})

	w.Header().Set("Location", "/orders/"+order.ID.Hex())
	writeJSON(w, http.StatusCreated, order)
}

func (a *API) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := a.orders.GetAll(r.Context())
	if err != nil {
		handleStoreError(w, r, err)
		return
	}
	a.attachOwners(r, orders)
	writeJSON(w, http.StatusOK, orders)
}

// attachOwners resolves owner identities for admin listings. A missing
// user record leaves the owner field empty rather than failing the list.
func (a *API) attachOwners(r *http.Request, orders []store.Order) {
	summaries := make(map[primitive.ObjectID]*store.UserSummary)
	for i := range orders {
		uid := orders[i].UserID
		summary, seen := summaries[uid]
		if !seen {
			if u, err := a.users.GetByID(r.Context(), uid.Hex()); err == nil {
				summary = u.Summary()
			}
			summaries[uid] = summary
		}
		orders[i].Owner = summary
	}
}

func (a *API) myOrders(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		unauthorized(w, r, errNoToken.Error())
		return
	}
	orders, err := a.orders.GetByUser(r.Context(), id.UserID)
	if err != nil {
		handleStoreError(w, r, err)
		return
	}
	if orders == nil {
		orders = []store.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (a *API) getOrder(w http.ResponseWriter, r *http.Request, id string) {
	order, err := a.orders.GetByID(r.Context(), id)
	if err != nil {
		handleStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (a *API) deleteOrder(w http.ResponseWriter, r *http.Request, id string) {
	removed, err := a.orders.Delete(r.Context(), id)
	if err != nil {
		handleStoreError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "order.delete", map[string]any{
		"order_id": removed.ID.Hex(),
	})

	writeJSON(w, http.StatusOK, removed)
}

func (a *API) payOrder(w http.ResponseWriter, r *http.Request, id string) {
	var details store.PaymentDetails
	if err := decodeJSON(w, r, &details); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	order, err := a.orders.MarkPaid(r.Context(), id, details)
	if err != nil {
		handleStoreError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "order.pay", map[string]any{
		"order_id":   order.ID.Hex(),
		"payment_id": details.PaymentID,
	})

	writeJSON(w, http.StatusOK, order)
}
