package httpapi

import (
	"net/http"
	"strings"

	"storefront.dev/internal/audit"
	"storefront.dev/internal/store"
)

func (a *API) handleProductsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listProducts(w, r)
	case http.MethodPost:
		a.auth(a.adminOnly(http.HandlerFunc(a.createProduct))).ServeHTTP(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleProductResource(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/products/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.getProduct(w, r, id)
	case http.MethodPut:
		a.auth(a.adminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a.updateProduct(w, r, id)
		}))).ServeHTTP(w, r)
	case http.MethodDelete:
		a.auth(a.adminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a.deleteProduct(w, r, id)
		}))).ServeHTTP(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := a.products.GetAll(r.Context())
	if err != nil {
		handleStoreError(w, r, err)
		return
	}
	if products == nil {
		products = []store.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (a *API) getProduct(w http.ResponseWriter, r *http.Request, id string) {
	product, err := a.products.GetByID(r.Context(), id)
	if err != nil {
		handleStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (a *API) createProduct(w http.ResponseWriter, r *http.Request) {
	var p store.Product
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(p.Name) == "" {
		writeError(w, r, http.StatusBadRequest, "name is required")
		return
	}
	if p.Price < 0 {
		writeError(w, r, http.StatusBadRequest, "price must be >= 0")
		return
	}

	created, err := a.products.Create(r.Context(), p)
	if err != nil {
		handleStoreError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "product.create", map[string]any{
		"product_id": created.ID.Hex(),
	})

	w.Header().Set("Location", "/products/"+created.ID.Hex())
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) updateProduct(w http.ResponseWriter, r *http.Request, id string) {
	var p store.Product
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := a.products.Update(r.Context(), id, p)
	if err != nil {
		handleStoreError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "product.update", map[string]any{
		"product_id": updated.ID.Hex(),
	})

	writeJSON(w, http.StatusOK, updated)
}

func (a *API) deleteProduct(w http.ResponseWriter, r *http.Request, id string) {
	removed, err := a.products.Delete(r.Context(), id)
	if err != nil {
		handleStoreError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "product.delete", map[string]any{
		"product_id": removed.ID.Hex(),
	})

	writeJSON(w, http.StatusOK, removed)
}
