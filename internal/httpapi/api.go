package httpapi

import (
	"context"
	"net/http"

	"storefront.dev/internal/auth"
	"storefront.dev/internal/obs"
	"storefront.dev/internal/store"
	"storefront.dev/internal/upload"
)

// ReadyProbe reports whether the backing document store is reachable.
type ReadyProbe struct {
	Pinger interface {
		Ping(ctx context.Context) error
	}
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.Pinger == nil {
		return nil
	}
	return rp.Pinger.Ping(ctx)
}

// Options wires the API's collaborators. Stores and upload backends are
// process-wide and shared across all request tasks.
type Options struct {
	Version        string
	Tokens         *auth.Service
	Orders         store.Orders
	Users          store.Users
	Products       store.Products
	LocalUploads   upload.Backend
	RemoteUploads  upload.Backend
	UploadsDir     string
	PayPalClientID string
	Ready          ReadyProbe
}

// API is the HTTP layer.
type API struct {
	mux           *http.ServeMux
	tokens        *auth.Service
	orders        store.Orders
	users         store.Users
	products      store.Products
	localUploads  upload.Backend
	remoteUploads upload.Backend
	readyProbe    ReadyProbe
	version       string
	paypalClient  string

	rateBurst  int
	ratePerSec int
}

func New(opts Options) *API {
	a := &API{
		mux:           http.NewServeMux(),
		tokens:        opts.Tokens,
		orders:        opts.Orders,
		users:         opts.Users,
		products:      opts.Products,
		localUploads:  opts.LocalUploads,
		remoteUploads: opts.RemoteUploads,
		readyProbe:    opts.Ready,
		version:       opts.Version,
		paypalClient:  opts.PayPalClientID,
		rateBurst:     20,
		ratePerSec:    10,
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.Handle("/metrics", obs.Handler())
	a.mux.HandleFunc("/config/paypal", a.handlePayPalConfig)

	a.mux.HandleFunc("/users/register", a.handleRegister)
	a.mux.HandleFunc("/users/signin", a.handleSignin)

	a.mux.Handle("/orders", a.auth(http.HandlerFunc(a.handleOrdersCollection)))
	a.mux.Handle("/orders/", a.auth(http.HandlerFunc(a.handleOrderResource)))

	a.mux.HandleFunc("/products", a.handleProductsCollection)
	a.mux.HandleFunc("/products/", a.handleProductResource)

	a.mux.HandleFunc("/uploads", a.handleLocalUpload)
	a.mux.HandleFunc("/uploads/s3", a.handleRemoteUpload)
	if opts.UploadsDir != "" {
		a.mux.Handle("/uploads/", a.serveUploads(opts.UploadsDir))
	}

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "resource not found")
	})

	return a
}

// Handler returns the server handler with the full middleware chain.
func (a *API) Handler() http.Handler {
	h := http.Handler(a.mux)
	h = MaxBodyBytes(h, 10<<20)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = obs.Instrument(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return h
}

// serveUploads exposes the local backend's directory so path-style
// references stay resolvable through this server.
func (a *API) serveUploads(dir string) http.Handler {
	fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			methodNotAllowed(w, r, http.MethodGet, http.MethodHead)
			return
		}
		fs.ServeHTTP(w, r)
	})
}
