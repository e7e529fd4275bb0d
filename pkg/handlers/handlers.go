package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/chris/artwork-auctions/pkg/api"
	"github.com/chris/artwork-auctions/pkg/handlers/artworks"
	"github.com/chris/artwork-auctions/pkg/handlers/ledger"
	"github.com/chris/artwork-auctions/pkg/handlers/respond"
	"github.com/chris/artwork-auctions/pkg/handlers/sessions"
	"github.com/chris/artwork-auctions/pkg/handlers/wallets"
	"github.com/chris/artwork-auctions/pkg/metrics"
	"github.com/chris/artwork-auctions/pkg/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ServerInterface lists every operation of the HTTP API.
type ServerInterface interface {
	CreateSession(w http.ResponseWriter, r *http.Request)
	ListSessions(w http.ResponseWriter, r *http.Request)
	GetSessionById(w http.ResponseWriter, r *http.Request, sessionId openapi_types.UUID)
	PlaceBid(w http.ResponseWriter, r *http.Request, sessionId openapi_types.UUID)
	ListBids(w http.ResponseWriter, r *http.Request, sessionId openapi_types.UUID)
	CancelSession(w http.ResponseWriter, r *http.Request, sessionId openapi_types.UUID)
	ListUserSessions(w http.ResponseWriter, r *http.Request, userId string)

	CreateWallet(w http.ResponseWriter, r *http.Request)
	ListWallets(w http.ResponseWriter, r *http.Request)
	GetWalletByUserId(w http.ResponseWriter, r *http.Request, userId string)
	DeleteWallet(w http.ResponseWriter, r *http.Request, userId string)
	Deposit(w http.ResponseWriter, r *http.Request, userId string)
	ListAccountEntries(w http.ResponseWriter, r *http.Request, userId string)

	CreateArtwork(w http.ResponseWriter, r *http.Request)
	GetArtworkById(w http.ResponseWriter, r *http.Request, artworkId openapi_types.UUID)

	ListLedgerEntries(w http.ResponseWriter, r *http.Request, params api.ListLedgerEntriesParams)
}

// ApiHandler implements ServerInterface by delegating to the per-resource handlers.
type ApiHandler struct {
	*sessions.SessionsHandler
	*wallets.WalletsHandler
	*artworks.ArtworksHandler
	*ledger.LedgerHandler
}

// Make sure we conform to the interface
var _ ServerInterface = (*ApiHandler)(nil)

// NewApiHandler composes the per-resource handlers.
func NewApiHandler(s *sessions.SessionsHandler, w *wallets.WalletsHandler, a *artworks.ArtworksHandler, l *ledger.LedgerHandler) *ApiHandler {
	return &ApiHandler{SessionsHandler: s, WalletsHandler: w, ArtworksHandler: a, LedgerHandler: l}
}

// RouterOptions configures the ambient parts of the router.
type RouterOptions struct {
	Logger *slog.Logger
	// BidLimiter throttles bid placement per user. Nil disables throttling.
	BidLimiter *middleware.RateLimiter
	// WebSocket serves GET /ws when set.
	WebSocket http.Handler
}

// NewRouter mounts si on a chi router with logging, metrics and recovery.
func NewRouter(si ServerInterface, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewStructuredLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.Instrument)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Handle("/metrics", metrics.Handler())
	if opts.WebSocket != nil {
		r.Handle("/ws", opts.WebSocket)
	}

	HandlerFromMux(si, r, opts.BidLimiter)
	return r
}

// ServerInterfaceWrapper binds path and query parameters before calling the handler.
type ServerInterfaceWrapper struct {
	Handler          ServerInterface
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// InvalidParamFormatError reports a parameter that could not be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

func badRequest(w http.ResponseWriter, r *http.Request, err error) {
	respond.Error(w, http.StatusBadRequest, err.Error())
}

func (siw *ServerInterfaceWrapper) sessionParam(fn func(http.ResponseWriter, *http.Request, openapi_types.UUID)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sessionId openapi_types.UUID
		err := runtime.BindStyledParameterWithOptions("simple", "sessionId", chi.URLParam(r, "sessionId"), &sessionId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
		if err != nil {
			siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "sessionId", Err: err})
			return
		}
		fn(w, r, sessionId)
	}
}

func (siw *ServerInterfaceWrapper) artworkParam(fn func(http.ResponseWriter, *http.Request, openapi_types.UUID)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var artworkId openapi_types.UUID
		err := runtime.BindStyledParameterWithOptions("simple", "artworkId", chi.URLParam(r, "artworkId"), &artworkId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
		if err != nil {
			siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "artworkId", Err: err})
			return
		}
		fn(w, r, artworkId)
	}
}

func (siw *ServerInterfaceWrapper) userParam(fn func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var userId string
		err := runtime.BindStyledParameterWithOptions("simple", "userId", chi.URLParam(r, "userId"), &userId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
		if err != nil {
			siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "userId", Err: err})
			return
		}
		fn(w, r, userId)
	}
}

// ListLedgerEntries binds the optional limit query parameter.
func (siw *ServerInterfaceWrapper) ListLedgerEntries(w http.ResponseWriter, r *http.Request) {
	var params api.ListLedgerEntriesParams
	err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &params.Limit)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "limit", Err: err})
		return
	}
	siw.Handler.ListLedgerEntries(w, r, params)
}

// HandlerFromMux registers every API route of si on r.
func HandlerFromMux(si ServerInterface, r chi.Router, bidLimiter *middleware.RateLimiter) {
	siw := &ServerInterfaceWrapper{Handler: si, ErrorHandlerFunc: badRequest}

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", si.CreateSession)
		r.Get("/", si.ListSessions)
		r.Route("/{sessionId}", func(r chi.Router) {
			r.Get("/", siw.sessionParam(si.GetSessionById))
			r.Get("/bids", siw.sessionParam(si.ListBids))
			r.Post("/cancel", siw.sessionParam(si.CancelSession))

			placeBid := http.Handler(siw.sessionParam(si.PlaceBid))
			if bidLimiter != nil {
				placeBid = bidLimiter.Middleware(placeBid)
			}
			r.Method(http.MethodPost, "/bids", placeBid)
		})
	})

	r.Get("/users/{userId}/sessions", siw.userParam(si.ListUserSessions))

	r.Route("/wallets", func(r chi.Router) {
		r.Post("/", si.CreateWallet)
		r.Get("/", si.ListWallets)
		r.Get("/{userId}", siw.userParam(si.GetWalletByUserId))
		r.Delete("/{userId}", siw.userParam(si.DeleteWallet))
		r.Post("/{userId}/deposits", siw.userParam(si.Deposit))
		r.Get("/{userId}/ledger", siw.userParam(si.ListAccountEntries))
	})

	r.Post("/artworks", si.CreateArtwork)
	r.Get("/artworks/{artworkId}", siw.artworkParam(si.GetArtworkById))

	r.Get("/ledger", siw.ListLedgerEntries)
}
