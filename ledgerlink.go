package ledgerlink

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Seann-Moser/ledgerlink/accounting"
	"github.com/Seann-Moser/ledgerlink/connect"
	"github.com/Seann-Moser/ledgerlink/logging"
	"github.com/Seann-Moser/ledgerlink/notify"
	"github.com/Seann-Moser/ledgerlink/views"
)

// Config wires a Service. Only Accounting and SessionSecret are required;
// every collaborator has a default.
type Config struct {
	Accounting    accounting.Config
	SessionSecret []byte
	// RedirectURI the exchange is performed against; falls back to
	// Accounting.RedirectURI.
	RedirectURI string

	// Optional collaborator overrides.
	Client   accounting.APIClient
	Store    connect.ConnectionStore
	Status   connect.StatusService
	Exchange connect.ExchangeService
	Cache    views.Cache
	Notifier notify.Notifier
	Logger   *zerolog.Logger
}

// Service composes the connection controller, callback handling and view
// orchestration for one user session.
type Service struct {
	Session      *connect.Session
	Controller   *connect.Controller
	Callback     *connect.CallbackHandler
	Orchestrator *views.Orchestrator
	Dashboard    *views.Dashboard

	connectHandler *connect.Handler
	viewsHandler   *views.Handler
}

// New constructs and wires a Service.
func New(cfg Config) *Service {
	var logger zerolog.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	} else {
		logger = logging.New()
	}
	client := cfg.Client
	if client == nil {
		client = accounting.NewHTTPClient(cfg.Accounting, nil)
	}
	store := cfg.Store
	if store == nil {
		store = connect.NewMemoryConnectionStore()
	}
	status := cfg.Status
	if status == nil {
		status = connect.NewStoreStatusService(store)
	}
	exchange := cfg.Exchange
	if exchange == nil {
		exchange = connect.NewOAuth2ExchangeService(cfg.Accounting.OAuth2(), store)
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = &notify.LogNotifier{Logger: logger}
	}
	redirectURI := cfg.RedirectURI
	if redirectURI == "" {
		redirectURI = cfg.Accounting.RedirectURI
	}

	sess := connect.NewSession()
	controller := connect.NewController(sess, status, client, notifier, logger)
	controller.SetConnectionStore(store)
	orchestrator := views.NewOrchestrator(client, sess, notifier, logger)
	if cfg.Cache != nil {
		orchestrator.SetCache(cfg.Cache)
	}
	dashboard := views.NewDashboard(client, sess, logger)
	controller.SetResetHook(func() {
		orchestrator.Reset()
		dashboard.Reset()
	})

	callback := connect.NewCallbackHandler(controller, exchange, redirectURI, notifier, logger)
	callback.SetReloadHook(func(ctx context.Context, userID string) {
		orchestrator.LoadAll(ctx, userID)
		dashboard.Load(ctx, userID)
	})

	return &Service{
		Session:        sess,
		Controller:     controller,
		Callback:       callback,
		Orchestrator:   orchestrator,
		Dashboard:      dashboard,
		connectHandler: connect.NewHandler(controller, callback, cfg.SessionSecret, logger),
		viewsHandler:   views.NewHandler(orchestrator, dashboard, cfg.SessionSecret),
	}
}

// Register mounts the integration routes on the mux.
func (s *Service) Register(mux *http.ServeMux) {
	mux.HandleFunc("/integrations/status", s.connectHandler.Status)
	mux.HandleFunc("/integrations/connect", s.connectHandler.Connect)
	mux.HandleFunc("/integrations/callback", s.connectHandler.Callback)
	mux.HandleFunc("/integrations/disconnect", s.connectHandler.Disconnect)
	mux.HandleFunc("/integrations/dashboard", s.viewsHandler.DashboardSummary)
	mux.HandleFunc("/integrations/views/", s.viewsHandler.View)
}
