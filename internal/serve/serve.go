package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/estatemarket/estate-frontend/internal/metrics"
	"github.com/estatemarket/estate-frontend/internal/serve/auth"
	"github.com/estatemarket/estate-frontend/internal/serve/httphandler"
	"github.com/estatemarket/estate-frontend/internal/serve/middleware"
	"github.com/estatemarket/estate-frontend/internal/serve/render"
	"github.com/estatemarket/estate-frontend/internal/services"
	"github.com/estatemarket/estate-frontend/internal/validators"
)

const (
	rpcTimeout      = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

type Configs struct {
	Port            int
	NodeRPCURL      string
	ContractAddress string
	ContractABIPath string
	SessionSecret   string
	SessionTTL      time.Duration
	LogLevel        logrus.Level
}

type handlerDeps struct {
	RPCService      services.RPCService
	ContractService services.ContractService
	SessionManager  *auth.SessionManager
	Renderer        *render.Renderer
	MetricsService  metrics.MetricsService
}

func Serve(cfg Configs) error {
	logrus.SetLevel(cfg.LogLevel)

	deps, err := initHandlerDeps(cfg)
	if err != nil {
		return fmt.Errorf("setting up handler dependencies: %w", err)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logrus.Infof("Starting estate market frontend on port %d", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return fmt.Errorf("running HTTP server: %w", err)
	case sig := <-stop:
		logrus.Infof("Received %s, stopping estate market frontend", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}
	return nil
}

func initHandlerDeps(cfg Configs) (handlerDeps, error) {
	metricsService := metrics.NewMetricsService()

	httpClient := &http.Client{Timeout: rpcTimeout}
	rpcService, err := services.NewRPCService(cfg.NodeRPCURL, httpClient, metricsService)
	if err != nil {
		return handlerDeps{}, fmt.Errorf("instantiating rpc service: %w", err)
	}

	abiJSON := services.DefaultContractABI
	if cfg.ContractABIPath != "" {
		raw, err := os.ReadFile(cfg.ContractABIPath)
		if err != nil {
			return handlerDeps{}, fmt.Errorf("reading contract ABI file: %w", err)
		}
		abiJSON = string(raw)
	}

	if !common.IsHexAddress(cfg.ContractAddress) {
		return handlerDeps{}, fmt.Errorf("invalid contract address %q", cfg.ContractAddress)
	}
	contractService, err := services.NewContractService(rpcService, common.HexToAddress(cfg.ContractAddress), abiJSON)
	if err != nil {
		return handlerDeps{}, fmt.Errorf("instantiating contract service: %w", err)
	}

	sessionManager, err := auth.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		return handlerDeps{}, fmt.Errorf("instantiating session manager: %w", err)
	}

	renderer, err := render.NewRenderer()
	if err != nil {
		return handlerDeps{}, fmt.Errorf("instantiating renderer: %w", err)
	}

	return handlerDeps{
		RPCService:      rpcService,
		ContractService: contractService,
		SessionManager:  sessionManager,
		Renderer:        renderer,
		MetricsService:  metricsService,
	}, nil
}

func handler(deps handlerDeps) http.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.RecoverHandler)
	mux.Use(middleware.MetricsMiddleware(deps.MetricsService))
	mux.Use(middleware.SessionMiddleware(deps.SessionManager))

	mux.Get("/health", httphandler.HealthHandler{}.GetHealth)
	mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsService.GetRegistry(), promhttp.HandlerOpts{}))

	pageWriter := httphandler.PageWriter{
		SessionManager: deps.SessionManager,
		Renderer:       deps.Renderer,
	}

	authHandler := httphandler.AuthHandler{
		PageWriter: pageWriter,
		RPCService: deps.RPCService,
		Validator:  validators.NewValidator(),
	}
	listingHandler := httphandler.ListingHandler{PageWriter: pageWriter, ContractService: deps.ContractService}

	// Public routes
	mux.Get("/", authHandler.Index)
	mux.Post("/login", authHandler.Login)
	mux.Post("/register", authHandler.Register)
	mux.Get("/estates_info", listingHandler.EstatesInfo)
	mux.Get("/ads_info", listingHandler.AdsInfo)

	// Authenticated routes
	mux.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession)

		r.Get("/dashboard", authHandler.Dashboard)
		r.Get("/logout", authHandler.Logout)

		balanceHandler := httphandler.BalanceHandler{
			PageWriter:      pageWriter,
			RPCService:      deps.RPCService,
			ContractService: deps.ContractService,
		}
		r.Get("/account_balance", balanceHandler.AccountBalance)
		r.Get("/contract_balance", balanceHandler.ContractBalance)

		txHandler := httphandler.TransactionHandler{PageWriter: pageWriter, ContractService: deps.ContractService}
		r.Get("/send_eth", txHandler.SendETHForm)
		r.Post("/send_eth", txHandler.SendETH)
		r.Get("/withdraw", txHandler.WithdrawForm)
		r.Post("/withdraw", txHandler.Withdraw)
		r.Get("/create_estate", txHandler.CreateEstateForm)
		r.Post("/create_estate", txHandler.CreateEstate)
		r.Get("/create_ad", txHandler.CreateAdForm)
		r.Post("/create_ad", txHandler.CreateAd)
		r.Get("/buy_estate", txHandler.BuyEstateForm)
		r.Post("/buy_estate", txHandler.BuyEstate)
		r.Get("/update_status", txHandler.UpdateStatusForm)
		r.Post("/update_status", txHandler.UpdateStatus)
		r.Get("/update_ad_status", txHandler.UpdateAdStatusForm)
		r.Post("/update_ad_status", txHandler.UpdateAdStatus)
	})

	return mux
}
