package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/xrexb2b/payflow-backend/internal/adapter/grpc"
	httpadapter "github.com/xrexb2b/payflow-backend/internal/adapter/http"
	"github.com/xrexb2b/payflow-backend/internal/adapter/repository/kv"
	"github.com/xrexb2b/payflow-backend/internal/adapter/repository/memory"
	"github.com/xrexb2b/payflow-backend/internal/adapter/repository/postgres"
	"github.com/xrexb2b/payflow-backend/internal/adapter/repository/sqlite"
	"github.com/xrexb2b/payflow-backend/internal/config"
	"github.com/xrexb2b/payflow-backend/internal/domain"
	"github.com/xrexb2b/payflow-backend/internal/usecase/counterparty"
	"github.com/xrexb2b/payflow-backend/internal/usecase/payment"
	"github.com/xrexb2b/payflow-backend/internal/usecase/progression"
	"github.com/xrexb2b/payflow-backend/internal/usecase/quote"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults to $PAYFLOW_CONFIG)")
	flag.Parse()

	// 1. Load Configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	// 2. Setup Storage
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s state store: %v", cfg.State.Backend, err)
	}
	defer closeStore()
	log.Printf("Using %s state store", cfg.State.Backend)

	receiptRepo := kv.NewReceiptRepository(store)

	// 3. Initialize the progression machine
	logger := log.Default()
	machine := progression.NewMachine(ctx, store, cfg.State.Key, logger)
	broadcaster := progression.NewBroadcaster(machine, logger)
	log.Printf("Prototype state loaded: %d (%s)", machine.Get(), machine.Get().Label())

	// 4. Initialize Services (Use Cases)
	quoteService := quote.NewQuoteService()
	counterpartyService := counterparty.NewCounterpartyService(machine)
	paymentService := payment.NewPaymentService(receiptRepo, machine, quoteService)

	// 5. Start gRPC Server
	var grpcServer *grpclib.Server
	if cfg.Server.GRPCAddr != "" {
		grpcServer = grpclib.NewServer(
			grpclib.UnaryInterceptor(grpcadapter.AuthInterceptor(cfg.Server.APIToken)),
			grpclib.StreamInterceptor(grpcadapter.StreamAuthInterceptor(cfg.Server.APIToken)),
		)

		grpcAdapter := grpcadapter.NewServer(quoteService, counterpartyService, paymentService, machine, broadcaster, logger)
		grpcadapter.RegisterPayflowServiceServer(grpcServer, grpcAdapter)

		reflection.Register(grpcServer)

		lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
		if err != nil {
			log.Fatalf("Failed to listen on %s: %v", cfg.Server.GRPCAddr, err)
		}

		go func() {
			log.Printf("gRPC server listening on %s", cfg.Server.GRPCAddr)
			if err := grpcServer.Serve(lis); err != nil {
				log.Fatalf("Failed to serve gRPC server: %v", err)
			}
		}()
	}

	// 6. Start HTTP Server
	var httpServer *http.Server
	if cfg.Server.HTTPAddr != "" {
		gin.SetMode(gin.ReleaseMode)
		api := httpadapter.NewServer(
			quoteService,
			counterpartyService,
			paymentService,
			machine,
			broadcaster,
			cfg.Server.APIToken,
			cfg.Server.AllowedOrigins,
			logger,
		)

		httpServer = &http.Server{
			Addr:              cfg.Server.HTTPAddr,
			Handler:           api.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			log.Printf("HTTP server listening on %s", cfg.Server.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("Failed to serve HTTP server: %v", err)
			}
		}()
	}

	// Graceful shutdown
	waitForShutdown(grpcServer, httpServer, broadcaster)
}

// openStore opens the configured key/value store and returns its close function
func openStore(ctx context.Context, cfg *config.Config) (domain.KeyValueStore, func(), error) {
	switch cfg.State.Backend {
	case config.BackendMemory:
		return memory.NewKVStore(), func() {}, nil

	case config.BackendPostgres:
		// Add 2-second delay to ensure Postgres is up (Simple retry)
		time.Sleep(2 * time.Second)

		db, err := postgres.NewDB(cfg.DatabaseConnString())
		if err != nil {
			return nil, nil, err
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return postgres.NewKVStore(db), func() { db.Close() }, nil

	default:
		store, err := sqlite.NewKVStore(cfg.State.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	}
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the servers
func waitForShutdown(grpcServer *grpclib.Server, httpServer *http.Server, broadcaster *progression.Broadcaster) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Printf("Received signal: %v. Shutting down gracefully...", sig)

	// Ends open watch streams so GracefulStop and Shutdown do not wait on them
	broadcaster.Close()

	if httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
		log.Println("HTTP server stopped")
	}

	if grpcServer != nil {
		grpcServer.GracefulStop()
		log.Println("gRPC server stopped")
	}
}
