package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"agrichain.backend/internal/config"
	"agrichain.backend/internal/domain/repositories"
	"agrichain.backend/internal/infrastructure/blockchain"
	"agrichain.backend/internal/infrastructure/cache"
	"agrichain.backend/internal/infrastructure/datasources/postgres"
	"agrichain.backend/internal/infrastructure/jobs"
	"agrichain.backend/internal/infrastructure/memory"
	"agrichain.backend/internal/infrastructure/notifications"
	gormrepo "agrichain.backend/internal/infrastructure/repositories"
	"agrichain.backend/internal/infrastructure/seed"
	"agrichain.backend/internal/interfaces/http/handlers"
	"agrichain.backend/internal/usecases"
	"agrichain.backend/pkg/attest"
	"agrichain.backend/pkg/jwt"
	"agrichain.backend/pkg/logger"
	pkgredis "agrichain.backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

var (
	loadDotenv      = godotenv.Load
	loadCfg         = config.Load
	initLog         = logger.Init
	initRedis       = pkgredis.Init
	openDB          = postgres.NewConnection
	newGorm         = postgres.NewGorm
	newSessionStore = pkgredis.NewSessionStore
	dialEVM         = blockchain.NewEVMClient
	newSigner       = attest.NewSigner
	seedDemo        = seed.DemoData
	runServer       = serve
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

// storage is the set of repositories for the configured driver.
type storage struct {
	users         repositories.UserRepository
	farmers       repositories.FarmerRepository
	products      repositories.ProductRepository
	verifications repositories.VerificationRepository
	resets        repositories.PasswordResetRepository
	uow           repositories.UnitOfWork
	close         func() error
}

// app is everything runMainProcess needs after wiring.
type app struct {
	router *gin.Engine
	jobs   []backgroundJob
	close  func()
}

type backgroundJob interface {
	Start(ctx context.Context)
	Stop()
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	initLog(cfg.Server.Env)
	defer logger.Sync()
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	for _, job := range a.jobs {
		go job.Start(ctx)
	}
	defer func() {
		for _, job := range a.jobs {
			job.Stop()
		}
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info(ctx, "AgriChain backend starting",
		zap.String("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("session_store", cfg.Session.Store),
	)
	if err := runServer(ctx, srv); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	logger.Info(context.Background(), "Server stopped")
	return nil
}

// serve runs srv until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*app, error) {
		closeAll()
		return nil, err
	}

	if cfg.Redis.URL != "" {
		if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
			logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
			return fail(fmt.Errorf("failed to initialize redis: %w", err))
		}
		closers = append(closers, func() { _ = pkgredis.Close() })
		logger.Info(ctx, "Redis initialized")
	}

	st, memStore, err := openStorage(cfg)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, func() { _ = st.close() })

	if memStore != nil && cfg.Storage.SeedDemo {
		err := seedDemo(ctx, seed.Repositories{
			Users:         st.users,
			Farmers:       st.farmers,
			Products:      st.products,
			Verifications: st.verifications,
			UnitOfWork:    st.uow,
		})
		if err != nil {
			return fail(fmt.Errorf("failed to seed demo data: %w", err))
		}
		logger.Info(ctx, "Demo data seeded", zap.String("username", seed.DemoUsername))
	}

	products := st.products
	if pkgredis.Enabled() {
		products = cache.NewProductRepository(products, pkgredis.GetClient(), cfg.Cache.ProductTTL)
	}

	var (
		sessions   repositories.SessionStore
		background []backgroundJob
	)
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		rs, err := newSessionStore(cfg.Session.EncryptionKey)
		if err != nil {
			return fail(fmt.Errorf("failed to initialize session store: %w", err))
		}
		sessions = cache.NewSessionStore(rs)
	default:
		ms := memory.NewSessionStore()
		sessions = ms
		background = append(background, jobs.NewSessionPruneJob(ms, cfg.Session.PruneInterval))
	}
	background = append(background, jobs.NewResetTokenPurgeJob(st.resets, time.Hour))

	var anchor blockchain.Anchor = blockchain.NewSimulatedAnchor(cfg.Blockchain.Network)
	if cfg.Blockchain.RPCURL != "" {
		client, err := dialEVM(ctx, cfg.Blockchain.RPCURL)
		if err != nil {
			return fail(fmt.Errorf("failed to connect to EVM RPC: %w", err))
		}
		closers = append(closers, client.Close)
		anchor = blockchain.NewEVMAnchor(client, cfg.Blockchain.Network)
		logger.Info(ctx, "EVM anchoring enabled", zap.String("chain_id", client.ChainID().String()))
	}

	signer, err := newSigner(cfg.Blockchain.AttestationKeyHex)
	if err != nil {
		return fail(fmt.Errorf("failed to load attestation key: %w", err))
	}
	if cfg.Blockchain.AttestationKeyHex == "" {
		logger.Warn(ctx, "ATTESTATION_KEY_HEX not set, using an ephemeral key", zap.String("kid", signer.KeyID()))
	}

	authUC := usecases.NewAuthUsecase(st.users, st.farmers, st.resets, sessions, st.uow,
		jwt.NewSessionTokenService(cfg.Session.Secret), notifications.NewLogMailer(),
		usecases.AuthConfig{
			SessionTTL:    cfg.Session.TTL,
			ResetTokenTTL: cfg.Auth.ResetTokenTTL,
			PublicBaseURL: cfg.Server.PublicBaseURL,
		})
	userUC := usecases.NewUserUsecase(st.users)
	productUC := usecases.NewProductUsecase(products, st.farmers, cfg.Server.PublicBaseURL)
	farmerUC := usecases.NewFarmerUsecase(st.farmers, st.users, st.uow)
	verificationUC := usecases.NewVerificationUsecase(st.verifications, products, st.farmers, st.uow, anchor, signer)

	r := newRouter(routeDeps{
		authHandler:         handlers.NewAuthHandler(authUC, cfg.IsProduction()),
		userHandler:         handlers.NewUserHandler(userUC),
		productHandler:      handlers.NewProductHandler(productUC),
		farmerHandler:       handlers.NewFarmerHandler(farmerUC),
		verificationHandler: handlers.NewVerificationHandler(verificationUC),
		sessionResolver:     authUC,
		protectWrites:       cfg.Server.ProtectWrites,
	})

	return &app{router: r, jobs: background, close: closeAll}, nil
}

// openStorage returns the repositories for cfg.Storage.Driver. The memory
// store is returned too so callers can tell the drivers apart.
func openStorage(cfg *config.Config) (*storage, *memory.Store, error) {
	if cfg.Storage.Driver != config.StoragePostgres {
		s := memory.NewStore()
		return &storage{
			users:         memory.NewUserRepository(s),
			farmers:       memory.NewFarmerRepository(s),
			products:      memory.NewProductRepository(s),
			verifications: memory.NewVerificationRepository(s),
			resets:        memory.NewPasswordResetRepository(s),
			uow:           memory.NewUnitOfWork(s),
			close:         func() error { return nil },
		}, s, nil
	}

	sqlDB, err := openDB(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db, err := newGorm(sqlDB)
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}
	logger.Info(context.Background(), "Connected to PostgreSQL", zap.String("database", cfg.Database.DBName))
	return gormStorage(db, sqlDB), nil, nil
}

func gormStorage(db *gorm.DB, sqlDB *sql.DB) *storage {
	return &storage{
		users:         gormrepo.NewUserRepository(db),
		farmers:       gormrepo.NewFarmerRepository(db),
		products:      gormrepo.NewProductRepository(db),
		verifications: gormrepo.NewVerificationRepository(db),
		resets:        gormrepo.NewPasswordResetRepository(db),
		uow:           gormrepo.NewUnitOfWork(db),
		close:         sqlDB.Close,
	}
}
