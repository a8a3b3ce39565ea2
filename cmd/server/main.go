package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"marketaccess/internal/consent/applier"
	consentcache "marketaccess/internal/consent/cache"
	consentclient "marketaccess/internal/consent/client"
	consentservice "marketaccess/internal/consent/service"
	credentialcache "marketaccess/internal/credential/cache"
	"marketaccess/internal/credential/expiry"
	"marketaccess/internal/ethsig"
	"marketaccess/internal/events"
	"marketaccess/internal/exchange"
	"marketaccess/internal/platform/config"
	"marketaccess/internal/platform/httpserver"
	"marketaccess/internal/platform/logger"
	"marketaccess/internal/platform/metrics"
	"marketaccess/internal/platform/postgres"
	platformredis "marketaccess/internal/platform/redis"
	"marketaccess/internal/policy"
	"marketaccess/internal/session"
	"marketaccess/internal/storage"
	httptransport "marketaccess/internal/transport/http"
	"marketaccess/internal/wallet"
	"marketaccess/pkg/platform/circuit"
)

const shutdownTimeout = 10 * time.Second

// main wires the process-wide singletons and serves the UI API until SIGINT or
// SIGTERM. Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Server.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

type infra struct {
	kv      storage.KV
	bus     *events.Bus
	checks  map[string]func(context.Context) error
	closers []func()
}

func (i *infra) close() {
	for j := len(i.closers) - 1; j >= 0; j-- {
		i.closers[j]()
	}
}

// buildInfra picks the storage backend and the event bus. Postgres wins over
// Redis for storage; Redis, when configured, always carries events so every
// process sees the same notifications.
func buildInfra(ctx context.Context, cfg config.Config, log *slog.Logger) (*infra, error) {
	in := &infra{checks: map[string]func(context.Context) error{}}

	rdb, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	var pool *pgxpool.Pool
	pool, err = postgres.New(ctx, cfg.Postgres)
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return nil, err
	}

	if rdb != nil {
		in.closers = append(in.closers, func() { _ = rdb.Close() })
		in.checks["redis"] = rdb.Health
		in.bus, err = events.NewRedisStream(rdb.Client, log)
		if err != nil {
			in.close()
			return nil, fmt.Errorf("redis event bus: %w", err)
		}
	} else {
		in.bus = events.NewInProcess(log)
	}
	in.closers = append(in.closers, func() { _ = in.bus.Close() })

	var backend storage.KV
	switch {
	case pool != nil:
		in.closers = append(in.closers, pool.Close)
		in.checks["postgres"] = pool.Ping
		pg := storage.NewPostgres(pool)
		if err := pg.Migrate(ctx); err != nil {
			in.close()
			return nil, fmt.Errorf("migrate client storage: %w", err)
		}
		backend = pg
		log.Info("using postgres client storage")
	case rdb != nil:
		backend = storage.NewRedis(rdb.Client)
		log.Info("using redis client storage")
	default:
		backend = storage.NewMemory()
		log.Info("using in-memory client storage")
	}
	in.kv = storage.NewNotifying(backend, in.bus, log)
	return in, nil
}

// buildSigner loads the wallet key used for consents auth and on-chain applies.
func buildSigner(cfg config.Chain, log *slog.Logger) (ethsig.Signer, error) {
	if cfg.PrivateKeyHex != "" {
		return ethsig.NewKeySigner(cfg.PrivateKeyHex)
	}
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	signer := ethsig.FromKey(key)
	log.Warn("APPLIER_PRIVATE_KEY not set, using an ephemeral key", "address", signer.Address().Hex())
	return signer, nil
}

func buildApplier(ctx context.Context, cfg config.Chain, log *slog.Logger) (consentservice.Applier, func(), error) {
	if cfg.RPCURL == "" {
		log.Info("no chain configured, consent responses are not applied on chain")
		return applier.Noop{Logger: log}, func() {}, nil
	}
	abiJSON, err := os.ReadFile(cfg.ABIPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read consent contract abi: %w", err)
	}
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, nil, fmt.Errorf("invalid consent contract address %q", cfg.ContractAddress)
	}
	backend, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("dial chain rpc: %w", err)
	}
	ap, err := applier.NewChainApplier(backend, common.HexToAddress(cfg.ContractAddress), string(abiJSON), cfg.Method, cfg.ChainID,
		applier.WithLogger(log),
	)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	return ap, backend.Close, nil
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	in, err := buildInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer in.close()

	signer, err := buildSigner(cfg.Chain, log)
	if err != nil {
		return err
	}
	chainApplier, closeChain, err := buildApplier(ctx, cfg.Chain, log)
	if err != nil {
		return err
	}
	defer closeChain()

	sessions := session.New(in.kv, session.WithLogger(log))
	credentials := credentialcache.New(in.kv, credentialcache.WithLogger(log))
	verifications := expiry.NewRegistry(in.kv,
		expiry.WithBus(in.bus),
		expiry.WithLogger(log),
		expiry.WithValidity(cfg.Credentials.Validity),
		expiry.WithTickInterval(cfg.Credentials.TickInterval),
	)

	policyClient := policy.New(cfg.Policy.URL, cfg.Policy.Timeout,
		policy.WithLogger(log),
		policy.WithMetrics(m),
		policy.WithBreaker(circuit.New("policy-server")),
	)
	walletClient := wallet.New(cfg.Wallet.URL, cfg.Wallet.Timeout, wallet.WithLogger(log))
	exchanges := exchange.New(policyClient, walletClient, sessions, credentials, verifications,
		exchange.WithLogger(log),
		exchange.WithMetrics(m),
	)

	auth := consentclient.NewWalletAuth(cfg.Consents.URL, in.kv, signer, cfg.Chain.ChainID,
		consentclient.WithAuthLogger(log),
	)
	consentsClient := consentclient.New(cfg.Consents.URL, cfg.Consents.Timeout, auth,
		consentclient.WithLogger(log),
		consentclient.WithMetrics(m),
	)
	consents := consentservice.New(consentsClient, consentcache.New(), chainApplier, in.bus, in.kv,
		consentservice.WithLogger(log),
		consentservice.WithMetrics(m),
	)

	inbox := events.NewInbox(0)
	inboxDone := make(chan error, 1)
	go func() { inboxDone <- inbox.Run(ctx, in.bus) }()

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:        log,
		Metrics:       m,
		Gatherer:      reg,
		Notifications: inbox,
		Checks:        in.checks,
	},
		httptransport.NewSessionHandler(walletClient, sessions, credentials, exchanges, log),
		httptransport.NewCredentialHandler(verifications),
		httptransport.NewExchangeHandler(exchanges, log),
		httptransport.NewConsentHandler(consents, signer, log),
		httptransport.NewPolicyHandler(policyClient, log),
	)
	srv := httpserver.New(cfg.Server.Addr, router)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting marketaccess", "addr", cfg.Server.Addr, "signer", signer.Address().Hex())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	exchanges.Cancel(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	select {
	case err := <-inboxDone:
		if err != nil {
			log.Warn("notification inbox stopped", "error", err)
		}
	case <-shutdownCtx.Done():
	}
	return nil
}
