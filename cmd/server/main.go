package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ogurasousui/codex-employee-directory/internal/adapters/enrichment"
	"github.com/ogurasousui/codex-employee-directory/internal/adapters/http/handler"
	"github.com/ogurasousui/codex-employee-directory/internal/adapters/repository/memory"
	"github.com/ogurasousui/codex-employee-directory/internal/adapters/repository/postgres"
	"github.com/ogurasousui/codex-employee-directory/internal/core/employee"
	"github.com/ogurasousui/codex-employee-directory/internal/platform/config"
	pg "github.com/ogurasousui/codex-employee-directory/internal/platform/db/postgres"
	"github.com/ogurasousui/codex-employee-directory/internal/platform/logging"
	"github.com/ogurasousui/codex-employee-directory/internal/platform/metrics"
	"github.com/ogurasousui/codex-employee-directory/internal/platform/server"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config.ResolvePath(*configPath)); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logging.Setup(cfg.Log); err != nil {
		return err
	}

	repo, tx, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	m := metrics.New()

	httpClient := enrichment.NewHTTPClient()
	enricher := employee.NewEnricher(
		enrichment.NewJokeClient(httpClient, cfg.Enrichment.JokeURL),
		enrichment.NewQuoteClient(httpClient, cfg.Enrichment.QuoteURL),
		employee.WithFetchTimeout(cfg.Enrichment.Timeout),
		employee.WithObserver(m),
	)
	svc := employee.NewService(repo, enricher, nil, tx)

	srv := server.New(cfg.Server, handler.New(handler.Deps{
		Employees: svc,
		Observer:  m,
		Metrics:   m.Handler(),
	}))

	log.Info().
		Str("addr", cfg.Server.ListenAddr).
		Str("store", cfg.Store.Driver).
		Msg("starting employee directory")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})

	return g.Wait()
}

// openStore は設定されたドライバーのストアとトランザクションマネージャーを返します。
func openStore(ctx context.Context, cfg *config.Config) (employee.Repository, employee.TransactionManager, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		log.Warn().Msg("using in-memory store, data is lost on restart")
		return memory.NewEmployeeRepository(), nil, func() {}, nil
	default:
		pool, err := pg.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("initialize database pool: %w", err)
		}
		return postgres.NewEmployeeRepository(pool), pg.NewTransactionManager(pool), pool.Close, nil
	}
}
