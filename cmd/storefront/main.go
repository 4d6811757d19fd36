package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"CricNagar/internal/auth"
	"CricNagar/internal/catalog"
	"CricNagar/internal/config"
	"CricNagar/internal/order"
	"CricNagar/internal/storage"
	"CricNagar/internal/storefront"
	"CricNagar/pkg/kit"
)

const sweepInterval = time.Minute

type backends struct {
	source    catalog.Source
	directory auth.Directory
	orders    order.Store
	kv        storage.KV

	db    *sql.DB
	redis *redis.Client
}

func main() {
	service := "storefront"

	cfg, err := config.Load()
	if err != nil {
		kit.NewLogger(service, false).Fatal("load config failed", zap.Error(err))
	}

	log := kit.NewLogger(service, cfg.Debug)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b, err := openBackends(ctx, cfg, log)
	if err != nil {
		log.Fatal("open backends failed", zap.Error(err))
	}

	cat, err := catalog.Load(ctx, b.source)
	if err != nil {
		log.Fatal("load catalog failed", zap.Error(err))
	}
	log.Info("catalog loaded", zap.Int("products", cat.Len()))

	clients := storefront.NewContexts(storefront.ContextDeps{
		KV:          b.kv,
		Directory:   b.directory,
		Catalog:     cat,
		Log:         log,
		AuthLatency: cfg.AuthLatency,
	})
	go clients.RunSweeper(ctx, sweepInterval, cfg.ClientIdle)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	s := &storefront.Server{
		Catalog: cat,
		Source:  b.source,
		Clients: clients,
		Orders: &order.Service{
			Store:   b.orders,
			Log:     log,
			Latency: cfg.CheckoutLatency,
		},
		JWT:       auth.NewTokenMaker(cfg.JWTSecret),
		TokenTTL:  cfg.TokenTTL,
		KV:        b.kv,
		Directory: b.directory,
		Log:       log,
		Metrics:   storefront.NewMetrics(reg, clients),
	}

	h := storefront.NewHandler(s, storefront.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: true,
		MetricsToken:   cfg.MetricsToken,
	})

	if err := kit.RunHTTPServer(ctx, ":"+cfg.Port, h, log, cancel, b.close(log)); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

// openBackends picks Postgres for catalog, users and orders when
// DATABASE_URL is set, and Redis for client storage when REDIS_ADDR is set.
// Anything unset runs in memory.
func openBackends(ctx context.Context, cfg config.Config, log *zap.Logger) (*backends, error) {
	b := &backends{}

	if cfg.DatabaseURL != "" {
		db, err := kit.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		b.db = db
		src := catalog.NewPostgresSource(db)
		b.source = src
		b.directory = auth.NewPostgresDirectory(db, cfg.BcryptCost)
		b.orders = order.NewPostgresStore(db)
		log.Info("using postgres")

		if err := seedPostgres(ctx, src, b.directory, log); err != nil {
			b.close(log)()
			return nil, err
		}
	} else {
		dir, err := auth.NewDemoDirectory(cfg.BcryptCost)
		if err != nil {
			return nil, err
		}
		b.source = catalog.NewMemSource()
		b.directory = dir
		b.orders = order.NewMemStore()
		log.Info("using in-memory catalog, users and orders")
	}

	if cfg.RedisAddr != "" {
		rc, err := storage.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			b.close(log)()
			return nil, err
		}
		b.redis = rc
		b.kv = storage.NewRedisKV(rc, cfg.ClientTTL)
		log.Info("using redis client storage", zap.String("addr", cfg.RedisAddr))
	} else {
		b.kv = storage.NewMemKV()
	}

	return b, nil
}

// seedPostgres loads the sample catalog into an empty products table and
// makes sure the demo accounts exist.
func seedPostgres(ctx context.Context, src catalog.Seeder, dir auth.Directory, log *zap.Logger) error {
	products, err := catalog.SeedIfEmpty(ctx, src, catalog.SampleProducts())
	if err != nil {
		return err
	}
	users, err := auth.SeedDemoUsers(ctx, dir)
	if err != nil {
		return err
	}
	log.Info("seeded postgres", zap.Int("products", products), zap.Int("users", users))
	return nil
}

func (b *backends) close(log *zap.Logger) func() {
	return func() {
		if b.redis != nil {
			if err := b.redis.Close(); err != nil {
				log.Warn("close redis failed", zap.Error(err))
			}
		}
		if b.db != nil {
			if err := b.db.Close(); err != nil {
				log.Warn("close postgres failed", zap.Error(err))
			}
		}
	}
}
