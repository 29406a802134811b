package main

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/AyushChauhan9389/AnimeXschool-app/internal/auth"
	cartapp "github.com/AyushChauhan9389/AnimeXschool-app/internal/cart/app"
	"github.com/AyushChauhan9389/AnimeXschool-app/internal/cart/cache"
	cartcocart "github.com/AyushChauhan9389/AnimeXschool-app/internal/cart/infra/cocart"
	"github.com/AyushChauhan9389/AnimeXschool-app/internal/cart/local"
	cartsync "github.com/AyushChauhan9389/AnimeXschool-app/internal/cart/sync"
	checkoutapp "github.com/AyushChauhan9389/AnimeXschool-app/internal/checkout/app"
	"github.com/AyushChauhan9389/AnimeXschool-app/internal/checkout/infra/adapter"
	checkoutcocart "github.com/AyushChauhan9389/AnimeXschool-app/internal/checkout/infra/cocart"
	"github.com/AyushChauhan9389/AnimeXschool-app/internal/notify"
	"github.com/AyushChauhan9389/AnimeXschool-app/internal/storage"
	"github.com/AyushChauhan9389/AnimeXschool-app/internal/wishlist"
	"github.com/AyushChauhan9389/AnimeXschool-app/pkg/config"
	"github.com/AyushChauhan9389/AnimeXschool-app/pkg/logger"
	"github.com/AyushChauhan9389/AnimeXschool-app/pkg/shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}
	log := logger.New(logger.Options{
		Service:   "storefront",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		AddSource: true,
	})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	kv := mustStorage(ctx, cfg, log)
	notifier := notify.NewLog(log)

	authMgr := auth.NewManager(kv, log)
	if err := authMgr.Load(ctx); err != nil {
		log.Error("auth restore failed", slog.Any("err", err))
		os.Exit(1)
	}

	localCart := local.NewStore(kv, notifier, log)
	if err := localCart.Load(ctx); err != nil {
		log.Error("cart rehydration failed", slog.Any("err", err))
		os.Exit(1)
	}

	wishlistStore := wishlist.NewStore(kv, log)
	if err := wishlistStore.Load(ctx); err != nil {
		log.Error("wishlist rehydration failed", slog.Any("err", err))
		os.Exit(1)
	}

	cartCache := cache.New()
	remote := cartcocart.NewClient(cfg.APIBaseURL, authMgr, log)
	cartSvc := cartapp.NewService(remote, cartCache, localCart, authMgr, notifier, log)

	checkoutClient := checkoutcocart.NewClient(cfg.APIBaseURL, authMgr)
	cartReader := adapter.NewCartServiceReader(cartSvc)
	checkoutSvc := checkoutapp.NewService(cartReader, checkoutClient, checkoutClient, log)

	engine := cartsync.NewEngine(localCart, remote, cartCache, authMgr, notifier, log)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		engine.Run(ctx, authMgr.Subscribe())
	}()

	// cover the case where the app starts already authenticated with a
	// non-empty guest cart left over from a failed merge
	engine.TrySync(ctx)

	log.Info("storefront core ready",
		slog.Bool("authenticated", authMgr.IsAuthenticated()),
		slog.Int("guest_cart_items", localCart.ItemsCount()),
		slog.Int("wishlist_items", wishlistStore.Count()))

	if authMgr.IsAuthenticated() {
		if est, err := checkoutSvc.NewEstimate(ctx); err != nil {
			log.Warn("checkout estimate unavailable", slog.Any("err", err))
		} else {
			log.Info("checkout baseline", slog.String("total", est.Total))
		}
	}

	<-ctx.Done()
	log.Info("shutdown requested")
	wg.Wait()
	log.Info("bye")
}

func mustStorage(ctx context.Context, cfg config.Config, log *slog.Logger) storage.KV {
	if cfg.RedisAddr == "" {
		log.Warn("no redis configured, using in-memory storage")
		return storage.NewMemory()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	kv := storage.NewRedis(client, cfg.StoragePrefix)
	if err := kv.Ping(ctx); err != nil {
		log.Error("redis ping failed", slog.Any("err", err))
		os.Exit(1)
	}
	return kv
}
