package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	_ "github.com/lib/pq"

	"github.com/linemk/basket-shop/internal/config"
	"github.com/linemk/basket-shop/internal/lib/metrics"
	"github.com/linemk/basket-shop/internal/service"
	"github.com/linemk/basket-shop/internal/storage"
)

type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	DB      *sql.DB
	Metrics *metrics.Metrics
	Router  http.Handler
}

// NewApp создаёт новый экземпляр App: подключение к БД, репозитории, сервисы и роутер
func NewApp(log *slog.Logger, cfg *config.Config) (*App, error) {
	db, err := OpenDB(context.Background(), cfg.Database)
	if err != nil {
		return nil, err
	}

	m := metrics.New()

	return &App{
		Config:  cfg,
		Logger:  log,
		DB:      db,
		Metrics: m,
		Router:  NewRouter(log, NewServices(log, db, m), m),
	}, nil
}

// OpenDB открывает пул соединений с PostgreSQL и проверяет его пингом
func OpenDB(ctx context.Context, dbCfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", dbCfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(dbCfg.MaxOpenConns)
	db.SetMaxIdleConns(dbCfg.MaxIdleConns)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// NewServices реализует слои по работе с БД по каждому направлению и сервисы поверх них
func NewServices(log *slog.Logger, db *sql.DB, m *metrics.Metrics) Services {
	productRepo := storage.NewProductRepository(db)
	basketRepo := storage.NewBasketRepository(db)
	orderRepo := storage.NewOrderRepository(db)

	return Services{
		Catalog: service.NewCatalogService(log, productRepo),
		Basket:  service.NewBasketService(log, basketRepo, m),
		Orders:  service.NewOrderService(log, db, orderRepo, m),
	}
}

// Close закрывает пул соединений
func (a *App) Close() error {
	return a.DB.Close()
}
