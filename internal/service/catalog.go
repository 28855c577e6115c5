package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linemk/basket-shop/internal/domain/models"
	"github.com/linemk/basket-shop/internal/lib/logger"
	"github.com/linemk/basket-shop/internal/storage"
)

// CatalogService отдаёт каталог товаров. Только чтение.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
}

type catalogService struct {
	log         *slog.Logger
	productRepo storage.ProductStorage
}

func NewCatalogService(log *slog.Logger, productRepo storage.ProductStorage) CatalogService {
	return &catalogService{
		log:         log,
		productRepo: productRepo,
	}
}

func (s *catalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	const op = "service.CatalogService.ListProducts"

	products, err := s.productRepo.ListProducts(ctx)
	if err != nil {
		s.log.Error("failed to list products", slog.String("op", op), logger.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Debug("products listed", slog.String("op", op), slog.Int("count", len(products)))
	return products, nil
}
