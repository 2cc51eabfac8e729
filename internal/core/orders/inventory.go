package orders

import (
	"context"
	"errors"
	"time"

	"github.com/jacksonmollel/pesamart/internal/core/domain"
	"github.com/jacksonmollel/pesamart/internal/core/store"
)

func findInventoryByProduct(ctx context.Context, tx store.Store, productID int64) (*domain.Inventory, error) {
	items, err := tx.Inventories().FindWhere(ctx, func(i *domain.Inventory) bool {
		return i.ProductID == productID
	})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.NotFoundf("no inventory found for product %d", productID)
	}
	return items[0], nil
}

// CreateProduct registers a product, available by default.
func (s *Service) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	rec := *product
	rec.IsAvailable = true
	return s.store.Products().Save(ctx, &rec)
}

// CreateInventory opens the single stock record allowed per product.
func (s *Service) CreateInventory(ctx context.Context, inventory *domain.Inventory) (*domain.Inventory, error) {
	var created *domain.Inventory
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		// Loading the product takes its row lock, so concurrent creates
		// for the same product serialize before the duplicate scan.
		if _, err := tx.Products().FindByID(ctx, inventory.ProductID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.NotFoundf("product not found with id %d", inventory.ProductID)
			}
			return err
		}

		existing, err := tx.Inventories().FindWhere(ctx, func(i *domain.Inventory) bool {
			return i.ProductID == inventory.ProductID
		})
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return domain.Errorf(domain.KindDuplicateInventory,
				"inventory record already exists for product %d", inventory.ProductID)
		}

		rec := *inventory
		rec.LastUpdated = time.Now()
		saved, err := tx.Inventories().Save(ctx, &rec)
		if err != nil {
			return err
		}
		created = saved
		return nil
	})
	return created, err
}

// DecreaseStock removes quantity from the product's stock. Stock never goes
// negative; a short position is rejected up front.
func (s *Service) DecreaseStock(ctx context.Context, productID int64, quantity int) (*domain.Inventory, error) {
	if quantity <= 0 {
		return nil, domain.Errorf(domain.KindInvalidAmount, "quantity must be positive")
	}

	var updated *domain.Inventory
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		inventory, err := findInventoryByProduct(ctx, tx, productID)
		if err != nil {
			return err
		}
		if inventory.StockQuantity < quantity {
			return domain.Errorf(domain.KindInsufficientStock,
				"insufficient stock, available: %d, requested: %d", inventory.StockQuantity, quantity)
		}

		inventory.StockQuantity -= quantity
		inventory.LastUpdated = time.Now()
		saved, err := tx.Inventories().Save(ctx, inventory)
		if err != nil {
			return err
		}
		updated = saved
		return nil
	})
	return updated, err
}

// IncreaseStock adds quantity to the product's stock.
func (s *Service) IncreaseStock(ctx context.Context, productID int64, quantity int) (*domain.Inventory, error) {
	if quantity <= 0 {
		return nil, domain.Errorf(domain.KindInvalidAmount, "quantity must be positive")
	}

	var updated *domain.Inventory
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		inventory, err := findInventoryByProduct(ctx, tx, productID)
		if err != nil {
			return err
		}

		inventory.StockQuantity += quantity
		inventory.LastUpdated = time.Now()
		saved, err := tx.Inventories().Save(ctx, inventory)
		if err != nil {
			return err
		}
		updated = saved
		return nil
	})
	return updated, err
}

// LowStock lists every item at or below its reorder level.
func (s *Service) LowStock(ctx context.Context) ([]*domain.Inventory, error) {
	return s.store.Inventories().FindWhere(ctx, func(i *domain.Inventory) bool {
		return i.IsLowStock()
	})
}
