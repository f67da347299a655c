// Package orders turns a cart into a persisted order.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"gorm.io/gorm"

	"github.com/Keoroanthony/go-storefront/internal/cart"
	"github.com/Keoroanthony/go-storefront/internal/db"
	"github.com/Keoroanthony/go-storefront/internal/models"
)

var ErrProductNotFound = fmt.Errorf("product %w", db.ErrNotFound)

// MissingProductsError lists the cart entries that no longer resolve.
type MissingProductsError struct {
	IDs []uint
}

func (e *MissingProductsError) Error() string {
	return fmt.Sprintf("products not found with IDs: %v", e.IDs)
}

func (e *MissingProductsError) Unwrap() error {
	return ErrProductNotFound
}

// Result is what placing an order leaves behind: the new order, if one was
// created, and the cart the session should hold from now on.
type Result struct {
	Order *models.Order
	Cart  cart.Cart
}

// Place materializes c into an order owned by customer. An empty cart is a
// no-op and comes back unchanged. Otherwise every product is resolved before
// anything is written and the order and its lines are created in a single
// transaction, so a vanished product rejects the whole order.
func Place(ctx context.Context, gdb *gorm.DB, customer models.Customer, c cart.Cart) (result Result, placeErr error) {
	const op = "orders.Place"
	log := slog.With("op", op, "customer_id", customer.ID)

	if c.IsEmpty() {
		return Result{Cart: c}, nil
	}

	if err := ctx.Err(); err != nil {
		return Result{Cart: c}, fmt.Errorf("%s: %w", op, err)
	}

	tx := gdb.WithContext(ctx).Begin()
	if tx.Error != nil {
		return Result{Cart: c}, fmt.Errorf("%s: failed to start transaction: %w", op, tx.Error)
	}

	defer func() {
		if placeErr == nil {
			if err := tx.Commit().Error; err != nil {
				result = Result{Cart: c}
				placeErr = fmt.Errorf("%s: failed to commit: %w", op, err)
			}
			return
		}

		if err := tx.Rollback().Error; err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	ids := c.ProductIDs()
	var found []uint
	if err := tx.Model(&models.Product{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return Result{Cart: c}, fmt.Errorf("%s: %w", op, err)
	}
	if missing := missingIDs(ids, found); len(missing) > 0 {
		return Result{Cart: c}, fmt.Errorf("%s: %w", op, &MissingProductsError{IDs: missing})
	}

	order := models.Order{CustomerID: customer.ID}
	if err := tx.Create(&order).Error; err != nil {
		return Result{Cart: c}, fmt.Errorf("%s: failed to create order: %w", op, err)
	}

	lines := make([]models.OrderLine, 0, len(ids))
	for _, id := range ids {
		lines = append(lines, models.OrderLine{
			OrderID:   order.ID,
			ProductID: id,
			Quantity:  uint(c[id].Quantity),
		})
	}
	if err := tx.CreateInBatches(&lines, len(lines)).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			err = &MissingProductsError{IDs: ids}
		}
		return Result{Cart: c}, fmt.Errorf("%s: failed to create order lines: %w", op, err)
	}

	// the returned order goes to subscribers, who need the product names
	err := tx.Preload("Lines", func(tx *gorm.DB) *gorm.DB { return tx.Order("product_id") }).
		Preload("Lines.Product").
		First(&order, order.ID).Error
	if err != nil {
		return Result{Cart: c}, fmt.Errorf("%s: failed to load order: %w", op, err)
	}

	log.Info("order placed", "order_id", order.ID, "reference", order.Reference, "lines", len(lines))
	return Result{Order: &order, Cart: cart.Cart{}}, nil
}

func missingIDs(want, found []uint) []uint {
	var missing []uint
	for _, id := range want {
		if !slices.Contains(found, id) {
			missing = append(missing, id)
		}
	}
	return missing
}

// ForCustomer lists a customer's orders newest first, with lines and their
// products loaded.
func ForCustomer(ctx context.Context, gdb *gorm.DB, customerID uint) ([]models.Order, error) {
	const op = "orders.ForCustomer"

	var list []models.Order
	err := gdb.WithContext(ctx).
		Preload("Lines", func(tx *gorm.DB) *gorm.DB { return tx.Order("product_id") }).
		Preload("Lines.Product").
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}
