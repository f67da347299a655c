package cart

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/Keoroanthony/go-storefront/internal/models"
)

type ViewLine struct {
	Product  models.Product
	Quantity int
}

// View joins c with the current catalog. Lines whose product is gone are left
// out of the result and logged.
func View(ctx context.Context, gdb *gorm.DB, c Cart) ([]ViewLine, error) {
	const op = "cart.View"

	if c.IsEmpty() {
		return nil, nil
	}

	ids := c.ProductIDs()
	var products []models.Product
	err := gdb.WithContext(ctx).
		Select("id", "name", "description", "slug", "category_id").
		Preload("Category.Section").
		Where("id IN ?", ids).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]ViewLine, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			slog.Warn("cart references a missing product", "op", op, "product_id", id)
			continue
		}
		lines = append(lines, ViewLine{Product: p, Quantity: c[id].Quantity})
	}
	return lines, nil
}
