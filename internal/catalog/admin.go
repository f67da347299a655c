package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Keoroanthony/go-storefront/internal/db"
	"github.com/Keoroanthony/go-storefront/internal/models"
)

// ErrParentNotFound is returned when a new row names a missing parent.
var ErrParentNotFound = fmt.Errorf("parent %w", db.ErrNotFound)

func CreateSection(ctx context.Context, gdb *gorm.DB, s *models.Section) error {
	const op = "catalog.CreateSection"

	if err := gdb.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func CreateCategory(ctx context.Context, gdb *gorm.DB, c *models.Category) error {
	const op = "catalog.CreateCategory"

	err := gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var section models.Section
		if err := tx.First(&section, c.SectionID).Error; err != nil {
			if errors.Is(db.NotFound(err), db.ErrNotFound) {
				return fmt.Errorf("section %d: %w", c.SectionID, ErrParentNotFound)
			}
			return err
		}
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		c.Section = &section
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func CreateProduct(ctx context.Context, gdb *gorm.DB, p *models.Product) error {
	const op = "catalog.CreateProduct"

	err := gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, p.CategoryID).Error; err != nil {
			if errors.Is(db.NotFound(err), db.ErrNotFound) {
				return fmt.Errorf("category %d: %w", p.CategoryID, ErrParentNotFound)
			}
			return err
		}
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		p.Category = &category
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteSection removes a section that owns no categories.
func DeleteSection(ctx context.Context, gdb *gorm.DB, id uint) error {
	return deleteProtected(ctx, gdb, "catalog.DeleteSection", &models.Section{}, id,
		child{&models.Category{}, "section_id"},
	)
}

// DeleteCategory removes a category that owns no products.
func DeleteCategory(ctx context.Context, gdb *gorm.DB, id uint) error {
	return deleteProtected(ctx, gdb, "catalog.DeleteCategory", &models.Category{}, id,
		child{&models.Product{}, "category_id"},
	)
}

// DeleteProduct removes a product that has neither reviews nor order lines.
func DeleteProduct(ctx context.Context, gdb *gorm.DB, id uint) error {
	return deleteProtected(ctx, gdb, "catalog.DeleteProduct", &models.Product{}, id,
		child{&models.Review{}, "product_id"},
		child{&models.OrderLine{}, "product_id"},
	)
}

type child struct {
	model  any
	column string
}

func deleteProtected(ctx context.Context, gdb *gorm.DB, op string, parent any, id uint, children ...child) error {
	err := gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(parent, id).Error; err != nil {
			return db.NotFound(err)
		}

		for _, c := range children {
			var n int64
			if err := tx.Model(c.model).Where(c.column+" = ?", id).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return db.ErrProtected
			}
		}

		if err := tx.Delete(parent, id).Error; err != nil {
			if db.Protected(err) {
				return db.ErrProtected
			}
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %d: %w", op, id, err)
	}
	return nil
}
