// Package catalog reads the section → category → product hierarchy.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/Keoroanthony/go-storefront/internal/db"
	"github.com/Keoroanthony/go-storefront/internal/models"
)

const AllProductsTitle = "All products"

// Filter selects the products to list. A category listing needs both slugs;
// anything else lists the whole catalog.
type Filter struct {
	SectionSlug  string
	CategorySlug string
}

func (f Filter) IsCategory() bool {
	return f.SectionSlug != "" && f.CategorySlug != ""
}

type Listing struct {
	Title    string
	Category *models.Category
	Products []models.Product
	Page     Page
}

func ListProducts(ctx context.Context, gdb *gorm.DB, f Filter, page, pageSize int) (Listing, error) {
	const op = "catalog.ListProducts"

	l := Listing{Title: AllProductsTitle}
	scope := func(tx *gorm.DB) *gorm.DB { return tx }

	if f.IsCategory() {
		category, err := FindCategory(ctx, gdb, f.SectionSlug, f.CategorySlug)
		if err != nil {
			return Listing{}, fmt.Errorf("%s: %w", op, err)
		}
		scope = func(tx *gorm.DB) *gorm.DB { return tx.Where("category_id = ?", category.ID) }
		l.Title = capitalize(category.Name)
		l.Category = &category
	}

	var total int64
	if err := gdb.WithContext(ctx).Model(&models.Product{}).Scopes(scope).Count(&total).Error; err != nil {
		return Listing{}, fmt.Errorf("%s: %w", op, err)
	}
	l.Page = NewPage(page, pageSize, int(total))

	err := gdb.WithContext(ctx).
		Scopes(scope).
		Preload("Category.Section").
		Order("id").
		Offset(l.Page.Offset()).
		Limit(pageSize).
		Find(&l.Products).Error
	if err != nil {
		return Listing{}, fmt.Errorf("%s: %w", op, err)
	}
	return l, nil
}

// FindCategory resolves a category by slug, requiring it to belong to the
// section with sectionSlug.
func FindCategory(ctx context.Context, gdb *gorm.DB, sectionSlug, categorySlug string) (models.Category, error) {
	const op = "catalog.FindCategory"

	var section models.Section
	err := gdb.WithContext(ctx).Where("slug = ?", sectionSlug).First(&section).Error
	if err != nil {
		return models.Category{}, fmt.Errorf("%s: section %q: %w", op, sectionSlug, db.NotFound(err))
	}

	var c models.Category
	err = gdb.WithContext(ctx).Where("section_id = ? AND slug = ?", section.ID, categorySlug).First(&c).Error
	if err != nil {
		return models.Category{}, fmt.Errorf("%s: category %q in section %q: %w", op, categorySlug, sectionSlug, db.NotFound(err))
	}
	c.Section = &section
	return c, nil
}

// FindProduct resolves a product by its section, category and own slug and
// loads its reviews oldest first.
func FindProduct(ctx context.Context, gdb *gorm.DB, sectionSlug, categorySlug, slug string) (models.Product, error) {
	const op = "catalog.FindProduct"

	category, err := FindCategory(ctx, gdb, sectionSlug, categorySlug)
	if err != nil {
		return models.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	var p models.Product
	err = gdb.WithContext(ctx).
		Preload("Reviews", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at, id") }).
		Where("category_id = ? AND slug = ?", category.ID, slug).
		First(&p).Error
	if err != nil {
		return models.Product{}, fmt.Errorf("%s: product %q: %w", op, slug, db.NotFound(err))
	}
	p.Category = &category
	return p, nil
}

func ListArticles(ctx context.Context, gdb *gorm.DB) ([]models.Article, error) {
	const op = "catalog.ListArticles"

	var as []models.Article
	err := gdb.WithContext(ctx).Preload("Products").Order("created_at, id").Find(&as).Error
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return as, nil
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
